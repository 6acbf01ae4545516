package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kabylesystem/xrpl-hackaton/internal/crypto"
	"github.com/kabylesystem/xrpl-hackaton/internal/model"
	"github.com/kabylesystem/xrpl-hackaton/internal/sms"
	"github.com/kabylesystem/xrpl-hackaton/xrp"
)

// claim [file]: decrypt a received payment message and print the
// two-blob relay message to text to the relay number. Reads the pasted
// message from the file argument, or stdin when absent.
func claimCmd() *cobra.Command {
	var (
		claimPassword string
		paramsText    string
	)

	cmd := &cobra.Command{
		Use:   "claim [file]",
		Short: "Claim a received SMS payment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if claimPassword == "" {
				return fmt.Errorf("claim password required (--claim-password)")
			}

			var text []byte
			var err error
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}

			claimCtx, err := xrp.Check(string(text))
			if err != nil {
				return err
			}
			if claimCtx.Hint != "" {
				fmt.Printf("Hint: %s\n", claimCtx.Hint)
			}

			password, err := walletPassword()
			if err != nil {
				return err
			}
			defer clear(password)
			_, walletData, err := crypto.DecryptWalletFile(walletPath, password)
			if err != nil {
				return err
			}
			recipient, err := xrp.FromSeed(walletData.Seed)
			if err != nil {
				return err
			}
			defer recipient.Zero()

			var ledger xrp.Ledger
			var params *model.OfflineParameters
			if offline {
				if paramsText != "" {
					params = sms.ParseParamsReply(paramsText)
					if params == nil {
						return fmt.Errorf("--params does not look like a SEQ/LEDGER/FEE reply")
					}
				}
			} else {
				c := ledgerClient()
				defer c.Close()
				ledger = c
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			relayMsg, err := xrp.Claim(ctx, claimCtx, claimPassword, recipient, ledger, params)
			if err != nil {
				return err
			}

			fmt.Println("Text this to the relay number:")
			fmt.Println()
			fmt.Println(sms.FormatClaimRelay(*relayMsg))
			return nil
		},
	}

	cmd.Flags().StringVar(&claimPassword, "claim-password", "", "password shared by the sender")
	cmd.Flags().StringVar(&paramsText, "params", "", "SEQ/LEDGER/FEE reply for offline claiming")
	return cmd
}
