package commands

import (
	"context"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/kabylesystem/xrpl-hackaton/internal/crypto"
	"github.com/kabylesystem/xrpl-hackaton/internal/sms"
	"github.com/kabylesystem/xrpl-hackaton/xrp"
)

// send <amount>: fund a fresh temporary account and print the claim
// message to text to the recipient.
func sendCmd() *cobra.Command {
	var (
		claimPassword string
		hint          string
		paramsText    string
		qrPath        string
	)

	cmd := &cobra.Command{
		Use:   "send <amount>",
		Short: "Prepare an SMS payment for the given XRP amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if claimPassword == "" {
				return fmt.Errorf("claim password required (--claim-password); share it with the recipient out of band")
			}
			amount := args[0]

			password, err := walletPassword()
			if err != nil {
				return err
			}
			defer clear(password)
			_, walletData, err := crypto.DecryptWalletFile(walletPath, password)
			if err != nil {
				return err
			}
			sender, err := xrp.FromSeed(walletData.Seed)
			if err != nil {
				return err
			}
			defer sender.Zero()

			// The temporary account exists only inside this message: its
			// seed travels in the envelope, its funding in the blob.
			ephemeral, err := xrp.NewWallet()
			if err != nil {
				return err
			}
			defer ephemeral.Zero()

			envelope, err := crypto.EncryptEnvelope(ephemeral.Seed, claimPassword)
			if err != nil {
				return err
			}

			var fundingBlob string
			if offline {
				params := sms.ParseParamsReply(paramsText)
				if params == nil {
					return fmt.Errorf("offline mode needs --params with a SEQ/LEDGER/FEE reply")
				}
				fundingBlob, err = xrp.PrepareOffline(sender, ephemeral.Address, amount, *params, "XRP")
			} else {
				ledger := ledgerClient()
				defer ledger.Close()
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				fundingBlob, err = xrp.PrepareOnline(ctx, ledger, sender, ephemeral.Address, amount, "XRP")
			}
			if err != nil {
				return err
			}

			message := sms.FormatSend(envelope, hint, fundingBlob, amount)
			if qrPath != "" {
				if err := qrcode.WriteFile(message, qrcode.Medium, 512, qrPath); err != nil {
					return fmt.Errorf("failed to write QR: %w", err)
				}
				fmt.Printf("QR written to %s\n\n", qrPath)
			}

			fmt.Println("Text this to the recipient:")
			fmt.Println()
			fmt.Println(message)
			return nil
		},
	}

	cmd.Flags().StringVar(&claimPassword, "claim-password", "", "password the recipient will use to claim")
	cmd.Flags().StringVar(&hint, "hint", "", "password hint included in the message")
	cmd.Flags().StringVar(&paramsText, "params", "", "SEQ/LEDGER/FEE reply for offline preparation")
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write the message as a QR PNG")
	return cmd
}
