package commands

import (
	"encoding/base64"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/kabylesystem/xrpl-hackaton/internal/crypto"
	"github.com/kabylesystem/xrpl-hackaton/internal/model"
	"github.com/kabylesystem/xrpl-hackaton/xrp"
)

func generateCmd() *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new wallet and store it in an encrypted .xwt file",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := walletPassword()
			if err != nil {
				return err
			}
			defer clear(password)

			w, err := xrp.NewWallet()
			if err != nil {
				return err
			}
			defer w.Zero()

			qrPNG, err := qrcode.Encode(w.Address, qrcode.Medium, 256)
			if err != nil {
				return fmt.Errorf("failed to render address QR: %w", err)
			}

			walletData := &model.WalletData{
				Seed:      w.Seed,
				CreatedAt: time.Now().UTC().Format(time.RFC3339),
			}

			err = crypto.EncryptWalletFile(walletPath, network, w.Address,
				base64.StdEncoding.EncodeToString(qrPNG), walletData, password)
			if err != nil {
				if crypto.IsFileExistsError(err) {
					return fmt.Errorf("wallet file %s already exists", walletPath)
				}
				return err
			}

			fmt.Printf("Wallet created.\nAddress: %s\nFile: %s\n", w.Address, walletPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "testnet", "network label stored in the wallet file")
	return cmd
}
