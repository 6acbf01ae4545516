package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kabylesystem/xrpl-hackaton/internal/client"
	"github.com/kabylesystem/xrpl-hackaton/internal/config"
)

var (
	walletPath string
	passphrase string
	wsURL      string
	offline    bool
)

// ledgerClient returns a live ledger connection, or nil in offline mode.
// Callers that need the ledger fail with a clear message instead of
// hanging on a dial.
func ledgerClient() *client.XRPLClient {
	if offline {
		return nil
	}
	return client.NewXRPLClient(wsURL)
}

// walletPassword returns the -p flag when set, otherwise prompts on the
// terminal without echo. Caller must zero the returned slice after use.
func walletPassword() ([]byte, error) {
	if passphrase != "" {
		return []byte(passphrase), nil
	}
	if err := config.PromptForPassword(); err != nil {
		return nil, err
	}
	return config.GetWalletPasswordBytes()
}

func Execute() error {
	root := &cobra.Command{
		Use:   "wallet",
		Short: "XRP Ledger wallet for SMS payments",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if walletPath == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				walletPath = filepath.Join(dir, ".xrpl-wallet.xwt")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&walletPath, "wallet", "", "wallet file path (default ~/.xrpl-wallet.xwt)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the wallet file")
	root.PersistentFlags().StringVar(&wsURL, "ws", "wss://s.altnet.rippletest.net:51233", "rippled websocket endpoint")
	root.PersistentFlags().BoolVar(&offline, "offline", false, "build transactions without any network call")

	root.AddCommand(generateCmd(), balanceCmd(), sendCmd(), claimCmd(), paramsCmd())
	return root.Execute()
}
