package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kabylesystem/xrpl-hackaton/internal/crypto"
	"github.com/kabylesystem/xrpl-hackaton/xrp"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the wallet's XRP balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if offline {
				return fmt.Errorf("balance needs a ledger connection")
			}

			address, err := crypto.ReadWalletAddress(walletPath)
			if err != nil {
				return err
			}

			ledger := ledgerClient()
			defer ledger.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			info, err := ledger.AccountInfo(ctx, address)
			if err != nil {
				if errors.Is(err, xrp.ErrAccountNotFound) {
					fmt.Printf("Address: %s\nBalance: 0 XRP (account not funded yet)\n", address)
					return nil
				}
				return err
			}

			fmt.Printf("Address: %s\nBalance: %s XRP\n", address, xrp.DropsToXRP(info.BalanceDrops))
			return nil
		},
	}
}
