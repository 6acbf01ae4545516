package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kabylesystem/xrpl-hackaton/internal/crypto"
	"github.com/kabylesystem/xrpl-hackaton/internal/sms"
)

// params [address]: print the PARAMS request to text to the relay when
// preparing or claiming offline. Defaults to the wallet's own address.
func paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params [address]",
		Short: "Print a PARAMS request for offline preparation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := ""
			if len(args) == 1 {
				address = args[0]
			} else {
				addr, err := crypto.ReadWalletAddress(walletPath)
				if err != nil {
					return err
				}
				address = addr
			}

			fmt.Println("Text this to the relay number:")
			fmt.Println()
			fmt.Println(sms.FormatParamsRequest(address))
			return nil
		},
	}
}
