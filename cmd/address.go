package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the configured wallet address",
	Long: `Show the account address of the configured private key.

Examples:
  kaia-wallet address`,
	Args: cobra.NoArgs,
	RunE: runAddress,
}

func runAddress(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}

	fmt.Printf("📍 Address: %s\n", w.Address())
	return nil
}
