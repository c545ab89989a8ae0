package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Check the wallet balance",
	Long: `Check the native KAIA balance of the configured wallet, or an
ERC20/KIP-7 token balance with --token.

Examples:
  kaia-wallet balance
  kaia-wallet balance --token 0x5c74070fdea071359b86082bd9f9b3deaafbe32b`,
	Args: cobra.NoArgs,
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	ctx := cmd.Context()

	if token != "" {
		balance, err := w.TokenBalance(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to fetch token balance: %w", err)
		}
		fmt.Printf("🪙 Token balance: %s\n", balance)
		fmt.Printf("   📍 Address: %s\n", w.Address())
		return nil
	}

	balance, err := w.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch balance: %w", err)
	}
	fmt.Printf("💰 Balance: %s KAIA\n", balance)
	fmt.Printf("   📍 Address: %s\n", w.Address())
	return nil
}

func init() {
	balanceCmd.Flags().String("token", "", "token contract address")
}
