package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wizinfantry/KAIA-WALLET-API/wallet"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new wallet",
	Long: `Generate a fresh keypair with a 12-word recovery phrase.
Keys are generated locally and printed once; nothing is stored.

Examples:
  kaia-wallet new`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	signer, err := wallet.NewRandomSigner()
	if err != nil {
		return fmt.Errorf("failed to generate wallet: %w", err)
	}

	color.Green("✅ New wallet generated")
	fmt.Println()
	fmt.Printf("   📍 Address:     %s\n", signer.Address().Hex())
	fmt.Printf("   🔑 Private key: %s\n", signer.PrivateKeyHex())
	fmt.Printf("   📝 Mnemonic:    %s\n", signer.Mnemonic())
	fmt.Println()
	color.Yellow("⚠️  Anyone holding the private key or mnemonic controls the funds. Store them safely.")
	return nil
}
