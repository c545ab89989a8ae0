package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kaia-wallet",
	Short: "A command-line wallet for the KAIA network",
	Long: `KAIA Wallet is a small developer wallet for the KAIA network.
It creates keys locally and talks to a JSON-RPC endpoint for everything else.

Features:
  • Local key generation with BIP-39 recovery phrase
  • Native KAIA balance and transfers
  • ERC20/KIP-7 token balance and transfers
  • Transaction receipt lookup and confirmation waiting
  • Mainnet and Kairos testnet endpoints

Configuration (environment):
  KAIA_RPC_URL       JSON-RPC endpoint; overrides KAIA_NETWORK
  KAIA_NETWORK       mainnet or kairos (default: kairos)
  KAIA_PRIVATE_KEY   hex private key; prompted for when unset
  KAIA_VERBOSE_INIT  print address/key/mnemonic at startup (default: false)

Examples:
  kaia-wallet new                              # Generate a new wallet
  kaia-wallet address                          # Show the configured address
  kaia-wallet balance                          # Check KAIA balance
  kaia-wallet balance --token 0x1234...        # Check a token balance
  kaia-wallet send 0.5 0x1234...               # Send 0.5 KAIA
  kaia-wallet send 10 0x1234... --token 0x...  # Send 10 tokens
  kaia-wallet receipt 0xabcd...                # Look up a receipt`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(receiptCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("KAIA Wallet v%s\n", version)
	},
}
