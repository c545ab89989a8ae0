package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wizinfantry/KAIA-WALLET-API/wallet"
)

var sendCmd = &cobra.Command{
	Use:   "send [amount] [address]",
	Short: "Send KAIA or tokens",
	Long: `Send native KAIA, or an ERC20/KIP-7 token with --token, to another
address. Amounts are decimal strings in whole-coin (or token display) units.

The command returns as soon as the network accepts the transaction; pass
--wait to block until it is mined.

Examples:
  kaia-wallet send 0.5 0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6
  kaia-wallet send 10 0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6 --token 0x5c74...
  kaia-wallet send 0.5 0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6 --wait`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}

	amount := args[0]
	recipient := args[1]
	token, _ := cmd.Flags().GetString("token")
	waitFlag, _ := cmd.Flags().GetBool("wait")
	ctx := cmd.Context()

	var handle *wallet.TxHandle
	if token != "" {
		handle, err = w.SendToken(ctx, token, recipient, amount)
	} else {
		handle, err = w.SendTransaction(ctx, recipient, amount)
	}
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	color.Green("✅ Transaction submitted")
	fmt.Printf("   🔗 Hash: %s\n", handle.Hash.Hex())

	if !waitFlag {
		return nil
	}

	receipt, err := waitWithSpinner(cmd, handle)
	if err != nil {
		return fmt.Errorf("failed while waiting for confirmation: %w", err)
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		color.Green("✅ Mined in block %d (gas used: %d)", receipt.BlockNumber, receipt.GasUsed)
	} else {
		color.Red("❌ Transaction reverted in block %d", receipt.BlockNumber)
	}
	return nil
}

// waitWithSpinner blocks on the transaction handle while showing an
// indeterminate spinner on stderr.
func waitWithSpinner(cmd *cobra.Command, handle *wallet.TxHandle) (*types.Receipt, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("waiting for confirmation"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	receipt, err := handle.Wait(cmd.Context())
	close(done)
	_ = bar.Clear()
	return receipt, err
}

func init() {
	sendCmd.Flags().String("token", "", "token contract address")
	sendCmd.Flags().Bool("wait", false, "wait for the transaction to be mined")
}
