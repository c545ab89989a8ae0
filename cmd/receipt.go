package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ethereum/go-ethereum/core/types"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt [hash]",
	Short: "Look up a transaction receipt",
	Long: `Look up the finalized outcome of a previously submitted transaction.
A transaction that is not yet mined (or unknown to the node) is reported as
pending, not as an error.

Examples:
  kaia-wallet receipt 0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b`,
	Args: cobra.ExactArgs(1),
	RunE: runReceipt,
}

func runReceipt(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}

	receipt, err := w.TransactionReceipt(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch receipt: %w", err)
	}
	if receipt == nil {
		color.Yellow("⏳ Transaction not found — not yet mined or unknown to the node")
		return nil
	}

	status := "success"
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = "reverted"
	}
	fmt.Printf("📦 Block:    %d\n", receipt.BlockNumber)
	fmt.Printf("   Status:   %s\n", status)
	fmt.Printf("   Gas used: %d\n", receipt.GasUsed)
	fmt.Printf("   Tx hash:  %s\n", receipt.TxHash.Hex())
	return nil
}
