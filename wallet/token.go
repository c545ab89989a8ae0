package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// The minimal fungible-token interface: the three functions every
// ERC20/KIP-7 contract must answer.
const erc20JSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}
]`

var erc20ABI = mustParseABI(erc20JSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid token ABI: %v", err))
	}
	return parsed
}

// TokenBalance returns the wallet's balance of the given token, formatted in
// the token's own display units. Two round-trips are made per call: balanceOf
// for the raw amount, then decimals for the scale.
func (w *Wallet) TokenBalance(ctx context.Context, token string) (string, error) {
	if !common.IsHexAddress(token) {
		return "", fmt.Errorf("%w: token %q", ErrInvalidAddress, token)
	}
	contract := common.HexToAddress(token)

	var raw *big.Int
	if err := w.callToken(ctx, contract, "balanceOf", &raw, w.signer.Address()); err != nil {
		return "", err
	}

	decimals, err := w.tokenDecimals(ctx, contract)
	if err != nil {
		return "", err
	}

	return FormatUnits(raw, decimals), nil
}

// SendToken transfers amount display units (decimal string) of the given
// token to the recipient. The token's decimal count is queried before
// submission. Returns once the node accepts the transaction.
func (w *Wallet) SendToken(ctx context.Context, token, to, amount string) (*TxHandle, error) {
	if !common.IsHexAddress(token) {
		return nil, fmt.Errorf("%w: token %q", ErrInvalidAddress, token)
	}
	if !common.IsHexAddress(to) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, to)
	}
	contract := common.HexToAddress(token)

	decimals, err := w.tokenDecimals(ctx, contract)
	if err != nil {
		return nil, err
	}

	value, err := ParseUnits(amount, decimals)
	if err != nil {
		return nil, err
	}

	data, err := erc20ABI.Pack("transfer", common.HexToAddress(to), value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer call: %w", err)
	}

	return w.submit(ctx, contract, big.NewInt(0), 0, data)
}

func (w *Wallet) tokenDecimals(ctx context.Context, contract common.Address) (uint8, error) {
	var decimals uint8
	if err := w.callToken(ctx, contract, "decimals", &decimals); err != nil {
		return 0, err
	}
	return decimals, nil
}

// callToken performs a read-only contract call and unpacks the single return
// value into out. Empty return data means there is no conforming code at the
// target, which the taxonomy treats as a contract error rather than a
// transport one.
func (w *Wallet) callToken(ctx context.Context, contract common.Address, method string, out interface{}, args ...interface{}) error {
	input, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to encode %s call: %w", method, err)
	}

	output, err := w.provider.CallContract(ctx, ethereum.CallMsg{
		From: w.signer.Address(),
		To:   &contract,
		Data: input,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", classifyCallError(err), method, err)
	}
	if len(output) == 0 {
		return fmt.Errorf("%w: %s returned no data, target is not a token contract", ErrContractCall, method)
	}

	if err := erc20ABI.UnpackIntoInterface(out, method, output); err != nil {
		return fmt.Errorf("%w: failed to decode %s result: %v", ErrContractCall, method, err)
	}
	return nil
}
