package wallet

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	"github.com/wizinfantry/KAIA-WALLET-API/api"
)

// ChainProvider is the JSON-RPC surface the facade needs from a node. All
// queries are against the latest block; TransactionReceipt returns (nil, nil)
// when the transaction is unknown or not yet mined. api.Client implements it;
// tests substitute stubs.
type ChainProvider interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Wallet binds one signing identity to one network provider and exposes the
// balance and transfer operations. The identity is fixed at construction;
// every operation is an independent request against the provider, so a Wallet
// is safe for concurrent use.
type Wallet struct {
	signer   Signer
	provider ChainProvider

	verboseInit bool
	logw        io.Writer

	mu      sync.Mutex
	chainID *big.Int
}

// Option configures optional facade behaviour.
type Option func(*Wallet)

// WithVerboseInit makes construction emit the address, private key and
// mnemonic to the diagnostic sink. Off by default so secrets never reach logs
// unasked; the same values are always available through the accessors.
func WithVerboseInit() Option {
	return func(w *Wallet) { w.verboseInit = true }
}

// WithLogWriter redirects the diagnostic sink. Defaults to os.Stderr.
func WithLogWriter(out io.Writer) Option {
	return func(w *Wallet) { w.logw = out }
}

// New builds a wallet bound to the JSON-RPC endpoint at rpcURL. A non-empty
// privateKeyHex loads that identity; an empty one generates a fresh keypair
// with a recovery phrase.
func New(privateKeyHex, rpcURL string, opts ...Option) (*Wallet, error) {
	var (
		signer Signer
		err    error
	)
	if strings.TrimSpace(privateKeyHex) == "" {
		signer, err = NewRandomSigner()
	} else {
		signer, err = NewSignerFromKey(privateKeyHex)
	}
	if err != nil {
		return nil, err
	}

	provider, err := api.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return NewFromSigner(signer, provider, opts...), nil
}

// NewFromSigner binds an existing identity to a provider. It is the injection
// point for substitutable collaborators in tests.
func NewFromSigner(signer Signer, provider ChainProvider, opts ...Option) *Wallet {
	w := &Wallet{
		signer:   signer,
		provider: provider,
		logw:     os.Stderr,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.verboseInit {
		w.logInit()
	}
	return w
}

func (w *Wallet) logInit() {
	fmt.Fprintf(w.logw, "address: %s\n", w.Address())
	fmt.Fprintf(w.logw, "private key: %s\n", w.PrivateKey())
	if mnemonic := w.signer.Mnemonic(); mnemonic != "" {
		fmt.Fprintf(w.logw, "mnemonic: %s\n", mnemonic)
	} else {
		fmt.Fprintf(w.logw, "mnemonic: (unavailable)\n")
	}
}

// Address returns the bound account's checksummed address.
func (w *Wallet) Address() string {
	return w.signer.Address().Hex()
}

// PrivateKey returns the bound account's hex-encoded secret key. Callers must
// treat the value as sensitive.
func (w *Wallet) PrivateKey() string {
	return w.signer.PrivateKeyHex()
}

// Mnemonic returns the account's recovery phrase, or "" when the identity was
// loaded from a raw private key.
func (w *Wallet) Mnemonic() string {
	return w.signer.Mnemonic()
}

// Balance returns the account's native-coin balance as a whole-coin decimal
// string.
func (w *Wallet) Balance(ctx context.Context) (string, error) {
	raw, err := w.provider.BalanceAt(ctx, w.signer.Address())
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch balance: %v", ErrNetwork, err)
	}
	return FormatUnits(raw, NativeDecimals), nil
}

// SendTransaction transfers amount whole coins (decimal string, "0" is valid)
// to the recipient. It returns once the node accepts the transaction into its
// pending pool; use the handle's Wait to await mining.
func (w *Wallet) SendTransaction(ctx context.Context, to, amount string) (*TxHandle, error) {
	if !common.IsHexAddress(to) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, to)
	}
	value, err := ParseUnits(amount, NativeDecimals)
	if err != nil {
		return nil, err
	}
	recipient := common.HexToAddress(to)
	return w.submit(ctx, recipient, value, params.TxGas, nil)
}

// TransactionReceipt looks up the finalized outcome of a submitted
// transaction. A nil receipt with a nil error means the transaction is not
// yet mined or unknown to the node.
func (w *Wallet) TransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	receipt, err := w.provider.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch receipt: %v", ErrNetwork, err)
	}
	return receipt, nil
}

// chainID fetches the network's chain ID once and caches it; the value is
// immutable for the lifetime of an endpoint.
func (w *Wallet) chainIDFor(ctx context.Context) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.chainID != nil {
		return w.chainID, nil
	}
	id, err := w.provider.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch chain id: %v", ErrNetwork, err)
	}
	w.chainID = id
	return id, nil
}

// submit builds, signs and broadcasts a transaction. A zero gasLimit means
// estimate against the node.
func (w *Wallet) submit(ctx context.Context, to common.Address, value *big.Int, gasLimit uint64, data []byte) (*TxHandle, error) {
	chainID, err := w.chainIDFor(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := w.provider.PendingNonceAt(ctx, w.signer.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch nonce: %v", ErrNetwork, err)
	}

	gasPrice, err := w.provider.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch gas price: %v", ErrNetwork, err)
	}

	if gasLimit == 0 {
		gasLimit, err = w.provider.EstimateGas(ctx, ethereum.CallMsg{
			From:  w.signer.Address(),
			To:    &to,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to estimate gas: %v", classifyEstimateError(err), err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := w.signer.SignTx(tx, chainID)
	if err != nil {
		return nil, err
	}

	if err := w.provider.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("%w: %v", classifySendError(err), err)
	}

	return &TxHandle{Hash: signed.Hash(), provider: w.provider}, nil
}

// TxHandle identifies a submitted transaction and lets the caller await its
// receipt.
type TxHandle struct {
	Hash     common.Hash
	provider ChainProvider
}

// Wait polls the network until the transaction is mined. Cancellation and
// timeouts are the caller's, via ctx; the network itself imposes none.
func (h *TxHandle) Wait(ctx context.Context) (*types.Receipt, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		receipt, err := h.provider.TransactionReceipt(ctx, h.Hash)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch receipt: %v", ErrNetwork, err)
		}
		if receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
