package wallet

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider substitutes the chain provider; unset fields fall back to a
// quiet, funded-enough node.
type stubProvider struct {
	ChainIDCalled            func(ctx context.Context) (*big.Int, error)
	BalanceAtCalled          func(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonceAtCalled     func(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPriceCalled    func(ctx context.Context) (*big.Int, error)
	EstimateGasCalled        func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContractCalled       func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransactionCalled    func(ctx context.Context, tx *types.Transaction) error
	TransactionReceiptCalled func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

func (s *stubProvider) ChainID(ctx context.Context) (*big.Int, error) {
	if s.ChainIDCalled != nil {
		return s.ChainIDCalled(ctx)
	}
	return big.NewInt(1001), nil
}

func (s *stubProvider) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	if s.BalanceAtCalled != nil {
		return s.BalanceAtCalled(ctx, account)
	}
	return big.NewInt(0), nil
}

func (s *stubProvider) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if s.PendingNonceAtCalled != nil {
		return s.PendingNonceAtCalled(ctx, account)
	}
	return 0, nil
}

func (s *stubProvider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if s.SuggestGasPriceCalled != nil {
		return s.SuggestGasPriceCalled(ctx)
	}
	return big.NewInt(25000000000), nil
}

func (s *stubProvider) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if s.EstimateGasCalled != nil {
		return s.EstimateGasCalled(ctx, msg)
	}
	return 60000, nil
}

func (s *stubProvider) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if s.CallContractCalled != nil {
		return s.CallContractCalled(ctx, msg)
	}
	return nil, nil
}

func (s *stubProvider) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if s.SendTransactionCalled != nil {
		return s.SendTransactionCalled(ctx, tx)
	}
	return nil
}

func (s *stubProvider) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if s.TransactionReceiptCalled != nil {
		return s.TransactionReceiptCalled(ctx, txHash)
	}
	return nil, nil
}

func newTestWallet(t *testing.T, provider ChainProvider, opts ...Option) *Wallet {
	t.Helper()
	signer, err := NewRandomSigner()
	require.NoError(t, err)
	return NewFromSigner(signer, provider, opts...)
}

const testRecipient = "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6"

func TestWallet_Accessors(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t, &stubProvider{})

	assert.Regexp(t, addressPattern, w.Address())
	reloaded, err := NewSignerFromKey(w.PrivateKey())
	require.NoError(t, err)
	assert.Equal(t, reloaded.Address().Hex(), w.Address())
	assert.NotEmpty(t, w.Mnemonic())
}

func TestWallet_VerboseInit(t *testing.T) {
	t.Parallel()

	t.Run("silent by default", func(t *testing.T) {
		t.Parallel()

		var sink bytes.Buffer
		w := newTestWallet(t, &stubProvider{}, WithLogWriter(&sink))
		require.NotNil(t, w)
		assert.Zero(t, sink.Len())
	})

	t.Run("emits identity when enabled", func(t *testing.T) {
		t.Parallel()

		var sink bytes.Buffer
		w := newTestWallet(t, &stubProvider{}, WithVerboseInit(), WithLogWriter(&sink))

		out := sink.String()
		assert.Contains(t, out, w.Address())
		assert.Contains(t, out, w.PrivateKey())
		assert.Contains(t, out, w.Mnemonic())
	})

	t.Run("marks the mnemonic unavailable for key-loaded identities", func(t *testing.T) {
		t.Parallel()

		signer, err := NewSignerFromKey("fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19")
		require.NoError(t, err)

		var sink bytes.Buffer
		NewFromSigner(signer, &stubProvider{}, WithVerboseInit(), WithLogWriter(&sink))

		assert.Contains(t, sink.String(), "(unavailable)")
	})
}

func TestWallet_Balance(t *testing.T) {
	t.Parallel()

	t.Run("formats the smallest-unit value", func(t *testing.T) {
		t.Parallel()

		raw, _ := new(big.Int).SetString("1500000000000000000", 10)
		provider := &stubProvider{
			BalanceAtCalled: func(ctx context.Context, account common.Address) (*big.Int, error) {
				return raw, nil
			},
		}
		w := newTestWallet(t, provider)

		balance, err := w.Balance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1.5", balance)
	})

	t.Run("fresh account reads as 0", func(t *testing.T) {
		t.Parallel()

		w := newTestWallet(t, &stubProvider{})

		balance, err := w.Balance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "0", balance)
	})

	t.Run("transport failure surfaces as a network error", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			BalanceAtCalled: func(ctx context.Context, account common.Address) (*big.Int, error) {
				return nil, errors.New("connection refused")
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.Balance(context.Background())
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestWallet_SendTransaction(t *testing.T) {
	t.Parallel()

	t.Run("builds and submits a signed transfer", func(t *testing.T) {
		t.Parallel()

		var sent *types.Transaction
		provider := &stubProvider{
			PendingNonceAtCalled: func(ctx context.Context, account common.Address) (uint64, error) {
				return 7, nil
			},
			SendTransactionCalled: func(ctx context.Context, tx *types.Transaction) error {
				sent = tx
				return nil
			},
		}
		w := newTestWallet(t, provider)

		handle, err := w.SendTransaction(context.Background(), testRecipient, "0.25")
		require.NoError(t, err)
		require.NotNil(t, sent)

		assert.Equal(t, sent.Hash(), handle.Hash)
		assert.Equal(t, uint64(7), sent.Nonce())
		assert.Equal(t, uint64(21000), sent.Gas())
		assert.Equal(t, common.HexToAddress(testRecipient), *sent.To())

		expected, _ := new(big.Int).SetString("250000000000000000", 10)
		assert.Equal(t, 0, sent.Value().Cmp(expected))

		sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1001)), sent)
		require.NoError(t, err)
		assert.Equal(t, w.Address(), sender.Hex())
	})

	t.Run("zero amount is a valid transfer", func(t *testing.T) {
		t.Parallel()

		var sent *types.Transaction
		provider := &stubProvider{
			SendTransactionCalled: func(ctx context.Context, tx *types.Transaction) error {
				sent = tx
				return nil
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.SendTransaction(context.Background(), testRecipient, "0")
		require.NoError(t, err)
		require.NotNil(t, sent)
		assert.Equal(t, 0, sent.Value().Sign())
	})

	t.Run("malformed recipient is rejected before any network call", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			SendTransactionCalled: func(ctx context.Context, tx *types.Transaction) error {
				t.Fatal("transaction should not be submitted")
				return nil
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.SendTransaction(context.Background(), "not-an-address", "1")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("balance rejection maps to insufficient funds", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			SendTransactionCalled: func(ctx context.Context, tx *types.Transaction) error {
				return errors.New("insufficient funds for gas * price + value")
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.SendTransaction(context.Background(), testRecipient, "1")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("transport failure maps to a network error", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			SendTransactionCalled: func(ctx context.Context, tx *types.Transaction) error {
				return errors.New("i/o timeout")
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.SendTransaction(context.Background(), testRecipient, "1")
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("chain id is fetched once and cached", func(t *testing.T) {
		t.Parallel()

		calls := 0
		provider := &stubProvider{
			ChainIDCalled: func(ctx context.Context) (*big.Int, error) {
				calls++
				return big.NewInt(8217), nil
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.SendTransaction(context.Background(), testRecipient, "0")
		require.NoError(t, err)
		_, err = w.SendTransaction(context.Background(), testRecipient, "0")
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
	})
}

func TestWallet_TransactionReceipt(t *testing.T) {
	t.Parallel()

	t.Run("unknown hash is not an error", func(t *testing.T) {
		t.Parallel()

		w := newTestWallet(t, &stubProvider{})

		receipt, err := w.TransactionReceipt(context.Background(), "0x0000000000000000000000000000000000000000000000000000000000000001")
		require.NoError(t, err)
		assert.Nil(t, receipt)
	})

	t.Run("mined transaction returns its receipt", func(t *testing.T) {
		t.Parallel()

		expected := &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(42),
		}
		provider := &stubProvider{
			TransactionReceiptCalled: func(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
				return expected, nil
			},
		}
		w := newTestWallet(t, provider)

		receipt, err := w.TransactionReceipt(context.Background(), "0x01")
		require.NoError(t, err)
		assert.Equal(t, expected, receipt)
	})

	t.Run("transport failure maps to a network error", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			TransactionReceiptCalled: func(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
				return nil, errors.New("connection reset")
			},
		}
		w := newTestWallet(t, provider)

		_, err := w.TransactionReceipt(context.Background(), "0x01")
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestTxHandle_Wait(t *testing.T) {
	t.Parallel()

	t.Run("returns the receipt once mined", func(t *testing.T) {
		t.Parallel()

		expected := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(7)}
		provider := &stubProvider{
			TransactionReceiptCalled: func(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
				return expected, nil
			},
		}
		w := newTestWallet(t, provider)

		handle, err := w.SendTransaction(context.Background(), testRecipient, "0")
		require.NoError(t, err)

		receipt, err := handle.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, expected, receipt)
	})

	t.Run("honours caller cancellation while pending", func(t *testing.T) {
		t.Parallel()

		w := newTestWallet(t, &stubProvider{})
		handle, err := w.SendTransaction(context.Background(), testRecipient, "0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = handle.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("pre-cancelled context never reaches the provider", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			TransactionReceiptCalled: func(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
				t.Fatal("provider should not be polled after cancellation")
				return nil, nil
			},
		}
		w := newTestWallet(t, provider)
		handle, err := w.SendTransaction(context.Background(), testRecipient, "0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = handle.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
