package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DerivationPath is the BIP-44 path of the account derived from a mnemonic.
const DerivationPath = "m/44'/60'/0'/0/0"

// Signer is a cryptographic identity capable of signing transactions for a
// single account. The facade never touches key material directly.
type Signer interface {
	Address() common.Address
	PrivateKeyHex() string
	Mnemonic() string
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

type localSigner struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	mnemonic string
}

// NewSignerFromKey loads a signer from a hex-encoded secp256k1 private key.
// The 0x prefix is optional.
func NewSignerFromKey(privateKeyHex string) (Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &localSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewRandomSigner generates a fresh 12-word recovery phrase and derives its
// first account key.
func NewRandomSigner() (Signer, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return NewSignerFromMnemonic(mnemonic)
}

// NewSignerFromMnemonic derives the account at DerivationPath from a BIP-39
// recovery phrase.
func NewSignerFromMnemonic(mnemonic string) (Signer, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: malformed mnemonic", ErrInvalidKey)
	}
	seed := bip39.NewSeed(mnemonic, "")

	path, err := accounts.ParseDerivationPath(DerivationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse derivation path: %w", err)
	}

	key, err := deriveKey(seed, path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return &localSigner{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		mnemonic: mnemonic,
	}, nil
}

// Address returns the signer's checksummed account address.
func (s *localSigner) Address() common.Address {
	return s.address
}

// PrivateKeyHex returns the 0x-prefixed hex encoding of the secret scalar.
func (s *localSigner) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(crypto.FromECDSA(s.key))
}

// Mnemonic returns the recovery phrase, or "" when the signer was loaded from
// a raw private key.
func (s *localSigner) Mnemonic() string {
	return s.mnemonic
}

// SignTx signs the transaction for the given chain ID.
func (s *localSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
