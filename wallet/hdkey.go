package wallet

import (
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// hdKey is a node in the BIP-32 secp256k1 key tree. Only the fields needed to
// walk a BIP-44 path from a seed are kept.
type hdKey struct {
	privateKey []byte
	publicKey  []byte
	chainCode  []byte
}

// deriveKey walks the derivation path from the seed and returns the leaf
// account key.
func deriveKey(seed []byte, path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	key, err := newMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	for _, childNum := range path {
		key, err = deriveChild(key, childNum)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child: %w", err)
		}
	}

	privateKey, err := crypto.ToECDSA(key.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to ECDSA key: %w", err)
	}
	return privateKey, nil
}

// newMasterKey creates the root of the key tree from a BIP-39 seed.
func newMasterKey(seed []byte) (*hdKey, error) {
	// HMAC-SHA512 keyed with "Bitcoin seed", per BIP-32
	hash := hmacSHA512([]byte("Bitcoin seed"), seed)

	privateKey := hash[:32]
	chainCode := hash[32:]

	if !isValidPrivateKey(privateKey) {
		return nil, fmt.Errorf("seed produced an invalid master key")
	}

	return &hdKey{
		privateKey: privateKey,
		publicKey:  compressedPublicKey(privateKey),
		chainCode:  chainCode,
	}, nil
}

// deriveChild derives one child of the parent node. Hardened children are
// derived from the private key, normal children from the public key.
func deriveChild(parent *hdKey, childNum uint32) (*hdKey, error) {
	var data []byte
	if childNum >= 0x80000000 {
		data = append([]byte{0x00}, parent.privateKey...)
	} else {
		data = append([]byte{}, parent.publicKey...)
	}

	childNumBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(childNumBytes, childNum)
	data = append(data, childNumBytes...)

	hash := hmacSHA512(parent.chainCode, data)
	il := hash[:32]
	ir := hash[32:]

	// child key = (parent key + IL) mod n
	n := crypto.S256().Params().N
	childInt := new(big.Int).SetBytes(il)
	childInt.Add(childInt, new(big.Int).SetBytes(parent.privateKey))
	childInt.Mod(childInt, n)
	if childInt.Sign() == 0 {
		return nil, fmt.Errorf("derived an invalid child key")
	}

	childKey := make([]byte, 32)
	childInt.FillBytes(childKey)

	return &hdKey{
		privateKey: childKey,
		publicKey:  compressedPublicKey(childKey),
		chainCode:  ir,
	}, nil
}

// compressedPublicKey returns the 33-byte compressed public point of a scalar.
func compressedPublicKey(privateKey []byte) []byte {
	x, y := crypto.S256().ScalarBaseMult(privateKey)
	prefix := byte(0x02)
	if y.Bit(0) == 1 {
		prefix = 0x03
	}
	out := make([]byte, 33)
	out[0] = prefix
	x.FillBytes(out[1:])
	return out
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// isValidPrivateKey checks that the scalar is in [1, n).
func isValidPrivateKey(privateKey []byte) bool {
	if len(privateKey) != 32 {
		return false
	}
	keyInt := new(big.Int).SetBytes(privateKey)
	if keyInt.Sign() == 0 {
		return false
	}
	return keyInt.Cmp(crypto.S256().Params().N) < 0
}
