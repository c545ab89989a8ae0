package api

import "fmt"

// network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkKairos  = "kairos"
)

// public RPC endpoints
const (
	MainnetRPC = "https://public-en.node.kaia.io"
	KairosRPC  = "https://public-en-kairos.node.kaia.io"
)

// EndpointFor returns the public RPC endpoint of a named network.
func EndpointFor(network string) (string, error) {
	switch network {
	case NetworkMainnet:
		return MainnetRPC, nil
	case NetworkKairos:
		return KairosRPC, nil
	default:
		return "", fmt.Errorf("unknown network %q (supported: %s, %s)", network, NetworkMainnet, NetworkKairos)
	}
}
