package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"

	"github.com/wizinfantry/KAIA-WALLET-API/api"
	"github.com/wizinfantry/KAIA-WALLET-API/wallet"
)

// Config carries the CLI's environment-driven settings.
type Config struct {
	RPCURL      string `envconfig:"KAIA_RPC_URL"`
	Network     string `envconfig:"KAIA_NETWORK" default:"kairos"`
	PrivateKey  string `envconfig:"KAIA_PRIVATE_KEY"`
	VerboseInit bool   `envconfig:"KAIA_VERBOSE_INIT" default:"false"`
}

// loadConfig reads configuration from environment variables. An explicit
// KAIA_RPC_URL wins; otherwise the named network's public endpoint is used.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.RPCURL == "" {
		url, err := api.EndpointFor(cfg.Network)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve RPC endpoint: %w", err)
		}
		cfg.RPCURL = url
	}
	return cfg, nil
}

// promptPrivateKey reads a private key from the terminal without echoing it.
// Used when KAIA_PRIVATE_KEY is unset and a command needs a signing identity.
func promptPrivateKey() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("KAIA_PRIVATE_KEY is not set and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Enter private key: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// openWallet builds the facade from the environment, prompting for the
// private key when it is not configured.
func openWallet() (*wallet.Wallet, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	key := cfg.PrivateKey
	if key == "" {
		key, err = promptPrivateKey()
		if err != nil {
			return nil, err
		}
	}

	var opts []wallet.Option
	if cfg.VerboseInit {
		opts = append(opts, wallet.WithVerboseInit())
	}

	w, err := wallet.New(key, cfg.RPCURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet: %w", err)
	}
	return w, nil
}
