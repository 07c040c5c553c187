package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcec/v2"
)

// loadOrGenerateIdentity reads a 32-byte secp256k1 scalar from path, or
// generates and persists a new one if the file doesn't exist yet.
func loadOrGenerateIdentity(path string) (*btcec.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) == 32 {
		priv, _ := btcec.PrivKeyFromBytes(data)
		return priv, nil
	}

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create identity directory: %w", err)
	}
	if err := os.WriteFile(path, priv.Serialize(), 0600); err != nil {
		return nil, fmt.Errorf("save identity: %w", err)
	}
	return priv, nil
}
