package validation

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// ValidateAddress validates an Ethereum style account address: 0x followed
// by 20 hex encoded bytes.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return fmt.Errorf("address must start with 0x")
	}
	normalized := addr[2:]

	// 40 hex characters = 20 bytes
	if len(normalized) != 40 {
		return fmt.Errorf("invalid address length: expected 40 characters (without 0x), got %d", len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex address: %w", err)
	}

	return nil
}

// ValidateXPub checks xpub is a serialized extended public key.
func ValidateXPub(xpub string) error {
	if xpub == "" {
		return fmt.Errorf("xpub cannot be empty")
	}
	key, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return fmt.Errorf("invalid xpub: %w", err)
	}
	if key.IsPrivate() {
		return fmt.Errorf("extended private key given where an xpub is expected")
	}
	return nil
}

// NormalizeAddress converts an address to lowercase with a 0x prefix
func NormalizeAddress(addr string) string {
	addr = strings.TrimPrefix(addr, "0x")
	addr = strings.TrimPrefix(addr, "0X")
	return "0x" + strings.ToLower(addr)
}

// ValidateAndNormalizeAddress validates an address and returns its normalized form
func ValidateAndNormalizeAddress(addr string) (string, error) {
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return NormalizeAddress(addr), nil
}
