package vault

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"

	"github.com/core-coin/vaultquery/internal/models"
)

const (
	purposeBIP44 = 44
	purposeBIP84 = 84
)

// DefaultHDPath returns the path of the first receive key of account on
// blockchain: BIP-84 for Bitcoin chains, BIP-44 otherwise. Bitcoin entries
// track the xpub of the account the path belongs to.
func DefaultHDPath(blockchain models.BlockchainID, account uint32) (string, error) {
	if account >= hdkeychain.HardenedKeyStart {
		return "", fmt.Errorf("%w: account %d out of range", models.ErrInvalidPayload, account)
	}
	coin, ok := models.CoinType(blockchain)
	if !ok {
		return "", fmt.Errorf("%w: unsupported blockchain %d", models.ErrInvalidPayload, blockchain)
	}
	purpose := purposeBIP44
	if models.FamilyOf(blockchain) == models.FamilyBitcoin {
		purpose = purposeBIP84
	}
	return fmt.Sprintf("m/%d'/%d'/%d'/0/0", purpose, coin, account), nil
}
