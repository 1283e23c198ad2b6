// Package query implements the read side of the vault: lookups and
// aggregations over a snapshot of wallets returned by the engine.
//
// Nothing in this package mutates or caches a snapshot. Results are only as
// fresh as the snapshot they were computed from.
package query

import (
	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/entryid"
)

// Wallet answers questions about the entries of a single wallet.
type Wallet struct {
	value *models.Wallet
}

// NewWallet wraps w.
func NewWallet(w *models.Wallet) *Wallet {
	return &Wallet{value: w}
}

// Value returns the wrapped wallet.
func (w *Wallet) Value() *models.Wallet {
	return w.value
}

// ID returns the id of the wallet.
func (w *Wallet) ID() string {
	return w.value.ID
}

// EntriesOfFamily returns the entries of the given family, in wallet order.
func (w *Wallet) EntriesOfFamily(family models.Family) []*models.Entry {
	entries := make([]*models.Entry, 0, len(w.value.Entries))
	for _, e := range w.value.Entries {
		if family != models.FamilyUnknown && e.Family() == family {
			entries = append(entries, e)
		}
	}
	return entries
}

// EthereumEntries returns the Ethereum family entries of the wallet.
func (w *Wallet) EthereumEntries() []*models.Entry {
	return w.EntriesOfFamily(models.FamilyEthereum)
}

// BitcoinEntries returns the Bitcoin family entries of the wallet.
func (w *Wallet) BitcoinEntries() []*models.Entry {
	return w.EntriesOfFamily(models.FamilyBitcoin)
}

// Entry returns the entry with the given id.
func (w *Wallet) Entry(id entryid.ID) (*models.Entry, bool) {
	for _, e := range w.value.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// FindByAddress returns the first entry, in wallet order, located at
// address. If blockchain is not nil the entry must also be on that chain.
func (w *Wallet) FindByAddress(
	address string, blockchain *models.BlockchainID,
) (*models.Entry, bool) {
	for _, e := range w.value.Entries {
		if e.Family() == models.FamilyUnknown {
			continue
		}
		if e.MatchesAddress(address, blockchain) {
			return e, true
		}
	}
	return nil, false
}

// EntriesOnBlockchain returns the entries on exactly the given chain.
func (w *Wallet) EntriesOnBlockchain(blockchain models.BlockchainID) []*models.Entry {
	entries := make([]*models.Entry, 0)
	for _, e := range w.value.Entries {
		if e.Blockchain == blockchain {
			entries = append(entries, e)
		}
	}
	return entries
}

// HasBlockchain reports whether at least one entry is on the given chain.
func (w *Wallet) HasBlockchain(blockchain models.BlockchainID) bool {
	for _, e := range w.value.Entries {
		if e.Blockchain == blockchain {
			return true
		}
	}
	return false
}
