package query

import (
	"fmt"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/entryid"
)

// Wallets answers questions spanning every wallet of a snapshot.
type Wallets struct {
	wallets []*models.Wallet
}

// NewWallets wraps a snapshot returned by the engine.
func NewWallets(wallets []*models.Wallet) *Wallets {
	if wallets == nil {
		wallets = []*models.Wallet{}
	}
	return &Wallets{wallets: wallets}
}

// Len returns the number of wallets in the snapshot.
func (ws *Wallets) Len() int {
	return len(ws.wallets)
}

// Values returns the wrapped wallets.
func (ws *Wallets) Values() []*models.Wallet {
	return ws.wallets
}

// Wallets returns every wallet of the snapshot.
func (ws *Wallets) Wallets() []*Wallet {
	list := make([]*Wallet, 0, len(ws.wallets))
	for _, w := range ws.wallets {
		list = append(list, NewWallet(w))
	}
	return list
}

// ByID returns the wallet with the given id. Callers reference wallets they
// know to exist, hence a missing one is reported as models.ErrNotFound.
func (ws *Wallets) ByID(id string) (*Wallet, error) {
	for _, w := range ws.wallets {
		if w.ID == id {
			return NewWallet(w), nil
		}
	}
	return nil, fmt.Errorf("wallet %s: %w", id, models.ErrNotFound)
}

// ByEntryID returns the wallet holding the entry with the given id. The
// wallet named by the id must still contain that entry, otherwise no wallet
// is returned. An error is returned only for a malformed id.
func (ws *Wallets) ByEntryID(id entryid.ID) (*Wallet, bool, error) {
	walletID, err := id.WalletID()
	if err != nil {
		return nil, false, err
	}
	w, err := ws.ByID(walletID)
	if err != nil {
		return nil, false, nil
	}
	if _, ok := w.Entry(id); !ok {
		return nil, false, nil
	}
	return w, true, nil
}

// Entries returns the entries of every wallet, skipping those on
// unsupported chains.
func (ws *Wallets) Entries() []*models.Entry {
	entries := make([]*models.Entry, 0)
	for _, w := range ws.wallets {
		for _, e := range w.Entries {
			if e.Family() != models.FamilyUnknown {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// FindEntry returns the entry with the given id.
func (ws *Wallets) FindEntry(id entryid.ID) (*models.Entry, bool) {
	for _, e := range ws.Entries() {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// FindByAddress returns the first wallet holding an entry at address, on
// blockchain if not nil.
func (ws *Wallets) FindByAddress(
	address string, blockchain *models.BlockchainID,
) (*Wallet, bool) {
	for _, w := range ws.wallets {
		wallet := NewWallet(w)
		if _, ok := wallet.FindByAddress(address, blockchain); ok {
			return wallet, true
		}
	}
	return nil, false
}

// FindEntryByAddress returns the first entry at address across the wallets.
func (ws *Wallets) FindEntryByAddress(
	address string, blockchain *models.BlockchainID,
) (*models.Entry, bool) {
	for _, w := range ws.wallets {
		if e, ok := NewWallet(w).FindByAddress(address, blockchain); ok {
			return e, true
		}
	}
	return nil, false
}

// ByBlockchain returns the wallets having at least one entry on the chain.
func (ws *Wallets) ByBlockchain(blockchain models.BlockchainID) []*Wallet {
	list := make([]*Wallet, 0)
	for _, w := range ws.wallets {
		wallet := NewWallet(w)
		if wallet.HasBlockchain(blockchain) {
			list = append(list, wallet)
		}
	}
	return list
}

// AllEntriesOnBlockchain returns the entries on the chain, wallet by wallet,
// each in wallet order.
func (ws *Wallets) AllEntriesOnBlockchain(blockchain models.BlockchainID) []*models.Entry {
	entries := make([]*models.Entry, 0)
	for _, w := range ws.wallets {
		entries = append(entries, NewWallet(w).EntriesOnBlockchain(blockchain)...)
	}
	return entries
}
