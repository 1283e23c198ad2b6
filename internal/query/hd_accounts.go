package query

import "github.com/core-coin/vaultquery/internal/models"

// HDAccounts returns the seed accounts in use by the wallet.
//
// Reserved accounts come first, in reservation order. Accounts used by seed
// based entries follow in entry order. An entry can be added without its
// account being reserved, so both sources are needed to allocate an account
// number that collides with nothing. Entries on a non BIP-44 path do not
// use any account.
func (w *Wallet) HDAccounts() models.HDPathAccounts {
	accounts := models.HDPathAccounts{}
	for _, r := range w.value.Reserved {
		accounts.Add(r.SeedID, r.AccountID)
	}
	for _, e := range w.value.Entries {
		seedKey, ok := e.SeedKey()
		if !ok {
			continue
		}
		account, ok := seedKey.AccountID()
		if !ok {
			continue
		}
		accounts.Add(seedKey.SeedID, account)
	}
	return accounts
}

// HDAccounts returns the seed accounts in use across the whole snapshot.
// Accounts of each seed keep the order of the wallets they come from.
func (ws *Wallets) HDAccounts() models.HDPathAccounts {
	accounts := models.HDPathAccounts{}
	for _, w := range ws.wallets {
		accounts.Merge(NewWallet(w).HDAccounts())
	}
	return accounts
}

// NextAccountID returns the lowest account number free on seedID in every
// wallet of the snapshot.
func (ws *Wallets) NextAccountID(seedID string) (uint32, bool) {
	return ws.HDAccounts().Next(seedID)
}
