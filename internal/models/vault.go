package models

import (
	"encoding/json"

	"github.com/core-coin/vaultquery/pkg/entryid"
)

// VaultService is the application layer exposed to the HTTP API. Entry ids
// are received as text and validated by the service: malformed ids fail with
// entryid.ErrInvalidIdentifier, ids of missing wallets or entries with
// ErrNotFound.
type VaultService interface {
	// Snapshot returns every wallet of the vault.
	Snapshot() ([]*Wallet, error)
	Wallet(walletID string) (*Wallet, error)
	WalletByEntry(entryID string) (*Wallet, error)
	Entry(entryID string) (*Entry, error)
	// FindByAddress returns the first wallet, and its entry, located at
	// address. A nil blockchain searches every chain. Unlike the query
	// engine, which reports a miss with a false flag, an address held by no
	// wallet is returned as ErrNotFound.
	FindByAddress(address string, blockchain *BlockchainID) (*Wallet, *Entry, error)
	EntriesOnBlockchain(blockchain BlockchainID) ([]*Entry, error)
	WalletsOnBlockchain(blockchain BlockchainID) ([]*Wallet, error)
	// HDAccounts returns the seed accounts used by a wallet, or by the whole
	// vault when walletID is empty.
	HDAccounts(walletID string) (HDPathAccounts, error)
	NextAccountID(seedID string) (uint32, error)

	CreateWallet(opts WalletCreateOptions) (string, error)
	RemoveWallet(walletID string) error
	SetWalletLabel(walletID, label string) error

	AddEntry(walletID string, entry AddEntry) (entryid.ID, error)
	// AddSeedEntry adds an entry on the next free account of the seed.
	AddSeedEntry(walletID string, seed SeedReference, blockchain BlockchainID, address string) (entryid.ID, error)
	RemoveEntry(entryID string) error
	SetEntryLabel(entryID string, label *string) error
	SetEntryReceiveDisabled(entryID string, disabled bool) error
	SignTx(entryID string, tx json.RawMessage, password string) (*SignedTx, error)
	ExportRawPk(entryID, password string) (string, error)
	ExportJSONPk(entryID, password string) (*ExportedWeb3JSON, error)

	ListSeeds() ([]*SeedDescription, error)
	ImportSeed(seed SeedDefinition) (string, error)
	ImportLedgerSeed() (string, error)
	IsSeedAvailable(seed SeedReference) (bool, error)
	ListSeedAddresses(seed SeedReference, blockchain BlockchainID, hdPaths []string) (map[string]string, error)

	ListAddressBook(blockchain BlockchainID) ([]*AddressBookItem, error)
	AddToAddressBook(item CreateAddressBookItem) error
	RemoveFromAddressBook(blockchain BlockchainID, address string) error
}

// APIServer serves the vault over HTTP.
type APIServer interface {
	// Start blocks until the server is shut down.
	Start()
	Shutdown() error
}
