package models

import (
	"encoding/json"

	"github.com/core-coin/vaultquery/pkg/entryid"
)

// SignedTx is a transaction signed by the engine.
type SignedTx struct {
	// Raw is the serialized transaction, hex encoded.
	Raw string `json:"raw"`
	// TxID references the transaction on chain.
	TxID string `json:"txid"`
}

// ExportedWeb3JSON is a private key exported in Web3 format, encrypted with
// a one time password returned along.
type ExportedWeb3JSON struct {
	JSON     string `json:"json"`
	Password string `json:"password"`
}

// Engine is the storage and crypto engine owning the vault. Everything it
// returns is a snapshot: callers must fetch again after any mutation.
type Engine interface {
	ListWallets() ([]*Wallet, error)
	AddWallet(opts WalletCreateOptions) (string, error)
	SetWalletLabel(walletID, label string) (bool, error)
	RemoveWallet(walletID string) (bool, error)

	AddEntry(walletID string, entry AddEntry) (entryid.ID, error)
	RemoveEntry(id entryid.ID) (bool, error)
	SetEntryLabel(id entryid.ID, label *string) (bool, error)
	SetEntryReceiveDisabled(id entryid.ID, disabled bool) (bool, error)

	// SignTx signs tx, an engine specific unsigned transaction document.
	SignTx(id entryid.ID, tx json.RawMessage, password string) (*SignedTx, error)
	ExportRawPk(id entryid.ID, password string) (string, error)
	ExportJSONPk(id entryid.ID, password string) (*ExportedWeb3JSON, error)

	ListSeeds() ([]*SeedDescription, error)
	ImportSeed(seed SeedDefinition) (string, error)
	ImportLedgerSeed() (string, error)
	IsSeedAvailable(seed SeedReference) (bool, error)
	// ListSeedAddresses returns the address found at each of hdPaths.
	ListSeedAddresses(seed SeedReference, blockchain BlockchainID, hdPaths []string) (map[string]string, error)

	ListAddressBook(blockchain BlockchainID) ([]*AddressBookItem, error)
	AddToAddressBook(item CreateAddressBookItem) (bool, error)
	RemoveFromAddressBook(blockchain BlockchainID, address string) (bool, error)
}
