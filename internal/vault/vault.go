package vault

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/internal/query"
	"github.com/core-coin/vaultquery/pkg/entryid"
	"github.com/core-coin/vaultquery/pkg/logger"
)

// Vault is the application service of the vault. It forwards commands to the
// engine and answers reads with the query engines, over a snapshot fetched
// for every call.
type Vault struct {
	logger *logger.Logger
	engine models.Engine
}

// NewVault creates a new Vault instance
func NewVault(engine models.Engine, logger *logger.Logger) models.VaultService {
	return &Vault{
		engine: engine,
		logger: logger,
	}
}

func (v *Vault) snapshot() (*query.Wallets, error) {
	wallets, err := v.engine.ListWallets()
	if err != nil {
		v.logger.Error("Failed to list wallets", "error", err)
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return query.NewWallets(wallets), nil
}

// Snapshot returns every wallet of the vault.
func (v *Vault) Snapshot() ([]*models.Wallet, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Values(), nil
}

func (v *Vault) Wallet(walletID string) (*models.Wallet, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return nil, err
	}
	w, err := snapshot.ByID(walletID)
	if err != nil {
		return nil, err
	}
	return w.Value(), nil
}

func (v *Vault) WalletByEntry(entryID string) (*models.Wallet, error) {
	_, w, err := v.lookupEntry(entryID)
	if err != nil {
		return nil, err
	}
	return w.Value(), nil
}

func (v *Vault) Entry(entryID string) (*models.Entry, error) {
	id, w, err := v.lookupEntry(entryID)
	if err != nil {
		return nil, err
	}
	e, _ := w.Entry(id)
	return e, nil
}

// lookupEntry parses entryID and returns the wallet still holding it.
func (v *Vault) lookupEntry(entryID string) (entryid.ID, *query.Wallet, error) {
	id, err := entryid.Parse(entryID)
	if err != nil {
		return "", nil, err
	}
	snapshot, err := v.snapshot()
	if err != nil {
		return "", nil, err
	}
	w, ok, err := snapshot.ByEntryID(id)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
	}
	return id, w, nil
}

func (v *Vault) FindByAddress(
	address string, blockchain *models.BlockchainID,
) (*models.Wallet, *models.Entry, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return nil, nil, err
	}
	w, ok := snapshot.FindByAddress(address, blockchain)
	if !ok {
		return nil, nil, fmt.Errorf("address %s: %w", address, models.ErrNotFound)
	}
	e, _ := w.FindByAddress(address, blockchain)
	return w.Value(), e, nil
}

func (v *Vault) EntriesOnBlockchain(blockchain models.BlockchainID) ([]*models.Entry, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.AllEntriesOnBlockchain(blockchain), nil
}

func (v *Vault) WalletsOnBlockchain(blockchain models.BlockchainID) ([]*models.Wallet, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return nil, err
	}
	wallets := snapshot.ByBlockchain(blockchain)
	list := make([]*models.Wallet, 0, len(wallets))
	for _, w := range wallets {
		list = append(list, w.Value())
	}
	return list, nil
}

func (v *Vault) HDAccounts(walletID string) (models.HDPathAccounts, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return nil, err
	}
	if walletID == "" {
		return snapshot.HDAccounts(), nil
	}
	w, err := snapshot.ByID(walletID)
	if err != nil {
		return nil, err
	}
	return w.HDAccounts(), nil
}

func (v *Vault) NextAccountID(seedID string) (uint32, error) {
	snapshot, err := v.snapshot()
	if err != nil {
		return 0, err
	}
	account, ok := snapshot.NextAccountID(seedID)
	if !ok {
		return 0, fmt.Errorf("seed %s has no free account left", seedID)
	}
	return account, nil
}

func (v *Vault) CreateWallet(opts models.WalletCreateOptions) (string, error) {
	id, err := v.engine.AddWallet(opts)
	if err != nil {
		v.logger.Error("Failed to create wallet", "error", err)
		return "", err
	}
	v.logger.Info("Wallet created", "wallet", id)
	return id, nil
}

func (v *Vault) RemoveWallet(walletID string) error {
	removed, err := v.engine.RemoveWallet(walletID)
	if err != nil {
		v.logger.Error("Failed to remove wallet", "wallet", walletID, "error", err)
		return err
	}
	if !removed {
		return fmt.Errorf("wallet %s: %w", walletID, models.ErrNotFound)
	}
	v.logger.Info("Wallet removed", "wallet", walletID)
	return nil
}

func (v *Vault) SetWalletLabel(walletID, label string) error {
	updated, err := v.engine.SetWalletLabel(walletID, label)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("wallet %s: %w", walletID, models.ErrNotFound)
	}
	return nil
}

func (v *Vault) AddEntry(walletID string, entry models.AddEntry) (entryid.ID, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	snapshot, err := v.snapshot()
	if err != nil {
		return "", err
	}
	if _, err := snapshot.ByID(walletID); err != nil {
		return "", err
	}
	id, err := v.engine.AddEntry(walletID, entry)
	if err != nil {
		v.logger.Error("Failed to add entry", "wallet", walletID, "type", entry.Type, "error", err)
		return "", err
	}
	v.logger.Info("Entry added", "entry", id, "blockchain", entry.Blockchain)
	return id, nil
}

// AddSeedEntry allocates the lowest account of the seed not used anywhere in
// the vault and adds an entry on the standard path of that account.
func (v *Vault) AddSeedEntry(
	walletID string, seed models.SeedReference, blockchain models.BlockchainID, address string,
) (entryid.ID, error) {
	if seed.Type != models.SeedRefID || seed.Value == "" {
		return "", fmt.Errorf("%w: seed entries require a seed id", models.ErrInvalidPayload)
	}
	snapshot, err := v.snapshot()
	if err != nil {
		return "", err
	}
	if _, err := snapshot.ByID(walletID); err != nil {
		return "", err
	}
	account, ok := snapshot.NextAccountID(seed.Value)
	if !ok {
		return "", fmt.Errorf("seed %s has no free account left", seed.Value)
	}
	hdPath, err := DefaultHDPath(blockchain, account)
	if err != nil {
		return "", err
	}
	v.logger.Debug("Allocated seed account", "seed", seed.Value, "account", account, "path", hdPath)

	entry := models.AddEntry{
		Blockchain: blockchain,
		Type:       models.AddHDPath,
		Seed:       &models.SeedEntry{Seed: seed, HDPath: hdPath, Address: address},
	}
	id, err := v.engine.AddEntry(walletID, entry)
	if err != nil {
		v.logger.Error("Failed to add seed entry", "wallet", walletID, "path", hdPath, "error", err)
		return "", err
	}
	v.logger.Info("Seed entry added", "entry", id, "path", hdPath)
	return id, nil
}

func (v *Vault) RemoveEntry(entryID string) error {
	id, _, err := v.lookupEntry(entryID)
	if err != nil {
		return err
	}
	removed, err := v.engine.RemoveEntry(id)
	if err != nil {
		v.logger.Error("Failed to remove entry", "entry", id, "error", err)
		return err
	}
	if !removed {
		return fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
	}
	v.logger.Info("Entry removed", "entry", id)
	return nil
}

func (v *Vault) SetEntryLabel(entryID string, label *string) error {
	id, _, err := v.lookupEntry(entryID)
	if err != nil {
		return err
	}
	updated, err := v.engine.SetEntryLabel(id, label)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (v *Vault) SetEntryReceiveDisabled(entryID string, disabled bool) error {
	id, _, err := v.lookupEntry(entryID)
	if err != nil {
		return err
	}
	updated, err := v.engine.SetEntryReceiveDisabled(id, disabled)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (v *Vault) SignTx(entryID string, tx json.RawMessage, password string) (*models.SignedTx, error) {
	id, _, err := v.lookupEntry(entryID)
	if err != nil {
		return nil, err
	}
	signed, err := v.engine.SignTx(id, tx, password)
	if err != nil {
		v.logger.Warn("Failed to sign transaction", "entry", id, "error", err)
		return nil, err
	}
	return signed, nil
}

func (v *Vault) ExportRawPk(entryID, password string) (string, error) {
	id, _, err := v.lookupEntry(entryID)
	if err != nil {
		return "", err
	}
	return v.engine.ExportRawPk(id, password)
}

func (v *Vault) ExportJSONPk(entryID, password string) (*models.ExportedWeb3JSON, error) {
	id, _, err := v.lookupEntry(entryID)
	if err != nil {
		return nil, err
	}
	return v.engine.ExportJSONPk(id, password)
}

func (v *Vault) ListSeeds() ([]*models.SeedDescription, error) {
	return v.engine.ListSeeds()
}

func (v *Vault) ImportSeed(seed models.SeedDefinition) (string, error) {
	id, err := v.engine.ImportSeed(seed)
	if err != nil {
		v.logger.Error("Failed to import seed", "type", seed.Type, "error", err)
		return "", err
	}
	v.logger.Info("Seed imported", "seed", id, "type", seed.Type)
	return id, nil
}

func (v *Vault) ImportLedgerSeed() (string, error) {
	id, err := v.engine.ImportLedgerSeed()
	if err != nil {
		v.logger.Error("Failed to import ledger seed", "error", err)
		return "", err
	}
	v.logger.Info("Ledger seed imported", "seed", id)
	return id, nil
}

func (v *Vault) IsSeedAvailable(seed models.SeedReference) (bool, error) {
	if err := seed.Validate(); err != nil {
		return false, err
	}
	return v.engine.IsSeedAvailable(seed)
}

func (v *Vault) ListSeedAddresses(
	seed models.SeedReference, blockchain models.BlockchainID, hdPaths []string,
) (map[string]string, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	if !models.IsKnownBlockchain(blockchain) {
		return nil, fmt.Errorf("%w: unsupported blockchain %d", models.ErrInvalidPayload, blockchain)
	}
	return v.engine.ListSeedAddresses(seed, blockchain, hdPaths)
}

// ListAddressBook returns the address book of a chain, single addresses
// first, each group ordered by address.
func (v *Vault) ListAddressBook(blockchain models.BlockchainID) ([]*models.AddressBookItem, error) {
	items, err := v.engine.ListAddressBook(blockchain)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Address.Compare(items[j].Address) < 0
	})
	return items, nil
}

func (v *Vault) AddToAddressBook(item models.CreateAddressBookItem) error {
	address, err := models.ValidateAndNormalizeAddressRef(item.Blockchain, item.Address)
	if err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidPayload, err)
	}
	item.Address = address
	added, err := v.engine.AddToAddressBook(item)
	if err != nil {
		v.logger.Error("Failed to add address book item", "address", item.Address, "error", err)
		return err
	}
	if !added {
		v.logger.Warn("Address already in the address book", "address", item.Address)
	}
	return nil
}

func (v *Vault) RemoveFromAddressBook(blockchain models.BlockchainID, address string) error {
	removed, err := v.engine.RemoveFromAddressBook(blockchain, address)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("address %s: %w", address, models.ErrNotFound)
	}
	return nil
}
