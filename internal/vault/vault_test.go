package vault

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/entryid"
	"github.com/core-coin/vaultquery/pkg/logger"
)

const (
	walletA = "9ce1f45b-4a8e-46ee-b81f-1efd034feaea"
	walletB = "364b848e-caf2-43db-a3b5-375f64a61bf4"
	seedID  = "cbb38ce9-d818-4aa3-9c87-bbdbb7796892"
	ethAddr = "0x343d1de24ac7a891575857855c5579f9de19b427"
)

// memEngine keeps wallets in memory and records the calls it receives.
type memEngine struct {
	wallets []*models.Wallet
	added   []models.AddEntry
	book    []models.CreateAddressBookItem
	listErr error
}

func (m *memEngine) wallet(id string) *models.Wallet {
	for _, w := range m.wallets {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (m *memEngine) entry(id entryid.ID) *models.Entry {
	walletID, err := id.WalletID()
	if err != nil {
		return nil
	}
	w := m.wallet(walletID)
	if w == nil {
		return nil
	}
	for _, e := range w.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (m *memEngine) ListWallets() ([]*models.Wallet, error) {
	return m.wallets, m.listErr
}

func (m *memEngine) AddWallet(opts models.WalletCreateOptions) (string, error) {
	id := fmt.Sprintf("00000000-0000-4000-8000-%012d", len(m.wallets))
	m.wallets = append(m.wallets, &models.Wallet{
		ID: id, Name: opts.Name, Entries: []*models.Entry{}, Reserved: opts.Reserved,
	})
	return id, nil
}

func (m *memEngine) SetWalletLabel(walletID, label string) (bool, error) {
	w := m.wallet(walletID)
	if w == nil {
		return false, nil
	}
	w.Name = label
	return true, nil
}

func (m *memEngine) RemoveWallet(walletID string) (bool, error) {
	for i, w := range m.wallets {
		if w.ID == walletID {
			m.wallets = append(m.wallets[:i], m.wallets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memEngine) AddEntry(walletID string, entry models.AddEntry) (entryid.ID, error) {
	w := m.wallet(walletID)
	if w == nil {
		return "", models.ErrNotFound
	}
	m.added = append(m.added, entry)
	var key models.KeyRef
	if entry.Seed != nil {
		key = models.SeedKeyRef{SeedID: entry.Seed.Seed.Value, HDPath: entry.Seed.HDPath}
	}
	e, err := models.NewEntry(entryid.New(walletID, uint64(len(w.Entries))), entry.Blockchain, key, nil)
	if err != nil {
		return "", err
	}
	w.Entries = append(w.Entries, e)
	return e.ID, nil
}

func (m *memEngine) RemoveEntry(id entryid.ID) (bool, error) {
	walletID, _ := id.WalletID()
	w := m.wallet(walletID)
	for i, e := range w.Entries {
		if e.ID == id {
			w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memEngine) SetEntryLabel(id entryid.ID, label *string) (bool, error) {
	e := m.entry(id)
	if e == nil {
		return false, nil
	}
	e.Label = ""
	if label != nil {
		e.Label = *label
	}
	return true, nil
}

func (m *memEngine) SetEntryReceiveDisabled(id entryid.ID, disabled bool) (bool, error) {
	e := m.entry(id)
	if e == nil {
		return false, nil
	}
	e.ReceiveDisabled = disabled
	return true, nil
}

func (m *memEngine) SignTx(entryid.ID, json.RawMessage, string) (*models.SignedTx, error) {
	return &models.SignedTx{Raw: "0xf86c", TxID: "0x01"}, nil
}

func (m *memEngine) ExportRawPk(entryid.ID, string) (string, error) {
	return "", models.ErrUnsupported
}

func (m *memEngine) ExportJSONPk(entryid.ID, string) (*models.ExportedWeb3JSON, error) {
	return nil, models.ErrUnsupported
}

func (m *memEngine) ListSeeds() ([]*models.SeedDescription, error) {
	return []*models.SeedDescription{{ID: seedID, Type: models.SeedMnemonic, Available: true}}, nil
}

func (m *memEngine) ImportSeed(models.SeedDefinition) (string, error) {
	return seedID, nil
}

func (m *memEngine) ImportLedgerSeed() (string, error) {
	return "", models.ErrUnsupported
}

func (m *memEngine) IsSeedAvailable(seed models.SeedReference) (bool, error) {
	return seed.Value == seedID, nil
}

func (m *memEngine) ListSeedAddresses(
	models.SeedReference, models.BlockchainID, []string,
) (map[string]string, error) {
	return nil, models.ErrUnsupported
}

func (m *memEngine) ListAddressBook(blockchain models.BlockchainID) ([]*models.AddressBookItem, error) {
	items := []*models.AddressBookItem{}
	for _, item := range m.book {
		if item.Blockchain == blockchain {
			items = append(items, &models.AddressBookItem{
				Address: item.Address, Name: item.Name, Blockchain: item.Blockchain,
			})
		}
	}
	return items, nil
}

func (m *memEngine) AddToAddressBook(item models.CreateAddressBookItem) (bool, error) {
	m.book = append(m.book, item)
	return true, nil
}

func (m *memEngine) RemoveFromAddressBook(models.BlockchainID, string) (bool, error) {
	return false, nil
}

func newEntry(t *testing.T, walletID string, index uint64, blockchain models.BlockchainID, hdPath string) *models.Entry {
	t.Helper()
	var key models.KeyRef
	if hdPath != "" {
		key = models.SeedKeyRef{SeedID: seedID, HDPath: hdPath}
	}
	var address *models.AddressRef
	if models.FamilyOf(blockchain) == models.FamilyEthereum {
		address = models.NewSingleAddress(ethAddr)
	}
	e, err := models.NewEntry(entryid.New(walletID, index), blockchain, key, address)
	require.NoError(t, err)
	return e
}

func newTestVault(t *testing.T) (*memEngine, models.VaultService) {
	t.Helper()
	engine := &memEngine{
		wallets: []*models.Wallet{
			{
				ID: walletA,
				Entries: []*models.Entry{
					newEntry(t, walletA, 0, models.Ethereum, "m/44'/60'/0'/0/0"),
					newEntry(t, walletA, 1, models.EthereumClassic, "m/44'/61'/1'/0/0"),
				},
				Reserved: []models.HDPathAccount{},
			},
			{
				ID:       walletB,
				Entries:  []*models.Entry{},
				Reserved: []models.HDPathAccount{{SeedID: seedID, AccountID: 2}},
			},
		},
	}
	return engine, NewVault(engine, logger.NewNop())
}

func TestDefaultHDPath(t *testing.T) {
	tests := []struct {
		blockchain models.BlockchainID
		account    uint32
		expected   string
	}{
		{models.Ethereum, 0, "m/44'/60'/0'/0/0"},
		{models.EthereumClassic, 3, "m/44'/61'/3'/0/0"},
		{models.GoerliTestnet, 1, "m/44'/1'/1'/0/0"},
		{models.Bitcoin, 5, "m/84'/0'/5'/0/0"},
		{models.BitcoinTestnet, 0, "m/84'/1'/0'/0/0"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			path, err := DefaultHDPath(tt.blockchain, tt.account)
			require.NoError(t, err)
			require.Equal(t, tt.expected, path)

			account, ok := models.AccountIDFromPath(path)
			require.True(t, ok)
			require.Equal(t, tt.account, account)
		})
	}

	_, err := DefaultHDPath(models.BlockchainID(9), 0)
	require.ErrorIs(t, err, models.ErrInvalidPayload)
	_, err = DefaultHDPath(models.Ethereum, 1<<31)
	require.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestEntryLookups(t *testing.T) {
	_, v := newTestVault(t)

	e, err := v.Entry(walletA + "-1")
	require.NoError(t, err)
	require.Equal(t, models.EthereumClassic, e.Blockchain)

	w, err := v.WalletByEntry(walletA + "-0")
	require.NoError(t, err)
	require.Equal(t, walletA, w.ID)

	_, err = v.Entry(walletA + "-7")
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = v.Entry(walletA)
	require.ErrorIs(t, err, entryid.ErrInvalidIdentifier)

	_, err = v.WalletByEntry("not-an-id")
	require.ErrorIs(t, err, entryid.ErrInvalidIdentifier)
}

func TestSnapshotError(t *testing.T) {
	engine, v := newTestVault(t)
	engine.listErr = fmt.Errorf("connection refused")

	_, err := v.Snapshot()
	require.Error(t, err)
	_, err = v.Entry(walletA + "-0")
	require.Error(t, err)
}

func TestFindByAddress(t *testing.T) {
	_, v := newTestVault(t)

	chain := models.EthereumClassic
	w, e, err := v.FindByAddress("0x343D1DE24AC7A891575857855C5579F9DE19B427", &chain)
	require.NoError(t, err)
	require.Equal(t, walletA, w.ID)
	require.Equal(t, entryid.New(walletA, 1), e.ID)

	chain = models.Bitcoin
	_, _, err = v.FindByAddress(ethAddr, &chain)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestBlockchainQueries(t *testing.T) {
	_, v := newTestVault(t)

	entries, err := v.EntriesOnBlockchain(models.Ethereum)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	wallets, err := v.WalletsOnBlockchain(models.EthereumClassic)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	require.Equal(t, walletA, wallets[0].ID)

	wallets, err = v.WalletsOnBlockchain(models.Bitcoin)
	require.NoError(t, err)
	require.Empty(t, wallets)
}

func TestHDAccounts(t *testing.T) {
	_, v := newTestVault(t)

	accounts, err := v.HDAccounts(walletA)
	require.NoError(t, err)
	require.Equal(t, models.HDPathAccounts{seedID: {0, 1}}, accounts)

	accounts, err = v.HDAccounts("")
	require.NoError(t, err)
	require.Equal(t, models.HDPathAccounts{seedID: {0, 1, 2}}, accounts)

	_, err = v.HDAccounts("missing")
	require.ErrorIs(t, err, models.ErrNotFound)

	next, err := v.NextAccountID(seedID)
	require.NoError(t, err)
	require.Equal(t, uint32(3), next)
}

func TestAddSeedEntry(t *testing.T) {
	engine, v := newTestVault(t)
	seed := models.SeedReference{Type: models.SeedRefID, Value: seedID}

	id, err := v.AddSeedEntry(walletB, seed, models.Ethereum, "")
	require.NoError(t, err)
	require.Equal(t, entryid.New(walletB, 0), id)
	require.Len(t, engine.added, 1)
	require.Equal(t, "m/44'/60'/3'/0/0", engine.added[0].Seed.HDPath)

	// the account used by the new entry is taken into account
	_, err = v.AddSeedEntry(walletB, seed, models.Bitcoin, "")
	require.NoError(t, err)
	require.Equal(t, "m/84'/0'/4'/0/0", engine.added[1].Seed.HDPath)

	_, err = v.AddSeedEntry("missing", seed, models.Ethereum, "")
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = v.AddSeedEntry(walletB, models.SeedReference{Type: models.SeedRefLedger}, models.Ethereum, "")
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = v.AddSeedEntry(walletB, seed, models.BlockchainID(9), "")
	require.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestAddEntry(t *testing.T) {
	engine, v := newTestVault(t)

	_, err := v.AddEntry(walletA, models.AddEntry{Blockchain: models.Ethereum, Type: "unknown"})
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = v.AddEntry("missing", models.AddEntry{Blockchain: models.Ethereum, Type: models.AddGenerateRandom})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Empty(t, engine.added)

	id, err := v.AddEntry(walletA, models.AddEntry{Blockchain: models.Ethereum, Type: models.AddGenerateRandom})
	require.NoError(t, err)
	require.Equal(t, entryid.New(walletA, 2), id)
}

func TestEntryCommands(t *testing.T) {
	engine, v := newTestVault(t)

	label := "main"
	require.NoError(t, v.SetEntryLabel(walletA+"-0", &label))
	require.Equal(t, "main", engine.wallets[0].Entries[0].Label)
	require.NoError(t, v.SetEntryLabel(walletA+"-0", nil))
	require.Equal(t, "", engine.wallets[0].Entries[0].Label)

	require.NoError(t, v.SetEntryReceiveDisabled(walletA+"-1", true))
	require.True(t, engine.wallets[0].Entries[1].ReceiveDisabled)

	signed, err := v.SignTx(walletA+"-1", json.RawMessage(`{"to":"0x01"}`), "secret")
	require.NoError(t, err)
	require.Equal(t, "0x01", signed.TxID)

	_, err = v.ExportRawPk(walletA+"-1", "secret")
	require.ErrorIs(t, err, models.ErrUnsupported)

	_, err = v.ExportJSONPk(walletB+"-0", "secret")
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, v.RemoveEntry(walletA+"-0"))
	require.ErrorIs(t, v.RemoveEntry(walletA+"-0"), models.ErrNotFound)
	require.ErrorIs(t, v.RemoveEntry("x"), entryid.ErrInvalidIdentifier)
}

func TestWalletCommands(t *testing.T) {
	_, v := newTestVault(t)

	id, err := v.CreateWallet(models.WalletCreateOptions{Name: "new"})
	require.NoError(t, err)

	w, err := v.Wallet(id)
	require.NoError(t, err)
	require.Equal(t, "new", w.Name)

	require.NoError(t, v.SetWalletLabel(id, "renamed"))
	require.ErrorIs(t, v.SetWalletLabel("missing", "x"), models.ErrNotFound)

	require.NoError(t, v.RemoveWallet(id))
	require.ErrorIs(t, v.RemoveWallet(id), models.ErrNotFound)
	_, err = v.Wallet(id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddressBook(t *testing.T) {
	engine, v := newTestVault(t)

	err := v.AddToAddressBook(models.CreateAddressBookItem{
		Blockchain: models.Ethereum,
		Address:    *models.NewSingleAddress("0x343D1DE24AC7A891575857855C5579F9DE19B427"),
		Name:       "exchange",
	})
	require.NoError(t, err)
	require.Len(t, engine.book, 1)
	require.Equal(t, ethAddr, engine.book[0].Address.Value)

	err = v.AddToAddressBook(models.CreateAddressBookItem{
		Blockchain: models.Bitcoin,
		Address:    *models.NewSingleAddress(ethAddr),
	})
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	require.ErrorIs(t, v.RemoveFromAddressBook(models.Ethereum, ethAddr), models.ErrNotFound)
}

func TestListAddressBookOrder(t *testing.T) {
	engine, v := newTestVault(t)
	engine.book = []models.CreateAddressBookItem{
		{Blockchain: models.Ethereum, Address: *models.NewSingleAddress("0xbb"), Name: "b"},
		{Blockchain: models.Ethereum, Address: *models.NewXPubAddress("xpub1"), Name: "x"},
		{Blockchain: models.Ethereum, Address: *models.NewSingleAddress("0xaa"), Name: "a"},
		{Blockchain: models.Bitcoin, Address: *models.NewXPubAddress("xpub0"), Name: "btc"},
	}

	items, err := v.ListAddressBook(models.Ethereum)
	require.NoError(t, err)
	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	require.Equal(t, []string{"a", "b", "x"}, names)
}

func TestSeeds(t *testing.T) {
	_, v := newTestVault(t)

	ok, err := v.IsSeedAvailable(models.SeedReference{Type: models.SeedRefID, Value: seedID})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = v.IsSeedAvailable(models.SeedReference{Type: models.SeedRefID})
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = v.ListSeedAddresses(
		models.SeedReference{Type: models.SeedRefLedger}, models.BlockchainID(4), []string{"m/44'/60'/0'/0/0"},
	)
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	id, err := v.ImportSeed(models.SeedDefinition{Type: models.SeedRaw, Raw: "00"})
	require.NoError(t, err)
	require.Equal(t, seedID, id)
}
