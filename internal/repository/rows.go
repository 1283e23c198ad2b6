package repository

import (
	"fmt"
	"time"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/entryid"
)

type walletRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description string
	CreatedAt   time.Time `gorm:"index"`
	// NextEntryIndex only grows, so removed entry ids are never handed out again.
	NextEntryIndex uint64
	Entries        []entryRow       `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
	Reservations   []reservationRow `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

func (walletRow) TableName() string { return "wallets" }

type entryRow struct {
	WalletID        string `gorm:"primaryKey"`
	EntryIndex      uint64 `gorm:"primaryKey;autoIncrement:false"`
	Blockchain      uint32 `gorm:"index"`
	KeyType         string
	KeyID           string
	SeedID          string `gorm:"index"`
	HDPath          string
	AddressType     string
	Address         string
	ReceiveDisabled bool
	Label           string
	CreatedAt       time.Time
	Addresses       []models.CurrentAddress `gorm:"serializer:json"`
	XPubs           []models.CurrentXPub    `gorm:"serializer:json"`
}

func (entryRow) TableName() string { return "entries" }

type reservationRow struct {
	ID        uint   `gorm:"primaryKey"`
	WalletID  string `gorm:"uniqueIndex:idx_reservation"`
	SeedID    string `gorm:"uniqueIndex:idx_reservation"`
	AccountID uint32 `gorm:"uniqueIndex:idx_reservation"`
}

func (reservationRow) TableName() string { return "reservations" }

type seedRow struct {
	ID        string `gorm:"primaryKey"`
	Type      string
	Label     string
	CreatedAt time.Time
}

func (seedRow) TableName() string { return "seeds" }

type addressBookRow struct {
	ID          uint   `gorm:"primaryKey"`
	Blockchain  uint32 `gorm:"uniqueIndex:idx_address_book"`
	AddressType string
	Address     string `gorm:"uniqueIndex:idx_address_book"`
	Name        string
	Description string
	CreatedAt   time.Time
}

func (addressBookRow) TableName() string { return "address_book" }

func toWallet(row walletRow) (*models.Wallet, error) {
	w := &models.Wallet{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		Entries:     make([]*models.Entry, 0, len(row.Entries)),
		Reserved:    make([]models.HDPathAccount, 0, len(row.Reservations)),
	}
	for _, er := range row.Entries {
		e, err := toEntry(er)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", row.ID, err)
		}
		w.Entries = append(w.Entries, e)
	}
	for _, r := range row.Reservations {
		w.Reserved = append(w.Reserved, models.HDPathAccount{SeedID: r.SeedID, AccountID: r.AccountID})
	}
	return w, nil
}

func toEntry(row entryRow) (*models.Entry, error) {
	var key models.KeyRef
	switch models.KeyType(row.KeyType) {
	case models.KeyTypePK:
		key = models.PKRef{KeyID: row.KeyID}
	case models.KeyTypeHDPath:
		key = models.SeedKeyRef{SeedID: row.SeedID, HDPath: row.HDPath}
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown key type %q", models.ErrInvalidPayload, row.KeyType)
	}

	var address *models.AddressRef
	if row.AddressType != "" {
		address = &models.AddressRef{Type: models.AddressType(row.AddressType), Value: row.Address}
	}

	e, err := models.NewEntry(
		entryid.New(row.WalletID, row.EntryIndex), models.BlockchainID(row.Blockchain), key, address,
	)
	if err != nil {
		return nil, err
	}
	e.ReceiveDisabled = row.ReceiveDisabled
	e.Label = row.Label
	e.CreatedAt = row.CreatedAt
	if e.IsBitcoin() {
		e.Addresses = row.Addresses
		e.XPubs = row.XPubs
		if e.Addresses == nil {
			e.Addresses = []models.CurrentAddress{}
		}
		if e.XPubs == nil {
			e.XPubs = []models.CurrentXPub{}
		}
	}
	return e, nil
}

// seedEntryRow builds the row of a watch-only entry on a seed path. The
// address is the one observed on the path, typed after the family of the
// chain.
func seedEntryRow(
	walletID string, index uint64, blockchain models.BlockchainID, seedID, hdPath, address string,
) (entryRow, error) {
	row := entryRow{
		WalletID:   walletID,
		EntryIndex: index,
		Blockchain: uint32(blockchain),
		KeyType:    string(models.KeyTypeHDPath),
		SeedID:     seedID,
		HDPath:     hdPath,
		Address:    address,
	}
	switch models.FamilyOf(blockchain) {
	case models.FamilyEthereum:
		row.AddressType = string(models.AddressSingle)
	case models.FamilyBitcoin:
		row.AddressType = string(models.AddressXPub)
		row.Addresses = []models.CurrentAddress{}
		row.XPubs = []models.CurrentXPub{{XPub: address, Role: models.RoleReceive}}
	default:
		return entryRow{}, fmt.Errorf("%w: unsupported blockchain %d", models.ErrInvalidPayload, blockchain)
	}
	return row, nil
}

func toSeedDescription(row seedRow) *models.SeedDescription {
	return &models.SeedDescription{
		ID:   row.ID,
		Type: models.SeedType(row.Type),
		// only references are stored, a Ledger must be connected to be used
		Available: models.SeedType(row.Type) != models.SeedLedger,
		Label:     row.Label,
		CreatedAt: row.CreatedAt,
	}
}

func toAddressBookItem(row addressBookRow) *models.AddressBookItem {
	return &models.AddressBookItem{
		Address:     models.AddressRef{Type: models.AddressType(row.AddressType), Value: row.Address},
		Name:        row.Name,
		Description: row.Description,
		Blockchain:  models.BlockchainID(row.Blockchain),
		CreatedAt:   row.CreatedAt,
	}
}

func fromAddressBookItem(item models.CreateAddressBookItem) addressBookRow {
	return addressBookRow{
		Blockchain:  uint32(item.Blockchain),
		AddressType: string(item.Address.Type),
		Address:     item.Address.Value,
		Name:        item.Name,
		Description: item.Description,
	}
}
