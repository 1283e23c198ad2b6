package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/entryid"
	"github.com/core-coin/vaultquery/pkg/logger"
)

// PostgresDB is a watch-only engine: it stores wallets, entries and the
// public data attached to them, but no secret. Operations needing a private
// key fail with models.ErrUnsupported.
type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(dsn string, logger *logger.Logger) (*PostgresDB, error) {
	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard logger
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
			LogLevel:                  gormLogger.Warn,        // Only log warnings or errors
			IgnoreRecordNotFoundError: true,                   // Suppress "record not found" errors
			Colorful:                  true,                   // Enable colorful logs
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.AutoMigrate(
		&walletRow{}, &entryRow{}, &reservationRow{}, &seedRow{}, &addressBookRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) ListWallets() ([]*models.Wallet, error) {
	var rows []walletRow
	err := db.Conn.
		Preload("Entries", func(tx *gorm.DB) *gorm.DB { return tx.Order("entry_index") }).
		Preload("Reservations", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	wallets := make([]*models.Wallet, 0, len(rows))
	for _, row := range rows {
		w, err := toWallet(row)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

func (db *PostgresDB) AddWallet(opts models.WalletCreateOptions) (string, error) {
	row := walletRow{
		ID:   uuid.New().String(),
		Name: opts.Name,
	}
	for _, r := range opts.Reserved {
		row.Reservations = append(row.Reservations, reservationRow{SeedID: r.SeedID, AccountID: r.AccountID})
	}
	if err := db.Conn.Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to create new wallet: %w", err)
	}
	return row.ID, nil
}

func (db *PostgresDB) SetWalletLabel(walletID, label string) (bool, error) {
	res := db.Conn.Model(&walletRow{}).Where("id = ?", walletID).Update("name", label)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update wallet label: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (db *PostgresDB) RemoveWallet(walletID string) (bool, error) {
	var removed bool
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet_id = ?", walletID).Delete(&entryRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wallet_id = ?", walletID).Delete(&reservationRow{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", walletID).Delete(&walletRow{})
		removed = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove wallet: %w", err)
	}
	return removed, nil
}

// AddEntry registers an entry observed on a seed path. The account of a
// BIP-44 shaped path is reserved for the wallet along.
func (db *PostgresDB) AddEntry(walletID string, entry models.AddEntry) (entryid.ID, error) {
	if entry.Type != models.AddHDPath || entry.Seed == nil {
		return "", fmt.Errorf("%w: watch-only store accepts hd-path entries only", models.ErrUnsupported)
	}
	if entry.Seed.Address == "" {
		return "", fmt.Errorf("%w: watch-only entries require an address", models.ErrUnsupported)
	}
	addressType := models.AddressSingle
	if models.FamilyOf(entry.Blockchain) == models.FamilyBitcoin {
		addressType = models.AddressXPub
	}
	address := models.AddressRef{Type: addressType, Value: entry.Seed.Address}
	address, err := models.ValidateAndNormalizeAddressRef(entry.Blockchain, address)
	if err != nil {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidPayload, err)
	}

	seedID, err := db.resolveSeedID(entry.Seed.Seed)
	if err != nil {
		return "", err
	}

	var id entryid.ID
	err = db.Conn.Transaction(func(tx *gorm.DB) error {
		var wallet walletRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", walletID).First(&wallet).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("wallet %s: %w", walletID, models.ErrNotFound)
			}
			return err
		}

		next := wallet.NextEntryIndex
		if err := tx.Model(&walletRow{}).
			Where("id = ?", walletID).
			Update("next_entry_index", next+1).Error; err != nil {
			return err
		}

		row, err := seedEntryRow(walletID, next, entry.Blockchain, seedID, entry.Seed.HDPath, address.Value)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if account, ok := models.AccountIDFromPath(entry.Seed.HDPath); ok {
			var count int64
			if err := tx.Model(&reservationRow{}).
				Where("wallet_id = ? AND seed_id = ? AND account_id = ?", walletID, seedID, account).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				reservation := reservationRow{WalletID: walletID, SeedID: seedID, AccountID: account}
				if err := tx.Create(&reservation).Error; err != nil {
					return err
				}
			}
		}
		id = entryid.New(walletID, next)
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidPayload) {
			return "", err
		}
		return "", fmt.Errorf("failed to add entry: %w", err)
	}
	db.logger.Debug("Entry stored", "entry", id, "path", entry.Seed.HDPath)
	return id, nil
}

func (db *PostgresDB) resolveSeedID(ref models.SeedReference) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	if ref.Type == models.SeedRefID {
		return ref.Value, nil
	}
	var seed seedRow
	err := db.Conn.Where("type = ?", string(models.SeedLedger)).Order("created_at").First(&seed).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("ledger seed: %w", models.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get ledger seed: %w", err)
	}
	return seed.ID, nil
}

func (db *PostgresDB) updateEntry(id entryid.ID, column string, value interface{}) (bool, error) {
	walletID, err := id.WalletID()
	if err != nil {
		return false, err
	}
	index, err := id.Index()
	if err != nil {
		return false, err
	}
	res := db.Conn.Model(&entryRow{}).
		Where("wallet_id = ? AND entry_index = ?", walletID, index).
		Update(column, value)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update entry %s: %w", column, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (db *PostgresDB) RemoveEntry(id entryid.ID) (bool, error) {
	walletID, err := id.WalletID()
	if err != nil {
		return false, err
	}
	index, err := id.Index()
	if err != nil {
		return false, err
	}
	res := db.Conn.Where("wallet_id = ? AND entry_index = ?", walletID, index).Delete(&entryRow{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (db *PostgresDB) SetEntryLabel(id entryid.ID, label *string) (bool, error) {
	value := ""
	if label != nil {
		value = *label
	}
	return db.updateEntry(id, "label", value)
}

func (db *PostgresDB) SetEntryReceiveDisabled(id entryid.ID, disabled bool) (bool, error) {
	return db.updateEntry(id, "receive_disabled", disabled)
}

func (db *PostgresDB) SignTx(entryid.ID, json.RawMessage, string) (*models.SignedTx, error) {
	return nil, fmt.Errorf("%w: signing requires a private key", models.ErrUnsupported)
}

func (db *PostgresDB) ExportRawPk(entryid.ID, string) (string, error) {
	return "", fmt.Errorf("%w: no private key stored", models.ErrUnsupported)
}

func (db *PostgresDB) ExportJSONPk(entryid.ID, string) (*models.ExportedWeb3JSON, error) {
	return nil, fmt.Errorf("%w: no private key stored", models.ErrUnsupported)
}

func (db *PostgresDB) ListSeeds() ([]*models.SeedDescription, error) {
	var rows []seedRow
	if err := db.Conn.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	seeds := make([]*models.SeedDescription, 0, len(rows))
	for _, row := range rows {
		seeds = append(seeds, toSeedDescription(row))
	}
	return seeds, nil
}

func (db *PostgresDB) ImportSeed(seed models.SeedDefinition) (string, error) {
	return "", fmt.Errorf("%w: cannot store %s seed material", models.ErrUnsupported, seed.Type)
}

// ImportLedgerSeed registers a Ledger device as a seed.
func (db *PostgresDB) ImportLedgerSeed() (string, error) {
	row := seedRow{ID: uuid.New().String(), Type: string(models.SeedLedger), Label: "Ledger"}
	if err := db.Conn.Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to import ledger seed: %w", err)
	}
	return row.ID, nil
}

func (db *PostgresDB) IsSeedAvailable(seed models.SeedReference) (bool, error) {
	if seed.Type == models.SeedRefLedger {
		return false, nil
	}
	var count int64
	if err := db.Conn.Model(&seedRow{}).Where("id = ?", seed.Value).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check seed: %w", err)
	}
	return count > 0, nil
}

func (db *PostgresDB) ListSeedAddresses(
	models.SeedReference, models.BlockchainID, []string,
) (map[string]string, error) {
	return nil, fmt.Errorf("%w: deriving addresses requires the seed", models.ErrUnsupported)
}

func (db *PostgresDB) ListAddressBook(blockchain models.BlockchainID) ([]*models.AddressBookItem, error) {
	var rows []addressBookRow
	if err := db.Conn.Where("blockchain = ?", uint32(blockchain)).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list address book: %w", err)
	}
	items := make([]*models.AddressBookItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toAddressBookItem(row))
	}
	return items, nil
}

// AddToAddressBook stores item unless its address is already known for the
// chain, in which case it returns false.
func (db *PostgresDB) AddToAddressBook(item models.CreateAddressBookItem) (bool, error) {
	row := fromAddressBookItem(item)
	var count int64
	if err := db.Conn.Model(&addressBookRow{}).
		Where("blockchain = ? AND address = ?", row.Blockchain, row.Address).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check address book: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := db.Conn.Create(&row).Error; err != nil {
		return false, fmt.Errorf("failed to add address book item: %w", err)
	}
	return true, nil
}

func (db *PostgresDB) RemoveFromAddressBook(blockchain models.BlockchainID, address string) (bool, error) {
	res := db.Conn.
		Where("blockchain = ? AND (address = ? OR (address_type = ? AND address = ?))",
			uint32(blockchain), address, string(models.AddressSingle), strings.ToLower(address)).
		Delete(&addressBookRow{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove address book item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
