package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/core-coin/vaultquery/internal/config"
	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/internal/query"
	"github.com/core-coin/vaultquery/pkg/entryid"
)

func snapshotFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "snapshot",
		Aliases: []string{"s"},
		Usage:   "JSON wallet list exported by the vault, defaults to SNAPSHOT_FILE",
	}
}

func walletsCommand() *cli.Command {
	return &cli.Command{
		Name:  "wallets",
		Usage: "List the wallets of a snapshot",
		Flags: []cli.Flag{snapshotFlag()},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			return printJSON(c, snapshot.Values())
		},
	}
}

func entryCommand() *cli.Command {
	return &cli.Command{
		Name:      "entry",
		Usage:     "Print an entry and the wallet holding it",
		ArgsUsage: "ENTRY_ID",
		Flags:     []cli.Flag{snapshotFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one entry id, got %d arguments", c.NArg())
			}
			id, err := entryid.Parse(c.Args().First())
			if err != nil {
				return err
			}
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			w, ok, err := snapshot.ByEntryID(id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
			}
			e, _ := w.Entry(id)
			return printJSON(c, map[string]interface{}{
				"walletId": w.ID(),
				"entry":    e,
			})
		},
	}
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Find the entry located at an address",
		Flags: []cli.Flag{
			snapshotFlag(),
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Address or xpub", Required: true},
			&cli.UintFlag{Name: "blockchain", Aliases: []string{"b"}, Usage: "Restrict the search to a blockchain id"},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			var blockchain *models.BlockchainID
			if c.IsSet("blockchain") {
				id := models.BlockchainID(c.Uint("blockchain"))
				blockchain = &id
			}
			address := c.String("address")
			w, ok := snapshot.FindByAddress(address, blockchain)
			if !ok {
				return fmt.Errorf("address %s: %w", address, models.ErrNotFound)
			}
			e, _ := w.FindByAddress(address, blockchain)
			return printJSON(c, map[string]interface{}{
				"walletId": w.ID(),
				"entry":    e,
			})
		},
	}
}

func hdAccountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "hd-accounts",
		Usage: "Print the seed accounts in use, and the next free one of each seed",
		Flags: []cli.Flag{
			snapshotFlag(),
			&cli.StringFlag{Name: "wallet", Aliases: []string{"w"}, Usage: "Restrict to a wallet id"},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			accounts := snapshot.HDAccounts()
			if c.IsSet("wallet") {
				w, err := snapshot.ByID(c.String("wallet"))
				if err != nil {
					return err
				}
				accounts = w.HDAccounts()
			}

			next := make(map[string]uint32, len(accounts))
			for _, seedID := range accounts.Seeds() {
				if account, ok := snapshot.NextAccountID(seedID); ok {
					next[seedID] = account
				}
			}
			return printJSON(c, map[string]interface{}{
				"accounts": accounts,
				"next":     next,
			})
		},
	}
}

// loadSnapshot reads the snapshot named by --snapshot, or SNAPSHOT_FILE.
func loadSnapshot(c *cli.Context) (*query.Wallets, error) {
	path := c.String("snapshot")
	if !c.IsSet("snapshot") {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %v", err)
		}
		path = cfg.SnapshotFile
	}
	if path == "" {
		return nil, fmt.Errorf("no snapshot given, use --snapshot or SNAPSHOT_FILE")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	wallets, err := models.DecodeWallets(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return query.NewWallets(wallets), nil
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
