package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/core-coin/vaultquery/internal/config"
	"github.com/core-coin/vaultquery/internal/http_api"
	"github.com/core-coin/vaultquery/internal/repository"
	"github.com/core-coin/vaultquery/internal/vault"
	"github.com/core-coin/vaultquery/pkg/logger"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vaultquery",
		Usage: "Wallet and entry index of a multi-blockchain vault",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the vault HTTP API over a postgres store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
					&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
					&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
					&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
					&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
					&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "HTTP API port"},
					&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
				},
				Action: serve,
			},
			walletsCommand(),
			entryCommand(),
			findCommand(),
			hdAccountsCommand(),
		},
	}
}

func serve(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer log.Sync()

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.DSN(), log.Named("repository"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	vaultService := vault.NewVault(db, log.Named("vault"))
	apiServer := http_api.NewHTTPServer(vaultService, cfg.APIPort, log.Named("http"))

	go apiServer.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Info("Received signal, shutting down", "signal", sig.String())

	return apiServer.Shutdown()
}
