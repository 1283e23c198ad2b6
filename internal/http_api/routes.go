package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	api := s.router.Group("/api/v1")

	api.GET("/wallets", s.listWallets)
	api.POST("/wallets", s.createWallet)
	api.GET("/wallets/:id", s.getWallet)
	api.DELETE("/wallets/:id", s.removeWallet)
	api.PUT("/wallets/:id/label", s.setWalletLabel)
	api.GET("/wallets/:id/hd-accounts", s.walletHDAccounts)
	api.POST("/wallets/:id/entries", s.addEntry)
	api.POST("/wallets/:id/seed-entries", s.addSeedEntry)

	api.GET("/entries/:entryId", s.getEntry)
	api.GET("/entries/:entryId/wallet", s.getEntryWallet)
	api.DELETE("/entries/:entryId", s.removeEntry)
	api.PUT("/entries/:entryId/label", s.setEntryLabel)
	api.PUT("/entries/:entryId/receive-disabled", s.setEntryReceiveDisabled)
	api.POST("/entries/:entryId/sign", s.signTx)
	api.POST("/entries/:entryId/export/raw", s.exportRawPk)
	api.POST("/entries/:entryId/export/json", s.exportJSONPk)

	api.GET("/search", s.search)
	api.GET("/hd-accounts", s.hdAccounts)
	api.GET("/blockchains/:blockchain/entries", s.blockchainEntries)
	api.GET("/blockchains/:blockchain/wallets", s.blockchainWallets)

	api.GET("/seeds", s.listSeeds)
	api.GET("/seeds/next-account/:seedId", s.nextAccount)
	api.POST("/seeds", s.importSeed)
	api.POST("/seeds/ledger", s.importLedgerSeed)
	api.POST("/seeds/available", s.isSeedAvailable)
	api.POST("/seeds/ledger/addresses", s.ledgerSeedAddresses)
	api.POST("/seeds/:seedId/addresses", s.seedAddresses)

	api.GET("/addressbook/:blockchain", s.listAddressBook)
	api.POST("/addressbook/:blockchain", s.addToAddressBook)
	api.DELETE("/addressbook/:blockchain", s.removeFromAddressBook)
}
