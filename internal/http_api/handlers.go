package http_api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/core-coin/vaultquery/internal/models"
	"github.com/core-coin/vaultquery/pkg/entryid"
)

// CreateWalletRequest represents the JSON body for wallet creation
type CreateWalletRequest struct {
	Name     string                 `json:"name"`
	Reserved []models.HDPathAccount `json:"reserved"`
}

// LabelRequest represents the JSON body updating a wallet or entry label.
// A null entry label removes it.
type LabelRequest struct {
	Label *string `json:"label"`
}

// ReceiveDisabledRequest represents the JSON body toggling receiving on an
// entry
type ReceiveDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SeedEntryRequest represents the JSON body adding an entry on the next free
// account of a seed
type SeedEntryRequest struct {
	Seed       models.SeedReference `json:"seed"`
	Blockchain models.BlockchainID  `json:"blockchain" binding:"required"`
	Address    string               `json:"address"`
}

// SignTxRequest represents the JSON body of a signing request
type SignTxRequest struct {
	Tx       json.RawMessage `json:"tx" binding:"required"`
	Password string          `json:"password"`
}

// ExportRequest represents the JSON body of a private key export
type ExportRequest struct {
	Password string `json:"password"`
}

// SeedAddressesRequest represents the JSON body listing the addresses of a
// seed on a set of paths
type SeedAddressesRequest struct {
	Blockchain models.BlockchainID `json:"blockchain" binding:"required"`
	HDPaths    []string            `json:"hdPaths" binding:"required,min=1"`
	Password   string              `json:"password"`
}

// SearchResponse is returned by the address search
type SearchResponse struct {
	Wallet *models.Wallet `json:"wallet"`
	Entry  *models.Entry  `json:"entry"`
}

// NextAccountResponse is the next free account of a seed
type NextAccountResponse struct {
	SeedID    string `json:"seedId"`
	AccountID uint32 `json:"accountId"`
}

// fail writes err with the status matching its kind.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, entryid.ErrInvalidIdentifier), errors.Is(err, models.ErrInvalidPayload):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUnsupported):
		status = http.StatusNotImplemented
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	} else {
		message = err.Error()
		s.logger.Debug("Request rejected", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func (s *HTTPServer) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

func blockchainParam(value string) (models.BlockchainID, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return models.BlockchainID(id), nil
}

func (s *HTTPServer) listWallets(c *gin.Context) {
	wallets, err := s.vault.Snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wallets)
}

func (s *HTTPServer) createWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	id, err := s.vault.CreateWallet(models.WalletCreateOptions{Name: req.Name, Reserved: req.Reserved})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
	})
}

func (s *HTTPServer) getWallet(c *gin.Context) {
	w, err := s.vault.Wallet(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *HTTPServer) removeWallet(c *gin.Context) {
	if err := s.vault.RemoveWallet(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) setWalletLabel(c *gin.Context) {
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	label := ""
	if req.Label != nil {
		label = *req.Label
	}
	if err := s.vault.SetWalletLabel(c.Param("id"), label); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) walletHDAccounts(c *gin.Context) {
	accounts, err := s.vault.HDAccounts(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *HTTPServer) hdAccounts(c *gin.Context) {
	accounts, err := s.vault.HDAccounts("")
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *HTTPServer) addEntry(c *gin.Context) {
	var req models.AddEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	id, err := s.vault.AddEntry(c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
	})
}

func (s *HTTPServer) addSeedEntry(c *gin.Context) {
	var req SeedEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	id, err := s.vault.AddSeedEntry(c.Param("id"), req.Seed, req.Blockchain, req.Address)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
	})
}

func (s *HTTPServer) getEntry(c *gin.Context) {
	e, err := s.vault.Entry(c.Param("entryId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *HTTPServer) getEntryWallet(c *gin.Context) {
	w, err := s.vault.WalletByEntry(c.Param("entryId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *HTTPServer) removeEntry(c *gin.Context) {
	if err := s.vault.RemoveEntry(c.Param("entryId")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) setEntryLabel(c *gin.Context) {
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := s.vault.SetEntryLabel(c.Param("entryId"), req.Label); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) setEntryReceiveDisabled(c *gin.Context) {
	var req ReceiveDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := s.vault.SetEntryReceiveDisabled(c.Param("entryId"), *req.Disabled); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// search is a handler for the /search endpoint.
// It returns the first wallet, and its entry, located at the given address.
func (s *HTTPServer) search(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		s.badRequest(c, "address is required")
		return
	}

	var blockchain *models.BlockchainID
	if value := c.Query("blockchain"); value != "" {
		id, err := blockchainParam(value)
		if err != nil {
			s.badRequest(c, "invalid blockchain: "+value)
			return
		}
		blockchain = &id
	}

	w, e, err := s.vault.FindByAddress(address, blockchain)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Wallet: w, Entry: e})
}

func (s *HTTPServer) blockchainEntries(c *gin.Context) {
	blockchain, err := blockchainParam(c.Param("blockchain"))
	if err != nil {
		s.badRequest(c, "invalid blockchain: "+c.Param("blockchain"))
		return
	}
	entries, err := s.vault.EntriesOnBlockchain(blockchain)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *HTTPServer) blockchainWallets(c *gin.Context) {
	blockchain, err := blockchainParam(c.Param("blockchain"))
	if err != nil {
		s.badRequest(c, "invalid blockchain: "+c.Param("blockchain"))
		return
	}
	wallets, err := s.vault.WalletsOnBlockchain(blockchain)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wallets)
}

func (s *HTTPServer) listSeeds(c *gin.Context) {
	seeds, err := s.vault.ListSeeds()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, seeds)
}

func (s *HTTPServer) nextAccount(c *gin.Context) {
	seedID := c.Param("seedId")
	account, err := s.vault.NextAccountID(seedID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NextAccountResponse{SeedID: seedID, AccountID: account})
}

func (s *HTTPServer) listAddressBook(c *gin.Context) {
	blockchain, err := blockchainParam(c.Param("blockchain"))
	if err != nil {
		s.badRequest(c, "invalid blockchain: "+c.Param("blockchain"))
		return
	}
	items, err := s.vault.ListAddressBook(blockchain)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) addToAddressBook(c *gin.Context) {
	blockchain, err := blockchainParam(c.Param("blockchain"))
	if err != nil {
		s.badRequest(c, "invalid blockchain: "+c.Param("blockchain"))
		return
	}
	var req models.CreateAddressBookItem
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.Blockchain = blockchain

	if err := s.vault.AddToAddressBook(req); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (s *HTTPServer) removeFromAddressBook(c *gin.Context) {
	blockchain, err := blockchainParam(c.Param("blockchain"))
	if err != nil {
		s.badRequest(c, "invalid blockchain: "+c.Param("blockchain"))
		return
	}
	address := c.Query("address")
	if address == "" {
		s.badRequest(c, "address is required")
		return
	}
	if err := s.vault.RemoveFromAddressBook(blockchain, address); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) signTx(c *gin.Context) {
	var req SignTxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	signed, err := s.vault.SignTx(c.Param("entryId"), req.Tx, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, signed)
}

func (s *HTTPServer) exportRawPk(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	pk, err := s.vault.ExportRawPk(c.Param("entryId"), req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pk": pk})
}

func (s *HTTPServer) exportJSONPk(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	exported, err := s.vault.ExportJSONPk(c.Param("entryId"), req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, exported)
}

func (s *HTTPServer) importSeed(c *gin.Context) {
	var req models.SeedDefinition
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	id, err := s.vault.ImportSeed(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
	})
}

func (s *HTTPServer) importLedgerSeed(c *gin.Context) {
	id, err := s.vault.ImportLedgerSeed()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
	})
}

func (s *HTTPServer) isSeedAvailable(c *gin.Context) {
	var req models.SeedReference
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	available, err := s.vault.IsSeedAvailable(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (s *HTTPServer) seedAddresses(c *gin.Context) {
	s.listSeedAddresses(c, models.SeedReference{Type: models.SeedRefID, Value: c.Param("seedId")})
}

func (s *HTTPServer) ledgerSeedAddresses(c *gin.Context) {
	s.listSeedAddresses(c, models.SeedReference{Type: models.SeedRefLedger})
}

// listSeedAddresses answers with a map of hd path to address.
func (s *HTTPServer) listSeedAddresses(c *gin.Context, seed models.SeedReference) {
	var req SeedAddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	seed.Password = req.Password
	addresses, err := s.vault.ListSeedAddresses(seed, req.Blockchain, req.HDPaths)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}
