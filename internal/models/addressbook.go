package models

import "time"

// AddressBookItem is a known counterparty address for a chain.
type AddressBookItem struct {
	Address     AddressRef   `json:"address"`
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Blockchain  BlockchainID `json:"blockchain"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// CreateAddressBookItem is the payload adding an address to the book.
type CreateAddressBookItem struct {
	Address     AddressRef   `json:"address"`
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Blockchain  BlockchainID `json:"blockchain"`
}
