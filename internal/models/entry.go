package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/core-coin/vaultquery/pkg/entryid"
)

// AddressRole tells whether an address of a Bitcoin entry is used to receive
// funds or as change.
type AddressRole string

const (
	RoleReceive AddressRole = "receive"
	RoleChange  AddressRole = "change"
)

// CurrentAddress is an address currently offered by a Bitcoin entry.
type CurrentAddress struct {
	Address string      `json:"address"`
	HDPath  string      `json:"hdPath"`
	Role    AddressRole `json:"role"`
}

// CurrentXPub is an xpub currently used by a Bitcoin entry to track balances.
type CurrentXPub struct {
	XPub string      `json:"xpub"`
	Role AddressRole `json:"role"`
}

// Entry is a key-bearing record of a wallet, bound to exactly one chain.
//
// The family of an entry is resolved once, when the entry is built with
// NewEntry or decoded from JSON, and drives which address type it accepts:
// Ethereum entries hold a single address, Bitcoin entries an xpub. An
// Ethereum entry may have no address at all, e.g. when it was created on a
// hardware wallet that was not connected.
type Entry struct {
	ID              entryid.ID
	Blockchain      BlockchainID
	Key             KeyRef
	Address         *AddressRef
	ReceiveDisabled bool
	Label           string
	CreatedAt       time.Time

	// Bitcoin only.
	Addresses []CurrentAddress
	XPubs     []CurrentXPub

	family Family
}

// NewEntry builds an entry and resolves its family.
func NewEntry(
	id entryid.ID, blockchain BlockchainID, key KeyRef, address *AddressRef,
) (*Entry, error) {
	e := &Entry{
		ID:         id,
		Blockchain: blockchain,
		Key:        key,
		Address:    address,
	}
	if err := e.resolve(); err != nil {
		return nil, err
	}
	return e, nil
}

// Family returns the family resolved for the entry.
func (e *Entry) Family() Family {
	return e.family
}

// IsEthereum reports whether the entry belongs to the Ethereum family.
func (e *Entry) IsEthereum() bool {
	return e.family == FamilyEthereum
}

// IsBitcoin reports whether the entry belongs to the Bitcoin family.
func (e *Entry) IsBitcoin() bool {
	return e.family == FamilyBitcoin
}

// SeedKey returns the seed reference of the entry, if it is seed based.
func (e *Entry) SeedKey() (SeedKeyRef, bool) {
	return AsSeedKeyRef(e.Key)
}

// MatchesAddress reports whether the entry is located at address, on
// blockchain if one is given.
func (e *Entry) MatchesAddress(address string, blockchain *BlockchainID) bool {
	if blockchain != nil && e.Blockchain != *blockchain {
		return false
	}
	if e.Address == nil {
		return false
	}
	return e.Address.IsSame(address)
}

func (e *Entry) resolve() error {
	e.family = FamilyOf(e.Blockchain)
	if e.Address == nil {
		return nil
	}
	switch e.family {
	case FamilyEthereum:
		if e.Address.Type != AddressSingle {
			return fmt.Errorf(
				"%w: entry %s: %s address on %s", ErrInvalidPayload, e.ID, e.Address.Type, e.Blockchain,
			)
		}
	case FamilyBitcoin:
		if e.Address.Type != AddressXPub {
			return fmt.Errorf(
				"%w: entry %s: %s address on %s", ErrInvalidPayload, e.ID, e.Address.Type, e.Blockchain,
			)
		}
	}
	return nil
}

type entryJSON struct {
	ID              entryid.ID       `json:"id"`
	Blockchain      BlockchainID     `json:"blockchain"`
	Address         *AddressRef      `json:"address"`
	ReceiveDisabled bool             `json:"receiveDisabled"`
	Label           *string          `json:"label,omitempty"`
	Key             json.RawMessage  `json:"key,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	Addresses       []CurrentAddress `json:"addresses,omitempty"`
	XPubs           []CurrentXPub    `json:"xpub,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	key, err := marshalKeyRef(e.Key)
	if err != nil {
		return nil, err
	}
	v := entryJSON{
		ID:              e.ID,
		Blockchain:      e.Blockchain,
		Address:         e.Address,
		ReceiveDisabled: e.ReceiveDisabled,
		Key:             key,
		CreatedAt:       e.CreatedAt,
	}
	if e.Label != "" {
		v.Label = &e.Label
	}
	if e.family == FamilyBitcoin {
		v.Addresses = emptyIfNil(e.Addresses)
		v.XPubs = emptyIfNil(e.XPubs)
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes an entry. The id must be a well formed entry id and
// the key reference is mandatory.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var v entryJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: entry: %s", ErrInvalidPayload, err)
	}
	if _, err := entryid.Parse(string(v.ID)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	key, err := unmarshalKeyRef(v.Key)
	if err != nil {
		return fmt.Errorf("entry %s: %w", v.ID, err)
	}
	if key == nil {
		return fmt.Errorf("%w: entry %s: missing key", ErrInvalidPayload, v.ID)
	}

	entry := Entry{
		ID:              v.ID,
		Blockchain:      v.Blockchain,
		Key:             key,
		Address:         v.Address,
		ReceiveDisabled: v.ReceiveDisabled,
		CreatedAt:       v.CreatedAt,
	}
	if v.Label != nil {
		entry.Label = *v.Label
	}
	if err := entry.resolve(); err != nil {
		return err
	}
	if entry.family == FamilyBitcoin {
		entry.Addresses = emptyIfNil(v.Addresses)
		entry.XPubs = emptyIfNil(v.XPubs)
	}
	*e = entry
	return nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
