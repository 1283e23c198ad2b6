package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Wallet groups entries under a user facing name. A wallet owns its entries;
// their order is the display order and carries no identity.
type Wallet struct {
	// ID is the uuid of the wallet.
	ID string `json:"id"`
	// Name is the optional label of the wallet.
	Name string `json:"name,omitempty"`
	// Description is an optional free text.
	Description string `json:"description,omitempty"`
	// Entries are the keys held by the wallet. Never nil once decoded.
	Entries []*Entry `json:"entries"`
	// Reserved lists the seed accounts claimed by the wallet, whether or not
	// an entry currently uses them.
	Reserved []HDPathAccount `json:"reserved"`
	// CreatedAt is the creation timestamp assigned by the engine.
	CreatedAt time.Time `json:"createdAt"`
}

// WalletCreateOptions are the options accepted when creating a wallet.
type WalletCreateOptions struct {
	Name     string          `json:"name,omitempty"`
	Reserved []HDPathAccount `json:"reserved,omitempty"`
}

// UnmarshalJSON decodes a wallet and fills the optional lists with empty
// ones, so that the rest of the code never checks for their absence. Every
// entry id must name the wallet it is decoded in.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	type alias Wallet
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("wallet: %w", wrapPayloadErr(err))
	}
	if v.Entries == nil {
		v.Entries = []*Entry{}
	}
	if v.Reserved == nil {
		v.Reserved = []HDPathAccount{}
	}
	for i, e := range v.Entries {
		if e == nil {
			return fmt.Errorf("%w: wallet %s: null entry at position %d", ErrInvalidPayload, v.ID, i)
		}
		owner, err := e.ID.WalletID()
		if err != nil {
			return fmt.Errorf("wallet %s: %w", v.ID, wrapPayloadErr(err))
		}
		if owner != v.ID {
			return fmt.Errorf("%w: wallet %s: entry %s belongs to wallet %s", ErrInvalidPayload, v.ID, e.ID, owner)
		}
	}
	*w = Wallet(v)
	return nil
}

// DecodeWallets decodes the list of wallets returned by the engine.
func DecodeWallets(data []byte) ([]*Wallet, error) {
	var wallets []*Wallet
	if err := json.Unmarshal(data, &wallets); err != nil {
		return nil, wrapPayloadErr(err)
	}
	if wallets == nil {
		wallets = []*Wallet{}
	}
	for i, w := range wallets {
		if w == nil {
			return nil, fmt.Errorf("%w: null wallet at position %d", ErrInvalidPayload, i)
		}
	}
	return wallets, nil
}

func wrapPayloadErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidPayload) {
		return err
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, err)
}
