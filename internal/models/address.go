package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/core-coin/vaultquery/pkg/validation"
)

// AddressType tells how the value of an AddressRef must be read.
type AddressType string

const (
	// AddressSingle is a plain account address (Ethereum family).
	AddressSingle AddressType = "single"
	// AddressXPub is an extended public key covering a whole account
	// (Bitcoin family).
	AddressXPub AddressType = "xpub"
)

// AddressRef is the address an entry or an address book item points to.
type AddressRef struct {
	Type  AddressType `json:"type"`
	Value string      `json:"value"`
}

// NewSingleAddress returns a single address reference.
func NewSingleAddress(value string) *AddressRef {
	return &AddressRef{Type: AddressSingle, Value: value}
}

// NewXPubAddress returns an xpub address reference.
func NewXPubAddress(value string) *AddressRef {
	return &AddressRef{Type: AddressXPub, Value: value}
}

// IsSame reports whether address designates this reference. Single
// addresses are hex encoded, hence compared ignoring case; xpubs are base58
// and must match exactly.
func (a AddressRef) IsSame(address string) bool {
	if a.Type == AddressSingle {
		return strings.EqualFold(a.Value, address)
	}
	return a.Value == address
}

// Compare orders single addresses before xpubs, then by value.
func (a AddressRef) Compare(other AddressRef) int {
	if a.Type != other.Type {
		if a.Type == AddressSingle {
			return -1
		}
		if other.Type == AddressSingle {
			return 1
		}
		return strings.Compare(string(a.Type), string(other.Type))
	}
	return strings.Compare(a.Value, other.Value)
}

func (a AddressRef) String() string {
	return fmt.Sprintf("%s:%s", a.Type, a.Value)
}

func (a *AddressRef) UnmarshalJSON(data []byte) error {
	type alias AddressRef
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: address: %s", ErrInvalidPayload, err)
	}
	switch v.Type {
	case AddressSingle, AddressXPub:
	default:
		return fmt.Errorf("%w: unknown address type %q", ErrInvalidPayload, v.Type)
	}
	*a = AddressRef(v)
	return nil
}

// Validate checks the reference has the address type used by the family of
// blockchain and a well formed value.
func (a AddressRef) Validate(blockchain BlockchainID) error {
	switch FamilyOf(blockchain) {
	case FamilyEthereum:
		if a.Type != AddressSingle {
			return fmt.Errorf("%s requires a single address, got %s", blockchain, a.Type)
		}
		return validation.ValidateAddress(a.Value)
	case FamilyBitcoin:
		if a.Type != AddressXPub {
			return fmt.Errorf("%s requires an xpub, got %s", blockchain, a.Type)
		}
		return validation.ValidateXPub(a.Value)
	default:
		return fmt.Errorf("unsupported blockchain %s", blockchain)
	}
}

// Normalized returns the reference with single addresses lowercased. Xpubs
// are case sensitive and returned untouched.
func (a AddressRef) Normalized() AddressRef {
	if a.Type == AddressSingle {
		a.Value = validation.NormalizeAddress(a.Value)
	}
	return a
}

// ValidateAndNormalizeAddressRef validates ref for blockchain and returns its
// normalized form.
func ValidateAndNormalizeAddressRef(blockchain BlockchainID, ref AddressRef) (AddressRef, error) {
	if err := ref.Validate(blockchain); err != nil {
		return AddressRef{}, err
	}
	return ref.Normalized(), nil
}
