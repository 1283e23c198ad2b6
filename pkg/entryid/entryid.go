// Package entryid encodes and decodes the composite identifier of a wallet
// entry: the id of the owning wallet followed by the entry index inside the
// wallet, i.e. `{wallet-uuid}-{index}`.
package entryid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Separator is placed between the wallet id and the entry index.
const Separator = "-"

// ErrInvalidIdentifier is returned when a string is not a valid entry id.
var ErrInvalidIdentifier = errors.New("invalid entry id")

var entryIDRegex = regexp.MustCompile(
	`^([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})-([0-9]+)$`,
)

// ID is the full id of an entry. Only New and Parse produce values that are
// guaranteed to be well formed.
type ID string

// New builds the entry id for the entry at index inside wallet walletID.
func New(walletID string, index uint64) ID {
	return ID(walletID + Separator + strconv.FormatUint(index, 10))
}

// Parse validates text and returns it as an ID.
func Parse(text string) (ID, error) {
	if _, _, err := split(text); err != nil {
		return "", err
	}
	return ID(text), nil
}

// IsValid reports whether text has the shape of an entry id.
func IsValid(text string) bool {
	_, _, err := split(text)
	return err == nil
}

// WalletID returns the id of the wallet owning the entry.
func (id ID) WalletID() (string, error) {
	walletID, _, err := split(string(id))
	return walletID, err
}

// Index returns the index of the entry inside its wallet.
func (id ID) Index() (uint64, error) {
	_, index, err := split(string(id))
	return index, err
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// ExtractWalletID is a shortcut for Parse followed by WalletID.
func ExtractWalletID(text string) (string, error) {
	return ID(text).WalletID()
}

// ExtractIndex is a shortcut for Parse followed by Index.
func ExtractIndex(text string) (uint64, error) {
	return ID(text).Index()
}

func split(text string) (string, uint64, error) {
	m := entryIDRegex.FindStringSubmatch(text)
	if m == nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, text)
	}
	index, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: index out of range", ErrInvalidIdentifier, text)
	}
	return m[1], index, nil
}
