package models

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// HDPathAccount is a BIP-44 account claimed on a seed, e.g. account 1 on
// m/44'/0'/1'/0/0.
type HDPathAccount struct {
	SeedID    string `json:"seedId"`
	AccountID uint32 `json:"accountId"`
}

// HDPathAccounts maps a seed id to the accounts in use on it, in the order
// they were discovered, without duplicates.
type HDPathAccounts map[string][]uint32

// Add records account on seedID unless already present. It returns whether
// the account was added.
func (h HDPathAccounts) Add(seedID string, account uint32) bool {
	if h.Contains(seedID, account) {
		return false
	}
	h[seedID] = append(h[seedID], account)
	return true
}

// Contains reports whether account is in use on seedID.
func (h HDPathAccounts) Contains(seedID string, account uint32) bool {
	for _, a := range h[seedID] {
		if a == account {
			return true
		}
	}
	return false
}

// Merge adds every account of other, keeping the order of the receiver
// first.
func (h HDPathAccounts) Merge(other HDPathAccounts) {
	for _, seedID := range other.Seeds() {
		for _, account := range other[seedID] {
			h.Add(seedID, account)
		}
	}
}

// Seeds returns the seed ids of the table, sorted.
func (h HDPathAccounts) Seeds() []string {
	seeds := make([]string, 0, len(h))
	for seedID := range h {
		seeds = append(seeds, seedID)
	}
	sort.Strings(seeds)
	return seeds
}

// Next returns the lowest account number not in use on seedID. It returns
// false if every non hardened account number is taken.
func (h HDPathAccounts) Next(seedID string) (uint32, bool) {
	used := make(map[uint32]struct{}, len(h[seedID]))
	for _, a := range h[seedID] {
		used[a] = struct{}{}
	}
	for account := uint32(0); account < hdkeychain.HardenedKeyStart; account++ {
		if _, ok := used[account]; !ok {
			return account, true
		}
	}
	return 0, false
}
