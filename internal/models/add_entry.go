package models

import (
	"encoding/json"
	"fmt"
)

// AddEntryType selects how the engine obtains the key of a new entry.
type AddEntryType string

const (
	AddEthereumJSON   AddEntryType = "ethereum-json"
	AddRawPrivateKey  AddEntryType = "raw-pk-hex"
	AddHDPath         AddEntryType = "hd-path"
	AddGenerateRandom AddEntryType = "generate-random"
)

// SeedEntry is the key of an entry derived from a seed.
type SeedEntry struct {
	Seed   SeedReference `json:"seed"`
	HDPath string        `json:"hdPath"`
	// Address is the expected address on the path. It is checked against the
	// derived one, or stored as is when the seed cannot be reached (e.g. a
	// Ledger that is not connected).
	Address string `json:"address,omitempty"`
}

// AddEntry is the payload creating an entry in a wallet.
type AddEntry struct {
	Blockchain BlockchainID
	Type       AddEntryType

	// JSONKey and JSONPassword are set for AddEthereumJSON.
	JSONKey      string
	JSONPassword string
	// RawKey is the hex private key for AddRawPrivateKey.
	RawKey string
	// Seed is set for AddHDPath.
	Seed *SeedEntry
	// Password is the global key password, required by every type but
	// AddHDPath.
	Password string
}

type addEntryJSON struct {
	Blockchain   BlockchainID    `json:"blockchain"`
	Type         AddEntryType    `json:"type"`
	Key          json.RawMessage `json:"key,omitempty"`
	JSONPassword string          `json:"jsonPassword,omitempty"`
	Password     string          `json:"password,omitempty"`
}

// Validate checks the payload carries what its type requires.
func (a AddEntry) Validate() error {
	if !IsKnownBlockchain(a.Blockchain) {
		return fmt.Errorf("%w: unsupported blockchain %d", ErrInvalidPayload, a.Blockchain)
	}
	switch a.Type {
	case AddEthereumJSON:
		if a.JSONKey == "" {
			return fmt.Errorf("%w: missing json key", ErrInvalidPayload)
		}
		if FamilyOf(a.Blockchain) != FamilyEthereum {
			return fmt.Errorf("%w: json keys are supported on ethereum chains only", ErrInvalidPayload)
		}
	case AddRawPrivateKey:
		if a.RawKey == "" {
			return fmt.Errorf("%w: missing private key", ErrInvalidPayload)
		}
	case AddHDPath:
		if a.Seed == nil || a.Seed.HDPath == "" {
			return fmt.Errorf("%w: missing hd path", ErrInvalidPayload)
		}
		if err := a.Seed.Seed.Validate(); err != nil {
			return err
		}
	case AddGenerateRandom:
	default:
		return fmt.Errorf("%w: unknown entry type %q", ErrInvalidPayload, a.Type)
	}
	return nil
}

func (a AddEntry) MarshalJSON() ([]byte, error) {
	v := addEntryJSON{
		Blockchain:   a.Blockchain,
		Type:         a.Type,
		JSONPassword: a.JSONPassword,
		Password:     a.Password,
	}
	var (
		key []byte
		err error
	)
	switch a.Type {
	case AddEthereumJSON:
		key, err = json.Marshal(a.JSONKey)
	case AddRawPrivateKey:
		key, err = json.Marshal(a.RawKey)
	case AddHDPath:
		key, err = json.Marshal(a.Seed)
	}
	if err != nil {
		return nil, err
	}
	v.Key = key
	return json.Marshal(v)
}

func (a *AddEntry) UnmarshalJSON(data []byte) error {
	var v addEntryJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: add entry: %s", ErrInvalidPayload, err)
	}
	entry := AddEntry{
		Blockchain:   v.Blockchain,
		Type:         v.Type,
		JSONPassword: v.JSONPassword,
		Password:     v.Password,
	}
	var err error
	switch v.Type {
	case AddEthereumJSON:
		err = json.Unmarshal(v.Key, &entry.JSONKey)
	case AddRawPrivateKey:
		err = json.Unmarshal(v.Key, &entry.RawKey)
	case AddHDPath:
		entry.Seed = &SeedEntry{}
		err = json.Unmarshal(v.Key, entry.Seed)
	}
	if err != nil {
		return fmt.Errorf("%w: add entry key: %s", ErrInvalidPayload, err)
	}
	*a = entry
	return nil
}
