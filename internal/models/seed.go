package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SeedType is the kind of secret backing a seed.
type SeedType string

const (
	// SeedRaw is a BIP-39 seed stored as bytes in the vault.
	SeedRaw SeedType = "raw"
	// SeedMnemonic is a BIP-39 phrase.
	SeedMnemonic SeedType = "mnemonic"
	// SeedLedger is a Ledger hardware key.
	SeedLedger SeedType = "ledger"
)

// SeedRefType is the kind of a SeedReference.
type SeedRefType string

const (
	SeedRefID     SeedRefType = "id"
	SeedRefLedger SeedRefType = "ledger"
)

// SeedDescription describes a seed known to the vault.
type SeedDescription struct {
	ID        string    `json:"id,omitempty"`
	Type      SeedType  `json:"type"`
	Available bool      `json:"available"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MnemonicSeed is a BIP-39 phrase with its optional password.
type MnemonicSeed struct {
	Value    string `json:"value"`
	Password string `json:"password,omitempty"`
}

// SeedDefinition is the full definition of a seed to import. Exactly one of
// Raw and Mnemonic is set, according to Type.
type SeedDefinition struct {
	Type     SeedType      `json:"type"`
	Raw      string        `json:"-"`
	Mnemonic *MnemonicSeed `json:"-"`
	// Password encrypts the seed data inside the vault.
	Password string `json:"password,omitempty"`
	Label    string `json:"label,omitempty"`
}

type seedDefinitionJSON struct {
	Type     SeedType        `json:"type"`
	Value    json.RawMessage `json:"value"`
	Password string          `json:"password,omitempty"`
	Label    string          `json:"label,omitempty"`
}

func (d SeedDefinition) MarshalJSON() ([]byte, error) {
	var (
		value []byte
		err   error
	)
	switch d.Type {
	case SeedRaw:
		value, err = json.Marshal(d.Raw)
	case SeedMnemonic:
		value, err = json.Marshal(d.Mnemonic)
	default:
		return nil, fmt.Errorf("%w: unknown seed definition type %q", ErrInvalidPayload, d.Type)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(seedDefinitionJSON{
		Type: d.Type, Value: value, Password: d.Password, Label: d.Label,
	})
}

func (d *SeedDefinition) UnmarshalJSON(data []byte) error {
	var v seedDefinitionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: seed definition: %s", ErrInvalidPayload, err)
	}
	def := SeedDefinition{Type: v.Type, Password: v.Password, Label: v.Label}
	switch v.Type {
	case SeedRaw:
		if err := json.Unmarshal(v.Value, &def.Raw); err != nil || def.Raw == "" {
			return fmt.Errorf("%w: raw seed requires a string value", ErrInvalidPayload)
		}
	case SeedMnemonic:
		var m MnemonicSeed
		if err := json.Unmarshal(v.Value, &m); err != nil || m.Value == "" {
			return fmt.Errorf("%w: mnemonic seed requires a phrase", ErrInvalidPayload)
		}
		def.Mnemonic = &m
	default:
		return fmt.Errorf("%w: unknown seed definition type %q", ErrInvalidPayload, v.Type)
	}
	*d = def
	return nil
}

// SeedReference points to a seed known to the vault, or to any connected
// Ledger device.
type SeedReference struct {
	Type SeedRefType `json:"type"`
	// Value is the seed id, set for SeedRefID only.
	Value string `json:"value,omitempty"`
	// Password decrypts the stored seed when an action needs it.
	Password string `json:"password,omitempty"`
}

// Validate checks the reference is complete.
func (r SeedReference) Validate() error {
	switch r.Type {
	case SeedRefID:
		if r.Value == "" {
			return fmt.Errorf("%w: seed reference by id requires a value", ErrInvalidPayload)
		}
	case SeedRefLedger:
	default:
		return fmt.Errorf("%w: unknown seed reference type %q", ErrInvalidPayload, r.Type)
	}
	return nil
}
