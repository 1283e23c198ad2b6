package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// KeyType is the wire tag of a key reference.
type KeyType string

const (
	// KeyTypePK marks a reference to an individually stored private key.
	KeyTypePK KeyType = "pk"
	// KeyTypeHDPath marks a reference to a path on a shared seed.
	KeyTypeHDPath KeyType = "hd-path"
)

// KeyRef references the secret backing an entry. It is either a PKRef or a
// SeedKeyRef.
type KeyRef interface {
	KeyType() KeyType
}

// PKRef points to a private key stored in the vault.
type PKRef struct {
	KeyID string
}

// SeedKeyRef points to a derivation path on a seed.
type SeedKeyRef struct {
	SeedID string
	HDPath string
}

func (PKRef) KeyType() KeyType      { return KeyTypePK }
func (SeedKeyRef) KeyType() KeyType { return KeyTypeHDPath }

// m / purpose' / coin_type' / account' / change / address_index
var hdPathRegex = regexp.MustCompile(`^m/(\d+)'/(\d+)'/(\d+)'/(\d+)(/(\d+))?$`)

// AccountID extracts the BIP-44 account of the path. It returns false when
// the path does not follow the BIP-44 layout, which is legit for custom
// derivations.
func (k SeedKeyRef) AccountID() (uint32, bool) {
	return AccountIDFromPath(k.HDPath)
}

// AccountIDFromPath returns the hardened account component of a BIP-44 path.
func AccountIDFromPath(hdPath string) (uint32, bool) {
	m := hdPathRegex.FindStringSubmatch(hdPath)
	if m == nil {
		return 0, false
	}
	account, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil || account >= hdkeychain.HardenedKeyStart {
		return 0, false
	}
	return uint32(account), true
}

// AsSeedKeyRef returns the seed reference held by key, if any.
func AsSeedKeyRef(key KeyRef) (SeedKeyRef, bool) {
	switch k := key.(type) {
	case SeedKeyRef:
		return k, true
	case *SeedKeyRef:
		if k != nil {
			return *k, true
		}
	}
	return SeedKeyRef{}, false
}

// IsSeedKeyRef reports whether key is derived from a seed.
func IsSeedKeyRef(key KeyRef) bool {
	_, ok := AsSeedKeyRef(key)
	return ok
}

type keyRefJSON struct {
	Type   KeyType `json:"type,omitempty"`
	KeyID  *string `json:"keyId,omitempty"`
	SeedID *string `json:"seedId,omitempty"`
	HDPath *string `json:"hdPath,omitempty"`
}

func marshalKeyRef(key KeyRef) (json.RawMessage, error) {
	var v keyRefJSON
	switch k := key.(type) {
	case nil:
		return nil, nil
	case PKRef:
		v = keyRefJSON{Type: KeyTypePK, KeyID: &k.KeyID}
	case SeedKeyRef:
		v = keyRefJSON{Type: KeyTypeHDPath, SeedID: &k.SeedID, HDPath: &k.HDPath}
	default:
		return nil, fmt.Errorf("unsupported key reference %T", key)
	}
	return json.Marshal(v)
}

// unmarshalKeyRef resolves the variant from the `type` tag and falls back to
// the shape of the object when the tag is missing.
func unmarshalKeyRef(data json.RawMessage) (KeyRef, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var v keyRefJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: key: %s", ErrInvalidPayload, err)
	}

	isSeed := v.SeedID != nil && *v.SeedID != "" && v.HDPath != nil && *v.HDPath != ""
	isPK := v.KeyID != nil && *v.KeyID != ""

	switch v.Type {
	case KeyTypeHDPath:
		if !isSeed {
			return nil, fmt.Errorf("%w: hd-path key requires seedId and hdPath", ErrInvalidPayload)
		}
		return SeedKeyRef{SeedID: *v.SeedID, HDPath: *v.HDPath}, nil
	case KeyTypePK:
		if !isPK {
			return nil, fmt.Errorf("%w: pk key requires keyId", ErrInvalidPayload)
		}
		return PKRef{KeyID: *v.KeyID}, nil
	case "":
		if isSeed {
			return SeedKeyRef{SeedID: *v.SeedID, HDPath: *v.HDPath}, nil
		}
		if isPK {
			return PKRef{KeyID: *v.KeyID}, nil
		}
		return nil, fmt.Errorf("%w: unrecognized key reference", ErrInvalidPayload)
	default:
		return nil, fmt.Errorf("%w: unknown key type %q", ErrInvalidPayload, v.Type)
	}
}
