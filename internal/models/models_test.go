package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/vaultquery/pkg/entryid"
)

func TestDecodeWallets(t *testing.T) {
	data := []byte(`[
		{
			"id": "9ce1f45b-4a8e-46ee-b81f-1efd034feaea",
			"createdAt": "2024-03-01T10:00:00Z"
		},
		{
			"id": "364b848e-caf2-43db-a3b5-375f64a61bf4",
			"name": "savings",
			"entries": [
				{
					"id": "364b848e-caf2-43db-a3b5-375f64a61bf4-0",
					"blockchain": 100,
					"address": {"type": "single", "value": "0x343d1de24ac7a891575857855c5579f9de19b427"},
					"key": {"type": "hd-path", "seedId": "5d1f51a7", "hdPath": "m/44'/60'/2'/0/0"}
				},
				{
					"id": "364b848e-caf2-43db-a3b5-375f64a61bf4-1",
					"blockchain": 1,
					"address": {"type": "xpub", "value": "zpub6rgquuQ"},
					"key": {"type": "pk", "keyId": "k1"},
					"label": "cold"
				}
			],
			"reserved": [{"seedId": "5d1f51a7", "accountId": 2}]
		}
	]`)

	wallets, err := DecodeWallets(data)
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	empty := wallets[0]
	assert.NotNil(t, empty.Entries)
	assert.Empty(t, empty.Entries)
	assert.NotNil(t, empty.Reserved)
	assert.Empty(t, empty.Reserved)

	w := wallets[1]
	assert.Equal(t, "savings", w.Name)
	require.Len(t, w.Entries, 2)
	assert.Equal(t, []HDPathAccount{{SeedID: "5d1f51a7", AccountID: 2}}, w.Reserved)

	eth := w.Entries[0]
	assert.Equal(t, FamilyEthereum, eth.Family())
	assert.True(t, eth.IsEthereum())
	seedKey, ok := eth.SeedKey()
	require.True(t, ok)
	assert.Equal(t, SeedKeyRef{SeedID: "5d1f51a7", HDPath: "m/44'/60'/2'/0/0"}, seedKey)
	assert.Nil(t, eth.Addresses)

	btc := w.Entries[1]
	assert.True(t, btc.IsBitcoin())
	assert.Equal(t, PKRef{KeyID: "k1"}, btc.Key)
	assert.Equal(t, "cold", btc.Label)
	assert.NotNil(t, btc.Addresses)
	assert.NotNil(t, btc.XPubs)
}

func TestDecodeWalletsInvalid(t *testing.T) {
	const (
		w  = "d0659bdd-2b5c-4a8e-9f3e-5a1b8c7d6e4f"
		pk = `{"type": "pk", "keyId": "k1"}`
	)
	wallet := func(entry string) string {
		return `[{"id": "` + w + `", "entries": [` + entry + `]}]`
	}

	tests := []struct {
		name string
		data string
	}{
		{"not a list", `{"id": "x"}`},
		{"null wallet", `[null]`},
		{"null entry", `[{"id": "` + w + `", "entries": [null]}]`},
		{"unknown address type", wallet(`{"id": "` + w + `-0", "blockchain": 100, "key": ` + pk + `, "address": {"type": "multi", "value": "a"}}`)},
		{"xpub on ethereum", wallet(`{"id": "` + w + `-0", "blockchain": 100, "key": ` + pk + `, "address": {"type": "xpub", "value": "a"}}`)},
		{"single on bitcoin", wallet(`{"id": "` + w + `-0", "blockchain": 1, "key": ` + pk + `, "address": {"type": "single", "value": "a"}}`)},
		{"incomplete seed key", wallet(`{"id": "` + w + `-0", "blockchain": 100, "key": {"type": "hd-path", "seedId": "s"}}`)},
		{"unknown key type", wallet(`{"id": "` + w + `-0", "blockchain": 100, "key": {"type": "mpc"}}`)},
		{"missing key", wallet(`{"id": "` + w + `-0", "blockchain": 100}`)},
		{"null key", wallet(`{"id": "` + w + `-0", "blockchain": 100, "key": null}`)},
		{"malformed entry id", wallet(`{"id": "garbage", "blockchain": 100, "key": ` + pk + `}`)},
		{"entry id without index", wallet(`{"id": "` + w + `", "blockchain": 100, "key": ` + pk + `}`)},
		{"entry of another wallet", wallet(`{"id": "11111111-8090-4b08-90a2-3b951cb98b37-0", "blockchain": 100, "key": ` + pk + `}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWallets([]byte(tt.data))
			require.ErrorIs(t, err, ErrInvalidPayload)
		})
	}

	wallets, err := DecodeWallets([]byte(`null`))
	require.NoError(t, err)
	require.Empty(t, wallets)
}

func TestKeyRefVariants(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected KeyRef
	}{
		{"tagged pk", `{"type": "pk", "keyId": "k"}`, PKRef{KeyID: "k"}},
		{"tagged seed", `{"type": "hd-path", "seedId": "s", "hdPath": "m/0"}`, SeedKeyRef{SeedID: "s", HDPath: "m/0"}},
		{"untagged seed", `{"seedId": "s", "hdPath": "m/0"}`, SeedKeyRef{SeedID: "s", HDPath: "m/0"}},
		{"untagged pk", `{"keyId": "k"}`, PKRef{KeyID: "k"}},
		{"absent", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := unmarshalKeyRef(json.RawMessage(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}

	_, err := unmarshalKeyRef(json.RawMessage(`{"seedId": "s"}`))
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestEntryJSON(t *testing.T) {
	e, err := NewEntry(
		entryid.New("9ce1f45b-4a8e-46ee-b81f-1efd034feaea", 4),
		Bitcoin,
		SeedKeyRef{SeedID: "s", HDPath: "m/84'/0'/1'"},
		NewXPubAddress("zpub6rgquuQ"),
	)
	require.NoError(t, err)
	e.Label = "btc"

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "9ce1f45b-4a8e-46ee-b81f-1efd034feaea-4",
		"blockchain": 1,
		"address": {"type": "xpub", "value": "zpub6rgquuQ"},
		"receiveDisabled": false,
		"label": "btc",
		"key": {"type": "hd-path", "seedId": "s", "hdPath": "m/84'/0'/1'"},
		"createdAt": "0001-01-01T00:00:00Z",
		"addresses": [],
		"xpub": []
	}`, string(data))

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FamilyBitcoin, decoded.Family())
	assert.Equal(t, e.Key, decoded.Key)
}

func TestNewEntryAddressFamily(t *testing.T) {
	id := entryid.New("9ce1f45b-4a8e-46ee-b81f-1efd034feaea", 0)

	_, err := NewEntry(id, Ethereum, nil, NewXPubAddress("zpub"))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewEntry(id, BitcoinTestnet, nil, NewSingleAddress("0x01"))
	require.ErrorIs(t, err, ErrInvalidPayload)

	e, err := NewEntry(id, BlockchainID(42), nil, NewSingleAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, FamilyUnknown, e.Family())

	e, err = NewEntry(id, GoerliTestnet, nil, nil)
	require.NoError(t, err)
	assert.True(t, e.IsEthereum())
	assert.False(t, e.MatchesAddress("0x01", nil))
}

func TestAccountIDFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected uint32
		ok       bool
	}{
		{"m/44'/0'/0'/0/0", 0, true},
		{"m/44'/60'/1'/0/0", 1, true},
		{"m/44'/60'/15'/0/0", 15, true},
		{"m/84'/0'/3'/1", 3, true},
		{"m/44'/60'/160720'/0/0", 160720, true},
		{"m/44'/60'/0'", 0, false},
		{"m/44'/60'", 0, false},
		{"m/44'/60'/1/0/0", 0, false},
		{"x/m/44'/60'/1'/0/0", 0, false},
		{"m/44'/60'/1'/0/0/7", 0, false},
		{"m/44'/60'/2147483648'/0/0", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			account, ok := AccountIDFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, account)
		})
	}
}

func TestAsSeedKeyRef(t *testing.T) {
	ref := SeedKeyRef{SeedID: "s", HDPath: "m/44'/60'/0'/0/0"}

	got, ok := AsSeedKeyRef(ref)
	assert.True(t, ok)
	assert.Equal(t, ref, got)

	got, ok = AsSeedKeyRef(&ref)
	assert.True(t, ok)
	assert.Equal(t, ref, got)

	assert.False(t, IsSeedKeyRef(PKRef{KeyID: "k"}))
	assert.False(t, IsSeedKeyRef(nil))
	assert.False(t, IsSeedKeyRef((*SeedKeyRef)(nil)))
}

func TestAddressRef(t *testing.T) {
	single := AddressRef{Type: AddressSingle, Value: "0xAbC"}
	xpub := AddressRef{Type: AddressXPub, Value: "xpubAbC"}

	assert.True(t, single.IsSame("0xabc"))
	assert.True(t, single.IsSame("0xABC"))
	assert.False(t, xpub.IsSame("xpubabc"))
	assert.True(t, xpub.IsSame("xpubAbC"))

	assert.Equal(t, -1, single.Compare(xpub))
	assert.Equal(t, 1, xpub.Compare(single))
	assert.Equal(t, -1, single.Compare(AddressRef{Type: AddressSingle, Value: "0xb"}))
	assert.Equal(t, 0, xpub.Compare(xpub))
}

func TestHDPathAccounts(t *testing.T) {
	accounts := HDPathAccounts{}
	assert.True(t, accounts.Add("a", 1))
	assert.False(t, accounts.Add("a", 1))
	assert.True(t, accounts.Add("a", 0))
	assert.True(t, accounts.Add("b", 3))

	assert.Equal(t, HDPathAccounts{"a": {1, 0}, "b": {3}}, accounts)
	assert.Equal(t, []string{"a", "b"}, accounts.Seeds())
	assert.True(t, accounts.Contains("b", 3))
	assert.False(t, accounts.Contains("c", 0))

	next, ok := accounts.Next("a")
	assert.True(t, ok)
	assert.Equal(t, uint32(2), next)
	next, ok = accounts.Next("b")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), next)

	accounts.Merge(HDPathAccounts{"a": {5, 0}, "c": {9}})
	assert.Equal(t, HDPathAccounts{"a": {1, 0, 5}, "b": {3}, "c": {9}}, accounts)
}

func TestAddEntry(t *testing.T) {
	data := []byte(`{
		"blockchain": 100,
		"type": "hd-path",
		"key": {"seed": {"type": "id", "value": "s1"}, "hdPath": "m/44'/60'/0'/0/0"}
	}`)
	var entry AddEntry
	require.NoError(t, json.Unmarshal(data, &entry))
	require.NoError(t, entry.Validate())
	require.NotNil(t, entry.Seed)
	assert.Equal(t, SeedReference{Type: SeedRefID, Value: "s1"}, entry.Seed.Seed)

	tests := []struct {
		name  string
		entry AddEntry
	}{
		{"unknown blockchain", AddEntry{Blockchain: 3, Type: AddGenerateRandom}},
		{"unknown type", AddEntry{Blockchain: Ethereum, Type: "mpc"}},
		{"json on bitcoin", AddEntry{Blockchain: Bitcoin, Type: AddEthereumJSON, JSONKey: "{}"}},
		{"missing raw key", AddEntry{Blockchain: Ethereum, Type: AddRawPrivateKey}},
		{"missing seed", AddEntry{Blockchain: Ethereum, Type: AddHDPath}},
		{"seed without id", AddEntry{Blockchain: Ethereum, Type: AddHDPath, Seed: &SeedEntry{
			Seed: SeedReference{Type: SeedRefID}, HDPath: "m/44'/60'/0'/0/0",
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.entry.Validate(), ErrInvalidPayload)
		})
	}

	raw, err := json.Marshal(AddEntry{Blockchain: Ethereum, Type: AddRawPrivateKey, RawKey: "0xff", Password: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"blockchain": 100, "type": "raw-pk-hex", "key": "0xff", "password": "p"}`, string(raw))
}

func TestSeedDefinition(t *testing.T) {
	var def SeedDefinition
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "mnemonic", "value": {"value": "abandon abandon", "password": "x"}, "label": "main"}`),
		&def,
	))
	assert.Equal(t, SeedMnemonic, def.Type)
	require.NotNil(t, def.Mnemonic)
	assert.Equal(t, "abandon abandon", def.Mnemonic.Value)
	assert.Equal(t, "main", def.Label)

	data, err := json.Marshal(SeedDefinition{Type: SeedRaw, Raw: "00ff", Password: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "raw", "value": "00ff", "password": "p"}`, string(data))

	err = json.Unmarshal([]byte(`{"type": "raw", "value": ""}`), &def)
	require.ErrorIs(t, err, ErrInvalidPayload)
	err = json.Unmarshal([]byte(`{"type": "ledger"}`), &def)
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestBlockchainTable(t *testing.T) {
	assert.Equal(t, FamilyBitcoin, FamilyOf(Bitcoin))
	assert.Equal(t, FamilyBitcoin, FamilyOf(BitcoinTestnet))
	assert.Equal(t, FamilyEthereum, FamilyOf(KovanTestnet))
	assert.Equal(t, FamilyUnknown, FamilyOf(BlockchainID(5)))

	coin, ok := CoinType(EthereumClassic)
	assert.True(t, ok)
	assert.Equal(t, uint32(61), coin)
	_, ok = CoinType(BlockchainID(5))
	assert.False(t, ok)

	assert.Equal(t, "goerli", GoerliTestnet.String())
	assert.Equal(t, "blockchain(5)", BlockchainID(5).String())
}

func TestAddressRefValidate(t *testing.T) {
	const (
		eth  = "0x343d1de24ac7a891575857855c5579f9de19b427"
		xpub = "xpub661MyMwAqRbcEbc4uYVXvQQpH9L3YuZLZ1gxCmj59yAhNy33vXxbXadmRpx5YZEupNSqWRrR7PqU6duS2FiVCGEiugBEa5zuEAjsyLJjKCh"
	)

	tests := []struct {
		name       string
		blockchain BlockchainID
		ref        AddressRef
		valid      bool
	}{
		{"ethereum single", Ethereum, *NewSingleAddress(eth), true},
		{"ethereum xpub", Ethereum, *NewXPubAddress(xpub), false},
		{"ethereum short", EthereumClassic, *NewSingleAddress(eth[:20]), false},
		{"bitcoin xpub", Bitcoin, *NewXPubAddress(xpub), true},
		{"bitcoin broken xpub", Bitcoin, *NewXPubAddress(xpub[:len(xpub)-1] + "A"), false},
		{"bitcoin single", BitcoinTestnet, *NewSingleAddress(eth), false},
		{"unknown chain", BlockchainID(8), *NewSingleAddress(eth), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate(tt.blockchain)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}

	ref, err := ValidateAndNormalizeAddressRef(Ethereum, *NewSingleAddress("0X343D1DE24AC7A891575857855C5579F9DE19B427"))
	require.NoError(t, err)
	assert.Equal(t, *NewSingleAddress(eth), ref)
	assert.Equal(t, xpub, NewXPubAddress(xpub).Normalized().Value)
}
