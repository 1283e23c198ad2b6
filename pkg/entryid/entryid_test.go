package entryid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		walletID string
		index    uint64
	}{
		{"d0659bdd-8090-4b08-90a2-3b951cb98b37", 0},
		{"d0659bdd-8090-4b08-90a2-3b951cb98b37", 1},
		{"9CE1F45B-4A8E-46EE-B81F-1EFD034FEAEA", 51},
		{"9ce1f45b-4a8e-46ee-b81f-1efd034feaea", 18446744073709551615},
	}

	for _, tt := range tests {
		id := New(tt.walletID, tt.index)

		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)

		walletID, err := parsed.WalletID()
		require.NoError(t, err)
		require.Equal(t, tt.walletID, walletID)

		index, err := parsed.Index()
		require.NoError(t, err)
		require.Equal(t, tt.index, index)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37-",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37-a",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37-1a",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37--1",
		"d0659bdd-8090-4b08-90a2-3b951cb98b3-0",
		"x0659bdd-8090-4b08-90a2-3b951cb98b37-0",
		" d0659bdd-8090-4b08-90a2-3b951cb98b37-0",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37-0 ",
		"d0659bdd-8090-4b08-90a2-3b951cb98b37-18446744073709551616",
	}

	for _, text := range tests {
		_, err := Parse(text)
		require.ErrorIs(t, err, ErrInvalidIdentifier, text)
		require.False(t, IsValid(text), text)
	}
}

func TestExtract(t *testing.T) {
	walletID, err := ExtractWalletID("d0659bdd-8090-4b08-90a2-3b951cb98b37-15")
	require.NoError(t, err)
	require.Equal(t, "d0659bdd-8090-4b08-90a2-3b951cb98b37", walletID)

	index, err := ExtractIndex("d0659bdd-8090-4b08-90a2-3b951cb98b37-15")
	require.NoError(t, err)
	require.Equal(t, uint64(15), index)

	_, err = ExtractWalletID("d0659bdd-8090-4b08-90a2-3b951cb98b37")
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = ExtractIndex("not-an-id")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestUnvalidatedIDRevalidates(t *testing.T) {
	id := ID("garbage")

	_, err := id.WalletID()
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = id.Index()
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}
