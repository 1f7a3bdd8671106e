package tokenstore

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	t.Parallel()

	key := make([]byte, 32)
	key[0] = 0x42
	sealer, err := NewSealer(hex.EncodeToString(key))
	require.NoError(t, err)

	sealed, err := sealer.Seal("my-opaque-token")
	require.NoError(t, err)
	assert.NotEqual(t, "my-opaque-token", sealed)

	plain, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "my-opaque-token", plain)
}

func TestSealer_WrongKey_Fails(t *testing.T) {
	t.Parallel()

	a, err := NewSealer(hex.EncodeToString(make([]byte, 32)))
	require.NoError(t, err)

	other := make([]byte, 32)
	other[31] = 0x01
	b, err := NewSealer(hex.EncodeToString(other))
	require.NoError(t, err)

	sealed, err := a.Seal("token")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	require.Error(t, err)
}

func TestSealer_NilPassesThrough(t *testing.T) {
	t.Parallel()

	var sealer *Sealer

	sealed, err := sealer.Seal("token")
	require.NoError(t, err)
	assert.Equal(t, "token", sealed)

	plain, err := sealer.Open("token")
	require.NoError(t, err)
	assert.Equal(t, "token", plain)
}

func TestNewSealer_BadKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "not hex", key: "zz"},
		{name: "short key", key: hex.EncodeToString(make([]byte, 16))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSealer(tt.key)
			require.Error(t, err)
		})
	}
}

func TestNewSealer_EmptyKeyDisablesSealing(t *testing.T) {
	t.Parallel()

	sealer, err := NewSealer("")
	require.NoError(t, err)
	assert.Nil(t, sealer)
}
