package extcrypto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gologic/pkg/types"
)

func TestHash(t *testing.T) {
	a := types.NewArena()
	def := Hash()

	tests := []struct {
		algorithm string
		want      string
	}{
		{"md5", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha1", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		got, err := def.Fn(context.Background(),
			[]*types.Value{a.String("abc"), a.String(tt.algorithm)}, a)
		require.NoError(t, err, tt.algorithm)
		assert.Equal(t, tt.want, got.Str(), tt.algorithm)
	}
}

func TestHashRejectsBadInput(t *testing.T) {
	a := types.NewArena()
	def := Hash()

	_, err := def.Fn(context.Background(), []*types.Value{a.Int(1), a.String("md5")}, a)
	require.Error(t, err)
	var evalErr *types.Error
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, types.ErrInvalidArguments, evalErr.Kind)

	_, err = def.Fn(context.Background(), []*types.Value{a.String("x"), a.String("rot13")}, a)
	require.Error(t, err)
}

func TestHMAC(t *testing.T) {
	a := types.NewArena()
	def := HMAC()

	got, err := def.Fn(context.Background(),
		[]*types.Value{a.String("message"), a.String("key"), a.String("sha256")}, a)
	require.NoError(t, err)
	assert.Equal(t,
		"6e9ef29b75fffc5b7abae527d58fdadb2fe42e7219011976917343065f58ed4a",
		got.Str())
}

func TestAllRegisters(t *testing.T) {
	defs := All()
	require.Len(t, defs, 2)
	names := map[string]bool{}
	for _, d := range defs {
		names[d.Name] = true
		require.NotNil(t, d.Fn)
	}
	assert.True(t, names["hash"])
	assert.True(t, names["hmac"])
}
