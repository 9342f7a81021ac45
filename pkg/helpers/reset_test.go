package helpers

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	raw, hashed, err := GenerateResetToken()
	require.NoError(t, err)

	// 20 random bytes hex encoded
	require.Len(t, raw, 40)
	_, err = hex.DecodeString(raw)
	require.NoError(t, err)

	// the stored value is the sha256 digest, never the raw secret
	require.Len(t, hashed, 64)
	require.NotEqual(t, raw, hashed)
	require.Equal(t, HashResetToken(raw), hashed)

	raw2, _, err := GenerateResetToken()
	require.NoError(t, err)
	require.NotEqual(t, raw, raw2)
}
