package provider

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecodeAccountInfoFree exercises spec §8 scenario 6: a SCALE-encoded
// AccountInfo with nonce=5 and free=100·10⁹ planck decodes its free
// balance correctly, ignoring the leading nonce/consumers/providers/
// sufficients header.
func TestDecodeAccountInfoFree(t *testing.T) {
	raw, err := hex.DecodeString("0500000000000000000000000000000000e87648170000000000000000000000")
	require.NoError(t, err)

	free, err := decodeAccountInfoFree(raw)
	require.NoError(t, err)
	require.Equal(t, "100000000000", free.String())
}

func TestDecodeAccountInfoFreeTooShort(t *testing.T) {
	_, err := decodeAccountInfoFree([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestTrimHex(t *testing.T) {
	require.Equal(t, "abcd", trimHex("0xabcd"))
	require.Equal(t, "abcd", trimHex("abcd"))
}
