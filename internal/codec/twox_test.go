package codec

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestXxHash64EmptyInput checks against the published xxHash64("")
// reference vector (seed 0 -> 0xef46db3751d8e999), the canonical sanity
// check for any xxHash64 port.
func TestXxHash64EmptyInput(t *testing.T) {
	require.Equal(t, uint64(0xef46db3751d8e999), xxHash64(nil, 0))
}

// TestTwox128SystemAccount checks the two storage-key prefix hashes the
// System.Account StorageMap key is built from.
func TestTwox128SystemAccount(t *testing.T) {
	system := Twox128([]byte("System"))
	require.Equal(t, "26aa394eea5630e07c48ae0c9558cef7", hex.EncodeToString(system))

	account := Twox128([]byte("Account"))
	require.Equal(t, "b99d880ec681799c0cf30e8886371da9", hex.EncodeToString(account))
}

func TestBlake2_128ConcatAppendsOriginalData(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	out := Blake2_128Concat(data)
	require.Len(t, out, 16+len(data))
	require.Equal(t, data, out[16:])
}
