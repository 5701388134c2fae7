package utxo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umbra-labs/chaincore/chainerr"
)

// TestSelectCoinsSingleInputSend exercises spec §8 scenario 2: a single
// 100_000_000 sat P2WPKH input sending 50_000_000 sat at 10 sat/vB should
// select vsize = ceil(10.5 + 68 + 2*31) = 141, fee = 1410, change = 49_998_590.
func TestSelectCoinsSingleInputSend(t *testing.T) {
	available := []UTXO{
		{Txid: repeat("a", 64), Vout: 0, Value: 100_000_000, ScriptType: "p2wpkh"},
	}

	result, err := SelectCoins(available, 50_000_000, 10, 546, nil)
	require.NoError(t, err)
	require.True(t, result.HasChange)
	require.Equal(t, 141, result.VSize)
	require.Equal(t, int64(1410), result.Fee)
	require.Equal(t, int64(49_998_590), result.Change)
	require.Len(t, result.Selected, 1)
}

// TestSelectCoinsInsufficientFunds exercises spec §8 scenario 3.
func TestSelectCoinsInsufficientFunds(t *testing.T) {
	available := []UTXO{
		{Txid: repeat("a", 64), Vout: 0, Value: 1000, ScriptType: "p2wpkh"},
	}

	_, err := SelectCoins(available, 1_000_000, 10, 546, nil)
	require.Error(t, err)
	require.IsType(t, &chainerr.InsufficientFundsError{}, err)
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
