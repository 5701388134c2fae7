package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umbra-labs/chaincore/tx"
)

// TestFormatNativeAmount exercises spec §8 scenario 4: a TVM native transfer
// of 1500000 sun (6 decimals) renders as "1.5".
func TestFormatNativeAmount(t *testing.T) {
	require.Equal(t, "1.5", formatNativeAmount("1500000", 6))
	require.Equal(t, "1", formatNativeAmount("1000000", 6))
	require.Equal(t, "0.000001", formatNativeAmount("1", 6))
	require.Equal(t, "123456789.123456789", formatNativeAmount("123456789123456789", 9))
}

func TestApplyNativeFormattingSkipsNonNativeTransfer(t *testing.T) {
	n := &tx.NormalisedTransaction{Type: tx.TxTypeTokenTransfer, Value: "1500000"}
	applyNativeFormatting(n, "TRX", 6)
	require.Empty(t, n.Symbol)
	require.Empty(t, n.FormattedValue)
}

func TestApplyNativeFormattingOverlaysSymbol(t *testing.T) {
	n := &tx.NormalisedTransaction{Type: tx.TxTypeNativeTransfer, Value: "1500000"}
	applyNativeFormatting(n, "TRX", 6)
	require.Equal(t, "TRX", n.Symbol)
	require.Equal(t, "1.5", n.FormattedValue)
}
