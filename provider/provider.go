// Package provider wraps each ecosystem's builder/decoder/fee-estimator
// trio behind one shared interface, the tagged-union contract spec.md
// §4.5/§9 describes ("Provider = Evm{…} | Svm{…} | Utxo{…} | Tvm{…} |
// Xrp{…} | Substrate{…} dispatched by the chain registry"). The
// dispatcher package is the only caller that constructs these; everyone
// else consumes the Provider interface.
package provider

import (
	"context"
	"math/big"
	"strings"

	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/tx"
)

// Balance is a native or token balance in the chain's smallest unit,
// alongside a human-formatted rendering.
type Balance struct {
	Value          string // decimal string, smallest unit
	FormattedValue string
	Symbol         string
	Decimals       int
}

// FeeLevel is one entry of the {slow, standard, fast} triple §4.6 fixes.
type FeeLevel struct {
	Fee          string // decimal string in the estimator's unit: wei per gas (EVM), micro-lamports per compute unit (SVM), sat/vB with two decimals (UTXO), sun (TVM), drops (XRPL), planck (Substrate)
	FormattedFee string
}

// FeeEstimate is the dispatcher-facing fee shape every ecosystem's
// EstimateFee wrapper normalises onto. Monotonicity invariant (spec.md
// §4.6): Fast >= Standard >= Slow, compared numerically.
type FeeEstimate struct {
	Slow     FeeLevel
	Standard FeeLevel
	Fast     FeeLevel
}

// Capabilities is a read-only feature descriptor, not a new operation —
// it doesn't expand the dispatcher contract, it documents what a given
// chain's provider actually supports. Grounded on
// other_examples/…arcSignv2…chainadapter/adapter.go's Capabilities struct.
type Capabilities struct {
	ChainAlias       string
	Ecosystem        registry.Ecosystem
	SupportsEIP1559  bool
	SupportsSegWit   bool
	SupportsTaproot  bool
	SupportsRBF      bool
	SupportsMemo     bool
	SupportsTokens   bool // false for UTXO/Substrate, which have no token layer this engine builds for
	MinConfirmations int
}

// Provider is the common chain interface §4.5 names:
// {chainAlias, config, getNativeBalance, getTokenBalance, buildNativeTransfer,
// buildTokenTransfer, decode, estimateFee, getTransaction}.
type Provider interface {
	ChainAlias() string
	Config() registry.ChainConfig
	Capabilities() Capabilities

	GetNativeBalance(ctx context.Context, address string) (*Balance, error)
	GetTokenBalance(ctx context.Context, address, tokenContract string) (*Balance, error)

	BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error)
	BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error)

	Decode(serialized string) (*tx.NormalisedTransaction, error)
	EstimateFee(ctx context.Context) (*FeeEstimate, error)
	GetTransaction(ctx context.Context, hash string) (*tx.NormalisedTransaction, error)
}

// formatNativeAmount renders a smallest-unit decimal string at a chain's
// native decimals, e.g. ("1500000", 6) -> "1.5". Used to overlay
// NormalisedTransaction.FormattedValue/Symbol onto native-transfer results,
// which the underlying chains/* decoders leave in smallest-unit form.
func formatNativeAmount(raw string, decimals int) string {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || decimals <= 0 {
		return raw
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole := new(big.Int)
	rem := new(big.Int)
	whole.QuoRem(amount, scale, rem)

	fracStr := rem.String()
	neg := fracStr != "" && fracStr[0] == '-'
	if neg {
		fracStr = fracStr[1:]
	}
	fracStr = strings.Repeat("0", decimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")

	if fracStr == "" {
		return whole.String()
	}
	sign := ""
	if neg && whole.Sign() == 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + fracStr
}

// applyNativeFormatting overlays FormattedValue/Symbol onto a native-transfer
// normalised transaction, leaving token transfers and non-transfer types
// (contract calls, unknown) untouched since those use their own units.
func applyNativeFormatting(n *tx.NormalisedTransaction, symbol string, decimals int) *tx.NormalisedTransaction {
	if n == nil || n.Type != tx.TxTypeNativeTransfer || n.Value == "" {
		return n
	}
	n.Symbol = symbol
	n.FormattedValue = formatNativeAmount(n.Value, decimals)
	return n
}
