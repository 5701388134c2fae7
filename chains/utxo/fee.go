package utxo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/umbra-labs/chaincore/rpc"
)

// FeeBands is the sat/vB estimate at each of spec.md §4.6's three
// confirmation targets (25/6/2 blocks).
type FeeBands struct {
	SlowSatPerVB     float64
	StandardSatPerVB float64
	FastSatPerVB     float64
}

type estimateSmartFeeResult struct {
	FeeRate float64  `json:"feerate"` // BTC/kvB
	Errors  []string `json:"errors"`
}

// EstimateFee calls estimatesmartfee at the three block targets spec.md
// §4.6 names, falling back to a Blockbook/Esplora-style /api/v1/fees GET
// when the RPC method is unavailable.
func EstimateFee(ctx context.Context, capability rpc.Capability, rpcURL string) (*FeeBands, error) {
	slow, err := estimateSmartFee(ctx, capability, rpcURL, 25)
	if err != nil {
		return estimateFeeFallback(ctx, capability, rpcURL)
	}
	standard, err := estimateSmartFee(ctx, capability, rpcURL, 6)
	if err != nil {
		return estimateFeeFallback(ctx, capability, rpcURL)
	}
	fast, err := estimateSmartFee(ctx, capability, rpcURL, 2)
	if err != nil {
		return estimateFeeFallback(ctx, capability, rpcURL)
	}
	return &FeeBands{SlowSatPerVB: slow, StandardSatPerVB: standard, FastSatPerVB: fast}, nil
}

func estimateSmartFee(ctx context.Context, capability rpc.Capability, rpcURL string, target int) (float64, error) {
	var result estimateSmartFeeResult
	if err := capability.Call(ctx, rpcURL, "estimatesmartfee", []any{target}, &result); err != nil {
		return 0, fmt.Errorf("utxo: estimatesmartfee(%d): %w", target, err)
	}
	if len(result.Errors) > 0 || result.FeeRate <= 0 {
		return 0, fmt.Errorf("utxo: estimatesmartfee(%d) returned no usable estimate", target)
	}
	return result.FeeRate * 100_000_000 / 1000, nil // BTC/kvB -> sat/vB
}

func estimateFeeFallback(ctx context.Context, capability rpc.Capability, baseURL string) (*FeeBands, error) {
	body, err := capability.HTTPGet(ctx, baseURL+"/api/v1/fees")
	if err != nil {
		return nil, fmt.Errorf("utxo: fee estimate fallback: %w", err)
	}
	bands, err := parseFeesResponse(body)
	if err != nil {
		return nil, fmt.Errorf("utxo: parse fee estimate fallback: %w", err)
	}
	return bands, nil
}

// feesResponse matches Esplora/Blockbook's /api/v1/fees shape: a map from
// confirmation target (blocks, as a string key) to sat/vB.
type feesResponse map[string]float64

func parseFeesResponse(body []byte) (*FeeBands, error) {
	var resp feesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &FeeBands{
		SlowSatPerVB:     resp["25"],
		StandardSatPerVB: resp["6"],
		FastSatPerVB:     resp["2"],
	}, nil
}
