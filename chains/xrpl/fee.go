package xrpl

import (
	"context"
	"fmt"

	"github.com/umbra-labs/chaincore/rpc"
)

// FeeBands is the drops estimate at each of spec.md §4.6's three
// open-ledger-fee multiples (1x/1.2x/1.5x).
type FeeBands struct {
	SlowDrops     string
	StandardDrops string
	FastDrops     string
}

// EstimateFee multiplies the current open-ledger base fee by 1/1.2/1.5
// (spec.md §4.6).
func EstimateFee(ctx context.Context, capability rpc.Capability, rpcURL string) (*FeeBands, error) {
	slow, err := fetchOpenLedgerFeeDrops(ctx, capability, rpcURL, 1.0)
	if err != nil {
		return nil, fmt.Errorf("xrpl: estimate fee: %w", err)
	}
	standard, err := fetchOpenLedgerFeeDrops(ctx, capability, rpcURL, 1.2)
	if err != nil {
		return nil, fmt.Errorf("xrpl: estimate fee: %w", err)
	}
	fast, err := fetchOpenLedgerFeeDrops(ctx, capability, rpcURL, 1.5)
	if err != nil {
		return nil, fmt.Errorf("xrpl: estimate fee: %w", err)
	}
	return &FeeBands{SlowDrops: slow, StandardDrops: standard, FastDrops: fast}, nil
}
