package svm

import (
	"context"
	"fmt"
	"sort"

	"github.com/umbra-labs/chaincore/rpc"
)

// DefaultComputeUnitLimit is the flat compute-unit estimate spec.md §4.6
// calls for rather than a per-instruction simulation.
const DefaultComputeUnitLimit uint64 = 200_000

type prioritizationFee struct {
	Slot              uint64 `json:"slot"`
	PrioritizationFee uint64 `json:"prioritizationFee"`
}

// RecentPrioritizationFees returns the slow/standard/fast micro-lamports
// quantiles (25th/50th/90th percentile of recent per-slot fees), mirroring
// the EVM estimator's percentile approach (spec.md §4.6).
func RecentPrioritizationFees(ctx context.Context, capability rpc.Capability, rpcURL string, accounts []string) (slow, standard, fast uint64, err error) {
	var samples []prioritizationFee
	params := []any{}
	if len(accounts) > 0 {
		params = append(params, accounts)
	}
	if callErr := capability.Call(ctx, rpcURL, "getRecentPrioritizationFees", params, &samples); callErr != nil {
		return 0, 0, 0, fmt.Errorf("svm: fetch recent prioritization fees: %w", callErr)
	}
	if len(samples) == 0 {
		return 0, 0, 0, nil
	}
	fees := make([]uint64, len(samples))
	for i, s := range samples {
		fees[i] = s.PrioritizationFee
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i] < fees[j] })
	return quantile(fees, 0.25), quantile(fees, 0.50), quantile(fees, 0.90), nil
}

func quantile(sorted []uint64, q float64) uint64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}
