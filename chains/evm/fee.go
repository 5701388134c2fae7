package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/umbra-labs/chaincore/rpc"
)

// speedPercentile maps spec.md §4.6's three fee speeds onto the reward
// percentile requested from eth_feeHistory.
var speedPercentile = map[string]float64{
	"slow":     25,
	"standard": 50,
	"fast":     75,
}

func percentileFor(speed string) float64 {
	if p, ok := speedPercentile[speed]; ok {
		return p
	}
	return speedPercentile["standard"]
}

type feeHistoryResult struct {
	BaseFeePerGas []hexutil.Big   `json:"baseFeePerGas"`
	Reward        [][]hexutil.Big `json:"reward"`
}

// resolveEIP1559Fees derives (maxPriorityFeePerGas, maxFeePerGas) from the
// newest base fee in a 20-block eth_feeHistory window and the mean of that
// window's reward samples at the percentile matching overrides.FeeSpeed,
// unless the caller already pinned one or both values (spec.md §4.6).
func resolveEIP1559Fees(ctx context.Context, capability rpc.Capability, rpcURL string, overrides Overrides) (tip, feeCap *big.Int, err error) {
	if overrides.MaxPriorityFeePerGas != nil && overrides.MaxFeePerGas != nil {
		return overrides.MaxPriorityFeePerGas, overrides.MaxFeePerGas, nil
	}

	var hist feeHistoryResult
	pct := percentileFor(overrides.FeeSpeed)
	if err := capability.Call(ctx, rpcURL, "eth_feeHistory", []any{20, "latest", []float64{pct}}, &hist); err != nil {
		return nil, nil, fmt.Errorf("evm: fetch fee history: %w", err)
	}
	if len(hist.BaseFeePerGas) == 0 {
		return nil, nil, fmt.Errorf("evm: eth_feeHistory returned no baseFeePerGas samples")
	}
	baseFee := (*big.Int)(&hist.BaseFeePerGas[len(hist.BaseFeePerGas)-1])

	tip = overrides.MaxPriorityFeePerGas
	if tip == nil {
		sum, samples := new(big.Int), int64(0)
		for _, r := range hist.Reward {
			if len(r) > 0 {
				sum.Add(sum, (*big.Int)(&r[0]))
				samples++
			}
		}
		if samples > 0 {
			tip = sum.Div(sum, big.NewInt(samples))
		} else {
			tip = big.NewInt(1_500_000_000) // 1.5 gwei fallback
		}
	}

	feeCap = overrides.MaxFeePerGas
	if feeCap == nil {
		feeCap = new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	}
	return tip, feeCap, nil
}

// FeeBands is the maxFeePerGas estimate at each of spec.md §4.6's three
// priority-fee percentiles (25th/50th/75th).
type FeeBands struct {
	Slow     *big.Int
	Standard *big.Int
	Fast     *big.Int
}

// EstimateFee resolves maxFeePerGas at the slow/standard/fast speeds
// (spec.md §4.6: "eth_feeHistory latest 20 blocks, use the 25/50/75th
// percentile of priority fees plus base fee x 2").
func EstimateFee(ctx context.Context, capability rpc.Capability, rpcURL string) (*FeeBands, error) {
	_, slow, err := resolveEIP1559Fees(ctx, capability, rpcURL, Overrides{FeeSpeed: "slow"})
	if err != nil {
		return nil, err
	}
	_, standard, err := resolveEIP1559Fees(ctx, capability, rpcURL, Overrides{FeeSpeed: "standard"})
	if err != nil {
		return nil, err
	}
	_, fast, err := resolveEIP1559Fees(ctx, capability, rpcURL, Overrides{FeeSpeed: "fast"})
	if err != nil {
		return nil, err
	}
	standard = clampAtLeast(standard, slow)
	fast = clampAtLeast(fast, standard)
	return &FeeBands{Slow: slow, Standard: standard, Fast: fast}, nil
}

// clampAtLeast raises v to floor when the feeHistory percentile sample
// put it below a slower band, preserving the Fast >= Standard >= Slow
// invariant the dispatcher's FeeEstimate guarantees callers. Comparison
// goes through uint256, the same fixed-width integer go-ethereum's own
// txpool uses for gas-price ordering, rather than math/big's arbitrary
// precision this package uses elsewhere for simplicity.
func clampAtLeast(v, floor *big.Int) *big.Int {
	vw, floorw := uint256.MustFromBig(v), uint256.MustFromBig(floor)
	if vw.Lt(floorw) {
		return floor
	}
	return v
}
