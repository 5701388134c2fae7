package substrate

import (
	"context"
	"encoding/hex"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/rpc"
)

// FeeBands is the partialFee estimate at a low/standard/high tip, per
// spec.md §4.6's "payment_queryInfo, vary tip" instruction.
type FeeBands struct {
	SlowPlanck     string
	StandardPlanck string
	FastPlanck     string
}

type queryInfoResult struct {
	PartialFee string `json:"partialFee"`
}

// EstimateFee calls payment_queryInfo against the same extrinsic encoded
// with three different tips, asking the runtime's own weight-to-fee
// conversion for each (spec.md §4.6).
func EstimateFee(ctx context.Context, capability rpc.Capability, rpcURL string, raw *RawExtrinsic) (*FeeBands, error) {
	slow, err := queryInfo(ctx, capability, rpcURL, raw, 0)
	if err != nil {
		return nil, err
	}
	standard, err := queryInfo(ctx, capability, rpcURL, raw, 1)
	if err != nil {
		return nil, err
	}
	fast, err := queryInfo(ctx, capability, rpcURL, raw, 10)
	if err != nil {
		return nil, err
	}
	return &FeeBands{SlowPlanck: slow, StandardPlanck: standard, FastPlanck: fast}, nil
}

func queryInfo(ctx context.Context, capability rpc.Capability, rpcURL string, raw *RawExtrinsic, tip uint64) (string, error) {
	withTip := *raw
	withTip.Tip = tip
	// payment_queryInfo only reads the extrinsic's length/weight
	// annotation, so an all-zero placeholder signature is sufficient.
	dummySig := make([]byte, 64)
	extrinsicHex := "0x" + hex.EncodeToString(assembleExtrinsic(&withTip, dummySig))

	var result queryInfoResult
	if err := capability.Call(ctx, rpcURL, "payment_queryInfo", []any{extrinsicHex}, &result); err != nil {
		return "", &chainerr.RpcError{Method: "payment_queryInfo", Body: err.Error()}
	}
	return result.PartialFee, nil
}
