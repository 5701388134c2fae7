// Coin selection (spec.md §4.8). Grounded on the teacher's overall
// "recompute, then decide" state-machine shape (x402/local_facilitator.go's
// gas-then-sign loop) generalised to Bitcoin's largest-first UTXO
// algorithm; no pack example builds a Bitcoin coin selector directly.
package utxo

import (
	"math"
	"sort"
	"strconv"

	"github.com/umbra-labs/chaincore/chainerr"
)

// UTXO is one spendable output a coin selector may consume.
type UTXO struct {
	Txid         string
	Vout         uint32
	Value        int64 // satoshis
	ScriptPubKey []byte
	ScriptType   string // "p2wpkh" | "p2tr"
}

// vbyte/input costs per script type (spec.md §4.8); outputSize is uniform.
const (
	inputSizeP2WPKH = 68.0
	inputSizeP2TR   = 57.5
	outputSize      = 31.0
	overheadVBytes  = 10.5
)

func inputSizeFor(scriptType string) float64 {
	if scriptType == "p2tr" {
		return inputSizeP2TR
	}
	return inputSizeP2WPKH
}

// SelectionResult is the outcome of a successful SelectCoins call.
type SelectionResult struct {
	Selected    []UTXO
	Fee         int64
	Change      int64 // 0 when the change was folded into fee
	VSize       int
	HasChange   bool
}

// SelectCoins implements the largest-first state machine of spec.md §4.8:
// accumulate inputs sorted descending by value, recompute vsize/fee each
// iteration, and either emit a two-output result (recipient + change), fold
// dust into the fee, or exhaust the set and fail.
func SelectCoins(available []UTXO, targetSat int64, feeRateSatPerVB float64, dustLimit int64, absoluteFee *int64) (*SelectionResult, error) {
	sorted := make([]UTXO, len(available))
	copy(sorted, available)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	var (
		selected   []UTXO
		totalInput int64
	)

	for _, u := range sorted {
		selected = append(selected, u)
		totalInput += u.Value

		if absoluteFee != nil {
			if totalInput >= targetSat+*absoluteFee {
				return finish(selected, totalInput, targetSat, *absoluteFee, dustLimit)
			}
			continue
		}

		vsizeTwoOut := int(math.Ceil(vsize(selected, 2)))
		fee := int64(math.Ceil(float64(vsizeTwoOut) * feeRateSatPerVB))
		if totalInput >= targetSat+fee {
			change := totalInput - targetSat - fee
			if change >= dustLimit {
				return &SelectionResult{Selected: selected, Fee: fee, Change: change, VSize: vsizeTwoOut, HasChange: true}, nil
			}
			vsizeOneOut := int(math.Ceil(vsize(selected, 1)))
			foldedFee := totalInput - targetSat
			return &SelectionResult{Selected: selected, Fee: foldedFee, Change: 0, VSize: vsizeOneOut, HasChange: false}, nil
		}
	}

	return nil, &chainerr.InsufficientFundsError{
		Required:  formatSat(targetSat),
		Available: formatSat(totalInput),
	}
}

func finish(selected []UTXO, totalInput, targetSat, fee int64, dustLimit int64) (*SelectionResult, error) {
	change := totalInput - targetSat - fee
	if change < 0 {
		return nil, &chainerr.InsufficientFundsError{Required: formatSat(targetSat + fee), Available: formatSat(totalInput)}
	}
	if change >= dustLimit && change > 0 {
		vsizeTwoOut := int(math.Ceil(vsize(selected, 2)))
		return &SelectionResult{Selected: selected, Fee: fee, Change: change, VSize: vsizeTwoOut, HasChange: true}, nil
	}
	vsizeOneOut := int(math.Ceil(vsize(selected, 1)))
	return &SelectionResult{Selected: selected, Fee: fee + change, Change: 0, VSize: vsizeOneOut, HasChange: false}, nil
}

func vsize(selected []UTXO, outputs int) float64 {
	total := overheadVBytes + float64(outputs)*outputSize
	for _, u := range selected {
		total += inputSizeFor(u.ScriptType)
	}
	return total
}

func formatSat(v int64) string {
	if v < 0 {
		v = 0
	}
	return strconv.FormatInt(v, 10)
}
