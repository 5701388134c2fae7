package tvm

import (
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// GetSigningPayload returns the 32-byte txID — SHA-256 of the serialised
// rawData — as the sole signing preimage (spec.md §4.1.4/§4.2).
func GetSigningPayload(unsigned *tx.UnsignedTransaction) (*tx.SigningPayload, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("tvm: GetSigningPayload called on a consumed UnsignedTransaction")
	}
	raw, ok := unsigned.Raw.(*RawTVMTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "tvm.GetSigningPayload: wrong Raw type"}
	}
	return &tx.SigningPayload{
		ChainAlias: unsigned.ChainAlias,
		Data:       [][]byte{raw.TxID},
		Algorithm:  tx.AlgorithmSecp256k1,
	}, nil
}
