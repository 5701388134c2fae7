package svm

import (
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// GetSigningPayload returns the serialised message itself: Ed25519 signs
// the message directly rather than a digest of it (spec.md §4.1.2/§4.2).
func GetSigningPayload(unsigned *tx.UnsignedTransaction) (*tx.SigningPayload, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("svm: GetSigningPayload called on a consumed UnsignedTransaction")
	}
	raw, ok := unsigned.Raw.(*RawTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "svm.GetSigningPayload: wrong Raw type"}
	}
	messageBytes, err := raw.Tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("svm: serialise message: %w", err)
	}
	return &tx.SigningPayload{
		ChainAlias: unsigned.ChainAlias,
		Data:       [][]byte{messageBytes},
		Algorithm:  tx.AlgorithmEd25519,
	}, nil
}
