package evm

import (
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// GetSigningPayload returns the single 32-byte sighash an EVM transaction
// needs signed: types.Signer.Hash already implements the correct preimage
// for both legacy (EIP-155) and typed (EIP-1559) transactions (spec.md
// §4.2's EVM row), so no separate RLP-preimage code needs writing here.
func GetSigningPayload(unsigned *tx.UnsignedTransaction) (*tx.SigningPayload, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("evm: GetSigningPayload called on a consumed UnsignedTransaction")
	}
	raw, ok := unsigned.Raw.(*RawTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "evm.GetSigningPayload: wrong Raw type"}
	}
	hash := raw.Signer.Hash(raw.Tx)
	return &tx.SigningPayload{
		ChainAlias: unsigned.ChainAlias,
		Data:       [][]byte{hash.Bytes()},
		Algorithm:  tx.AlgorithmSecp256k1,
	}, nil
}
