package svm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// ApplySignature attaches a single 64-byte Ed25519 signature at index 0 —
// this engine only ever builds single-signer (fee-payer) transactions
// (spec.md §4.1.2's account-key ordering places the payer signer first).
func ApplySignature(unsigned *tx.UnsignedTransaction, signatures [][]byte) (*tx.SignedTransaction, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("svm: ApplySignature called on an already-consumed UnsignedTransaction")
	}
	if len(signatures) != 1 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Expected: 1, Got: len(signatures)}
	}
	if len(signatures[0]) != 64 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("expected a 64-byte Ed25519 signature, got %d bytes", len(signatures[0]))}
	}
	raw, ok := unsigned.Raw.(*RawTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "svm.ApplySignature: wrong Raw type"}
	}

	var sig solana.Signature
	copy(sig[:], signatures[0])
	raw.Tx.Signatures = []solana.Signature{sig}

	wireBytes, err := raw.Tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("svm: marshal signed transaction: %w", err)
	}

	unsigned.MarkConsumed()
	return &tx.SignedTransaction{
		ChainAlias: unsigned.ChainAlias,
		Serialized: base64Encode(wireBytes),
		Hash:       sig.String(),
	}, nil
}
