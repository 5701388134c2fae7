package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// ApplySignature attaches a 64-byte (r||s) signature to the transaction
// carried by unsigned, recovering the missing recovery id by trying both
// parities and keeping whichever recovers to expectedSigner (spec.md §4.3's
// Open Question, resolved in DESIGN.md: the engine never receives a v bit
// from the external signer, only r and s).
func ApplySignature(unsigned *tx.UnsignedTransaction, signatures [][]byte, expectedSigner string) (*tx.SignedTransaction, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("evm: ApplySignature called on an already-consumed UnsignedTransaction")
	}
	if len(signatures) != 1 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Expected: 1, Got: len(signatures)}
	}
	sig := signatures[0]
	if len(sig) != 64 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("expected a 64-byte r||s signature, got %d bytes", len(sig))}
	}
	raw, ok := unsigned.Raw.(*RawTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "evm.ApplySignature: wrong Raw type"}
	}

	sighash := raw.Signer.Hash(raw.Tx)
	expected := common.HexToAddress(expectedSigner)

	var sig65 []byte
	found := false
	for _, v := range []byte{0, 1} {
		candidate := append(append([]byte{}, sig...), v)
		pub, err := crypto.SigToPub(sighash.Bytes(), candidate)
		if err != nil {
			continue
		}
		if crypto.PubkeyToAddress(*pub) == expected {
			sig65 = candidate
			found = true
			break
		}
	}
	if !found {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: "signature does not recover to the expected signer under either parity"}
	}

	signedTx, err := raw.Tx.WithSignature(raw.Signer, sig65)
	if err != nil {
		return nil, fmt.Errorf("evm: attach signature: %w", err)
	}

	serializedBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("evm: marshal signed transaction: %w", err)
	}

	unsigned.MarkConsumed()
	return &tx.SignedTransaction{
		ChainAlias: unsigned.ChainAlias,
		Serialized: hexutil.Encode(serializedBytes),
		Hash:       signedTx.Hash().Hex(),
	}, nil
}
