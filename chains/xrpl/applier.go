package xrpl

import (
	"encoding/hex"
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// txnPrefix is the 4-byte namespace prefix XRPL hashes a fully-signed
// transaction blob under to produce its canonical transaction ID —
// distinct from the STX signing-preimage prefix (spec.md §4.1.5's
// GLOSSARY entry for Sighash/preimage).
var txnPrefix = []byte{0x54, 0x58, 0x4e, 0x00}

// ApplySignature attaches a single DER-encoded ECDSA signature as the
// TxnSignature field and re-serialises the transaction (spec.md §4.1.5;
// SigningPayload.algorithm is secp256k1 for the default XRPL account key
// type).
func ApplySignature(unsigned *tx.UnsignedTransaction, signatures [][]byte) (*tx.SignedTransaction, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("xrpl: ApplySignature called on an already-consumed UnsignedTransaction")
	}
	if len(signatures) != 1 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Expected: 1, Got: len(signatures)}
	}
	raw, ok := unsigned.Raw.(*RawXRPLTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "xrpl.ApplySignature: wrong Raw type"}
	}

	signedBlob, err := serializeTx(raw, signatures[0])
	if err != nil {
		return nil, fmt.Errorf("xrpl: assemble signed transaction: %w", err)
	}
	txHash := sha512Half(txnPrefix, signedBlob)

	unsigned.MarkConsumed()
	return &tx.SignedTransaction{
		ChainAlias: unsigned.ChainAlias,
		Serialized: hex.EncodeToString(signedBlob),
		Hash:       hex.EncodeToString(txHash),
	}, nil
}
