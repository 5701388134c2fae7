package substrate

import (
	"encoding/hex"
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/tx"
)

// ApplySignature assembles the final Extrinsic v4 byte string: a
// compact-length prefix, the signed version byte, MultiAddress::Id(from),
// MultiSignature::Ed25519(sig), the mortality era, nonce, tip, and the
// call itself (spec.md §4.1.6).
func ApplySignature(unsigned *tx.UnsignedTransaction, signatures [][]byte) (*tx.SignedTransaction, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("substrate: ApplySignature called on an already-consumed UnsignedTransaction")
	}
	if len(signatures) != 1 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Expected: 1, Got: len(signatures)}
	}
	raw, ok := unsigned.Raw.(*RawExtrinsic)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "substrate.ApplySignature: wrong Raw type"}
	}
	sig := signatures[0]
	if len(sig) != 64 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("expected a 64-byte ed25519 signature, got %d bytes", len(sig))}
	}

	extrinsic := assembleExtrinsic(raw, sig)

	// Unlike the signed-payload preimage, Substrate always hashes the
	// fully-encoded extrinsic with Blake2b-256 regardless of its length.
	txHash := codec.Blake2b256(extrinsic)

	unsigned.MarkConsumed()
	return &tx.SignedTransaction{
		ChainAlias: unsigned.ChainAlias,
		Serialized: hex.EncodeToString(extrinsic),
		Hash:       hex.EncodeToString(txHash),
	}, nil
}

// assembleExtrinsic encodes the length-prefixed Extrinsic v4 byte string
// for raw signed with sig: the signed version byte, MultiAddress::Id(from),
// MultiSignature::Ed25519(sig), the mortality era, nonce, tip, and the
// call itself (spec.md §4.1.6).
func assembleExtrinsic(raw *RawExtrinsic, sig []byte) []byte {
	var body []byte
	body = append(body, signedExtrinsicVersion)
	body = append(body, multiAddressIDVariant)
	body = append(body, raw.AccountID32...)
	body = append(body, multiSignatureEd25519Variant)
	body = append(body, sig...)
	body = append(body, eraImmortal)
	body = append(body, codec.SCALEEncodeCompact(raw.Nonce)...)
	body = append(body, codec.SCALEEncodeCompact(raw.Tip)...)
	body = append(body, raw.CallBytes...)
	return append(codec.PutSCALECompact(uint64(len(body))), body...)
}
