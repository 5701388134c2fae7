package tvm

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/tx"
)

// ApplySignature attaches a 65-byte (r||s||v) secp256k1 signature, trying
// both recovery parities and keeping whichever recovers to expectedSigner
// — Tron reuses Ethereum's v-recovery scheme (spec.md §4.3).
func ApplySignature(unsigned *tx.UnsignedTransaction, signatures [][]byte, expectedSigner string) (*tx.SignedTransaction, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("tvm: ApplySignature called on an already-consumed UnsignedTransaction")
	}
	if len(signatures) != 1 {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Expected: 1, Got: len(signatures)}
	}
	sig := signatures[0]
	raw, ok := unsigned.Raw.(*RawTVMTx)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "tvm.ApplySignature: wrong Raw type"}
	}
	if err := address.ValidateTVM(unsigned.ChainAlias, expectedSigner); err != nil {
		return nil, err
	}

	var sig65 []byte
	switch len(sig) {
	case 65:
		sig65 = sig
	case 64:
		found := false
		for _, v := range []byte{0, 1} {
			candidate := append(append([]byte{}, sig...), v)
			if derivedAddr, err := tronAddressFromSig(raw.TxID, candidate); err == nil && derivedAddr == expectedSigner {
				sig65 = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: "signature does not recover to the expected signer under either parity"}
		}
	default:
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("expected a 64- or 65-byte signature, got %d bytes", len(sig))}
	}

	finalTx := codec.PBMessageField(1, raw.RawDataBytes)
	finalTx = append(finalTx, codec.PBBytesField(2, sig65)...)

	unsigned.MarkConsumed()
	return &tx.SignedTransaction{
		ChainAlias: unsigned.ChainAlias,
		Serialized: hex.EncodeToString(finalTx),
		Hash:       hex.EncodeToString(raw.TxID),
	}, nil
}

func tronAddressFromSig(digest, sig65 []byte) (string, error) {
	pub, err := crypto.SigToPub(digest, sig65)
	if err != nil {
		return "", err
	}
	uncompressed := crypto.FromECDSAPub(pub)
	return address.TronAddressFromPubkey(uncompressed)
}
