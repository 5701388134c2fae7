package xrpl

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// sha512Half is SHA-512's first 32 bytes — XRPL's "half-SHA-512" digest
// used for both the signing preimage and the transaction hash (spec.md
// §4.1.5/§4.2). crypto/sha512 is stdlib; no third-party library in the
// retrieval pack implements XRPL's half-digest convention, and SHA-512
// itself needs nothing beyond what the standard library already provides.
func sha512Half(parts ...[]byte) []byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)[:32]
}

// GetSigningPayload returns SHA-512-half(STX-prefix ‖ unsigned blob) as the
// sole signing preimage (spec.md §4.1.5).
func GetSigningPayload(unsigned *tx.UnsignedTransaction) (*tx.SigningPayload, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("xrpl: GetSigningPayload called on a consumed UnsignedTransaction")
	}
	if _, ok := unsigned.Raw.(*RawXRPLTx); !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "xrpl.GetSigningPayload: wrong Raw type"}
	}
	unsignedBlob, err := hex.DecodeString(unsigned.Serialized)
	if err != nil {
		return nil, fmt.Errorf("xrpl: decode stored blob: %w", err)
	}
	digest := sha512Half(stxPrefix, unsignedBlob)
	return &tx.SigningPayload{
		ChainAlias: unsigned.ChainAlias,
		Data:       [][]byte{digest},
		Algorithm:  tx.AlgorithmSecp256k1,
	}, nil
}
