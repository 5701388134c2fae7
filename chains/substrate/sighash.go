package substrate

import (
	"fmt"

	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/tx"
)

// signingPayloadBytes concatenates call || era || nonce || tip ||
// specVersion || transactionVersion || genesisHash || blockHash and
// applies Blake2b-256 when the result exceeds 256 bytes (spec.md §4.1.6).
func signingPayloadBytes(raw *RawExtrinsic) []byte {
	var payload []byte
	payload = append(payload, raw.CallBytes...)
	payload = append(payload, eraImmortal)
	payload = append(payload, codec.SCALEEncodeCompact(raw.Nonce)...)
	payload = append(payload, codec.SCALEEncodeCompact(raw.Tip)...)
	payload = append(payload, codec.SCALEEncodeU32(raw.SpecVersion)...)
	payload = append(payload, codec.SCALEEncodeU32(raw.TransactionVersion)...)
	payload = append(payload, raw.GenesisHash...)
	payload = append(payload, raw.BlockHash...)

	if len(payload) > blake2b256Threshold {
		return codec.Blake2b256(payload)
	}
	return payload
}

// GetSigningPayload returns the extrinsic's signed payload, hashed with
// Blake2b-256 when longer than 256 bytes (spec.md §4.1.6).
func GetSigningPayload(unsigned *tx.UnsignedTransaction) (*tx.SigningPayload, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("substrate: GetSigningPayload called on an already-consumed UnsignedTransaction")
	}
	raw, ok := unsigned.Raw.(*RawExtrinsic)
	if !ok {
		return nil, fmt.Errorf("substrate: GetSigningPayload: Raw is %T, want *RawExtrinsic", unsigned.Raw)
	}
	return &tx.SigningPayload{
		ChainAlias: unsigned.ChainAlias,
		Data:       [][]byte{signingPayloadBytes(raw)},
		Algorithm:  tx.AlgorithmEd25519,
	}, nil
}
