package utxo

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// ApplySignature attaches one signature per input — ECDSA+pubkey for
// p2wpkh, Schnorr for p2tr — finalises every input, and extracts the
// network-ready raw transaction (spec.md §4.1.3: "the applier picks the
// right signature shape per input").
func ApplySignature(unsigned *tx.UnsignedTransaction, signatures [][]byte) (*tx.SignedTransaction, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("utxo: ApplySignature called on an already-consumed UnsignedTransaction")
	}
	raw, ok := unsigned.Raw.(*RawPSBT)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "utxo.ApplySignature: wrong Raw type"}
	}
	if len(signatures) != len(raw.Packet.Inputs) {
		return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Expected: len(raw.Packet.Inputs), Got: len(signatures)}
	}

	// Sign and finalise a copy so raw.Packet itself is never mutated.
	var pbuf bytes.Buffer
	if err := raw.Packet.Serialize(&pbuf); err != nil {
		return nil, fmt.Errorf("utxo: copy PSBT: %w", err)
	}
	packet, err := psbt.NewFromRawBytes(&pbuf, false)
	if err != nil {
		return nil, fmt.Errorf("utxo: copy PSBT: %w", err)
	}

	for i, sig := range signatures {
		switch raw.ScriptTypes[i] {
		case "p2wpkh":
			pubKey := raw.PubKeys[i]
			if len(pubKey) == 0 {
				return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("input %d: no pubkey supplied for p2wpkh signing", i)}
			}
			packet.Inputs[i].PartialSigs = []*psbt.PartialSig{{
				PubKey:    pubKey,
				Signature: append(append([]byte{}, sig...), byte(txscript.SigHashAll)),
			}}
		case "p2tr":
			if len(sig) != 64 {
				return nil, &chainerr.SignatureError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("input %d: expected a 64-byte Schnorr signature, got %d bytes", i, len(sig))}
			}
			packet.Inputs[i].TaprootKeySpendSig = sig
		default:
			return nil, &chainerr.InvalidAddressError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("input %d has an unsupported script type", i)}
		}

		if err := psbt.Finalize(packet, i); err != nil {
			return nil, &chainerr.PsbtError{Phase: chainerr.PsbtPhaseFinalize, Cause: fmt.Errorf("input %d: %w", i, err)}
		}
	}

	finalTx, err := psbt.Extract(packet)
	if err != nil {
		return nil, &chainerr.PsbtError{Phase: chainerr.PsbtPhaseExtract, Cause: err}
	}

	var buf bytes.Buffer
	if err := finalTx.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("utxo: serialise final transaction: %w", err)
	}

	unsigned.MarkConsumed()
	return &tx.SignedTransaction{
		ChainAlias: unsigned.ChainAlias,
		Serialized: fmt.Sprintf("%x", buf.Bytes()),
		Hash:       finalTx.TxHash().String(),
	}, nil
}
