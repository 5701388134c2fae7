package utxo

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// GetSigningPayload returns one sighash per input — BIP143 for p2wpkh,
// BIP341 key-path for p2tr — using txscript's own sighash helpers rather
// than a hand-rolled preimage assembler (spec.md §4.2's UTXO rows).
func GetSigningPayload(unsigned *tx.UnsignedTransaction) (*tx.SigningPayload, error) {
	if unsigned.Consumed() {
		return nil, fmt.Errorf("utxo: GetSigningPayload called on a consumed UnsignedTransaction")
	}
	raw, ok := unsigned.Raw.(*RawPSBT)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: unsigned.ChainAlias, Op: "utxo.GetSigningPayload: wrong Raw type"}
	}

	msgTx := raw.Packet.UnsignedTx
	prevOutFetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range raw.Packet.Inputs {
		if in.WitnessUtxo == nil {
			return nil, &chainerr.PsbtError{Phase: chainerr.PsbtPhaseParse, Cause: fmt.Errorf("input %d missing witnessUtxo", i)}
		}
		prevOutFetcher.AddPrevOut(msgTx.TxIn[i].PreviousOutPoint, in.WitnessUtxo)
	}
	sigHashes := txscript.NewTxSigHashes(msgTx, prevOutFetcher)

	digests := make([][]byte, len(raw.Packet.Inputs))
	for i, in := range raw.Packet.Inputs {
		switch raw.ScriptTypes[i] {
		case "p2wpkh":
			pkScript := in.WitnessUtxo.PkScript
			// P2WPKH's scriptCode is the equivalent P2PKH script over the
			// same 20-byte key hash (BIP143).
			scriptCode, err := p2wpkhScriptCode(pkScript)
			if err != nil {
				return nil, err
			}
			digest, err := txscript.CalcWitnessSigHash(scriptCode, sigHashes, txscript.SigHashAll, msgTx, i, in.WitnessUtxo.Value)
			if err != nil {
				return nil, fmt.Errorf("utxo: compute BIP143 sighash for input %d: %w", i, err)
			}
			digests[i] = digest
		case "p2tr":
			digest, err := txscript.CalcTaprootSignatureHash(sigHashes, txscript.SigHashDefault, msgTx, i, prevOutFetcher)
			if err != nil {
				return nil, fmt.Errorf("utxo: compute BIP341 sighash for input %d: %w", i, err)
			}
			digests[i] = digest
		default:
			return nil, &chainerr.InvalidAddressError{ChainAlias: unsigned.ChainAlias, Reason: fmt.Sprintf("input %d has an unsupported script type", i)}
		}
	}

	return &tx.SigningPayload{
		ChainAlias: unsigned.ChainAlias,
		Data:       digests,
		Algorithm:  tx.AlgorithmSecp256k1,
	}, nil
}

// p2wpkhScriptCode builds the classic P2PKH-shaped scriptCode BIP143
// requires for a P2WPKH input: OP_DUP OP_HASH160 <20-byte-hash> OP_EQUALVERIFY OP_CHECKSIG.
func p2wpkhScriptCode(witnessProgram []byte) ([]byte, error) {
	if len(witnessProgram) != 22 {
		return nil, fmt.Errorf("utxo: expected a 22-byte v0 witness program, got %d bytes", len(witnessProgram))
	}
	hash := witnessProgram[2:]
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(hash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	if err != nil {
		return nil, err
	}
	return script, nil
}
