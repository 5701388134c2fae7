package substrate

import (
	"encoding/hex"
	"fmt"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/tx"
)

// DecodeRaw parses a hex-encoded Extrinsic v4 byte string back into a
// NormalisedTransaction, walking the fixed field layout ApplySignature
// produced (spec.md §4.4 round-trip law; the simple single-call-shape
// Balances.transfer_keep_alive extrinsic this builder emits).
func DecodeRaw(chainAlias, serialized string) (*tx.NormalisedTransaction, error) {
	raw, err := hex.DecodeString(serialized)
	if err != nil {
		return nil, &chainerr.InvalidTransactionHashError{ChainAlias: chainAlias, Hash: serialized, Reason: "not valid hex"}
	}

	length, n, err := codec.ReadSCALECompact(raw)
	if err != nil {
		return nil, fmt.Errorf("substrate: read extrinsic length: %w", err)
	}
	pos := n
	if pos+int(length) != len(raw) {
		return nil, fmt.Errorf("substrate: extrinsic length prefix %d does not match buffer", length)
	}

	if pos >= len(raw) || raw[pos] != signedExtrinsicVersion {
		return nil, fmt.Errorf("substrate: unsupported or unsigned extrinsic version byte 0x%02x", raw[pos])
	}
	pos++

	if pos >= len(raw) || raw[pos] != multiAddressIDVariant {
		return nil, fmt.Errorf("substrate: unsupported MultiAddress variant")
	}
	pos++
	if pos+32 > len(raw) {
		return nil, fmt.Errorf("substrate: truncated AccountId32")
	}
	fromKey := raw[pos : pos+32]
	pos += 32

	if pos >= len(raw) || raw[pos] != multiSignatureEd25519Variant {
		return nil, fmt.Errorf("substrate: unsupported MultiSignature variant")
	}
	pos++
	if pos+64 > len(raw) {
		return nil, fmt.Errorf("substrate: truncated signature")
	}
	pos += 64

	if pos >= len(raw) || raw[pos] != eraImmortal {
		return nil, fmt.Errorf("substrate: unsupported (mortal) era encoding")
	}
	pos++

	if _, n, err := codec.ReadSCALECompact(raw[pos:]); err != nil {
		return nil, fmt.Errorf("substrate: read nonce: %w", err)
	} else {
		pos += n
	}
	if _, n, err := codec.ReadSCALECompact(raw[pos:]); err != nil {
		return nil, fmt.Errorf("substrate: read tip: %w", err)
	} else {
		pos += n
	}

	if pos+2 > len(raw) {
		return nil, fmt.Errorf("substrate: truncated call index")
	}
	palletIndex, callIndex := raw[pos], raw[pos+1]
	pos += 2
	if palletIndex != balanceTransferPalletIndex || callIndex != balanceTransferCallIndex {
		return nil, fmt.Errorf("substrate: unsupported call {pallet %d, call %d}", palletIndex, callIndex)
	}

	if pos >= len(raw) || raw[pos] != multiAddressIDVariant {
		return nil, fmt.Errorf("substrate: unsupported destination MultiAddress variant")
	}
	pos++
	if pos+32 > len(raw) {
		return nil, fmt.Errorf("substrate: truncated destination AccountId32")
	}
	toKey := raw[pos : pos+32]
	pos += 32

	amount, _, err := codec.ReadSCALECompact(raw[pos:])
	if err != nil {
		return nil, fmt.Errorf("substrate: read transfer amount: %w", err)
	}

	fromAddr, err := address.EncodeSS58(address.SS58Prefix42, fromKey)
	if err != nil {
		return nil, err
	}
	toAddr, err := address.EncodeSS58(address.SS58Prefix42, toKey)
	if err != nil {
		return nil, err
	}

	return &tx.NormalisedTransaction{
		ChainAlias: chainAlias,
		Type:       tx.TxTypeNativeTransfer,
		From:       fromAddr,
		To:         toAddr,
		Value:      fmt.Sprintf("%d", amount),
		Status:     tx.TxStatusPending,
	}, nil
}
