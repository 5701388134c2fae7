package utxo

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

// DecodeRaw decodes either a base64 PSBT (unsigned) or a raw hex-encoded
// wire transaction (signed/broadcastable) and normalises it. UTXO never
// carries a token layer, so TokenTransfers is always empty (spec.md §4.4).
func DecodeRaw(chainAlias, serialized string) (*tx.NormalisedTransaction, error) {
	if packet, err := psbt.NewFromRawBytes(bytes.NewReader([]byte(serialized)), true); err == nil {
		return normaliseMsgTx(chainAlias, packet.UnsignedTx, len(packet.Inputs), len(packet.Outputs)), nil
	}

	raw, err := hex.DecodeString(serialized)
	if err != nil {
		return nil, &chainerr.InvalidTransactionHashError{ChainAlias: chainAlias, Hash: serialized, Reason: "neither a valid PSBT nor valid hex"}
	}
	var msgTx wire.MsgTx
	if err := msgTx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("utxo: decode raw transaction: %w", err)
	}
	return normaliseMsgTx(chainAlias, &msgTx, len(msgTx.TxIn), len(msgTx.TxOut)), nil
}

func normaliseMsgTx(chainAlias string, msgTx *wire.MsgTx, inputCount, outputCount int) *tx.NormalisedTransaction {
	var totalOut int64
	for _, out := range msgTx.TxOut {
		totalOut += out.Value
	}
	n := &tx.NormalisedTransaction{
		ChainAlias: chainAlias,
		Type:       tx.TxTypeNativeTransfer,
		Value:      fmt.Sprintf("%d", totalOut),
		Status:     tx.TxStatusPending,
		Metadata: tx.Metadata{
			InputCount:  inputCount,
			OutputCount: outputCount,
		},
	}
	return n
}
