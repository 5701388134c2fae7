package svm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/tx"
)

var splTokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
var systemProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

// DecodeRaw parses a base64-encoded message (unsigned) or whole transaction
// (signed) and classifies it per spec.md §4.4 rules 5-7.
func DecodeRaw(chainAlias, serialized string) (*tx.NormalisedTransaction, error) {
	raw, err := base64Decode(serialized)
	if err != nil {
		return nil, &chainerr.InvalidTransactionHashError{ChainAlias: chainAlias, Hash: serialized, Reason: "not valid base64"}
	}

	var message solana.Message
	if err := message.UnmarshalWithDecoder(solana.NewBinDecoder(raw)); err != nil {
		parsedTx, txErr := solana.TransactionFromDecoder(solana.NewBinDecoder(raw))
		if txErr != nil {
			return nil, fmt.Errorf("svm: decode message or transaction: %w", err)
		}
		message = parsedTx.Message
	}

	n := &tx.NormalisedTransaction{
		ChainAlias: chainAlias,
		Status:     tx.TxStatusPending,
		Type:       tx.TxTypeUnknown,
	}
	if len(message.AccountKeys) > 0 {
		n.From = message.AccountKeys[0].String()
	}

	for _, instr := range message.Instructions {
		if int(instr.ProgramIDIndex) >= len(message.AccountKeys) {
			continue
		}
		programID := message.AccountKeys[instr.ProgramIDIndex]
		switch {
		case programID.Equals(splTokenProgramID) && len(instr.Data) > 0 &&
			(instr.Data[0] == splTokenTransferTag || instr.Data[0] == splTokenTransferCheckedTag):
			n.Type = tx.TxTypeTokenTransfer
			n.TokenTransfers = append(n.TokenTransfers, tx.TokenTransferEvent{Standard: tx.StandardSPL})
		case programID.Equals(systemProgramID) && n.Type == tx.TxTypeUnknown:
			n.Type = tx.TxTypeNativeTransfer
		}
	}
	return n, nil
}
