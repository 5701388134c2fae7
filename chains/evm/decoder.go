package evm

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/tx"
)

// Log is the minimal receipt-log shape the decoder needs to extract
// confirmed ERC-20/721 Transfer events (spec.md §4.4).
type Log struct {
	Topics []string
	Data   string
}

// Receipt carries the post-execution fields a "confirmed" decode call
// layers on top of the raw transaction (spec.md §4.4's "indexer
// responses" case).
type Receipt struct {
	Status            bool
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	BlockNumber       *uint64
	Logs              []Log
}

// DecodeRaw reconstructs the pre-broadcast view of an (unsigned or signed)
// typed-transaction RLP hex string. Applied to an UnsignedTransaction's own
// Serialized field, re-serialising the result must reproduce the same
// bytes (spec.md §4.4 round-trip law).
func DecodeRaw(chainAlias, serialized string) (*tx.NormalisedTransaction, error) {
	raw, err := hexutil.Decode(serialized)
	if err != nil {
		return nil, &chainerr.InvalidTransactionHashError{ChainAlias: chainAlias, Hash: serialized, Reason: "not valid hex"}
	}
	var parsed types.Transaction
	if err := parsed.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("evm: decode raw transaction: %w", err)
	}
	n := classify(parsed.To(), parsed.Data(), parsed.Value())
	value := "0"
	if parsed.Value() != nil {
		value = parsed.Value().String()
	}
	from := ""
	if signer, err := recoverFromAnySigner(&parsed); err == nil {
		from = signer.Hex()
	}
	to := ""
	if parsed.To() != nil {
		to = parsed.To().Hex()
	}

	normalised := &tx.NormalisedTransaction{
		ChainAlias: chainAlias,
		Type:       n,
		From:       from,
		To:         to,
		Value:      value,
		Status:     tx.TxStatusPending,
	}
	applyClassificationFields(normalised, parsed.To(), parsed.Data(), value)
	return normalised, nil
}

// DecodeConfirmed normalises a mined transaction plus its receipt,
// extracting ERC-20/721 Transfer events from the logs (spec.md §4.4's
// "token transfer extraction from confirmed transactions").
func DecodeConfirmed(chainAlias string, parsed *types.Transaction, receipt Receipt, from string) (*tx.NormalisedTransaction, error) {
	value := "0"
	if parsed.Value() != nil {
		value = parsed.Value().String()
	}
	to := ""
	if parsed.To() != nil {
		to = parsed.To().Hex()
	}
	n := classify(parsed.To(), parsed.Data(), parsed.Value())

	status := tx.TxStatusConfirmed
	if !receipt.Status {
		status = tx.TxStatusFailed
	}

	normalised := &tx.NormalisedTransaction{
		ChainAlias:  chainAlias,
		Type:        n,
		From:        from,
		To:          to,
		Value:       value,
		Status:      status,
		BlockNumber: receipt.BlockNumber,
	}
	if receipt.EffectiveGasPrice != nil {
		normalised.Fee = new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed)).String()
	}
	applyClassificationFields(normalised, parsed.To(), parsed.Data(), value)

	cfg, _ := registry.Lookup(chainAlias)
	for _, lg := range receipt.Logs {
		if len(lg.Topics) == 0 || lg.Topics[0] != erc20TransferTopic0 {
			continue
		}
		evt := tx.TokenTransferEvent{
			Standard:     tx.StandardERC20,
			TokenAddress: "",
			Decimals:     cfg.Native.Decimals,
		}
		if len(lg.Topics) > 1 {
			evt.From = common.HexToAddress(lg.Topics[1]).Hex()
		}
		if len(lg.Topics) > 2 {
			evt.To = common.HexToAddress(lg.Topics[2]).Hex()
		}
		if len(lg.Topics) > 3 {
			// ERC-721: tokenId carried in topics[3] instead of data.
			evt.TokenID = new(big.Int).SetBytes(common.FromHex(lg.Topics[3])).String()
		} else if lg.Data != "" {
			evt.Value = new(big.Int).SetBytes(common.FromHex(lg.Data)).String()
		}
		normalised.TokenTransfers = append(normalised.TokenTransfers, evt)
	}
	return normalised, nil
}

// classify applies spec.md §4.4 rules 1-4 and 6-7 (rule 5 is SVM-only).
func classify(to *common.Address, data []byte, value *big.Int) tx.TxType {
	switch {
	case to == nil && len(data) > 0:
		return tx.TxTypeContractDeploy
	case len(data) >= 4 && bytes.Equal(data[:4], erc20TransferSelector):
		return tx.TxTypeTokenTransfer
	case len(data) >= 4 && bytes.Equal(data[:4], erc20ApproveSelector):
		return tx.TxTypeApproval
	case len(data) > 0:
		return tx.TxTypeContractCall
	case value != nil && value.Sign() > 0:
		return tx.TxTypeNativeTransfer
	default:
		return tx.TxTypeUnknown
	}
}

func applyClassificationFields(n *tx.NormalisedTransaction, to *common.Address, data []byte, nativeValue string) {
	switch n.Type {
	case tx.TxTypeContractDeploy:
		n.Metadata.IsContractDeployment = true
	case tx.TxTypeTokenTransfer:
		if to != nil {
			n.Metadata.TokenAddress = to.Hex()
		}
		if len(data) >= 68 {
			recipient := common.BytesToAddress(data[4:36])
			amount := new(big.Int).SetBytes(data[36:68])
			n.TokenTransfers = append(n.TokenTransfers, tx.TokenTransferEvent{
				Standard:     tx.StandardERC20,
				TokenAddress: n.Metadata.TokenAddress,
				To:           recipient.Hex(),
				Value:        amount.String(),
			})
		}
	}
}

func recoverFromAnySigner(parsed *types.Transaction) (common.Address, error) {
	chainID := parsed.ChainId()
	if chainID == nil || chainID.Sign() == 0 {
		return types.Sender(types.HomesteadSigner{}, parsed)
	}
	return types.Sender(types.NewLondonSigner(chainID), parsed)
}
