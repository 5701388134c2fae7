package tvm

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/tx"
)

// unsignedView is the shape Build's Serialized JSON takes (spec.md §6's
// TVM wire contract, trimmed to the fields this builder actually fills).
type unsignedView struct {
	RawDataHex string `json:"rawDataHex"`
	TxID       string `json:"txID"`
}

// DecodeRaw reconstructs the pending view of a not-yet-broadcast
// transaction from Build's own Serialized JSON, recomputing txID from
// rawDataHex to satisfy the round-trip law (spec.md §4.4).
func DecodeRaw(chainAlias, serialized string) (*tx.NormalisedTransaction, error) {
	var view unsignedView
	if err := json.Unmarshal([]byte(serialized), &view); err != nil {
		return nil, &chainerr.InvalidTransactionHashError{ChainAlias: chainAlias, Hash: serialized, Reason: "not valid tvm unsigned JSON"}
	}
	rawData, err := hex.DecodeString(view.RawDataHex)
	if err != nil {
		return nil, &chainerr.InvalidTransactionHashError{ChainAlias: chainAlias, Hash: serialized, Reason: "rawDataHex is not valid hex"}
	}
	if hex.EncodeToString(codec.SHA256Once(rawData)) != view.TxID {
		return nil, fmt.Errorf("tvm: txID does not match SHA-256(rawData)")
	}
	return &tx.NormalisedTransaction{
		ChainAlias: chainAlias,
		Type:       tx.TxTypeUnknown,
		Status:     tx.TxStatusPending,
	}, nil
}

// contractJSON mirrors the shape a Tron full node's HTTP API (or a
// TronGrid-style indexer) returns for one contract entry — field names
// match the wallet/gettransactionbyid REST response, the interface real
// Tron tooling actually talks to (no protobuf client library is part of
// this ecosystem's retrieval pack).
type contractJSON struct {
	Type      string `json:"type"`
	Parameter struct {
		Value   json.RawMessage `json:"value"`
		TypeURL string          `json:"type_url"`
	} `json:"parameter"`
}

type rawDataJSON struct {
	Contract   []contractJSON `json:"contract"`
	Timestamp  int64           `json:"timestamp"`
	Expiration int64           `json:"expiration"`
	FeeLimit   int64           `json:"fee_limit"`
}

type txViewJSON struct {
	TxID    string      `json:"txID"`
	RawData rawDataJSON `json:"raw_data"`
	Ret     []struct {
		ContractRet string `json:"contractRet"`
	} `json:"ret"`
}

type transferValue struct {
	OwnerAddress string `json:"owner_address"`
	ToAddress    string `json:"to_address"`
	Amount       int64  `json:"amount"`
}

type triggerValue struct {
	OwnerAddress    string `json:"owner_address"`
	ContractAddress string `json:"contract_address"`
	Data            string `json:"data"`
}

// DecodeIndexed normalises a Tron full-node/indexer JSON transaction view,
// applying spec.md §4.4 rules 2-4, 6-7 (rule 1 is EVM-only; rule 5 is
// SVM-only). The token-transfer entry comes from the TRC-20 transfer call
// data of a TriggerSmartContract; Transfer event logs are not read.
func DecodeIndexed(chainAlias string, body []byte) (*tx.NormalisedTransaction, error) {
	var view txViewJSON
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("tvm: decode transaction view: %w", err)
	}
	if len(view.RawData.Contract) == 0 {
		return nil, &chainerr.TransactionNotFoundError{ChainAlias: chainAlias, Hash: view.TxID}
	}
	c := view.RawData.Contract[0]

	n := &tx.NormalisedTransaction{
		ChainAlias: chainAlias,
		Status:     tx.TxStatusConfirmed,
	}
	if len(view.Ret) > 0 && view.Ret[0].ContractRet != "SUCCESS" {
		n.Status = tx.TxStatusFailed
	}

	switch c.Type {
	case "TransferContract":
		var v transferValue
		if err := json.Unmarshal(c.Parameter.Value, &v); err != nil {
			return nil, fmt.Errorf("tvm: decode TransferContract: %w", err)
		}
		from, _ := address.TronHexToBase58(v.OwnerAddress)
		to, _ := address.TronHexToBase58(v.ToAddress)
		n.Type = tx.TxTypeNativeTransfer
		n.From, n.To = from, to
		n.Value = fmt.Sprintf("%d", v.Amount)

	case "TriggerSmartContract":
		var v triggerValue
		if err := json.Unmarshal(c.Parameter.Value, &v); err != nil {
			return nil, fmt.Errorf("tvm: decode TriggerSmartContract: %w", err)
		}
		from, _ := address.TronHexToBase58(v.OwnerAddress)
		contractAddr, _ := address.TronHexToBase58(v.ContractAddress)
		n.From = from
		n.To = contractAddr
		n.Metadata.ContractAddress = contractAddr
		data, _ := hex.DecodeString(v.Data)
		switch {
		case len(data) >= 68 && bytes.Equal(data[:4], erc20TransferSelector):
			n.Type = tx.TxTypeTokenTransfer
			n.Metadata.TokenAddress = contractAddr
			recipientHex := "41" + hex.EncodeToString(data[16:36])
			recipient, _ := address.TronHexToBase58(recipientHex)
			amount := new(big.Int).SetBytes(data[36:68])
			n.TokenTransfers = append(n.TokenTransfers, tx.TokenTransferEvent{
				Standard:     tx.StandardTRC20,
				TokenAddress: contractAddr,
				To:           recipient,
				Value:        amount.String(),
			})
		case len(data) >= 4 && bytes.Equal(data[:4], erc20ApproveSelector):
			n.Type = tx.TxTypeApproval
		default:
			n.Type = tx.TxTypeContractCall
		}

	case "CreateSmartContract":
		from, _ := address.TronHexToBase58(extractOwnerFromCreate(c.Parameter.Value))
		n.Type = tx.TxTypeContractDeploy
		n.From = from
		n.Metadata.IsContractDeployment = true

	default:
		n.Type = tx.TxTypeUnknown
	}
	return n, nil
}

type createValue struct {
	OwnerAddress string `json:"owner_address"`
}

func extractOwnerFromCreate(raw json.RawMessage) string {
	var v createValue
	_ = json.Unmarshal(raw, &v)
	return v.OwnerAddress
}
