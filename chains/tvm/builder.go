package tvm

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// Overrides lets a Rebuild reuse a previously-fetched reference block or
// expiration window instead of re-querying the network (spec.md §4.1:
// "TVM -> latest block for refBlockBytes/refBlockHash, expiration = now +
// 60 min").
type Overrides struct {
	RefBlockBytes []byte
	RefBlockHash  []byte
	Expiration    int64 // unix millis; 0 = now + ExpiryWindow
	ExpiryWindow  time.Duration
	FeeLimit      int64 // contract-call/deploy only; 0 = omit (native) or DefaultFeeLimitSun (deploy)
}

func merge(base, extra Overrides) Overrides {
	if extra.RefBlockBytes != nil {
		base.RefBlockBytes = extra.RefBlockBytes
	}
	if extra.RefBlockHash != nil {
		base.RefBlockHash = extra.RefBlockHash
	}
	if extra.Expiration != 0 {
		base.Expiration = extra.Expiration
	}
	if extra.ExpiryWindow != 0 {
		base.ExpiryWindow = extra.ExpiryWindow
	}
	if extra.FeeLimit != 0 {
		base.FeeLimit = extra.FeeLimit
	}
	return base
}

type nowBlockResponse struct {
	BlockID     string `json:"blockID"`
	BlockHeader struct {
		RawData struct {
			Number int64 `json:"number"`
		} `json:"raw_data"`
	} `json:"block_header"`
}

// Build assembles a Tron Transaction.raw_data and derives its txID =
// SHA-256(rawData) (spec.md §4.1.4).
func Build(ctx context.Context, capability rpc.Capability, chainAlias string, intent tx.Intent, overrides Overrides) (*tx.UnsignedTransaction, error) {
	cfg, err := registry.Lookup(chainAlias)
	if err != nil {
		return nil, err
	}
	if cfg.Ecosystem != registry.EcosystemTVM {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "tvm.Build"}
	}

	refBlockBytes, refBlockHash := overrides.RefBlockBytes, overrides.RefBlockHash
	if refBlockBytes == nil || refBlockHash == nil {
		refBlockBytes, refBlockHash, err = fetchRefBlock(ctx, capability, cfg.RPCURL)
		if err != nil {
			return nil, err
		}
	}

	expiryWindow := overrides.ExpiryWindow
	if expiryWindow == 0 {
		expiryWindow = 60 * time.Minute
	}
	now := time.Now()
	expiration := overrides.Expiration
	if expiration == 0 {
		expiration = now.Add(expiryWindow).UnixMilli()
	}
	timestamp := now.UnixMilli()

	var (
		ownerHex    string
		contractPB  []byte
		contractTyp int
		feeLimit    int64
		isDeploy    bool
	)

	switch it := intent.(type) {
	case tx.NativeTransfer:
		ownerHex, err = address.TronBase58ToHex(it.From)
		if err != nil {
			return nil, err
		}
		toHex, err := address.TronBase58ToHex(it.To)
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseInt(it.Value, 10, 64)
		if err != nil || amount < 0 {
			return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative SUN amount", it.Value)}
		}
		contractTyp = contractTypeTransfer
		contractPB = encodeTransferContract(ownerHex, toHex, amount)

	case tx.TokenTransfer:
		if it.Standard != tx.StandardTRC20 {
			return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: fmt.Sprintf("token standard %q", it.Standard)}
		}
		ownerHex, err = address.TronBase58ToHex(it.From)
		if err != nil {
			return nil, err
		}
		contractHex, err := address.TronBase58ToHex(it.TokenContract)
		if err != nil {
			return nil, err
		}
		amount := new(big.Int)
		if _, ok := amount.SetString(it.Value, 10); !ok || amount.Sign() < 0 {
			return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative base-10 integer", it.Value)}
		}
		toHex, err := address.TronBase58ToHex(it.To)
		if err != nil {
			return nil, err
		}
		data := encodeTRC20Transfer(toHex, amount)
		contractTyp = contractTypeTriggerSmartContract
		contractPB = encodeTriggerSmartContract(ownerHex, contractHex, data)
		feeLimit = overrides.FeeLimit
		if feeLimit == 0 {
			feeLimit = 100_000_000 // 100 TRX default bandwidth/energy ceiling for a TRC-20 call
		}

	case tx.ContractCall:
		ownerHex, err = address.TronBase58ToHex(it.From)
		if err != nil {
			return nil, err
		}
		contractHex, err := address.TronBase58ToHex(it.Contract)
		if err != nil {
			return nil, err
		}
		contractTyp = contractTypeTriggerSmartContract
		contractPB = encodeTriggerSmartContract(ownerHex, contractHex, it.Data)
		feeLimit = overrides.FeeLimit
		if feeLimit == 0 {
			feeLimit = 100_000_000
		}

	case tx.ContractDeploy:
		ownerHex, err = address.TronBase58ToHex(it.From)
		if err != nil {
			return nil, err
		}
		contractTyp = contractTypeCreateSmartContract
		contractPB = encodeCreateSmartContract(ownerHex, append(append([]byte{}, it.Bytecode...), it.ConstructorArgs...))
		feeLimit = overrides.FeeLimit
		if feeLimit == 0 {
			feeLimit = DefaultFeeLimitSun
		}
		isDeploy = true

	default:
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "unrecognised intent"}
	}

	contractMsg := append(
		codec.PBVarintField(fieldContractType, uint64(contractTyp)),
		codec.PBMessageField(fieldContractParameter, encodeAny(typeURLFor(contractTyp), contractPB))...,
	)

	var rawData []byte
	rawData = append(rawData, codec.PBBytesField(fieldRefBlockBytes, refBlockBytes)...)
	rawData = append(rawData, codec.PBBytesField(fieldRefBlockHash, refBlockHash)...)
	rawData = append(rawData, codec.PBVarintField(fieldExpiration, uint64(expiration))...)
	rawData = append(rawData, codec.PBMessageField(fieldContract, contractMsg)...)
	rawData = append(rawData, codec.PBVarintField(fieldTimestamp, uint64(timestamp))...)
	if feeLimit > 0 {
		rawData = append(rawData, codec.PBVarintField(fieldFeeLimit, uint64(feeLimit))...)
	}

	txID := codec.SHA256Once(rawData)

	var expectedAddress string
	if isDeploy {
		addr, err := expectedContractAddress(ownerHex, txID)
		if err != nil {
			return nil, err
		}
		expectedAddress = addr
	}

	raw := &RawTVMTx{RawDataBytes: rawData, TxID: txID, OwnerHex: ownerHex}
	serializedJSON, err := json.Marshal(struct {
		RawDataHex string `json:"rawDataHex"`
		TxIDHex    string `json:"txID"`
	}{hex.EncodeToString(rawData), hex.EncodeToString(txID)})
	if err != nil {
		return nil, fmt.Errorf("tvm: serialise unsigned transaction: %w", err)
	}

	unsigned := &tx.UnsignedTransaction{
		ChainAlias:      chainAlias,
		Serialized:      string(serializedJSON),
		Raw:             raw,
		ExpectedAddress: expectedAddress,
	}
	unsigned.SetRebuild(func(rawOverrides any) (*tx.UnsignedTransaction, error) {
		extra, ok := rawOverrides.(Overrides)
		if !ok {
			return nil, fmt.Errorf("tvm: Rebuild expects tvm.Overrides, got %T", rawOverrides)
		}
		return Build(ctx, capability, chainAlias, intent, merge(overrides, extra))
	})
	return unsigned, nil
}

func typeURLFor(contractType int) string {
	switch contractType {
	case contractTypeTriggerSmartContract:
		return typeURLTriggerSmartContract
	case contractTypeCreateSmartContract:
		return typeURLCreateSmartContract
	default:
		return typeURLTransferContract
	}
}

func encodeAny(typeURL string, value []byte) []byte {
	out := codec.PBBytesField(fieldAnyTypeURL, []byte(typeURL))
	return append(out, codec.PBBytesField(fieldAnyValue, value)...)
}

// expectedContractAddress derives a CreateSmartContract deployment's
// future address per spec.md §4.1.4: lastBytes20(SHA-256(ownerHex ‖
// txID)), prefixed with the 0x41 Tron address version byte and rendered
// in the same base58check form every other address this package hands
// back uses.
func expectedContractAddress(ownerHex string, txID []byte) (string, error) {
	ownerBytes, err := hex.DecodeString(ownerHex)
	if err != nil {
		return "", fmt.Errorf("tvm: decode owner address for expected contract address: %w", err)
	}
	digest := codec.SHA256Once(append(append([]byte{}, ownerBytes...), txID...))
	last20 := digest[len(digest)-20:]
	return address.TronHexToBase58("41" + hex.EncodeToString(last20))
}

func encodeTransferContract(ownerHex, toHex string, amount int64) []byte {
	ownerBytes, _ := hex.DecodeString(ownerHex)
	toBytes, _ := hex.DecodeString(toHex)
	out := codec.PBBytesField(1, ownerBytes)
	out = append(out, codec.PBBytesField(2, toBytes)...)
	out = append(out, codec.PBVarintField(3, uint64(amount))...)
	return out
}

func encodeTriggerSmartContract(ownerHex, contractHex string, data []byte) []byte {
	ownerBytes, _ := hex.DecodeString(ownerHex)
	contractBytes, _ := hex.DecodeString(contractHex)
	out := codec.PBBytesField(1, ownerBytes)
	out = append(out, codec.PBBytesField(2, contractBytes)...)
	out = append(out, codec.PBBytesField(4, data)...)
	return out
}

func encodeCreateSmartContract(ownerHex string, bytecode []byte) []byte {
	ownerBytes, _ := hex.DecodeString(ownerHex)
	smartContract := codec.PBBytesField(1, ownerBytes)
	smartContract = append(smartContract, codec.PBBytesField(4, bytecode)...)
	out := codec.PBBytesField(1, ownerBytes)
	out = append(out, codec.PBMessageField(2, smartContract)...)
	return out
}

func encodeTRC20Transfer(toHex string, amount *big.Int) []byte {
	toBytes, _ := hex.DecodeString(toHex)
	data := make([]byte, 0, 4+32+32)
	data = append(data, erc20TransferSelector...)
	data = append(data, make([]byte, 12)...)
	// toBytes is 21 bytes (0x41 prefix + 20-byte hash); the EVM-shaped
	// calldata only ever wants the trailing 20.
	if len(toBytes) == 21 {
		toBytes = toBytes[1:]
	}
	data = append(data, toBytes...)
	amountBytes := amount.Bytes()
	data = append(data, make([]byte, 32-len(amountBytes))...)
	data = append(data, amountBytes...)
	return data
}

func fetchRefBlock(ctx context.Context, capability rpc.Capability, rpcURL string) ([]byte, []byte, error) {
	body, err := capability.HTTPGet(ctx, rpcURL+"/wallet/getnowblock")
	if err != nil {
		return nil, nil, fmt.Errorf("tvm: fetch reference block: %w", err)
	}
	var resp nowBlockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("tvm: parse reference block: %w", err)
	}
	blockHash, err := hex.DecodeString(resp.BlockID)
	if err != nil || len(blockHash) < 16 {
		return nil, nil, fmt.Errorf("tvm: malformed blockID in getnowblock response")
	}
	num := resp.BlockHeader.RawData.Number
	refBlockBytes := []byte{byte(num >> 8), byte(num)}
	refBlockHash := blockHash[8:16]
	return refBlockBytes, refBlockHash, nil
}
