package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// Overrides carries the caller-supplied fields a Rebuild can merge over an
// intent's defaults, mirroring the teacher's pattern of accepting an
// optional *big.Int gas price in x402/local_facilitator.go and generalising
// it to the full fee/nonce/gas surface (spec.md §4.6, §9).
type Overrides struct {
	Nonce                *uint64
	GasLimit             *uint64
	GasPrice             *big.Int // legacy transactions only
	MaxFeePerGas         *big.Int // EIP-1559 only
	MaxPriorityFeePerGas *big.Int // EIP-1559 only
	ForceLegacy          bool
	FeeSpeed             string // "slow" | "standard" | "fast"; default "standard"
}

func merge(base, extra Overrides) Overrides {
	if extra.Nonce != nil {
		base.Nonce = extra.Nonce
	}
	if extra.GasLimit != nil {
		base.GasLimit = extra.GasLimit
	}
	if extra.GasPrice != nil {
		base.GasPrice = extra.GasPrice
	}
	if extra.MaxFeePerGas != nil {
		base.MaxFeePerGas = extra.MaxFeePerGas
	}
	if extra.MaxPriorityFeePerGas != nil {
		base.MaxPriorityFeePerGas = extra.MaxPriorityFeePerGas
	}
	if extra.ForceLegacy {
		base.ForceLegacy = true
	}
	if extra.FeeSpeed != "" {
		base.FeeSpeed = extra.FeeSpeed
	}
	return base
}

// Build constructs an UnsignedTransaction for any of the four Intent kinds
// spec.md §3 names, resolving nonce and fee fields against capability
// unless overrides supplies them.
func Build(ctx context.Context, capability rpc.Capability, chainAlias string, intent tx.Intent, overrides Overrides) (*tx.UnsignedTransaction, error) {
	cfg, err := registry.Lookup(chainAlias)
	if err != nil {
		return nil, err
	}
	if cfg.Ecosystem != registry.EcosystemEVM {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "evm.Build"}
	}

	var (
		from     string
		to       *common.Address
		value    = big.NewInt(0)
		data     []byte
		gasHint  uint64
		isDeploy bool
	)

	switch it := intent.(type) {
	case tx.NativeTransfer:
		from = it.From
		addr := common.HexToAddress(it.To)
		to = &addr
		if err := parseBigDecimal(it.Value, value); err != nil {
			return nil, err
		}
		gasHint = DefaultGasLimitNative

	case tx.TokenTransfer:
		if it.Standard != tx.StandardERC20 {
			return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: fmt.Sprintf("token standard %q", it.Standard)}
		}
		from = it.From
		contract := common.HexToAddress(it.TokenContract)
		to = &contract
		amount := new(big.Int)
		if err := parseBigDecimal(it.Value, amount); err != nil {
			return nil, err
		}
		data = encodeERC20Transfer(common.HexToAddress(it.To), amount)
		gasHint = DefaultGasLimitERC20

	case tx.ContractCall:
		from = it.From
		contract := common.HexToAddress(it.Contract)
		to = &contract
		data = it.Data
		if it.Value != "" {
			if err := parseBigDecimal(it.Value, value); err != nil {
				return nil, err
			}
		}
		gasHint = DefaultGasLimitContractCall

	case tx.ContractDeploy:
		from = it.From
		to = nil
		data = append(append([]byte{}, it.Bytecode...), it.ConstructorArgs...)
		gasHint = DefaultGasLimitContractCall
		isDeploy = true

	default:
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "unrecognised intent"}
	}

	nonce := overrides.Nonce
	if nonce == nil {
		n, err := fetchNonce(ctx, capability, cfg.RPCURL, from)
		if err != nil {
			return nil, err
		}
		nonce = &n
	}

	gasLimit := overrides.GasLimit
	if gasLimit == nil {
		g, err := estimateGas(ctx, capability, cfg.RPCURL, from, to, value, data, gasHint)
		if err != nil {
			return nil, err
		}
		gasLimit = &g
	}

	var expectedAddress string
	if isDeploy {
		addr, err := address.ContractAddressFromNonce(common.HexToAddress(from), *nonce)
		if err != nil {
			return nil, fmt.Errorf("evm: derive expected contract address: %w", err)
		}
		expectedAddress = addr.Hex()
	}

	chainID := big.NewInt(cfg.ChainID)
	useEIP1559 := cfg.Features.EIP1559 && !overrides.ForceLegacy

	var (
		innerTx *types.Transaction
		signer  types.Signer
	)
	if useEIP1559 {
		tip, cap2, err := resolveEIP1559Fees(ctx, capability, cfg.RPCURL, overrides)
		if err != nil {
			return nil, err
		}
		innerTx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     *nonce,
			GasTipCap: tip,
			GasFeeCap: cap2,
			Gas:       *gasLimit,
			To:        to,
			Value:     value,
			Data:      data,
		})
		signer = types.NewLondonSigner(chainID)
	} else {
		gasPrice := overrides.GasPrice
		if gasPrice == nil {
			gp, err := fetchGasPrice(ctx, capability, cfg.RPCURL)
			if err != nil {
				return nil, err
			}
			gasPrice = gp
		}
		innerTx = types.NewTx(&types.LegacyTx{
			Nonce:    *nonce,
			GasPrice: gasPrice,
			Gas:      *gasLimit,
			To:       to,
			Value:    value,
			Data:     data,
		})
		signer = types.NewEIP155Signer(chainID)
	}

	raw := &RawTx{Tx: innerTx, ChainID: chainID, Signer: signer}
	serializedBytes, err := innerTx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("evm: marshal unsigned transaction: %w", err)
	}

	unsigned := &tx.UnsignedTransaction{
		ChainAlias:      chainAlias,
		Serialized:      hexutil.Encode(serializedBytes),
		Raw:             raw,
		ExpectedAddress: expectedAddress,
	}
	unsigned.SetRebuild(func(rawOverrides any) (*tx.UnsignedTransaction, error) {
		extra, ok := rawOverrides.(Overrides)
		if !ok {
			return nil, fmt.Errorf("evm: Rebuild expects evm.Overrides, got %T", rawOverrides)
		}
		return Build(ctx, capability, chainAlias, intent, merge(overrides, extra))
	})
	return unsigned, nil
}

func encodeERC20Transfer(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+32+32)
	data = append(data, erc20TransferSelector...)
	data = append(data, make([]byte, 12)...)
	data = append(data, to.Bytes()...)
	amountBytes := amount.Bytes()
	data = append(data, make([]byte, 32-len(amountBytes))...)
	data = append(data, amountBytes...)
	return data
}

// parseBigDecimal parses a base-10 integer decimal string (spec.md §9: no
// floats) into dst.
func parseBigDecimal(s string, dst *big.Int) error {
	if s == "" {
		dst.SetInt64(0)
		return nil
	}
	if _, ok := dst.SetString(s, 10); !ok {
		return &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a base-10 integer", s)}
	}
	if dst.Sign() < 0 {
		return &chainerr.InvalidAmountError{Reason: "amount must not be negative"}
	}
	return nil
}

func fetchNonce(ctx context.Context, capability rpc.Capability, rpcURL, from string) (uint64, error) {
	var result hexutil.Uint64
	if err := capability.Call(ctx, rpcURL, "eth_getTransactionCount", []any{from, "pending"}, &result); err != nil {
		return 0, fmt.Errorf("evm: fetch nonce: %w", err)
	}
	return uint64(result), nil
}

func estimateGas(ctx context.Context, capability rpc.Capability, rpcURL, from string, to *common.Address, value *big.Int, data []byte, fallback uint64) (uint64, error) {
	callMsg := map[string]any{
		"from":  from,
		"value": hexutil.EncodeBig(value),
		"data":  hexutil.Encode(data),
	}
	if to != nil {
		callMsg["to"] = to.Hex()
	}
	var result hexutil.Uint64
	if err := capability.Call(ctx, rpcURL, "eth_estimateGas", []any{callMsg}, &result); err != nil {
		return fallback, nil
	}
	return uint64(result), nil
}

func fetchGasPrice(ctx context.Context, capability rpc.Capability, rpcURL string) (*big.Int, error) {
	var result hexutil.Big
	if err := capability.Call(ctx, rpcURL, "eth_gasPrice", nil, &result); err != nil {
		return nil, fmt.Errorf("evm: fetch gas price: %w", err)
	}
	return (*big.Int)(&result), nil
}
