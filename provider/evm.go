package provider

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/chains/evm"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// erc20BalanceOfSelector is keccak256("balanceOf(address)")[:4].
var erc20BalanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// EvmProvider wraps chains/evm behind the common Provider interface.
type EvmProvider struct {
	capability rpc.Capability
	cfg        registry.ChainConfig
}

// NewEvmProvider constructs a Provider for an EVM-ecosystem chain alias.
func NewEvmProvider(capability rpc.Capability, cfg registry.ChainConfig) *EvmProvider {
	return &EvmProvider{capability: capability, cfg: cfg}
}

func (p *EvmProvider) ChainAlias() string          { return p.cfg.Alias }
func (p *EvmProvider) Config() registry.ChainConfig { return p.cfg }

func (p *EvmProvider) Capabilities() Capabilities {
	return Capabilities{
		ChainAlias:       p.cfg.Alias,
		Ecosystem:        registry.EcosystemEVM,
		SupportsEIP1559:  p.cfg.Features.EIP1559,
		SupportsMemo:     false,
		SupportsTokens:   true,
		MinConfirmations: 12,
	}
}

func (p *EvmProvider) GetNativeBalance(ctx context.Context, address string) (*Balance, error) {
	var result string
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "eth_getBalance", []any{address, "latest"}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "eth_getBalance", Body: err.Error()}
	}
	value, err := hexutil.DecodeBig(result)
	if err != nil {
		return nil, fmt.Errorf("evm: parse eth_getBalance result: %w", err)
	}
	return &Balance{Value: value.String(), Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
}

func (p *EvmProvider) GetTokenBalance(ctx context.Context, address, tokenContract string) (*Balance, error) {
	data := append(append([]byte{}, erc20BalanceOfSelector...), common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)
	callObj := map[string]any{"to": tokenContract, "data": hexutil.Encode(data)}
	var result string
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "eth_call", []any{callObj, "latest"}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "eth_call", Body: err.Error()}
	}
	value, err := hexutil.DecodeBig(result)
	if err != nil {
		return nil, fmt.Errorf("evm: parse eth_call balanceOf result: %w", err)
	}
	return &Balance{Value: value.String()}, nil
}

func (p *EvmProvider) BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error) {
	return evm.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{From: from, To: to, Value: value}, evm.Overrides{})
}

func (p *EvmProvider) BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error) {
	return evm.Build(ctx, p.capability, p.cfg.Alias, tx.TokenTransfer{
		From: from, To: to, TokenContract: tokenContract, Value: value, Standard: tx.StandardERC20,
	}, evm.Overrides{})
}

func (p *EvmProvider) Decode(serialized string) (*tx.NormalisedTransaction, error) {
	return evm.DecodeRaw(p.cfg.Alias, serialized)
}

func (p *EvmProvider) EstimateFee(ctx context.Context) (*FeeEstimate, error) {
	fees, err := evm.EstimateFee(ctx, p.capability, p.cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	return &FeeEstimate{
		Slow:     FeeLevel{Fee: fees.Slow.String()},
		Standard: FeeLevel{Fee: fees.Standard.String()},
		Fast:     FeeLevel{Fee: fees.Fast.String()},
	}, nil
}

type txByHashResult struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          *string `json:"to"`
	Value       string `json:"value"`
	Input       string `json:"input"`
	ChainID     string `json:"chainId"`
	Nonce       string `json:"nonce"`
	GasPrice    string `json:"gasPrice"`
	Gas         string `json:"gas"`
}

type receiptResult struct {
	Status            string `json:"status"`
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
	BlockNumber       string `json:"blockNumber"`
	Logs              []struct {
		Topics []string `json:"topics"`
		Data   string   `json:"data"`
	} `json:"logs"`
}

func (p *EvmProvider) GetTransaction(ctx context.Context, hash string) (*tx.NormalisedTransaction, error) {
	var txResult txByHashResult
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "eth_getTransactionByHash", []any{hash}, &txResult); err != nil {
		return nil, &chainerr.RpcError{Method: "eth_getTransactionByHash", Body: err.Error()}
	}
	if txResult.Hash == "" {
		return nil, &chainerr.TransactionNotFoundError{ChainAlias: p.cfg.Alias, Hash: hash}
	}

	var receipt receiptResult
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "eth_getTransactionReceipt", []any{hash}, &receipt); err != nil {
		return nil, &chainerr.RpcError{Method: "eth_getTransactionReceipt", Body: err.Error()}
	}

	input, err := hexutil.Decode(txResult.Input)
	if err != nil {
		return nil, fmt.Errorf("evm: decode input data: %w", err)
	}
	value, _ := hexutil.DecodeBig(txResult.Value)
	var to *common.Address
	if txResult.To != nil {
		addr := common.HexToAddress(*txResult.To)
		to = &addr
	}
	nonce, _ := hexutil.DecodeUint64(txResult.Nonce)
	gasPrice, _ := hexutil.DecodeBig(txResult.GasPrice)
	gas, _ := hexutil.DecodeUint64(txResult.Gas)
	parsed := types.NewTx(&types.LegacyTx{Nonce: nonce, To: to, Value: value, Data: input, GasPrice: gasPrice, Gas: gas})

	var blockNumber *uint64
	if receipt.BlockNumber != "" {
		if n, err := hexutil.DecodeUint64(receipt.BlockNumber); err == nil {
			blockNumber = &n
		}
	}
	gasUsed, _ := hexutil.DecodeUint64(receipt.GasUsed)
	effectiveGasPrice, _ := hexutil.DecodeBig(receipt.EffectiveGasPrice)

	var logs []evm.Log
	for _, lg := range receipt.Logs {
		logs = append(logs, evm.Log{Topics: lg.Topics, Data: lg.Data})
	}

	normalised, err := evm.DecodeConfirmed(p.cfg.Alias, parsed, evm.Receipt{
		Status:            receipt.Status == "0x1",
		GasUsed:           gasUsed,
		EffectiveGasPrice: effectiveGasPrice,
		BlockNumber:       blockNumber,
		Logs:              logs,
	}, txResult.From)
	if err != nil {
		return nil, err
	}
	return applyNativeFormatting(normalised, p.cfg.Native.Symbol, p.cfg.Native.Decimals), nil
}
