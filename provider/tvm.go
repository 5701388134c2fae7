package provider

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/chains/tvm"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// typicalTronTxSizeBytes estimates the serialised rawData size for a
// simple transfer, used to seed tvm.EstimateFee when no built transaction
// is on hand yet (the dispatcher-level fee estimator, spec.md §4.6, isn't
// given a concrete transaction to size).
const typicalTronTxSizeBytes = 270

// TvmProvider wraps chains/tvm behind the common Provider interface.
type TvmProvider struct {
	capability rpc.Capability
	cfg        registry.ChainConfig
}

// NewTvmProvider constructs a Provider for a TVM-ecosystem chain alias.
func NewTvmProvider(capability rpc.Capability, cfg registry.ChainConfig) *TvmProvider {
	return &TvmProvider{capability: capability, cfg: cfg}
}

func (p *TvmProvider) ChainAlias() string          { return p.cfg.Alias }
func (p *TvmProvider) Config() registry.ChainConfig { return p.cfg }

func (p *TvmProvider) Capabilities() Capabilities {
	return Capabilities{
		ChainAlias: p.cfg.Alias, Ecosystem: registry.EcosystemTVM,
		SupportsTokens: true, MinConfirmations: 19,
	}
}

type getAccountResponse struct {
	Balance int64 `json:"balance"`
}

func (p *TvmProvider) GetNativeBalance(ctx context.Context, addr string) (*Balance, error) {
	addrHex, err := address.TronBase58ToHex(addr)
	if err != nil {
		return nil, err
	}
	reqBody, _ := json.Marshal(map[string]any{"address": addrHex, "visible": false})
	respBody, err := p.capability.HTTPPost(ctx, p.cfg.RPCURL+"/wallet/getaccount", reqBody, "application/json")
	if err != nil {
		return nil, fmt.Errorf("tvm: get account: %w", err)
	}
	var resp getAccountResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("tvm: parse getaccount response: %w", err)
	}
	return &Balance{Value: fmt.Sprintf("%d", resp.Balance), Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
}

type triggerConstantContractRequest struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
}

type triggerConstantContractResponse struct {
	ConstantResult []string `json:"constant_result"`
}

func (p *TvmProvider) GetTokenBalance(ctx context.Context, addr, tokenContract string) (*Balance, error) {
	ownerHex, err := address.TronBase58ToHex(addr)
	if err != nil {
		return nil, err
	}
	contractHex, err := address.TronBase58ToHex(tokenContract)
	if err != nil {
		return nil, err
	}
	paramHex := fmt.Sprintf("%064s", ownerHex[2:]) // left-pad the 20-byte address (minus 0x41 prefix) to 32 bytes
	reqBody, _ := json.Marshal(triggerConstantContractRequest{
		OwnerAddress: ownerHex, ContractAddress: contractHex,
		FunctionSelector: "balanceOf(address)", Parameter: paramHex,
	})
	respBody, err := p.capability.HTTPPost(ctx, p.cfg.RPCURL+"/wallet/triggerconstantcontract", reqBody, "application/json")
	if err != nil {
		return nil, fmt.Errorf("tvm: trigger constant contract: %w", err)
	}
	var resp triggerConstantContractResponse
	if err := json.Unmarshal(respBody, &resp); err != nil || len(resp.ConstantResult) == 0 {
		return nil, fmt.Errorf("tvm: parse triggerconstantcontract response: %w", err)
	}
	raw, err := hex.DecodeString(resp.ConstantResult[0])
	if err != nil {
		return nil, fmt.Errorf("tvm: decode balanceOf result: %w", err)
	}
	return &Balance{Value: hexBigDecimal(raw)}, nil
}

func (p *TvmProvider) BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error) {
	return tvm.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{From: from, To: to, Value: value}, tvm.Overrides{})
}

func (p *TvmProvider) BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error) {
	return tvm.Build(ctx, p.capability, p.cfg.Alias, tx.TokenTransfer{
		From: from, To: to, TokenContract: tokenContract, Value: value, Standard: tx.StandardTRC20,
	}, tvm.Overrides{})
}

func (p *TvmProvider) Decode(serialized string) (*tx.NormalisedTransaction, error) {
	return tvm.DecodeRaw(p.cfg.Alias, serialized)
}

func (p *TvmProvider) EstimateFee(ctx context.Context) (*FeeEstimate, error) {
	bands := tvm.EstimateFee(typicalTronTxSizeBytes)
	return &FeeEstimate{
		Slow:     FeeLevel{Fee: fmt.Sprintf("%d", bands.SlowSun)},
		Standard: FeeLevel{Fee: fmt.Sprintf("%d", bands.StandardSun)},
		Fast:     FeeLevel{Fee: fmt.Sprintf("%d", bands.FastSun)},
	}, nil
}

func (p *TvmProvider) GetTransaction(ctx context.Context, txID string) (*tx.NormalisedTransaction, error) {
	reqBody, _ := json.Marshal(map[string]any{"value": txID})
	respBody, err := p.capability.HTTPPost(ctx, p.cfg.RPCURL+"/wallet/gettransactionbyid", reqBody, "application/json")
	if err != nil {
		return nil, fmt.Errorf("tvm: get transaction by id: %w", err)
	}
	if string(respBody) == "{}" || len(respBody) == 0 {
		return nil, &chainerr.TransactionNotFoundError{ChainAlias: p.cfg.Alias, Hash: txID}
	}
	normalised, err := tvm.DecodeIndexed(p.cfg.Alias, respBody)
	if err != nil {
		return nil, err
	}
	return applyNativeFormatting(normalised, p.cfg.Native.Symbol, p.cfg.Native.Decimals), nil
}

func hexBigDecimal(raw []byte) string {
	var v uint64
	for _, b := range raw {
		if v > (1<<63)/256 {
			// overflowed uint64: fall back to hex for an oversized balance,
			// which balanceOf never actually returns for real TRC-20 supply.
			return hex.EncodeToString(raw)
		}
		v = v<<8 | uint64(b)
	}
	return fmt.Sprintf("%d", v)
}
