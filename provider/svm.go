package provider

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/chains/svm"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// SvmProvider wraps chains/svm behind the common Provider interface.
type SvmProvider struct {
	capability rpc.Capability
	cfg        registry.ChainConfig
}

// NewSvmProvider constructs a Provider for an SVM-ecosystem chain alias.
func NewSvmProvider(capability rpc.Capability, cfg registry.ChainConfig) *SvmProvider {
	return &SvmProvider{capability: capability, cfg: cfg}
}

func (p *SvmProvider) ChainAlias() string          { return p.cfg.Alias }
func (p *SvmProvider) Config() registry.ChainConfig { return p.cfg }

func (p *SvmProvider) Capabilities() Capabilities {
	return Capabilities{
		ChainAlias: p.cfg.Alias, Ecosystem: registry.EcosystemSVM,
		SupportsTokens: true, MinConfirmations: 32,
	}
}

type lamportBalanceResult struct {
	Value uint64 `json:"value"`
}

func (p *SvmProvider) GetNativeBalance(ctx context.Context, address string) (*Balance, error) {
	var result lamportBalanceResult
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "getBalance", []any{address}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "getBalance", Body: err.Error()}
	}
	return &Balance{Value: fmt.Sprintf("%d", result.Value), Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
}

type tokenAccountBalanceResult struct {
	Value struct {
		Amount   string `json:"amount"`
		Decimals int    `json:"decimals"`
	} `json:"value"`
}

func (p *SvmProvider) GetTokenBalance(ctx context.Context, address, tokenContract string) (*Balance, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, &chainerr.InvalidAddressError{ChainAlias: p.cfg.Alias, Address: address, Reason: "not a valid base58 public key"}
	}
	mint, err := solana.PublicKeyFromBase58(tokenContract)
	if err != nil {
		return nil, &chainerr.InvalidAddressError{ChainAlias: p.cfg.Alias, Address: tokenContract, Reason: "not a valid base58 mint address"}
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("svm: derive associated token account: %w", err)
	}
	var result tokenAccountBalanceResult
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "getTokenAccountBalance", []any{ata.String()}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "getTokenAccountBalance", Body: err.Error()}
	}
	return &Balance{Value: result.Value.Amount, Decimals: result.Value.Decimals}, nil
}

func (p *SvmProvider) BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error) {
	return svm.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{From: from, To: to, Value: value}, svm.Overrides{})
}

func (p *SvmProvider) BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error) {
	return svm.Build(ctx, p.capability, p.cfg.Alias, tx.TokenTransfer{
		From: from, To: to, TokenContract: tokenContract, Value: value, Standard: tx.StandardSPL,
	}, svm.Overrides{})
}

func (p *SvmProvider) Decode(serialized string) (*tx.NormalisedTransaction, error) {
	return svm.DecodeRaw(p.cfg.Alias, serialized)
}

func (p *SvmProvider) EstimateFee(ctx context.Context) (*FeeEstimate, error) {
	slow, standard, fast, err := svm.RecentPrioritizationFees(ctx, p.capability, p.cfg.RPCURL, nil)
	if err != nil {
		return nil, err
	}
	return &FeeEstimate{
		Slow:     FeeLevel{Fee: fmt.Sprintf("%d", slow)},
		Standard: FeeLevel{Fee: fmt.Sprintf("%d", standard)},
		Fast:     FeeLevel{Fee: fmt.Sprintf("%d", fast)},
	}, nil
}

type getTransactionResult struct {
	Transaction []string `json:"transaction"` // [base64 data, encoding]
	Meta        struct {
		Err interface{} `json:"err"`
	} `json:"meta"`
	Slot uint64 `json:"slot"`
}

// GetTransaction fetches a confirmed transaction by its base58 signature
// and decodes its (still-serialised) message via svm.DecodeRaw, then
// overlays confirmation status from getTransaction's meta.err field
// (spec.md §4.4).
func (p *SvmProvider) GetTransaction(ctx context.Context, signature string) (*tx.NormalisedTransaction, error) {
	params := []any{signature, map[string]any{"encoding": "base64", "maxSupportedTransactionVersion": 0}}
	var result getTransactionResult
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "getTransaction", params, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "getTransaction", Body: err.Error()}
	}
	if len(result.Transaction) == 0 {
		return nil, &chainerr.TransactionNotFoundError{ChainAlias: p.cfg.Alias, Hash: signature}
	}

	normalised, err := svm.DecodeRaw(p.cfg.Alias, result.Transaction[0])
	if err != nil {
		return nil, err
	}
	normalised.Status = tx.TxStatusConfirmed
	if result.Meta.Err != nil {
		normalised.Status = tx.TxStatusFailed
	}
	n := result.Slot
	normalised.BlockNumber = &n
	return applyNativeFormatting(normalised, p.cfg.Native.Symbol, p.cfg.Native.Decimals), nil
}
