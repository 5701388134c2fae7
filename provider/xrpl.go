package provider

import (
	"context"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/chains/xrpl"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// XrplProvider wraps chains/xrpl behind the common Provider interface.
// XRPL has no token-contract layer in the ERC-20/TRC-20 sense: issued
// currencies are identified by {currency, issuer} rather than a contract
// address, so BuildTokenTransfer/GetTokenBalance take tokenContract as
// the issuer account.
type XrplProvider struct {
	capability rpc.Capability
	cfg        registry.ChainConfig
}

// NewXrplProvider constructs a Provider for the XRPL-ecosystem chain alias.
func NewXrplProvider(capability rpc.Capability, cfg registry.ChainConfig) *XrplProvider {
	return &XrplProvider{capability: capability, cfg: cfg}
}

func (p *XrplProvider) ChainAlias() string          { return p.cfg.Alias }
func (p *XrplProvider) Config() registry.ChainConfig { return p.cfg }

func (p *XrplProvider) Capabilities() Capabilities {
	return Capabilities{
		ChainAlias: p.cfg.Alias, Ecosystem: registry.EcosystemXRP,
		SupportsMemo: true, SupportsTokens: true, MinConfirmations: 1,
	}
}

type accountInfoBalanceResult struct {
	AccountData struct {
		Balance string `json:"Balance"` // drops
	} `json:"account_data"`
}

func (p *XrplProvider) GetNativeBalance(ctx context.Context, address string) (*Balance, error) {
	var result accountInfoBalanceResult
	params := []any{map[string]any{"account": address, "ledger_index": "validated"}}
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "account_info", params, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "account_info", Body: err.Error()}
	}
	return &Balance{Value: result.AccountData.Balance, Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
}

type accountLinesResult struct {
	Lines []struct {
		Account string `json:"account"` // issuer
		Balance string `json:"balance"`
	} `json:"lines"`
}

// GetTokenBalance returns the trust-line balance with the given issuer
// account (tokenContract). XRPL trust lines aren't currency-keyed by this
// lookup alone in general, but a wallet back-end tracks one currency per
// issuer relationship it cares about, consistent with how Build's
// TokenTransfer path fixes the currency code.
func (p *XrplProvider) GetTokenBalance(ctx context.Context, address, tokenContract string) (*Balance, error) {
	var result accountLinesResult
	params := []any{map[string]any{"account": address, "peer": tokenContract, "ledger_index": "validated"}}
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "account_lines", params, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "account_lines", Body: err.Error()}
	}
	if len(result.Lines) == 0 {
		return &Balance{Value: "0"}, nil
	}
	return &Balance{Value: result.Lines[0].Balance}, nil
}

func (p *XrplProvider) BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error) {
	return xrpl.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{From: from, To: to, Value: value}, xrpl.Overrides{})
}

func (p *XrplProvider) BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error) {
	return xrpl.Build(ctx, p.capability, p.cfg.Alias, tx.TokenTransfer{
		From: from, To: to, TokenContract: tokenContract, Value: value, Standard: tx.StandardIssuedCurrency,
	}, xrpl.Overrides{})
}

func (p *XrplProvider) Decode(serialized string) (*tx.NormalisedTransaction, error) {
	return xrpl.DecodeRaw(p.cfg.Alias, serialized)
}

func (p *XrplProvider) EstimateFee(ctx context.Context) (*FeeEstimate, error) {
	bands, err := xrpl.EstimateFee(ctx, p.capability, p.cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	return &FeeEstimate{
		Slow:     FeeLevel{Fee: bands.SlowDrops},
		Standard: FeeLevel{Fee: bands.StandardDrops},
		Fast:     FeeLevel{Fee: bands.FastDrops},
	}, nil
}

type txResultResponse struct {
	TxBlob    string `json:"tx_blob"`
	Validated bool   `json:"validated"`
	Meta      struct {
		TransactionResult string `json:"TransactionResult"`
	} `json:"meta"`
	LedgerIndex *uint64 `json:"ledger_index"`
}

func (p *XrplProvider) GetTransaction(ctx context.Context, hash string) (*tx.NormalisedTransaction, error) {
	var result txResultResponse
	params := []any{map[string]any{"transaction": hash, "binary": true}}
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "tx", params, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "tx", Body: err.Error()}
	}
	if result.TxBlob == "" {
		return nil, &chainerr.TransactionNotFoundError{ChainAlias: p.cfg.Alias, Hash: hash}
	}
	normalised, err := xrpl.DecodeRaw(p.cfg.Alias, result.TxBlob)
	if err != nil {
		return nil, err
	}
	normalised.BlockNumber = result.LedgerIndex
	switch {
	case !result.Validated:
		normalised.Status = tx.TxStatusPending
	case result.Meta.TransactionResult == "tesSUCCESS":
		normalised.Status = tx.TxStatusConfirmed
	default:
		normalised.Status = tx.TxStatusFailed
	}
	finalized := result.Validated
	normalised.Finalized = &finalized
	return applyNativeFormatting(normalised, p.cfg.Native.Symbol, p.cfg.Native.Decimals), nil
}
