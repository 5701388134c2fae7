package provider

import (
	"context"
	"fmt"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/chains/utxo"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// UtxoProvider wraps chains/utxo behind the common Provider interface.
// UTXO chains have no token layer (spec.md §4.4: "no token layer,
// tokenTransfers is always empty"), so GetTokenBalance/BuildTokenTransfer
// both return UnsupportedOperationError.
type UtxoProvider struct {
	capability rpc.Capability
	cfg        registry.ChainConfig
}

// NewUtxoProvider constructs a Provider for a UTXO-ecosystem chain alias.
func NewUtxoProvider(capability rpc.Capability, cfg registry.ChainConfig) *UtxoProvider {
	return &UtxoProvider{capability: capability, cfg: cfg}
}

func (p *UtxoProvider) ChainAlias() string          { return p.cfg.Alias }
func (p *UtxoProvider) Config() registry.ChainConfig { return p.cfg }

func (p *UtxoProvider) Capabilities() Capabilities {
	return Capabilities{
		ChainAlias: p.cfg.Alias, Ecosystem: registry.EcosystemUTXO,
		SupportsSegWit: p.cfg.Features.SegWit, SupportsTaproot: p.cfg.Features.Taproot,
		SupportsRBF: p.cfg.Features.RBF, SupportsTokens: false, MinConfirmations: 6,
	}
}

type listUnspentEntry struct {
	Amount float64 `json:"amount"` // BTC, not satoshis
}

func (p *UtxoProvider) GetNativeBalance(ctx context.Context, address string) (*Balance, error) {
	var entries []listUnspentEntry
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "listunspent", []any{0, 9_999_999, []string{address}}, &entries); err != nil {
		return nil, &chainerr.RpcError{Method: "listunspent", Body: err.Error()}
	}
	var totalSat int64
	for _, e := range entries {
		totalSat += int64(e.Amount*100_000_000 + 0.5)
	}
	return &Balance{Value: fmt.Sprintf("%d", totalSat), Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
}

func (p *UtxoProvider) GetTokenBalance(ctx context.Context, address, tokenContract string) (*Balance, error) {
	return nil, &chainerr.UnsupportedOperationError{Chain: p.cfg.Alias, Op: "getTokenBalance"}
}

func (p *UtxoProvider) BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error) {
	return utxo.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{From: from, To: to, Value: value}, utxo.Overrides{})
}

func (p *UtxoProvider) BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error) {
	return nil, &chainerr.UnsupportedOperationError{Chain: p.cfg.Alias, Op: "buildTokenTransfer"}
}

func (p *UtxoProvider) Decode(serialized string) (*tx.NormalisedTransaction, error) {
	return utxo.DecodeRaw(p.cfg.Alias, serialized)
}

func (p *UtxoProvider) EstimateFee(ctx context.Context) (*FeeEstimate, error) {
	bands, err := utxo.EstimateFee(ctx, p.capability, p.cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	return &FeeEstimate{
		Slow:     FeeLevel{Fee: fmt.Sprintf("%.2f", bands.SlowSatPerVB)},
		Standard: FeeLevel{Fee: fmt.Sprintf("%.2f", bands.StandardSatPerVB)},
		Fast:     FeeLevel{Fee: fmt.Sprintf("%.2f", bands.FastSatPerVB)},
	}, nil
}

type getRawTransactionResult struct {
	Hex           string `json:"hex"`
	Confirmations int    `json:"confirmations"`
	BlockHeight   *uint64 `json:"height"`
}

func (p *UtxoProvider) GetTransaction(ctx context.Context, txid string) (*tx.NormalisedTransaction, error) {
	var result getRawTransactionResult
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "getrawtransaction", []any{txid, true}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "getrawtransaction", Body: err.Error()}
	}
	if result.Hex == "" {
		return nil, &chainerr.TransactionNotFoundError{ChainAlias: p.cfg.Alias, Hash: txid}
	}
	normalised, err := utxo.DecodeRaw(p.cfg.Alias, result.Hex)
	if err != nil {
		return nil, err
	}
	confirmations := result.Confirmations
	normalised.Confirmations = &confirmations
	normalised.BlockNumber = result.BlockHeight
	if confirmations > 0 {
		normalised.Status = tx.TxStatusConfirmed
	}
	return applyNativeFormatting(normalised, p.cfg.Native.Symbol, p.cfg.Native.Decimals), nil
}
