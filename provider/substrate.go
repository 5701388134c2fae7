package provider

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/chains/substrate"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// SubstrateProvider wraps chains/substrate behind the common Provider
// interface. The builder only encodes Balances.transfer_keep_alive
// (chains/substrate.Build's documented convention-based pallet/call
// index), so BuildTokenTransfer/GetTokenBalance are unsupported. Plain
// Substrate nodes likewise expose no extrinsic-by-hash RPC without a
// companion indexer (Subscan/sidecar), so GetTransaction is unsupported
// too.
type SubstrateProvider struct {
	capability rpc.Capability
	cfg        registry.ChainConfig
}

// NewSubstrateProvider constructs a Provider for the Substrate-ecosystem
// chain alias.
func NewSubstrateProvider(capability rpc.Capability, cfg registry.ChainConfig) *SubstrateProvider {
	return &SubstrateProvider{capability: capability, cfg: cfg}
}

func (p *SubstrateProvider) ChainAlias() string          { return p.cfg.Alias }
func (p *SubstrateProvider) Config() registry.ChainConfig { return p.cfg }

func (p *SubstrateProvider) Capabilities() Capabilities {
	return Capabilities{
		ChainAlias: p.cfg.Alias, Ecosystem: registry.EcosystemSubstrate,
		SupportsTokens: false, MinConfirmations: 1,
	}
}

// accountStoragePrefix is Twox128("System") ++ Twox128("Account"), the
// fixed prefix of every System.Account StorageMap key.
func accountStoragePrefix() []byte {
	return append(codec.Twox128([]byte("System")), codec.Twox128([]byte("Account"))...)
}

func (p *SubstrateProvider) GetNativeBalance(ctx context.Context, addr string) (*Balance, error) {
	pubKey, err := address.PublicKeyFromSS58(addr)
	if err != nil {
		return nil, err
	}
	key := append(accountStoragePrefix(), codec.Blake2_128Concat(pubKey)...)

	var result *string
	if err := p.capability.Call(ctx, p.cfg.RPCURL, "state_getStorage", []any{"0x" + hex.EncodeToString(key)}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "state_getStorage", Body: err.Error()}
	}
	if result == nil {
		return &Balance{Value: "0", Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
	}

	raw, err := hex.DecodeString(trimHex(*result))
	if err != nil {
		return nil, fmt.Errorf("substrate: decode AccountInfo storage value: %w", err)
	}
	free, err := decodeAccountInfoFree(raw)
	if err != nil {
		return nil, err
	}
	return &Balance{Value: free.String(), Symbol: p.cfg.Native.Symbol, Decimals: p.cfg.Native.Decimals}, nil
}

// decodeAccountInfoFree reads the free-balance u128 out of a SCALE-encoded
// AccountInfo { nonce: u32, consumers: u32, providers: u32, sufficients:
// u32, data: { free: u128, reserved: u128, frozen: u128, flags: u128 } }
// (spec.md §8's literal "AccountInfo with nonce=5, free=100·10⁹" scenario).
func decodeAccountInfoFree(raw []byte) (*big.Int, error) {
	const nonceConsumersProvidersSufficients = 4 * 4
	const u128Width = 16
	if len(raw) < nonceConsumersProvidersSufficients+u128Width {
		return nil, fmt.Errorf("substrate: AccountInfo storage value too short (%d bytes)", len(raw))
	}
	freeLE := raw[nonceConsumersProvidersSufficients : nonceConsumersProvidersSufficients+u128Width]
	freeBE := make([]byte, u128Width)
	for i, b := range freeLE {
		freeBE[u128Width-1-i] = b
	}
	return new(big.Int).SetBytes(freeBE), nil
}

func trimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func (p *SubstrateProvider) GetTokenBalance(ctx context.Context, address, tokenContract string) (*Balance, error) {
	return nil, &chainerr.UnsupportedOperationError{Chain: p.cfg.Alias, Op: "getTokenBalance"}
}

func (p *SubstrateProvider) BuildNativeTransfer(ctx context.Context, from, to, value string) (*tx.UnsignedTransaction, error) {
	return substrate.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{From: from, To: to, Value: value}, substrate.Overrides{})
}

func (p *SubstrateProvider) BuildTokenTransfer(ctx context.Context, from, to, tokenContract, value string) (*tx.UnsignedTransaction, error) {
	return nil, &chainerr.UnsupportedOperationError{Chain: p.cfg.Alias, Op: "buildTokenTransfer"}
}

func (p *SubstrateProvider) Decode(serialized string) (*tx.NormalisedTransaction, error) {
	return substrate.DecodeRaw(p.cfg.Alias, serialized)
}

// EstimateFee builds a zero-account placeholder extrinsic (this method
// takes no sender, unlike BuildNativeTransfer) purely to size the
// payment_queryInfo call, since chains/substrate.EstimateFee needs a
// concrete RawExtrinsic to submit.
func (p *SubstrateProvider) EstimateFee(ctx context.Context) (*FeeEstimate, error) {
	unsigned, err := substrate.Build(ctx, p.capability, p.cfg.Alias, tx.NativeTransfer{
		From:  placeholderSS58Account,
		To:    placeholderSS58Account,
		Value: "0",
	}, substrate.Overrides{})
	if err != nil {
		return nil, err
	}
	raw, ok := unsigned.Raw.(*substrate.RawExtrinsic)
	if !ok {
		return nil, fmt.Errorf("substrate: unexpected Raw type %T", unsigned.Raw)
	}
	bands, err := substrate.EstimateFee(ctx, p.capability, p.cfg.RPCURL, raw)
	if err != nil {
		return nil, err
	}
	return &FeeEstimate{
		Slow:     FeeLevel{Fee: bands.SlowPlanck},
		Standard: FeeLevel{Fee: bands.StandardPlanck},
		Fast:     FeeLevel{Fee: bands.FastPlanck},
	}, nil
}

// placeholderSS58Account is the well-known all-zero "Alice-less" dev
// account used only to size a representative extrinsic for fee
// estimation; it is never submitted for signing.
const placeholderSS58Account = "5C4hrfjw9DjXZTzV3MwzrrAr9P1MJhSrvWGWqi1eSuyUpn8o"

func (p *SubstrateProvider) GetTransaction(ctx context.Context, hash string) (*tx.NormalisedTransaction, error) {
	return nil, &chainerr.UnsupportedOperationError{Chain: p.cfg.Alias, Op: "getTransaction requires an indexer; plain Substrate nodes expose no extrinsic-by-hash RPC"}
}
