// Package registry holds the static, total mapping from a chain alias to
// its ecosystem and default configuration (spec.md §3's ChainAlias/
// ChainConfig). It is the leaf-most component after the codec primitives:
// every builder, decoder, and the dispatcher consult it, and its only
// dependency in this module is chainerr (for UnsupportedChainError).
package registry

import (
	"fmt"
	"sync"

	"github.com/umbra-labs/chaincore/chainerr"
)

// Ecosystem is one of the six blockchain families this engine supports.
type Ecosystem string

const (
	EcosystemEVM       Ecosystem = "evm"
	EcosystemSVM       Ecosystem = "svm"
	EcosystemUTXO      Ecosystem = "utxo"
	EcosystemTVM       Ecosystem = "tvm"
	EcosystemXRP       Ecosystem = "xrp"
	EcosystemSubstrate Ecosystem = "substrate"
)

// NativeCurrency describes a chain's base asset.
type NativeCurrency struct {
	Symbol   string
	Decimals int
}

// FeatureFlags carries ecosystem/chain-specific capability toggles.
type FeatureFlags struct {
	EIP1559 bool
	SegWit  bool
	Taproot bool
	RBF     bool
}

// ChainConfig is immutable after construction: {alias, ecosystem, rpcUrl,
// native, feature flags} per spec.md §3.
type ChainConfig struct {
	Alias        string
	Ecosystem    Ecosystem
	RPCURL       string
	Native       NativeCurrency
	Features     FeatureFlags
	ChainID      int64 // EVM numeric chain ID / Tron network marker; 0 where not applicable
	GenesisHash  string // Substrate genesis hash; empty where not applicable
}

var (
	mu      sync.RWMutex
	chains  = map[string]ChainConfig{}
)

func init() {
	register(ChainConfig{
		Alias: "ethereum", Ecosystem: EcosystemEVM, RPCURL: "https://ethereum-rpc.publicnode.com",
		Native: NativeCurrency{Symbol: "ETH", Decimals: 18}, ChainID: 1,
		Features: FeatureFlags{EIP1559: true},
	})
	register(ChainConfig{
		Alias: "polygon", Ecosystem: EcosystemEVM, RPCURL: "https://polygon-rpc.com",
		Native: NativeCurrency{Symbol: "MATIC", Decimals: 18}, ChainID: 137,
		Features: FeatureFlags{EIP1559: true},
	})
	register(ChainConfig{
		Alias: "base", Ecosystem: EcosystemEVM, RPCURL: "https://mainnet.base.org",
		Native: NativeCurrency{Symbol: "ETH", Decimals: 18}, ChainID: 8453,
		Features: FeatureFlags{EIP1559: true},
	})
	register(ChainConfig{
		Alias: "solana", Ecosystem: EcosystemSVM, RPCURL: "https://api.mainnet-beta.solana.com",
		Native: NativeCurrency{Symbol: "SOL", Decimals: 9},
	})
	register(ChainConfig{
		Alias: "bitcoin", Ecosystem: EcosystemUTXO, RPCURL: "https://bitcoin-rpc.publicnode.com",
		Native: NativeCurrency{Symbol: "BTC", Decimals: 8},
		Features: FeatureFlags{SegWit: true, Taproot: true, RBF: true},
	})
	register(ChainConfig{
		Alias: "tron", Ecosystem: EcosystemTVM, RPCURL: "https://api.trongrid.io",
		Native: NativeCurrency{Symbol: "TRX", Decimals: 6},
	})
	register(ChainConfig{
		Alias: "xrpl", Ecosystem: EcosystemXRP, RPCURL: "https://xrplcluster.com",
		Native: NativeCurrency{Symbol: "XRP", Decimals: 6},
	})
	register(ChainConfig{
		Alias: "bittensor", Ecosystem: EcosystemSubstrate, RPCURL: "https://entrypoint-finney.opentensor.ai",
		Native: NativeCurrency{Symbol: "TAO", Decimals: 9},
	})
}

func register(cfg ChainConfig) {
	mu.Lock()
	defer mu.Unlock()
	chains[cfg.Alias] = cfg
}

// Lookup returns the ChainConfig for alias, or UnsupportedChainError if the
// alias is unrecognised. The mapping is static and total over the
// recognised set (spec.md §3).
func Lookup(alias string) (ChainConfig, error) {
	mu.RLock()
	defer mu.RUnlock()
	cfg, ok := chains[alias]
	if !ok {
		return ChainConfig{}, &chainerr.UnsupportedChainError{Alias: alias}
	}
	return cfg, nil
}

// EcosystemOf is a convenience wrapper returning just the ecosystem tag.
func EcosystemOf(alias string) (Ecosystem, error) {
	cfg, err := Lookup(alias)
	if err != nil {
		return "", err
	}
	return cfg.Ecosystem, nil
}

// Register adds or replaces a ChainConfig. Exposed so callers can extend
// the registry with additional chains (e.g. testnets) without forking this
// package — the mapping is total over the *recognised* set, and recognition
// is exactly "has been registered".
func Register(cfg ChainConfig) error {
	if cfg.Alias == "" {
		return fmt.Errorf("registry: ChainConfig.Alias must not be empty")
	}
	switch cfg.Ecosystem {
	case EcosystemEVM, EcosystemSVM, EcosystemUTXO, EcosystemTVM, EcosystemXRP, EcosystemSubstrate:
	default:
		return fmt.Errorf("registry: unrecognised ecosystem %q", cfg.Ecosystem)
	}
	register(cfg)
	return nil
}
