// Package dispatcher resolves a chain alias to its Provider, caching one
// instance per (alias, rpcURL) pair behind a single critical section so
// concurrent callers never race to construct duplicate providers for the
// same endpoint (spec.md §5).
package dispatcher

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/umbra-labs/chaincore/config"
	"github.com/umbra-labs/chaincore/provider"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
)

// Dispatcher hands out a Provider per chain alias, resolving RPC URL
// overrides and caching instances so repeated lookups for the same chain
// reuse one Provider rather than constructing a new one each time (the
// registry is still consulted on every lookup).
type Dispatcher struct {
	capability rpc.Capability
	cfg        *config.RuntimeConfig

	mu        sync.Mutex
	providers map[string]provider.Provider // keyed by "alias|rpcURL"
}

// New constructs a Dispatcher. capability is the single injected RPC
// capability shared by every provider it hands out (spec.md §1's "core
// never touches the network directly").
func New(capability rpc.Capability, cfg *config.RuntimeConfig) *Dispatcher {
	return &Dispatcher{
		capability: capability,
		cfg:        cfg,
		providers:  make(map[string]provider.Provider),
	}
}

// GetChainProvider resolves alias through the registry, applies any
// config-level RPC override, and returns a cached Provider for the
// resulting (alias, rpcURL) pair — constructing and caching one under a
// single critical section on a cache miss (spec.md §4.5/§5).
func (d *Dispatcher) GetChainProvider(alias string) (provider.Provider, error) {
	cfg, err := registry.Lookup(alias)
	if err != nil {
		return nil, err
	}
	if override, ok := d.cfg.RPCOverrides[alias]; ok && override != "" {
		cfg.RPCURL = override
	}

	key := alias + "|" + cfg.RPCURL

	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.providers[key]; ok {
		return p, nil
	}

	p := newProvider(d.capability, cfg)
	d.providers[key] = p
	slog.Info("provider constructed", "correlation_id", uuid.NewString(), "chain", alias, "rpc_url", cfg.RPCURL)
	return p, nil
}

// newProvider constructs the ecosystem-specific Provider implementation
// for cfg. The ecosystem tag on a registered ChainConfig is always one of
// the six recognised values (registry.Register rejects anything else), so
// this switch is exhaustive over the live registry.
func newProvider(capability rpc.Capability, cfg registry.ChainConfig) provider.Provider {
	switch cfg.Ecosystem {
	case registry.EcosystemEVM:
		return provider.NewEvmProvider(capability, cfg)
	case registry.EcosystemSVM:
		return provider.NewSvmProvider(capability, cfg)
	case registry.EcosystemUTXO:
		return provider.NewUtxoProvider(capability, cfg)
	case registry.EcosystemTVM:
		return provider.NewTvmProvider(capability, cfg)
	case registry.EcosystemXRP:
		return provider.NewXrplProvider(capability, cfg)
	case registry.EcosystemSubstrate:
		return provider.NewSubstrateProvider(capability, cfg)
	default:
		// Unreachable: registry.Register validates cfg.Ecosystem against
		// this same set before a ChainConfig can ever be stored.
		panic("dispatcher: unrecognised ecosystem " + string(cfg.Ecosystem))
	}
}
