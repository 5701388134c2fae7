package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umbra-labs/chaincore/config"
)

func testCfg(overrides map[string]string) *config.RuntimeConfig {
	return &config.RuntimeConfig{RPCOverrides: overrides}
}

// TestGetChainProviderCachesByAlias exercises spec.md §5: repeated
// lookups of the same alias reuse one Provider instance rather than
// constructing a new one each time.
func TestGetChainProviderCachesByAlias(t *testing.T) {
	d := New(nil, testCfg(nil))

	p1, err := d.GetChainProvider("ethereum")
	require.NoError(t, err)
	p2, err := d.GetChainProvider("ethereum")
	require.NoError(t, err)

	require.Same(t, p1, p2)
}

// TestGetChainProviderRPCOverrideChangesCacheKey checks that an RPC
// override for an alias produces a distinct cache entry from the
// registry default, since the cache key is "alias|rpcURL".
func TestGetChainProviderRPCOverrideChangesCacheKey(t *testing.T) {
	withoutOverride := New(nil, testCfg(nil))
	pDefault, err := withoutOverride.GetChainProvider("ethereum")
	require.NoError(t, err)

	withOverride := New(nil, testCfg(map[string]string{"ethereum": "https://custom.example.com"}))
	pOverride, err := withOverride.GetChainProvider("ethereum")
	require.NoError(t, err)

	require.NotSame(t, pDefault, pOverride)
	require.Equal(t, "https://custom.example.com", pOverride.Config().RPCURL)
}

func TestGetChainProviderUnknownAlias(t *testing.T) {
	d := New(nil, testCfg(nil))
	_, err := d.GetChainProvider("not-a-real-chain")
	require.Error(t, err)
}

// TestGetChainProviderCoversEveryEcosystem checks newProvider's switch
// resolves every registered ecosystem without panicking.
func TestGetChainProviderCoversEveryEcosystem(t *testing.T) {
	d := New(nil, testCfg(nil))
	for _, alias := range []string{"ethereum", "polygon", "base", "solana", "bitcoin", "tron", "xrpl", "bittensor"} {
		p, err := d.GetChainProvider(alias)
		require.NoError(t, err, alias)
		require.Equal(t, alias, p.ChainAlias())
	}
}
