// Package config loads the one mutable "configure bag" chaincore allows:
// per-chain RPC overrides and a handful of protocol defaults. Everything
// else — keys, addresses, intents — flows through explicit function
// arguments, never through package-level state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RuntimeConfig holds process-wide settings. It is read once at startup
// and treated as immutable thereafter; the dispatcher's provider cache is
// keyed off of RPCOverrides, not the other way around. The dispatcher
// reads RPCOverrides; DefaultFeeSpeed, UTXODustLimit, UTXORBFEnabled and
// TVMExpiryWindow are loaded and validated here but no builder reads
// them — builders take those values from their per-call Overrides or
// their own built-in defaults.
type RuntimeConfig struct {
	// RPCOverrides maps a chain alias to an RPC URL that takes priority
	// over the chain registry's default endpoint. Format: comma-separated
	// "alias=url" pairs, e.g. "ethereum=https://eth.example.com,tron=https://tron.example.com".
	RPCOverrides map[string]string

	// DefaultFeeSpeed names a default fee level: "slow", "standard", or
	// "fast".
	DefaultFeeSpeed string

	// UTXODustLimit is a minimum change-output value, in satoshis
	// (spec.md §4.1.3/§4.8).
	UTXODustLimit int64

	// UTXORBFEnabled is a default RBF signalling setting (spec.md §4.1.3:
	// sequence 0xfffffffd when on, 0xffffffff otherwise).
	UTXORBFEnabled bool

	// TVMExpiryWindow is a Tron transaction expiration window (spec.md
	// §4.1 default: 60 minutes).
	TVMExpiryWindow time.Duration

	// RequestTimeout bounds any single injected RPC/HTTP call. The engine
	// itself never imposes additional timeouts (spec.md §5); this is the
	// default a caller's RPC capability is expected to honor.
	RequestTimeout time.Duration
}

// Load reads RuntimeConfig from environment variables. A .env file in the
// working directory is loaded first if present (dev convenience); real
// deployments set real env vars.
func Load() (*RuntimeConfig, error) {
	_ = godotenv.Load() // no-op if .env absent

	cfg := &RuntimeConfig{
		RPCOverrides:    parseOverrides(getEnv("CHAINCORE_RPC_OVERRIDES", "")),
		DefaultFeeSpeed: getEnv("CHAINCORE_DEFAULT_FEE_SPEED", "standard"),
		UTXODustLimit:   int64(getEnvInt("CHAINCORE_UTXO_DUST_LIMIT", 546)),
		UTXORBFEnabled:  getEnvBool("CHAINCORE_UTXO_RBF", true),
		TVMExpiryWindow: time.Duration(getEnvInt("CHAINCORE_TVM_EXPIRY_MINUTES", 60)) * time.Minute,
		RequestTimeout:  time.Duration(getEnvInt("CHAINCORE_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	switch cfg.DefaultFeeSpeed {
	case "slow", "standard", "fast":
	default:
		return nil, fmt.Errorf("CHAINCORE_DEFAULT_FEE_SPEED must be slow|standard|fast, got %q", cfg.DefaultFeeSpeed)
	}
	if cfg.UTXODustLimit < 0 {
		return nil, fmt.Errorf("CHAINCORE_UTXO_DUST_LIMIT must be non-negative")
	}

	return cfg, nil
}

func parseOverrides(raw string) map[string]string {
	out := make(map[string]string)
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
