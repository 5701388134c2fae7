// Command chaincore-demo wires the dispatcher up against the chain
// registry's default RPC endpoints and walks each registered chain's
// native balance and fee estimate, the way a caller embedding this module
// would exercise it end to end.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/umbra-labs/chaincore/config"
	"github.com/umbra-labs/chaincore/dispatcher"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
)

var demoAddressByEcosystem = map[registry.Ecosystem]string{
	registry.EcosystemEVM:       "0x0000000000000000000000000000000000000000",
	registry.EcosystemSVM:       "11111111111111111111111111111111",
	registry.EcosystemUTXO:      "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
	registry.EcosystemTVM:       "T9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb",
	registry.EcosystemXRP:       "rrrrrrrrrrrrrrrrrrrrrhoLvTp",
	registry.EcosystemSubstrate: "5C4hrfjw9DjXZTzV3MwzrrAr9P1MJhSrvWGWqi1eSuyUpn8o",
}

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	capability := rpc.NewHTTPCapability(cfg.RequestTimeout)
	disp := dispatcher.New(capability, cfg)

	for _, alias := range []string{"ethereum", "polygon", "base", "solana", "bitcoin", "tron", "xrpl", "bittensor"} {
		walkChain(disp, alias)
	}
}

func walkChain(disp *dispatcher.Dispatcher, alias string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := disp.GetChainProvider(alias)
	if err != nil {
		slog.Error("resolve provider", "chain", alias, "err", err)
		return
	}

	caps := p.Capabilities()
	demoAddress := demoAddressByEcosystem[caps.Ecosystem]

	balance, err := p.GetNativeBalance(ctx, demoAddress)
	if err != nil {
		slog.Warn("get native balance", "chain", alias, "err", err)
	} else {
		slog.Info("native balance", "chain", alias, "value", balance.Value, "symbol", balance.Symbol)
	}

	fees, err := p.EstimateFee(ctx)
	if err != nil {
		slog.Warn("estimate fee", "chain", alias, "err", err)
		return
	}
	slog.Info("fee estimate", "chain", alias,
		"slow", fees.Slow.Fee, "standard", fees.Standard.Fee, "fast", fees.Fast.Fee,
	)
}
