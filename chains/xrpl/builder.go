package xrpl

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// Overrides lets a Rebuild pin the sequence/fee/ledger-expiry fields a
// normal Build call would otherwise fetch via account_info/server_info
// (spec.md §4.1's injection clause).
type Overrides struct {
	Sequence           uint32
	LastLedgerSequence uint32
	FeeDrops           string
	SigningPubKey      []byte
}

func merge(base, extra Overrides) Overrides {
	if extra.Sequence != 0 {
		base.Sequence = extra.Sequence
	}
	if extra.LastLedgerSequence != 0 {
		base.LastLedgerSequence = extra.LastLedgerSequence
	}
	if extra.FeeDrops != "" {
		base.FeeDrops = extra.FeeDrops
	}
	if extra.SigningPubKey != nil {
		base.SigningPubKey = extra.SigningPubKey
	}
	return base
}

type accountInfoResult struct {
	AccountData struct {
		Sequence uint32 `json:"Sequence"`
	} `json:"account_data"`
}

type serverInfoResult struct {
	Info struct {
		ValidatedLedger struct {
			BaseFeeXRP float64 `json:"base_fee_xrp"`
			Seq        uint32  `json:"seq"`
		} `json:"validated_ledger"`
	} `json:"info"`
}

// Build assembles a Payment transaction (native, or IssuedCurrency for
// tx.TokenTransfer) and its STX-prefixed signing preimage (spec.md
// §4.1.5).
func Build(ctx context.Context, capability rpc.Capability, chainAlias string, intent tx.Intent, overrides Overrides) (*tx.UnsignedTransaction, error) {
	cfg, err := registry.Lookup(chainAlias)
	if err != nil {
		return nil, err
	}
	if cfg.Ecosystem != registry.EcosystemXRP {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "xrpl.Build"}
	}

	raw := &RawXRPLTx{SigningPubKey: overrides.SigningPubKey}

	switch it := intent.(type) {
	case tx.NativeTransfer:
		if err := address.ValidateXRPL(chainAlias, it.From); err != nil {
			return nil, err
		}
		if err := address.ValidateXRPL(chainAlias, it.To); err != nil {
			return nil, err
		}
		if _, err := parseDrops(it.Value); err != nil {
			return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative drops amount", it.Value)}
		}
		raw.Account, raw.Destination, raw.AmountDrops = it.From, it.To, it.Value

	case tx.TokenTransfer:
		if err := address.ValidateXRPL(chainAlias, it.From); err != nil {
			return nil, err
		}
		if err := address.ValidateXRPL(chainAlias, it.To); err != nil {
			return nil, err
		}
		if err := address.ValidateXRPL(chainAlias, it.TokenContract); err != nil {
			return nil, err
		}
		raw.Account, raw.Destination = it.From, it.To
		raw.CurrencyIssuer = it.TokenContract
		raw.CurrencyValue = it.Value
		raw.CurrencyCode = "USD" // XRPL has no on-wire token identifier beyond {currency, issuer}; the issuer comes from TokenContract and the currency code is always "USD"

	default:
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "xrpl supports NativeTransfer and IssuedCurrency TokenTransfer payments only"}
	}

	sequence := overrides.Sequence
	if sequence == 0 {
		sequence, err = fetchSequence(ctx, capability, cfg.RPCURL, raw.Account)
		if err != nil {
			return nil, err
		}
	}
	raw.Sequence = sequence

	feeDrops := overrides.FeeDrops
	if feeDrops == "" {
		feeDrops, err = fetchOpenLedgerFeeDrops(ctx, capability, cfg.RPCURL, 1.0)
		if err != nil {
			return nil, err
		}
	}
	raw.Fee = feeDrops

	lastLedger := overrides.LastLedgerSequence
	if lastLedger == 0 {
		currentLedger, err := fetchCurrentLedgerIndex(ctx, capability, cfg.RPCURL)
		if err != nil {
			return nil, err
		}
		lastLedger = currentLedger + 20
	}
	raw.LastLedgerSequence = lastLedger

	unsignedBlob, err := serializeTx(raw, nil)
	if err != nil {
		return nil, err
	}

	unsigned := &tx.UnsignedTransaction{
		ChainAlias: chainAlias,
		Serialized: hex.EncodeToString(unsignedBlob),
		Raw:        raw,
	}
	unsigned.SetRebuild(func(rawOverrides any) (*tx.UnsignedTransaction, error) {
		extra, ok := rawOverrides.(Overrides)
		if !ok {
			return nil, fmt.Errorf("xrpl: Rebuild expects xrpl.Overrides, got %T", rawOverrides)
		}
		return Build(ctx, capability, chainAlias, intent, merge(overrides, extra))
	})
	return unsigned, nil
}

func fetchSequence(ctx context.Context, capability rpc.Capability, rpcURL, account string) (uint32, error) {
	var result accountInfoResult
	if err := capability.Call(ctx, rpcURL, "account_info", []any{map[string]any{"account": account, "ledger_index": "current"}}, &result); err != nil {
		return 0, fmt.Errorf("xrpl: fetch account_info: %w", err)
	}
	return result.AccountData.Sequence, nil
}

func fetchOpenLedgerFeeDrops(ctx context.Context, capability rpc.Capability, rpcURL string, multiple float64) (string, error) {
	var result serverInfoResult
	if err := capability.Call(ctx, rpcURL, "server_info", nil, &result); err != nil {
		return "", fmt.Errorf("xrpl: fetch server_info: %w", err)
	}
	drops := result.Info.ValidatedLedger.BaseFeeXRP * 1_000_000 * multiple
	return fmt.Sprintf("%.0f", drops), nil
}

func fetchCurrentLedgerIndex(ctx context.Context, capability rpc.Capability, rpcURL string) (uint32, error) {
	var result serverInfoResult
	if err := capability.Call(ctx, rpcURL, "server_info", nil, &result); err != nil {
		return 0, fmt.Errorf("xrpl: fetch server_info: %w", err)
	}
	return result.Info.ValidatedLedger.Seq, nil
}
