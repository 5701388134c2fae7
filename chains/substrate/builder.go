package substrate

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// balanceTransferPalletIndex/balanceTransferCallIndex are the
// Balances.transfer_keep_alive {palletIndex, callIndex} pair most FRAME
// runtimes (including Bittensor) register at — spec.md §4.1.6 ("per the
// SCALE metadata the builder holds") without naming a source for that
// metadata, so this builder hardcodes the conventional pair rather than
// fetching and decoding `state_getMetadata` at call time.
const (
	balanceTransferPalletIndex = 5
	balanceTransferCallIndex   = 3
)

// Overrides lets a Rebuild reuse previously-fetched chain state instead of
// re-querying the network (spec.md §4.1.6).
type Overrides struct {
	Nonce              uint64
	Tip                uint64
	SpecVersion        uint32
	TransactionVersion uint32
	GenesisHash        []byte
	BlockHash          []byte // era anchor; defaults to GenesisHash (immortal era)
}

func merge(base, extra Overrides) Overrides {
	if extra.Nonce != 0 {
		base.Nonce = extra.Nonce
	}
	if extra.Tip != 0 {
		base.Tip = extra.Tip
	}
	if extra.SpecVersion != 0 {
		base.SpecVersion = extra.SpecVersion
	}
	if extra.TransactionVersion != 0 {
		base.TransactionVersion = extra.TransactionVersion
	}
	if extra.GenesisHash != nil {
		base.GenesisHash = extra.GenesisHash
	}
	if extra.BlockHash != nil {
		base.BlockHash = extra.BlockHash
	}
	return base
}

type runtimeVersionResult struct {
	SpecVersion        uint32 `json:"specVersion"`
	TransactionVersion uint32 `json:"transactionVersion"`
}

// Build assembles an unsigned Extrinsic v4 call (spec.md §4.1.6): fetches
// spec/transactionVersion, genesis hash, and the account's nonce, then
// encodes the call as {palletIndex, callIndex, args...}. Only native
// transfers are supported — Substrate token-transfer/contract intents are
// out of scope for this builder (spec.md §4.1.6 names Balances.transfer
// as the sole supported call).
func Build(ctx context.Context, capability rpc.Capability, chainAlias string, intent tx.Intent, overrides Overrides) (*tx.UnsignedTransaction, error) {
	cfg, err := registry.Lookup(chainAlias)
	if err != nil {
		return nil, err
	}
	if cfg.Ecosystem != registry.EcosystemSubstrate {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "substrate.Build"}
	}

	transfer, ok := intent.(tx.NativeTransfer)
	if !ok {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: fmt.Sprintf("substrate intent %T", intent)}
	}

	fromPubKey, err := address.PublicKeyFromSS58(transfer.From)
	if err != nil {
		return nil, err
	}
	toPubKey, err := address.PublicKeyFromSS58(transfer.To)
	if err != nil {
		return nil, err
	}
	amount, err := strconv.ParseUint(transfer.Value, 10, 64)
	if err != nil {
		return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative integer", transfer.Value)}
	}

	genesisHash := overrides.GenesisHash
	if genesisHash == nil {
		genesisHash, err = hex.DecodeString(trimHexPrefix(cfg.GenesisHash))
		if err != nil || len(genesisHash) != 32 {
			genesisHash, err = fetchGenesisHash(ctx, capability, cfg.RPCURL)
			if err != nil {
				return nil, err
			}
		}
	}
	blockHash := overrides.BlockHash
	if blockHash == nil {
		blockHash = genesisHash // immortal era: the era anchor is the genesis hash itself
	}

	specVersion, txVersion := overrides.SpecVersion, overrides.TransactionVersion
	if specVersion == 0 || txVersion == 0 {
		specVersion, txVersion, err = fetchRuntimeVersion(ctx, capability, cfg.RPCURL)
		if err != nil {
			return nil, err
		}
	}

	nonce := overrides.Nonce
	if nonce == 0 {
		nonce, err = fetchNonce(ctx, capability, cfg.RPCURL, transfer.From)
		if err != nil {
			return nil, err
		}
	}
	tip := overrides.Tip

	callBytes := []byte{balanceTransferPalletIndex, balanceTransferCallIndex}
	callBytes = append(callBytes, multiAddressIDVariant)
	callBytes = append(callBytes, toPubKey...)
	callBytes = append(callBytes, codec.SCALEEncodeCompact(amount)...)

	raw := &RawExtrinsic{
		AccountID32:        fromPubKey,
		CallBytes:          callBytes,
		Nonce:              nonce,
		Tip:                tip,
		SpecVersion:        specVersion,
		TransactionVersion: txVersion,
		GenesisHash:        genesisHash,
		BlockHash:          blockHash,
	}

	serializedJSON, err := json.Marshal(struct {
		AccountID32Hex string `json:"accountId32"`
		CallHex        string `json:"call"`
		Nonce          uint64 `json:"nonce"`
		Tip            uint64 `json:"tip"`
		SpecVersion    uint32 `json:"specVersion"`
		TxVersion      uint32 `json:"transactionVersion"`
		GenesisHashHex string `json:"genesisHash"`
		BlockHashHex   string `json:"blockHash"`
	}{
		hex.EncodeToString(fromPubKey), hex.EncodeToString(callBytes), nonce, tip,
		specVersion, txVersion, hex.EncodeToString(genesisHash), hex.EncodeToString(blockHash),
	})
	if err != nil {
		return nil, fmt.Errorf("substrate: serialise unsigned transaction: %w", err)
	}

	unsigned := &tx.UnsignedTransaction{
		ChainAlias: chainAlias,
		Serialized: string(serializedJSON),
		Raw:        raw,
	}
	unsigned.SetRebuild(func(rawOverrides any) (*tx.UnsignedTransaction, error) {
		extra, ok := rawOverrides.(Overrides)
		if !ok {
			return nil, fmt.Errorf("substrate: Rebuild expects substrate.Overrides, got %T", rawOverrides)
		}
		return Build(ctx, capability, chainAlias, intent, merge(overrides, extra))
	})
	return unsigned, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func fetchGenesisHash(ctx context.Context, capability rpc.Capability, rpcURL string) ([]byte, error) {
	var result string
	if err := capability.Call(ctx, rpcURL, "chain_getBlockHash", []any{0}, &result); err != nil {
		return nil, &chainerr.RpcError{Method: "chain_getBlockHash", Body: err.Error()}
	}
	h, err := hex.DecodeString(trimHexPrefix(result))
	if err != nil || len(h) != 32 {
		return nil, fmt.Errorf("substrate: malformed genesis hash %q", result)
	}
	return h, nil
}

func fetchRuntimeVersion(ctx context.Context, capability rpc.Capability, rpcURL string) (uint32, uint32, error) {
	var result runtimeVersionResult
	if err := capability.Call(ctx, rpcURL, "state_getRuntimeVersion", []any{}, &result); err != nil {
		return 0, 0, &chainerr.RpcError{Method: "state_getRuntimeVersion", Body: err.Error()}
	}
	return result.SpecVersion, result.TransactionVersion, nil
}

func fetchNonce(ctx context.Context, capability rpc.Capability, rpcURL, ss58Address string) (uint64, error) {
	var result uint64
	if err := capability.Call(ctx, rpcURL, "system_accountNextIndex", []any{ss58Address}, &result); err != nil {
		return 0, &chainerr.RpcError{Method: "system_accountNextIndex", Body: err.Error()}
	}
	return result, nil
}
