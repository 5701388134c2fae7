package utxo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// Overrides carries the caller-pinned fields a Rebuild reuses instead of
// re-querying the wallet's UTXO set and fee estimator.
type Overrides struct {
	UTXOs           []UTXO
	FeeRateSatPerVB float64
	AbsoluteFee     *int64
	ChangeAddress   string
	RBF             *bool // default true per spec.md §4.1.3
	DustLimit       int64 // default 546 sat when zero
	PubKeys         map[string][]byte // keyed by "txid:vout" -> compressed pubkey, for p2wpkh partial sig construction
}

func merge(base, extra Overrides) Overrides {
	if extra.UTXOs != nil {
		base.UTXOs = extra.UTXOs
	}
	if extra.FeeRateSatPerVB != 0 {
		base.FeeRateSatPerVB = extra.FeeRateSatPerVB
	}
	if extra.AbsoluteFee != nil {
		base.AbsoluteFee = extra.AbsoluteFee
	}
	if extra.ChangeAddress != "" {
		base.ChangeAddress = extra.ChangeAddress
	}
	if extra.RBF != nil {
		base.RBF = extra.RBF
	}
	if extra.DustLimit != 0 {
		base.DustLimit = extra.DustLimit
	}
	if extra.PubKeys != nil {
		base.PubKeys = extra.PubKeys
	}
	return base
}

// Build produces a PSBT moving intent.Value satoshis to intent.To, coin
// selecting from Overrides.UTXOs (or capability-fetched unspent outputs)
// per spec.md §4.8.
func Build(ctx context.Context, capability rpc.Capability, chainAlias string, intent tx.NativeTransfer, overrides Overrides) (*tx.UnsignedTransaction, error) {
	cfg, err := registry.Lookup(chainAlias)
	if err != nil {
		return nil, err
	}
	if cfg.Ecosystem != registry.EcosystemUTXO {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "utxo.Build"}
	}
	if err := address.ValidateUTXOBech32(chainAlias, intent.To); err != nil {
		return nil, err
	}

	targetSat, err := strconv.ParseInt(intent.Value, 10, 64)
	if err != nil || targetSat < 0 {
		return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative satoshi amount", intent.Value)}
	}

	utxos := overrides.UTXOs
	if utxos == nil {
		utxos, err = fetchUTXOs(ctx, capability, cfg.RPCURL, intent.From)
		if err != nil {
			return nil, err
		}
	}

	feeRate := overrides.FeeRateSatPerVB
	if feeRate == 0 {
		bands, err := EstimateFee(ctx, capability, cfg.RPCURL)
		if err != nil {
			return nil, err
		}
		feeRate = bands.StandardSatPerVB
	}

	dustLimit := overrides.DustLimit
	if dustLimit == 0 {
		dustLimit = 546
	}

	result, err := SelectCoins(utxos, targetSat, feeRate, dustLimit, overrides.AbsoluteFee)
	if err != nil {
		return nil, err
	}

	rbf := true
	if overrides.RBF != nil {
		rbf = *overrides.RBF
	}
	sequence := uint32(0xffffffff)
	if rbf {
		sequence = 0xfffffffd
	}

	changeAddr := overrides.ChangeAddress
	if changeAddr == "" {
		changeAddr = intent.From
	}

	outPoints := make([]*wire.OutPoint, len(result.Selected))
	sequences := make([]uint32, len(result.Selected))
	scriptTypes := make([]string, len(result.Selected))
	pubKeys := make([][]byte, len(result.Selected))
	for i, u := range result.Selected {
		if u.ScriptType != "p2wpkh" && u.ScriptType != "p2tr" {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: intent.From, Reason: fmt.Sprintf("input %s:%d is not p2wpkh or p2tr", u.Txid, u.Vout)}
		}
		txidHash, err := chainhash.NewHashFromStr(u.Txid)
		if err != nil {
			return nil, fmt.Errorf("utxo: parse input txid %q: %w", u.Txid, err)
		}
		outPoints[i] = wire.NewOutPoint(txidHash, u.Vout)
		sequences[i] = sequence
		scriptTypes[i] = u.ScriptType
		if overrides.PubKeys != nil {
			pubKeys[i] = overrides.PubKeys[fmt.Sprintf("%s:%d", u.Txid, u.Vout)]
		}
	}

	recipientAddr, err := btcutil.DecodeAddress(intent.To, &chaincfg.MainNetParams)
	if err != nil {
		return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: intent.To, Reason: err.Error()}
	}
	recipientScript, err := txscript.PayToAddrScript(recipientAddr)
	if err != nil {
		return nil, fmt.Errorf("utxo: build recipient script: %w", err)
	}

	txOuts := []*wire.TxOut{wire.NewTxOut(targetSat, recipientScript)}
	if result.HasChange {
		changeParsedAddr, err := btcutil.DecodeAddress(changeAddr, &chaincfg.MainNetParams)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: changeAddr, Reason: err.Error()}
		}
		changeScript, err := txscript.PayToAddrScript(changeParsedAddr)
		if err != nil {
			return nil, fmt.Errorf("utxo: build change script: %w", err)
		}
		txOuts = append(txOuts, wire.NewTxOut(result.Change, changeScript))
	}

	packet, err := psbt.New(outPoints, txOuts, 2, 0, sequences)
	if err != nil {
		return nil, &chainerr.PsbtError{Phase: chainerr.PsbtPhaseParse, Cause: err}
	}
	for i, u := range result.Selected {
		packet.Inputs[i].WitnessUtxo = wire.NewTxOut(u.Value, u.ScriptPubKey)
		packet.Inputs[i].SighashType = txscript.SigHashAll
	}

	raw := &RawPSBT{Packet: packet, ScriptTypes: scriptTypes, PubKeys: pubKeys}
	serialized, err := packet.B64Encode()
	if err != nil {
		return nil, &chainerr.PsbtError{Phase: chainerr.PsbtPhaseParse, Cause: err}
	}

	unsigned := &tx.UnsignedTransaction{
		ChainAlias: chainAlias,
		Serialized: serialized,
		Raw:        raw,
	}
	unsigned.SetRebuild(func(rawOverrides any) (*tx.UnsignedTransaction, error) {
		extra, ok := rawOverrides.(Overrides)
		if !ok {
			return nil, fmt.Errorf("utxo: Rebuild expects utxo.Overrides, got %T", rawOverrides)
		}
		return Build(ctx, capability, chainAlias, intent, merge(overrides, extra))
	})
	return unsigned, nil
}

func fetchUTXOs(ctx context.Context, capability rpc.Capability, rpcURL, addr string) ([]UTXO, error) {
	var raw []struct {
		Txid         string `json:"txid"`
		Vout         uint32 `json:"vout"`
		Value        int64  `json:"value"`
		ScriptPubKey string `json:"scriptPubKey"`
	}
	if err := capability.Call(ctx, rpcURL, "listunspent", []any{0, 9_999_999, []string{addr}}, &raw); err != nil {
		return nil, fmt.Errorf("utxo: fetch unspent outputs: %w", err)
	}
	out := make([]UTXO, 0, len(raw))
	for _, r := range raw {
		script, err := decodeHexScript(r.ScriptPubKey)
		if err != nil {
			continue
		}
		out = append(out, UTXO{
			Txid:         r.Txid,
			Vout:         r.Vout,
			Value:        r.Value,
			ScriptPubKey: script,
			ScriptType:   scriptTypeOf(script),
		})
	}
	return out, nil
}
