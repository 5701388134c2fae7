package svm

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/registry"
	"github.com/umbra-labs/chaincore/rpc"
	"github.com/umbra-labs/chaincore/tx"
)

// Overrides lets a caller pin the recent blockhash or compute-unit price a
// Rebuild should reuse instead of refetching (spec.md §4.1's "when absent,
// builders query the network" clause).
type Overrides struct {
	RecentBlockhash    string
	ComputeUnitPriceMu uint64 // micro-lamports per compute unit; 0 = query
}

func merge(base, extra Overrides) Overrides {
	if extra.RecentBlockhash != "" {
		base.RecentBlockhash = extra.RecentBlockhash
	}
	if extra.ComputeUnitPriceMu != 0 {
		base.ComputeUnitPriceMu = extra.ComputeUnitPriceMu
	}
	return base
}

type blockhashResult struct {
	Value struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"value"`
}

// Build assembles a legacy (unversioned) message wrapping the instructions implied by
// intent, deduplicating/ordering account keys the way solana.NewTransaction
// already does (spec.md §4.1.2).
func Build(ctx context.Context, capability rpc.Capability, chainAlias string, intent tx.Intent, overrides Overrides) (*tx.UnsignedTransaction, error) {
	cfg, err := registry.Lookup(chainAlias)
	if err != nil {
		return nil, err
	}
	if cfg.Ecosystem != registry.EcosystemSVM {
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "svm.Build"}
	}

	var (
		payer solana.PublicKey
		instr solana.Instruction
	)

	switch it := intent.(type) {
	case tx.NativeTransfer:
		from, err := solana.PublicKeyFromBase58(it.From)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.From, Reason: err.Error()}
		}
		to, err := solana.PublicKeyFromBase58(it.To)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.To, Reason: err.Error()}
		}
		lamports, err := strconv.ParseUint(it.Value, 10, 64)
		if err != nil {
			return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative base-10 integer", it.Value)}
		}
		payer = from
		instr = system.NewTransferInstruction(lamports, from, to).Build()

	case tx.TokenTransfer:
		if it.Standard != tx.StandardSPL {
			return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: fmt.Sprintf("token standard %q", it.Standard)}
		}
		owner, err := solana.PublicKeyFromBase58(it.From)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.From, Reason: err.Error()}
		}
		recipient, err := solana.PublicKeyFromBase58(it.To)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.To, Reason: err.Error()}
		}
		mint, err := solana.PublicKeyFromBase58(it.TokenContract)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.TokenContract, Reason: err.Error()}
		}
		amount, err := strconv.ParseUint(it.Value, 10, 64)
		if err != nil {
			return nil, &chainerr.InvalidAmountError{Reason: fmt.Sprintf("%q is not a non-negative base-10 integer", it.Value)}
		}
		source, _, err := solana.FindAssociatedTokenAddress(owner, mint)
		if err != nil {
			return nil, fmt.Errorf("svm: derive sender associated token account: %w", err)
		}
		dest, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
		if err != nil {
			return nil, fmt.Errorf("svm: derive recipient associated token account: %w", err)
		}
		payer = owner
		instr = token.NewTransferInstruction(amount, source, dest, owner, nil).Build()

	case tx.ContractCall:
		from, err := solana.PublicKeyFromBase58(it.From)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.From, Reason: err.Error()}
		}
		programID, err := solana.PublicKeyFromBase58(it.Contract)
		if err != nil {
			return nil, &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: it.Contract, Reason: err.Error()}
		}
		payer = from
		instr = solana.NewInstruction(programID, solana.AccountMetaSlice{solana.Meta(from).WRITE().SIGNER()}, it.Data)

	case tx.ContractDeploy:
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "contract deployment (Solana program deploys are out of scope for this builder)"}

	default:
		return nil, &chainerr.UnsupportedOperationError{Chain: chainAlias, Op: "unrecognised intent"}
	}

	blockhash := overrides.RecentBlockhash
	if blockhash == "" {
		var result blockhashResult
		if err := capability.Call(ctx, cfg.RPCURL, "getLatestBlockhash", []any{map[string]any{"commitment": "finalized"}}, &result); err != nil {
			return nil, fmt.Errorf("svm: fetch recent blockhash: %w", err)
		}
		blockhash = result.Value.Blockhash
	}
	hash, err := solana.HashFromBase58(blockhash)
	if err != nil {
		return nil, fmt.Errorf("svm: parse blockhash: %w", err)
	}

	cuPrice := overrides.ComputeUnitPriceMu
	if cuPrice == 0 {
		_, standard, _, err := RecentPrioritizationFees(ctx, capability, cfg.RPCURL, nil)
		if err != nil {
			return nil, err
		}
		cuPrice = standard
	}
	instructions := []solana.Instruction{instr}
	if cuPrice > 0 {
		instructions = append([]solana.Instruction{computeUnitPriceInstruction(cuPrice)}, instructions...)
	}

	builtTx, err := solana.NewTransaction(instructions, hash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("svm: assemble message: %w", err)
	}

	messageBytes, err := builtTx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("svm: serialise message: %w", err)
	}

	raw := &RawTx{Tx: builtTx, Signer: payer}
	unsigned := &tx.UnsignedTransaction{
		ChainAlias: chainAlias,
		Serialized: base64Encode(messageBytes),
		Raw:        raw,
	}
	unsigned.SetRebuild(func(rawOverrides any) (*tx.UnsignedTransaction, error) {
		extra, ok := rawOverrides.(Overrides)
		if !ok {
			return nil, fmt.Errorf("svm: Rebuild expects svm.Overrides, got %T", rawOverrides)
		}
		return Build(ctx, capability, chainAlias, intent, merge(overrides, extra))
	})
	return unsigned, nil
}

// computeUnitPriceInstruction mirrors ComputeBudgetProgram's
// SetComputeUnitPrice instruction (discriminant 3 ‖ u64 micro-lamports),
// used to express a priority fee (spec.md §4.6).
func computeUnitPriceInstruction(microLamports uint64) solana.Instruction {
	programID := solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	data := make([]byte, 9)
	data[0] = 3
	for i := 0; i < 8; i++ {
		data[1+i] = byte(microLamports >> (8 * i))
	}
	return solana.NewInstruction(programID, solana.AccountMetaSlice{}, data)
}
