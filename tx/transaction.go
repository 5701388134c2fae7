package tx

// RebuildFunc re-invokes the builder that produced an UnsignedTransaction
// with the same intent and merged overrides, returning a fresh
// UnsignedTransaction. It never mutates the original — builders own the
// transient intermediate and hand ownership of each UnsignedTransaction to
// the caller (spec.md §9); rebuilding always produces a new value.
type RebuildFunc func(overrides any) (*UnsignedTransaction, error)

// UnsignedTransaction is a pure function of Raw: re-parsing Serialized
// (via the matching ecosystem decoder, format "raw") must reconstruct a
// structure that re-serialises to an equal Serialized (spec.md §3/§8
// round-trip law).
type UnsignedTransaction struct {
	ChainAlias string

	// Serialized is the canonical, chain-specific encoding: JSON of Raw
	// for SVM/TVM/XRPL/Substrate, PSBT base64 for UTXO, typed-transaction
	// RLP hex for EVM.
	Serialized string

	// Raw is the parsed intermediate holding every field needed to
	// re-serialise. Its concrete type is ecosystem-specific
	// (*evm.RawTx, *utxo.RawPSBT, ...); callers that need chain-specific
	// fields type-assert it.
	Raw any

	// ExpectedAddress is the deterministically-derived contract address a
	// ContractDeploy build will occupy once broadcast (spec.md §4.1's
	// buildContractDeploy(intent, overrides?) -> {tx, expectedAddress}
	// contract). Empty for every other intent kind.
	ExpectedAddress string

	// consumed is set by the applier; each chain's GetSigningPayload
	// returns an error once consumed is true, enforcing the
	// build -> getSigningPayload -> applySignature ordering of spec.md §5
	// via a small amount of type-state.
	consumed bool

	rebuild RebuildFunc
}

// MarkConsumed flags this UnsignedTransaction as already handed to the
// signature applier. Called by chains/*/applier.go; a second
// GetSigningPayload after this point is a programming error the engine
// must reject per spec.md §5.
func (u *UnsignedTransaction) MarkConsumed() { u.consumed = true }

// Consumed reports whether this UnsignedTransaction has already been
// applied.
func (u *UnsignedTransaction) Consumed() bool { return u.consumed }

// SetRebuild attaches the closure a builder uses to satisfy Rebuild. Called
// once, by the builder that constructs this UnsignedTransaction.
func (u *UnsignedTransaction) SetRebuild(fn RebuildFunc) { u.rebuild = fn }

// Rebuild re-runs the original builder call with overrides merged over the
// original request, returning a brand-new UnsignedTransaction.
func (u *UnsignedTransaction) Rebuild(overrides any) (*UnsignedTransaction, error) {
	if u.rebuild == nil {
		return nil, errRebuildUnavailable(u.ChainAlias)
	}
	return u.rebuild(overrides)
}

// Algorithm names the signature scheme a SigningPayload expects back.
type Algorithm string

const (
	AlgorithmSecp256k1 Algorithm = "secp256k1"
	AlgorithmEd25519   Algorithm = "ed25519"
)

// SigningPayload carries the exact pre-image bytes an MPC signer must
// operate on. len(Data) is 1 for every ecosystem except UTXO, where it is
// the input count (spec.md §3/§8).
type SigningPayload struct {
	ChainAlias string
	Data       [][]byte
	Algorithm  Algorithm
}

// SignedTransaction is produced by the applier and never mutated
// afterward.
type SignedTransaction struct {
	ChainAlias string
	Serialized string
	Hash       string
}

// BroadcastResult distinguishes a local failure (which the engine returns
// as an error) from a remote refusal (which it returns as a value so
// callers can branch on it) per spec.md §7.
type BroadcastResult struct {
	Success bool
	Hash    string
	Error   error
}
