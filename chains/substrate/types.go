// Package substrate implements the Substrate/Bittensor builder/sighash/
// applier/decoder stack (spec.md §4.1.6, §4.2 Substrate row). No
// Substrate example or library exists anywhere in the retrieval pack;
// this follows spec.md's extrinsic-v4 description directly, using
// internal/codec's SCALE helpers per spec.md §9's "minimal purpose-built
// codecs" design note.
package substrate

// eraImmortal signals the extrinsic never expires (SCALE: single 0x00
// byte), the only era kind this builder emits.
const eraImmortal = 0x00

// signedExtrinsicVersion is v4 with the "signed" high bit set (0x80 | 4).
const signedExtrinsicVersion = 0x84

// multiAddressIDVariant is the MultiAddress::Id SCALE enum discriminant.
const multiAddressIDVariant = 0x00

// multiSignatureEd25519Variant is the MultiSignature::Ed25519 SCALE enum
// discriminant — the engine's tx.Algorithm enum only names secp256k1 and
// ed25519, so ed25519 is used for every Substrate chain this builds for.
const multiSignatureEd25519Variant = 0x00

// blake2b256Threshold is spec.md §4.1.6's "if longer [than 256 bytes],
// apply Blake2b-256" rule.
const blake2b256Threshold = 256

// RawExtrinsic is the parsed intermediate an UnsignedTransaction.Raw holds
// for Substrate.
type RawExtrinsic struct {
	AccountID32        []byte // 32-byte sr25519/ed25519 public key
	CallBytes          []byte // palletIndex || callIndex || SCALE args
	Nonce              uint64
	Tip                uint64
	SpecVersion        uint32
	TransactionVersion uint32
	GenesisHash        []byte // 32 bytes
	BlockHash          []byte // 32 bytes (era anchor; equals GenesisHash for an immortal era)
}
