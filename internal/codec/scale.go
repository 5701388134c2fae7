// Package codec's SCALE (Simple Concatenated Aggregate Little-Endian)
// helpers. Substrate never appears in the retrieval pack, so this is a
// from-scratch implementation of exactly the fields spec.md §4.1.6 names —
// not a port of github.com/centrifuge/go-substrate-rpc-client's much larger
// codec, which would drag in an entire RPC client this core doesn't need.
package codec

// SCALEEncodeBytes encodes a byte slice as SCALE: compact-length prefix
// followed by the raw bytes.
func SCALEEncodeBytes(b []byte) []byte {
	out := PutSCALECompact(uint64(len(b)))
	return append(out, b...)
}

// SCALEEncodeU32 encodes a uint32 as 4 little-endian bytes (SCALE fixed-width).
func SCALEEncodeU32(v uint32) []byte { return PutUint32LE(v) }

// SCALEEncodeU64 encodes a uint64 as 8 little-endian bytes (SCALE fixed-width).
func SCALEEncodeU64(v uint64) []byte { return PutUint64LE(v) }

// SCALEEncodeCompact encodes v using SCALE's compact integer format.
func SCALEEncodeCompact(v uint64) []byte { return PutSCALECompact(v) }
