package codec

import "encoding/binary"

// PutUint16LE, PutUint32LE, PutUint64LE and their BE counterparts are thin
// wrappers over encoding/binary: spec.md §9 calls for purpose-built codecs
// rather than a third-party binary-packing library, and encoding/binary
// already covers the fixed-width integer packing every ecosystem needs
// (SVM's little-endian lamports, UTXO's little-endian tx fields, XRPL's
// big-endian VL lengths, Substrate's little-endian SCALE integers).

func PutUint16LE(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func PutUint32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func PutUint64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func PutUint32BE(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func PutUint64BE(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func Uint32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func Uint64LE(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func Uint32BE(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func Uint64BE(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
