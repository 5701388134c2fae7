package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PutCompactSize implements Bitcoin's CompactSize ("varint") encoding used by
// the legacy tx serialisation, PSBT key-value lengths, and witness stack
// item counts.
func PutCompactSize(n uint64) []byte {
	switch {
	case n < 0xfd:
		return []byte{byte(n)}
	case n <= 0xffff:
		b := make([]byte, 3)
		b[0] = 0xfd
		binary.LittleEndian.PutUint16(b[1:], uint16(n))
		return b
	case n <= 0xffffffff:
		b := make([]byte, 5)
		b[0] = 0xfe
		binary.LittleEndian.PutUint32(b[1:], uint32(n))
		return b
	default:
		b := make([]byte, 9)
		b[0] = 0xff
		binary.LittleEndian.PutUint64(b[1:], n)
		return b
	}
}

// ReadCompactSize reads a CompactSize-encoded integer from r.
func ReadCompactSize(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}
	switch prefix[0] {
	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	case 0xfe:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xff:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	default:
		return uint64(prefix[0]), nil
	}
}

// PutShortVec encodes Solana's "shortvec" (compact-u16) length prefix used
// ahead of account-key/instruction arrays in a transaction message.
func PutShortVec(n int) []byte {
	if n < 0 {
		panic(fmt.Sprintf("codec: negative shortvec length %d", n))
	}
	var out []byte
	v := uint32(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

// ReadShortVec decodes a Solana compact-u16 length prefix, returning the
// value and the number of bytes consumed.
func ReadShortVec(b []byte) (int, int, error) {
	var v uint32
	for i := 0; i < 3 && i < len(b); i++ {
		v |= uint32(b[i]&0x7f) << (7 * i)
		if b[i]&0x80 == 0 {
			return int(v), i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("codec: truncated shortvec")
}

// PutSCALECompact encodes a SCALE "compact" integer (Substrate's variable
// length integer encoding) for any uint64 value; values of 2^30 and above
// use the big-integer mode.
func PutSCALECompact(n uint64) []byte {
	switch {
	case n < 1<<6:
		return []byte{byte(n << 2)}
	case n < 1<<14:
		v := uint16(n<<2) | 0b01
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	case n < 1<<30:
		v := uint32(n<<2) | 0b10
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	default:
		// Big-integer mode: mode bits 0b11, followed by (bytecount-4) in the
		// upper 6 bits of the first byte, then the value little-endian.
		var buf []byte
		v := n
		for v > 0 {
			buf = append(buf, byte(v))
			v >>= 8
		}
		if len(buf) == 0 {
			buf = []byte{0}
		}
		header := byte((len(buf)-4)<<2) | 0b11
		return append([]byte{header}, buf...)
	}
}

// ReadSCALECompact decodes a SCALE compact integer from the front of b,
// returning the value and the number of bytes consumed.
func ReadSCALECompact(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("codec: empty buffer reading SCALE compact integer")
	}
	switch b[0] & 0b11 {
	case 0b00:
		return uint64(b[0] >> 2), 1, nil
	case 0b01:
		if len(b) < 2 {
			return 0, 0, fmt.Errorf("codec: truncated 2-byte SCALE compact integer")
		}
		return uint64(binary.LittleEndian.Uint16(b[:2]) >> 2), 2, nil
	case 0b10:
		if len(b) < 4 {
			return 0, 0, fmt.Errorf("codec: truncated 4-byte SCALE compact integer")
		}
		return uint64(binary.LittleEndian.Uint32(b[:4]) >> 2), 4, nil
	default:
		n := int(b[0]>>2) + 4
		if len(b) < 1+n {
			return 0, 0, fmt.Errorf("codec: truncated big-integer-mode SCALE compact integer")
		}
		var v uint64
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[1+i])
		}
		return v, 1 + n, nil
	}
}
