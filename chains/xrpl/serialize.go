package xrpl

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// vl prefixes data with its XRPL variable-length header.
func vl(data []byte) []byte {
	n := len(data)
	var header []byte
	switch {
	case n <= 192:
		header = []byte{byte(n)}
	case n <= 12480:
		n -= 193
		header = []byte{byte(193 + (n >> 8)), byte(n & 0xff)}
	default:
		n -= 12481
		header = []byte{byte(241 + (n >> 16)), byte((n >> 8) & 0xff), byte(n & 0xff)}
	}
	return append(header, data...)
}

func fieldHeader(f sfield) []byte {
	switch {
	case f.typeCode < 16 && f.fieldCode < 16:
		return []byte{byte(f.typeCode<<4 | f.fieldCode)}
	case f.typeCode >= 16 && f.fieldCode < 16:
		return []byte{byte(f.fieldCode), byte(f.typeCode)}
	case f.typeCode < 16 && f.fieldCode >= 16:
		return []byte{byte(f.typeCode << 4), byte(f.fieldCode)}
	default:
		return []byte{0, byte(f.typeCode), byte(f.fieldCode)}
	}
}

func encodeUInt16(f sfield, v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return append(fieldHeader(f), buf...)
}

func encodeUInt32(f sfield, v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return append(fieldHeader(f), buf...)
}

func encodeBlob(f sfield, data []byte) []byte {
	return append(fieldHeader(f), vl(data)...)
}

func encodeAccountID(f sfield, accountID []byte) []byte {
	return append(fieldHeader(f), vl(accountID)...)
}

// encodeXRPAmount encodes a native-XRP amount: 8 bytes big-endian with the
// top "not XRP" bit cleared and the "positive" bit set (spec.md §4.1.5).
func encodeXRPAmount(f sfield, drops uint64) ([]byte, error) {
	if drops >= (uint64(1) << 62) {
		return nil, fmt.Errorf("xrpl: drops amount out of range")
	}
	v := drops | 0x4000000000000000
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return append(fieldHeader(f), buf...), nil
}

// encodeIssuedAmount encodes an IssuedCurrency amount: 8-byte
// mantissa/exponent, 20-byte currency code, 20-byte issuer AccountID.
func encodeIssuedAmount(f sfield, value, currency string, issuerAccountID []byte) ([]byte, error) {
	mantissaBytes, err := normalizeIssuedValue(value)
	if err != nil {
		return nil, err
	}
	currencyField := make([]byte, 20)
	copy(currencyField[12:], []byte(padCurrency(currency)))
	out := append(fieldHeader(f), mantissaBytes...)
	out = append(out, currencyField...)
	out = append(out, issuerAccountID...)
	return out, nil
}

func padCurrency(code string) string {
	if len(code) >= 3 {
		return code[:3]
	}
	return code + strings.Repeat("\x00", 3-len(code))
}

// normalizeIssuedValue encodes an arbitrary-precision decimal string into
// XRPL's 8-byte {sign, exponent, 54-bit mantissa} amount representation: the
// mantissa is normalised to exactly 16 significant digits (or zero).
func normalizeIssuedValue(value string) ([]byte, error) {
	neg := strings.HasPrefix(value, "-")
	if neg {
		value = value[1:]
	}
	intPart, fracPart := value, ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		intPart, fracPart = value[:idx], value[idx+1:]
	}
	digits := strings.TrimLeft(intPart+fracPart, "0")
	exponent := -len(fracPart)

	if digits == "" {
		// Zero amount: only bit 63 (the "not XRP" flag) set; the sign bit
		// (62), mantissa and exponent are all zero.
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, 0x8000000000000000)
		return buf, nil
	}

	for len(digits) > 16 {
		digits = digits[:len(digits)-1]
		exponent++
	}
	for len(digits) < 16 {
		digits += "0"
		exponent--
	}

	mantissa, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("xrpl: %q is not a valid decimal amount", value)
	}

	v := uint64(1) << 63 // "not XRP"
	if !neg {
		v |= uint64(1) << 62
	}
	v |= uint64(exponent+97) << 54
	v |= mantissa.Uint64() & ((uint64(1) << 54) - 1)

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf, nil
}

func parseDrops(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
