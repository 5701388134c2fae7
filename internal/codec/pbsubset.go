// Package codec's protobuf-subset helpers, covering exactly the wire types
// Tron's rawData protobuf uses (varint, length-delimited, embedded
// message) per spec.md §4.1.4/§9: "implement minimal purpose-built codecs
// rather than dragging whole libraries". No Tron/protobuf example exists
// anywhere in the retrieval pack; this follows the standard protobuf wire
// format specification directly (field_number<<3 | wire_type tags).
package codec

const (
	PBWireVarint      = 0
	PBWireLengthDelim = 2
)

func pbTag(fieldNum int, wireType int) []byte {
	return PutProtoVarint(uint64(fieldNum<<3 | wireType))
}

// PutProtoVarint encodes n as a protobuf-style base-128 varint
// (little-endian group order, continuation bit set on all but the last byte).
func PutProtoVarint(n uint64) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

// PBVarintField encodes a varint-typed protobuf field.
func PBVarintField(fieldNum int, v uint64) []byte {
	return append(pbTag(fieldNum, PBWireVarint), PutProtoVarint(v)...)
}

// PBBytesField encodes a length-delimited protobuf field (bytes, string, or
// embedded message — all three share this wire encoding).
func PBBytesField(fieldNum int, data []byte) []byte {
	out := pbTag(fieldNum, PBWireLengthDelim)
	out = append(out, PutProtoVarint(uint64(len(data)))...)
	return append(out, data...)
}

// PBMessageField encodes an embedded message field given its already
// serialised bytes (an embedded message is wire-identical to a bytes field).
func PBMessageField(fieldNum int, messageBytes []byte) []byte {
	return PBBytesField(fieldNum, messageBytes)
}
