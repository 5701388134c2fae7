package codec

import "encoding/binary"

// xxHash64 constants (public-domain algorithm; Substrate's Twox128
// storage-key hash is two xxHash64 passes at seeds 0 and 1 concatenated).
const (
	xxPrime1 uint64 = 11400714785074694791
	xxPrime2 uint64 = 14029467366897019727
	xxPrime3 uint64 = 1609587929392839161
	xxPrime4 uint64 = 9650029242287828579
	xxPrime5 uint64 = 2870177450012600261
)

func rotl64(x uint64, r uint) uint64 { return (x << r) | (x >> (64 - r)) }

func xxRound(acc, input uint64) uint64 {
	acc += input * xxPrime2
	acc = rotl64(acc, 31)
	return acc * xxPrime1
}

func xxMergeRound(acc, val uint64) uint64 {
	val = xxRound(0, val)
	acc ^= val
	return acc*xxPrime1 + xxPrime4
}

// xxHash64 hashes data with the given seed per the reference xxHash64
// algorithm.
func xxHash64(data []byte, seed uint64) uint64 {
	var h64 uint64
	n := len(data)

	if n >= 32 {
		v1 := seed + xxPrime1 + xxPrime2
		v2 := seed + xxPrime2
		v3 := seed
		v4 := seed - xxPrime1
		for len(data) >= 32 {
			v1 = xxRound(v1, binary.LittleEndian.Uint64(data[0:8]))
			v2 = xxRound(v2, binary.LittleEndian.Uint64(data[8:16]))
			v3 = xxRound(v3, binary.LittleEndian.Uint64(data[16:24]))
			v4 = xxRound(v4, binary.LittleEndian.Uint64(data[24:32]))
			data = data[32:]
		}
		h64 = rotl64(v1, 1) + rotl64(v2, 7) + rotl64(v3, 12) + rotl64(v4, 18)
		h64 = xxMergeRound(h64, v1)
		h64 = xxMergeRound(h64, v2)
		h64 = xxMergeRound(h64, v3)
		h64 = xxMergeRound(h64, v4)
	} else {
		h64 = seed + xxPrime5
	}

	h64 += uint64(n)

	for len(data) >= 8 {
		k1 := xxRound(0, binary.LittleEndian.Uint64(data[0:8]))
		h64 ^= k1
		h64 = rotl64(h64, 27)*xxPrime1 + xxPrime4
		data = data[8:]
	}
	if len(data) >= 4 {
		h64 ^= uint64(binary.LittleEndian.Uint32(data[0:4])) * xxPrime1
		h64 = rotl64(h64, 23)*xxPrime2 + xxPrime3
		data = data[4:]
	}
	for len(data) > 0 {
		h64 ^= uint64(data[0]) * xxPrime5
		h64 = rotl64(h64, 11) * xxPrime1
		data = data[1:]
	}

	h64 ^= h64 >> 33
	h64 *= xxPrime2
	h64 ^= h64 >> 29
	h64 *= xxPrime3
	h64 ^= h64 >> 32
	return h64
}

// Twox128 is Substrate's storage-map-prefix hash: two xxHash64 passes
// (seeds 0 and 1) over data, little-endian-encoded and concatenated into
// 16 bytes.
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:8], xxHash64(data, 0))
	binary.LittleEndian.PutUint64(out[8:16], xxHash64(data, 1))
	return out
}
