// Package codec's hash helpers. Grounded on the three sibling address
// generators in other_examples/…OKaluzny-wallet-demo__internal-wallet-{eth,btc,trx}.go,
// which hash with golang.org/x/crypto/sha3 (Keccak-256), stdlib
// crypto/sha256 (double-SHA256), and golang.org/x/crypto/ripemd160
// (Hash160) respectively.
package codec

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required by the Bitcoin Hash160 construction
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes data with Keccak-256 (not NIST SHA3-256) — the variant
// every EVM and TVM preimage uses.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// SHA256D computes double-SHA256, the UTXO txid/sighash digest.
func SHA256D(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// SHA256Once computes a single SHA-256 pass — used for the TVM txID (SHA-256
// over the serialised rawData, per spec.md §4.1.4). Tron's address checksum
// is double SHA-256 (see Base58Check).
func SHA256Once(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Hash160 computes RIPEMD160(SHA256(data)), the digest behind P2PKH/P2WPKH
// scripts and legacy Bitcoin addresses.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sum[:])
	return r.Sum(nil)
}

// Blake2b256 computes a 32-byte Blake2b digest, used for Substrate
// extrinsic hashing and long (>256 byte) signed-payload compression.
func Blake2b256(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Blake2_128Concat computes Substrate's "Blake2_128Concat" storage key
// hasher: a 16-byte Blake2b digest of data followed by data itself,
// used for the final component of a StorageMap key so the key remains
// reversible (spec.md's System.Account lookup).
func Blake2_128Concat(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	digest := h.Sum(nil)
	return append(digest, data...)
}

// TaggedHashBIP340 computes the BIP340/341 tagged hash:
// SHA256(SHA256(tag) || SHA256(tag) || msg).
func TaggedHashBIP340(tag string, msg ...[]byte) []byte {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	for _, m := range msg {
		h.Write(m)
	}
	return h.Sum(nil)
}
