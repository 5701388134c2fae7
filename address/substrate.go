// SS58 address helpers (Substrate/Bittensor). No Substrate example exists
// in the retrieval pack; this follows spec.md §6/GLOSSARY directly:
// base58(networkPrefix || publicKey || checksum), checksum = first bytes
// of Blake2b-512("SS58PRE" || networkPrefix || publicKey).
package address

import (
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"

	"golang.org/x/crypto/blake2b"
)

// SS58Prefix42 is the network prefix SPEC_FULL.md's Bittensor chain config
// uses (spec.md GLOSSARY: "SS58 with prefix 42").
const SS58Prefix42 = 42

func ss58Checksum(prefixAndKey []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write([]byte("SS58PRE"))
	h.Write(prefixAndKey)
	return h.Sum(nil)
}

// EncodeSS58 encodes a 32-byte sr25519/ed25519 public key as an SS58
// address under the given network prefix.
func EncodeSS58(prefix byte, pubKey []byte) (string, error) {
	if len(pubKey) != 32 {
		return "", &chainerr.InvalidAddressError{ChainAlias: "substrate", Reason: "expected a 32-byte public key"}
	}
	body := append([]byte{prefix}, pubKey...)
	checksum := ss58Checksum(body)
	full := append(body, checksum[:2]...)
	return codec.Base58Encode(full), nil
}

// ValidateSubstrate decodes addr and verifies its SS58 checksum and prefix.
func ValidateSubstrate(chainAlias string, expectedPrefix byte, addr string) error {
	decoded, err := codec.Base58Decode(addr)
	if err != nil || len(decoded) < 3 {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "not valid base58 or too short"}
	}
	bodyLen := len(decoded) - 2
	body, checksum := decoded[:bodyLen], decoded[bodyLen:]
	want := ss58Checksum(body)
	if checksum[0] != want[0] || checksum[1] != want[1] {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "SS58 checksum mismatch"}
	}
	if body[0] != expectedPrefix {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "unexpected SS58 network prefix"}
	}
	return nil
}

// PublicKeyFromSS58 extracts the 32-byte public key from an SS58 address.
func PublicKeyFromSS58(addr string) ([]byte, error) {
	decoded, err := codec.Base58Decode(addr)
	if err != nil || len(decoded) != 35 {
		return nil, &chainerr.InvalidAddressError{ChainAlias: "substrate", Address: addr, Reason: "expected a 32-byte public key payload"}
	}
	return decoded[1:33], nil
}
