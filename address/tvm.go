// Tron address helpers. Grounded on
// other_examples/…OKaluzny-wallet-demo__internal-wallet-trx.go.go
// (base58check(0x41, Keccak256(pubkey)[12:])).
package address

import (
	"encoding/hex"
	"strings"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
)

const tronAddressVersion = 0x41

// ValidateTVM checks length, the base58 alphabet, and the trailing 4-byte
// SHA-256d checksum per spec.md §4.1.4.
func ValidateTVM(chainAlias, addr string) error {
	if len(addr) != 34 || !strings.HasPrefix(addr, "T") {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "expected 34 characters starting with 'T'"}
	}
	version, payload, err := codec.DecodeBase58Check(addr)
	if err != nil {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: err.Error()}
	}
	if version != tronAddressVersion {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "unexpected version byte"}
	}
	if len(payload) != 20 {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "expected a 20-byte hash payload"}
	}
	return nil
}

// TronBase58ToHex converts a base58check Tron address to its 0x41-prefixed
// hex form (the form embedded in TRC-20 call data and protobuf contracts).
func TronBase58ToHex(addr string) (string, error) {
	if err := ValidateTVM("tron", addr); err != nil {
		return "", err
	}
	_, payload, _ := codec.DecodeBase58Check(addr)
	return "41" + hex.EncodeToString(payload), nil
}

// TronHexToBase58 converts a 0x41-prefixed (or bare 20-byte) hex address
// back to its base58check form.
func TronHexToBase58(hexAddr string) (string, error) {
	hexAddr = strings.TrimPrefix(hexAddr, "0x")
	raw, err := hex.DecodeString(hexAddr)
	if err != nil {
		return "", &chainerr.InvalidAddressError{ChainAlias: "tron", Address: hexAddr, Reason: "not valid hex"}
	}
	if len(raw) == 21 && raw[0] == tronAddressVersion {
		raw = raw[1:]
	}
	if len(raw) != 20 {
		return "", &chainerr.InvalidAddressError{ChainAlias: "tron", Address: hexAddr, Reason: "expected a 20-byte hash payload"}
	}
	return codec.Base58Check(tronAddressVersion, raw), nil
}

// TronAddressFromPubkey derives a Tron base58check address from an
// uncompressed secp256k1 public key (65 bytes, 0x04 prefix), per spec.md
// §4.1.4: base58check(0x41, Keccak256(pubkey[1:])[12:]).
func TronAddressFromPubkey(uncompressedPubKey []byte) (string, error) {
	if len(uncompressedPubKey) != 65 || uncompressedPubKey[0] != 0x04 {
		return "", &chainerr.InvalidAddressError{ChainAlias: "tron", Address: "", Reason: "expected a 65-byte uncompressed public key"}
	}
	hash := codec.Keccak256(uncompressedPubKey[1:])
	return codec.Base58Check(tronAddressVersion, hash[12:]), nil
}
