// XRPL uses its own base58 alphabet (ripple, not bitcoin ordering). No
// XRPL example exists in the retrieval pack; this follows spec.md §6's
// wire contract (base58-xrpl starting with 'r', 25-35 chars) directly.
package address

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
)

// rippleAlphabet is Ripple's base58 alphabet: same character set as Bitcoin's
// but in a different order, so a plain decimal-positional re-map from the
// standard alphabet suffices — no separate big-integer implementation
// needed.
const (
	bitcoinAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	rippleAlphabet  = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"
)

func translateAlphabet(s, from, to string) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(from, s[i])
		if idx < 0 {
			return "", chainerrInvalidAlphabet()
		}
		out[i] = to[idx]
	}
	return string(out), nil
}

func chainerrInvalidAlphabet() error {
	return &chainerr.InvalidAddressError{ChainAlias: "xrpl", Reason: "character outside the XRPL base58 alphabet"}
}

// ValidateXRPL checks the 'r' prefix, length bounds, and base58check
// checksum (after re-mapping to the standard alphabet).
func ValidateXRPL(chainAlias, addr string) error {
	if len(addr) < 25 || len(addr) > 35 || !strings.HasPrefix(addr, "r") {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "expected 25-35 characters starting with 'r'"}
	}
	remapped, err := translateAlphabet(addr, rippleAlphabet, bitcoinAlphabet)
	if err != nil {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "invalid XRPL base58 alphabet"}
	}
	decoded := base58.Decode(remapped)
	if len(decoded) < 5 {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "decoded payload too short"}
	}
	body, checksum := decoded[:len(decoded)-4], decoded[len(decoded)-4:]
	if string(codec.SHA256D(body)[:4]) != string(checksum) {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "checksum mismatch"}
	}
	return nil
}

// AccountIDFromXRPLAddress decodes addr to its 20-byte AccountID, the form
// embedded in XRPL binary serialisation.
func AccountIDFromXRPLAddress(addr string) ([]byte, error) {
	if err := ValidateXRPL("xrpl", addr); err != nil {
		return nil, err
	}
	remapped, _ := translateAlphabet(addr, rippleAlphabet, bitcoinAlphabet)
	decoded := base58.Decode(remapped)
	// version byte (1) + 20-byte AccountID + 4-byte checksum
	if len(decoded) != 25 {
		return nil, &chainerr.InvalidAddressError{ChainAlias: "xrpl", Address: addr, Reason: "expected a 20-byte AccountID payload"}
	}
	return decoded[1:21], nil
}

// EncodeXRPLAddress is AccountIDFromXRPLAddress's inverse: base58check(0x00,
// accountID) re-mapped onto the Ripple alphabet, used by the decoder to
// recover a human-readable address from binary-serialised field data.
func EncodeXRPLAddress(accountID []byte) (string, error) {
	if len(accountID) != 20 {
		return "", &chainerr.InvalidAddressError{ChainAlias: "xrpl", Reason: "expected a 20-byte AccountID"}
	}
	standard := codec.Base58Check(0x00, accountID)
	return translateAlphabet(standard, bitcoinAlphabet, rippleAlphabet)
}
