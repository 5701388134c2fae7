package address

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/umbra-labs/chaincore/chainerr"
)

// ValidateUTXOBech32 checks that addr is a lowercase bech32/bech32m SegWit
// address. Legacy base58check (P2PKH) addresses are rejected at build time
// per spec.md §4.1.3/§6 — only P2WPKH and P2TR are supported.
func ValidateUTXOBech32(chainAlias, addr string) error {
	if addr != strings.ToLower(addr) {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "SegWit addresses must be lowercase"}
	}
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "not valid bech32: legacy P2PKH addresses are not supported"}
	}
	if hrp != "bc" && hrp != "tb" && hrp != "bcrt" {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "unrecognised bech32 human-readable part"}
	}
	if len(data) == 0 {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "empty bech32 payload"}
	}
	return nil
}

// WitnessVersion returns the SegWit witness version encoded in a bech32
// address's first data byte (0 for P2WPKH/P2WSH, 1 for P2TR).
func WitnessVersion(addr string) (int, error) {
	_, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, &chainerr.InvalidAddressError{ChainAlias: "bitcoin", Address: addr, Reason: "empty bech32 payload"}
	}
	return int(data[0]), nil
}
