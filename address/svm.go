package address

import (
	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
)

// ValidateSVM checks that addr decodes as base58 to exactly 32 bytes — a
// Solana public key's on-wire length (spec.md §6: base58, 32-44 chars).
func ValidateSVM(chainAlias, addr string) error {
	if len(addr) < 32 || len(addr) > 44 {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "expected 32-44 base58 characters"}
	}
	decoded, err := codec.Base58Decode(addr)
	if err != nil {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "not valid base58"}
	}
	if len(decoded) != 32 {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "decoded public key must be 32 bytes"}
	}
	return nil
}
