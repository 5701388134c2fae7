// Package address validates and normalises addresses per ecosystem
// (spec.md §6) and provides the cross-format conversions the builders
// need (EVM checksum, Tron base58<->hex). Grounded on the teacher's
// go-ethereum common.Address usage and
// other_examples/…OKaluzny-wallet-demo__internal-wallet-{eth,trx}.go.go.
package address

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/umbra-labs/chaincore/chainerr"
	"github.com/umbra-labs/chaincore/internal/codec"
)

var evmHexPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateEVM checks that addr is a syntactically valid EVM address
// (0x + 40 hex). Checksum-cased input is accepted; this does not verify
// the checksum itself (a lowercase address is equally valid per spec.md §6).
func ValidateEVM(chainAlias, addr string) error {
	if !evmHexPattern.MatchString(addr) {
		return &chainerr.InvalidAddressError{ChainAlias: chainAlias, Address: addr, Reason: "expected 0x + 40 hex characters"}
	}
	return nil
}

// NormalizeEVM lowercases addr (internal canonical form per spec.md §6).
func NormalizeEVM(addr string) string {
	return strings.ToLower(addr)
}

// ChecksumEVM returns the EIP-55 checksummed form of addr.
func ChecksumEVM(addr string) (string, error) {
	if !evmHexPattern.MatchString(addr) {
		return "", &chainerr.InvalidAddressError{ChainAlias: "evm", Address: addr, Reason: "expected 0x + 40 hex characters"}
	}
	return common.HexToAddress(addr).Hex(), nil
}

// ContractAddressFromNonce computes keccak256(rlp([sender, nonce]))[-20:],
// the CREATE address formula spec.md §4.1.1 specifies.
func ContractAddressFromNonce(sender common.Address, nonce uint64) (common.Address, error) {
	data, err := rlp.EncodeToBytes([]any{sender, nonce})
	if err != nil {
		return common.Address{}, err
	}
	hash := codec.Keccak256(data)
	var out common.Address
	copy(out[:], hash[12:])
	return out, nil
}
