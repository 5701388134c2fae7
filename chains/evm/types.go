// Package evm implements the EVM builder/sighash/applier/decoder stack
// (spec.md §4.1.1, §4.2 EVM rows, §4.3, §4.4). Grounded on the teacher's
// x402/local_facilitator.go, which already builds a types.DynamicFeeTx,
// signs it with types.NewLondonSigner, and derives addresses with
// crypto.Keccak256Hash/crypto.PubkeyToAddress — generalised here from one
// hardcoded transferWithAuthorization call into the full builder contract.
package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

// erc20TransferSelector is the 4-byte selector for transfer(address,uint256),
// per spec.md §4.1.1.
var erc20TransferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}

// erc20ApproveSelector is the 4-byte selector for approve(address,uint256),
// used by the decoder's classification rules (spec.md §4.4 rule 3).
var erc20ApproveSelector = []byte{0x09, 0x5e, 0xa7, 0xb3}

// erc20TransferTopic0 is keccak256("Transfer(address,address,uint256)"),
// the log topic the decoder matches for confirmed token transfers
// (spec.md §4.4).
const erc20TransferTopic0 = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// Gas defaults applied when eth_estimateGas fails (spec.md §4.1.1).
const (
	DefaultGasLimitNative        uint64 = 21_000
	DefaultGasLimitERC20         uint64 = 65_000
	DefaultGasLimitContractCall  uint64 = 200_000
)

// RawTx is the parsed intermediate an UnsignedTransaction.Raw holds for
// EVM: the underlying go-ethereum transaction plus the signer used to
// derive both the sighash and, later, the signed transaction.
type RawTx struct {
	Tx      *types.Transaction
	ChainID *big.Int
	Signer  types.Signer
}
