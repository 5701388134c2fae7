// Package tvm implements the Tron builder/sighash/applier/decoder stack
// (spec.md §4.1.4, §4.2 TVM row, §4.3, §4.4). Grounded on
// other_examples/…OKaluzny-wallet-demo__internal-wallet-trx.go.go for the
// address derivation, and on spec.md §4.1.4's own field-by-field rawData
// description for the protobuf shape — no Tron client library appears
// anywhere in the retrieval pack, so rawData is assembled with
// internal/codec's minimal protobuf-subset helpers per spec.md §9.
package tvm

// Tron Contract.type enum values (from Tron's public protocol
// definitions): the only three this builder emits.
const (
	contractTypeTransfer             = 1
	contractTypeTriggerSmartContract = 31
	contractTypeCreateSmartContract  = 30
)

// Transaction.raw_data field numbers.
const (
	fieldRefBlockBytes = 1
	fieldRefBlockHash  = 4
	fieldExpiration    = 8
	fieldContract      = 11
	fieldTimestamp     = 14
	fieldFeeLimit      = 18
)

// Transaction.Contract field numbers.
const (
	fieldContractType      = 1
	fieldContractParameter = 2
)

// google.protobuf.Any field numbers.
const (
	fieldAnyTypeURL = 1
	fieldAnyValue   = 2
)

const (
	typeURLTransferContract     = "type.googleapis.com/protocol.TransferContract"
	typeURLTriggerSmartContract = "type.googleapis.com/protocol.TriggerSmartContract"
	typeURLCreateSmartContract  = "type.googleapis.com/protocol.CreateSmartContract"
)

// DefaultFeeLimitSun is the 1000-TRX default feeLimit spec.md §8 scenario 5
// requires for contract deployments.
const DefaultFeeLimitSun = 1_000_000_000

// erc20TransferSelector mirrors evm's: Tron uses the identical selector set
// for TRC-20 (spec.md GLOSSARY).
var erc20TransferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}
var erc20ApproveSelector = []byte{0x09, 0x5e, 0xa7, 0xb3}

// RawTVMTx is the parsed intermediate an UnsignedTransaction.Raw holds for
// Tron.
type RawTVMTx struct {
	RawDataBytes []byte // the serialised rawData submessage, whose SHA-256 is TxID
	TxID         []byte // 32 bytes
	OwnerHex     string // 21-byte 0x41-prefixed owner address, hex
}
