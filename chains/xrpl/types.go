// Package xrpl implements the XRPL builder/sighash/applier/decoder stack
// (spec.md §4.1.5, §4.2 XRPL row). No XRPL example or library exists
// anywhere in the retrieval pack; this follows spec.md's own
// field-ordered binary serialisation description directly, using the same
// "minimal purpose-built codec" approach spec.md §9 calls for with SCALE
// and protobuf, built on encoding/binary plus the standard library's
// crypto/sha512.
package xrpl

// Field type codes (XRPL definitions schema).
const (
	typeUInt16    = 1
	typeUInt32    = 2
	typeAmount    = 6
	typeBlob      = 7
	typeAccountID = 8
)

// sfield identifies a field by (typeCode, fieldCode) for the handful of fields this
// builder emits: TransactionType, Flags, Sequence, LastLedgerSequence,
// Amount, Fee, SigningPubKey, TxnSignature, Account, Destination.
type sfield struct {
	typeCode  int
	fieldCode int
	name      string
}

var (
	sfTransactionType      = sfield{typeUInt16, 2, "TransactionType"}
	sfFlags                = sfield{typeUInt32, 2, "Flags"}
	sfSequence              = sfield{typeUInt32, 4, "Sequence"}
	sfLastLedgerSequence    = sfield{typeUInt32, 27, "LastLedgerSequence"}
	sfAmount                = sfield{typeAmount, 1, "Amount"}
	sfFee                   = sfield{typeAmount, 8, "Fee"}
	sfSigningPubKey         = sfield{typeBlob, 3, "SigningPubKey"}
	sfTxnSignature          = sfield{typeBlob, 4, "TxnSignature"}
	sfAccount               = sfield{typeAccountID, 1, "Account"}
	sfDestination           = sfield{typeAccountID, 3, "Destination"}
)

// Payment's numeric TransactionType code in the XRPL definitions schema.
const transactionTypePayment = 0

// stxPrefix is the 4-byte "single transaction" signing-namespace prefix
// spec.md §4.1.5 names.
var stxPrefix = []byte{0x53, 0x54, 0x58, 0x00}

// RawXRPLTx is the parsed intermediate an UnsignedTransaction.Raw holds:
// the field values from which the unsigned blob (fields sorted,
// SigningPubKey present, TxnSignature absent) is re-serialised.
type RawXRPLTx struct {
	Account            string
	Destination        string
	AmountDrops         string // "" when Amount is an IssuedCurrency
	CurrencyCode       string
	CurrencyIssuer     string
	CurrencyValue      string
	Fee                string // drops
	Sequence           uint32
	LastLedgerSequence uint32
	SigningPubKey      []byte
}
