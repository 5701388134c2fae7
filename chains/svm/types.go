// Package svm implements the SVM (Solana) builder/sighash/applier/decoder
// stack (spec.md §4.1.2, §4.2 SVM row, §4.4 rule 5). Grounded on the
// gagliardetto/solana-go message/instruction builders pulled in by the
// retrieval pack's pushchain-network svm builder files, which assemble a
// solana.Transaction from system/token program instructions the same way.
package svm

import (
	"github.com/gagliardetto/solana-go"
)

// SPLTokenTransfer is instruction tag 3 and TransferChecked is tag 12 on
// the SPL Token program — the decoder's classification rule 5 (spec.md
// §4.4).
const (
	splTokenTransferTag        = byte(3)
	splTokenTransferCheckedTag = byte(12)
)

// RawTx is the parsed intermediate an UnsignedTransaction.Raw holds for
// SVM: the assembled (but unsigned) solana.Transaction, whose Message is
// itself the Ed25519 signing preimage (spec.md §4.1.2/§4.2).
type RawTx struct {
	Tx     *solana.Transaction
	Signer solana.PublicKey // the single fee-payer/signer this engine supports
}
