package xrpl

import (
	"fmt"

	"github.com/umbra-labs/chaincore/address"
)

// serializeTx assembles the canonical field-ordered binary form of a
// Payment transaction. When txnSignature is nil the TxnSignature field is
// omitted — the signing preimage shape spec.md §4.1.5 requires.
func serializeTx(raw *RawXRPLTx, txnSignature []byte) ([]byte, error) {
	accountID, err := address.AccountIDFromXRPLAddress(raw.Account)
	if err != nil {
		return nil, err
	}
	destID, err := address.AccountIDFromXRPLAddress(raw.Destination)
	if err != nil {
		return nil, err
	}
	fee, err := parseDrops(raw.Fee)
	if err != nil {
		return nil, fmt.Errorf("xrpl: invalid Fee %q: %w", raw.Fee, err)
	}

	var out []byte
	out = append(out, encodeUInt16(sfTransactionType, transactionTypePayment)...)
	out = append(out, encodeUInt32(sfFlags, 0)...)
	out = append(out, encodeUInt32(sfSequence, raw.Sequence)...)
	out = append(out, encodeUInt32(sfLastLedgerSequence, raw.LastLedgerSequence)...)

	if raw.AmountDrops != "" {
		drops, err := parseDrops(raw.AmountDrops)
		if err != nil {
			return nil, fmt.Errorf("xrpl: invalid Amount %q: %w", raw.AmountDrops, err)
		}
		amountField, err := encodeXRPAmount(sfAmount, drops)
		if err != nil {
			return nil, err
		}
		out = append(out, amountField...)
	} else {
		issuerID, err := address.AccountIDFromXRPLAddress(raw.CurrencyIssuer)
		if err != nil {
			return nil, err
		}
		amountField, err := encodeIssuedAmount(sfAmount, raw.CurrencyValue, raw.CurrencyCode, issuerID)
		if err != nil {
			return nil, err
		}
		out = append(out, amountField...)
	}

	feeField, err := encodeXRPAmount(sfFee, fee)
	if err != nil {
		return nil, err
	}
	out = append(out, feeField...)
	out = append(out, encodeBlob(sfSigningPubKey, raw.SigningPubKey)...)
	if txnSignature != nil {
		out = append(out, encodeBlob(sfTxnSignature, txnSignature)...)
	}
	out = append(out, encodeAccountID(sfAccount, accountID)...)
	out = append(out, encodeAccountID(sfDestination, destID)...)
	return out, nil
}
