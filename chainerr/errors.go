// Package chainerr centralises the closed error taxonomy from spec.md §7.
// Builders and the sighash engine never swallow these — they propagate
// outward, enriched with fmt.Errorf("...: %w", ...) the way the teacher
// wraps every RPC/parse failure in x402/local_facilitator.go.
package chainerr

import "fmt"

// InvalidAddressError fails fast in builders and decoders.
type InvalidAddressError struct {
	ChainAlias string
	Address    string
	Reason     string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address for chain %q: %q: %s", e.ChainAlias, e.Address, e.Reason)
}

// InvalidAmountError covers non-integer, negative, or overflowing amounts.
type InvalidAmountError struct {
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount: %s", e.Reason)
}

// InsufficientFundsError is raised by the UTXO coin selector.
type InsufficientFundsError struct {
	Required  string
	Available string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

// UnsupportedChainError is raised by the registry/dispatcher for an
// unrecognised chain alias.
type UnsupportedChainError struct {
	Alias string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain alias: %q", e.Alias)
}

// UnsupportedOperationError is raised e.g. for a token transfer on Bitcoin.
type UnsupportedOperationError struct {
	Chain string
	Op    string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q not supported on chain %q", e.Op, e.Chain)
}

// SignatureError is raised on a signature count mismatch or malformed
// signature bytes.
type SignatureError struct {
	ChainAlias string
	Expected   int
	Got        int
	Reason     string
}

func (e *SignatureError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("signature error on %q: %s", e.ChainAlias, e.Reason)
	}
	return fmt.Sprintf("signature error on %q: expected %d signature(s), got %d", e.ChainAlias, e.Expected, e.Got)
}

// PsbtPhase identifies where a PsbtError occurred.
type PsbtPhase string

const (
	PsbtPhaseParse    PsbtPhase = "parse"
	PsbtPhaseFinalize PsbtPhase = "finalize"
	PsbtPhaseExtract  PsbtPhase = "extract"
)

// PsbtError wraps a UTXO-only PSBT failure.
type PsbtError struct {
	Phase PsbtPhase
	Cause error
}

func (e *PsbtError) Error() string {
	return fmt.Sprintf("psbt %s error: %v", e.Phase, e.Cause)
}

func (e *PsbtError) Unwrap() error { return e.Cause }

// RpcError is surfaced from the injected RPC capability.
type RpcError struct {
	Method string
	Status int
	Body   string
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc error calling %q: status %d: %s", e.Method, e.Status, e.Body)
}

// NetworkError wraps a lower-level transport failure from the injected
// capability (DNS, connection refused, timeout).
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Cause) }
func (e *NetworkError) Unwrap() error { return e.Cause }

// TransactionNotFoundError is returned by a decoder/getTransaction lookup.
type TransactionNotFoundError struct {
	ChainAlias string
	Hash       string
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("transaction %q not found on chain %q", e.Hash, e.ChainAlias)
}

// InvalidTransactionHashError is returned when a decoder input hash is malformed.
type InvalidTransactionHashError struct {
	ChainAlias string
	Hash       string
	Reason     string
}

func (e *InvalidTransactionHashError) Error() string {
	return fmt.Sprintf("invalid transaction hash %q for chain %q: %s", e.Hash, e.ChainAlias, e.Reason)
}

// BroadcastError carries a remote broadcast rejection. Unlike the other
// error kinds here, a BroadcastError is typically packaged inside a
// BroadcastResult rather than returned directly — see tx.BroadcastResult.
type BroadcastError struct {
	Chain         string
	RemoteMessage string
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast rejected on %q: %s", e.Chain, e.RemoteMessage)
}
