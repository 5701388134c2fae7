// Package rpc defines the injected network capability every builder,
// fee estimator, and decoder consumes instead of touching a socket
// directly (spec.md §1/§6). HTTPCapability is the bundled implementation;
// callers may instead wire their own JSON-RPC client, an ethclient.Client
// adapter, or a test double.
package rpc

import "context"

// Capability is the sole way chaincore reaches the network. A builder
// holds one; it never constructs its own HTTP client.
type Capability interface {
	// Call performs a JSON-RPC call (method + positional params) against
	// url and decodes the "result" field into result (a pointer).
	Call(ctx context.Context, url string, method string, params []any, result any) error

	// HTTPGet performs a plain HTTP GET against url (used by UTXO fee
	// estimators hitting a REST-style Esplora/Blockbook endpoint).
	HTTPGet(ctx context.Context, url string) ([]byte, error)

	// HTTPPost performs a plain HTTP POST with the given content type
	// (used by some XRPL/Substrate REST gateways and Tron's HTTP API,
	// which is REST-over-JSON rather than JSON-RPC).
	HTTPPost(ctx context.Context, url string, body []byte, contentType string) ([]byte, error)
}
