// Package bip32 derives child public keys from an extended public key
// (xpub) along a BIP-32 path. chaincore never holds a private key (§1
// Non-goals), so only the public, non-hardened derivation path is
// implemented — hardened child derivation requires the private key and is
// therefore out of scope here by construction, not by omission.
//
// Grounded on the shared deriveKey helper in
// other_examples/…OKaluzny-wallet-demo__internal-wallet-{eth,btc,trx}.go.go,
// which walks a github.com/tyler-smith/go-bip32 master key through a
// BIP-44 path; this package adapts that walk to start from an xpub.
package bip32

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// ChildPublicKey derives the public key at path (e.g. "m/44'/60'/0'/0/3")
// from an xpub-encoded extended public key. Any hardened segment
// ("'" suffix) in the path beyond the xpub's own derivation depth fails:
// hardened children cannot be derived from a public key alone.
func ChildPublicKey(xpub string, path string) ([]byte, error) {
	key, err := bip32.B58Deserialize(xpub)
	if err != nil {
		return nil, fmt.Errorf("bip32: parsing xpub: %w", err)
	}
	if key.IsPrivate {
		return nil, fmt.Errorf("bip32: expected an extended public key, got a private key")
	}

	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	// The xpub already sits at depth key.Depth; the path's first Depth
	// segments name that position and are not derived again.
	if int(key.Depth) > len(segments) {
		return nil, fmt.Errorf("bip32: path %q is shallower than the xpub's depth %d", path, key.Depth)
	}
	segments = segments[key.Depth:]

	cur := key
	for _, seg := range segments {
		if seg >= bip32.FirstHardenedChild {
			return nil, fmt.Errorf("bip32: cannot derive hardened child %d from a public key", seg)
		}
		cur, err = cur.NewChildKey(seg)
		if err != nil {
			return nil, fmt.Errorf("bip32: deriving child %d: %w", seg, err)
		}
	}
	return cur.PublicKey().Key, nil
}

// parsePath parses a "m/44'/60'/0'/0/3" style path into raw BIP-32 indices,
// adding bip32.FirstHardenedChild to any segment suffixed with "'" or "h".
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || !strings.EqualFold(parts[0], "m") {
		return nil, fmt.Errorf("bip32: path must start with \"m\", got %q", path)
	}

	out := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") || strings.HasSuffix(p, "H")
		p = strings.TrimRight(p, "'hH")
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bip32: invalid path segment %q: %w", p, err)
		}
		idx := uint32(n)
		if hardened {
			idx += bip32.FirstHardenedChild
		}
		out = append(out, idx)
	}
	return out, nil
}
