// Base58/base58check helpers. Grounded on
// other_examples/…OKaluzny-wallet-demo__internal-wallet-btc.go.go, which
// wraps github.com/btcsuite/btcd/btcutil/base58 for exactly this purpose
// (Bitcoin/Tron addresses). SVM and Substrate use the same Bitcoin
// alphabet (XRPL's differs; address/xrpl.go re-maps it onto this one);
// github.com/mr-tron/base58 is used there to
// avoid pulling the whole btcutil tree into a package that otherwise has
// nothing to do with Bitcoin.
package codec

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	mrtron "github.com/mr-tron/base58"
)

// Base58Check encodes version||payload with a 4-byte double-SHA256
// checksum appended, per spec.md's Tron/UTXO legacy address formats.
func Base58Check(version byte, payload []byte) string {
	data := make([]byte, 0, 1+len(payload)+4)
	data = append(data, version)
	data = append(data, payload...)
	checksum := SHA256D(data)
	data = append(data, checksum[:4]...)
	return base58.Encode(data)
}

// DecodeBase58Check reverses Base58Check, validating the checksum.
func DecodeBase58Check(s string) (version byte, payload []byte, err error) {
	decoded := base58.Decode(s)
	if len(decoded) < 5 {
		return 0, nil, fmt.Errorf("base58check: decoded length %d too short", len(decoded))
	}
	body := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]
	want := SHA256D(body)[:4]
	for i := range checksum {
		if checksum[i] != want[i] {
			return 0, nil, fmt.Errorf("base58check: checksum mismatch")
		}
	}
	return body[0], body[1:], nil
}

// Base58Encode encodes raw bytes with the plain (unchecked) base58
// alphabet — used for SVM public keys and signatures.
func Base58Encode(b []byte) string { return mrtron.Encode(b) }

// Base58Decode decodes a plain base58 string.
func Base58Decode(s string) ([]byte, error) { return mrtron.Decode(s) }
