package utxo

import "encoding/hex"

func decodeHexScript(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// scriptTypeOf classifies a scriptPubKey as p2wpkh or p2tr; any other shape
// (including legacy P2PKH) returns "", and Build rejects a selected UTXO
// of that kind with an InvalidAddressError (spec.md §4.1.3).
func scriptTypeOf(script []byte) string {
	switch {
	case len(script) == 22 && script[0] == 0x00 && script[1] == 0x14:
		return "p2wpkh"
	case len(script) == 34 && script[0] == 0x51 && script[1] == 0x20:
		return "p2tr"
	default:
		return ""
	}
}
