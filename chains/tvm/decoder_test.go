package tvm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umbra-labs/chaincore/tx"
)

// TestDecodeIndexedNativeTransfer exercises spec §8 scenario 4: a confirmed
// TransferContract of 1500000 sun normalises to a native-transfer with
// value="1500000" (formatting to "1.5 TRX" happens one layer up, in the
// provider that knows the chain's native decimals).
func TestDecodeIndexedNativeTransfer(t *testing.T) {
	body := []byte(`{
		"txID": "abc123",
		"raw_data": {
			"contract": [{
				"type": "TransferContract",
				"parameter": {
					"value": {
						"owner_address": "410000000000000000000000000000000000000000",
						"to_address": "410000000000000000000000000000000000000011",
						"amount": 1500000
					},
					"type_url": "type.googleapis.com/protocol.TransferContract"
				}
			}],
			"timestamp": 1,
			"expiration": 2,
			"fee_limit": 0
		},
		"ret": [{"contractRet": "SUCCESS"}]
	}`)

	n, err := DecodeIndexed("tron", body)
	require.NoError(t, err)
	require.Equal(t, tx.TxTypeNativeTransfer, n.Type)
	require.Equal(t, "1500000", n.Value)
	require.Equal(t, tx.TxStatusConfirmed, n.Status)
}

func TestDecodeIndexedFailedTransfer(t *testing.T) {
	body := []byte(`{
		"txID": "abc123",
		"raw_data": {
			"contract": [{
				"type": "TransferContract",
				"parameter": {
					"value": {
						"owner_address": "410000000000000000000000000000000000000000",
						"to_address": "410000000000000000000000000000000000000011",
						"amount": 1
					}
				}
			}]
		},
		"ret": [{"contractRet": "REVERT"}]
	}`)

	n, err := DecodeIndexed("tron", body)
	require.NoError(t, err)
	require.Equal(t, tx.TxStatusFailed, n.Status)
}
