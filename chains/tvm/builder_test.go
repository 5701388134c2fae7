package tvm

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/internal/codec"
	"github.com/umbra-labs/chaincore/tx"
)

// TestBuildContractDeployDefaultFeeLimit exercises spec §8 scenario 5: a
// ContractDeploy intent with no explicit FeeLimit override gets the
// 1000-TRX default (DefaultFeeLimitSun) baked into raw_data.fee_limit.
// RefBlockBytes/RefBlockHash are supplied directly so Build never reaches
// the network.
func TestBuildContractDeployDefaultFeeLimit(t *testing.T) {
	intent := tx.ContractDeploy{
		From:     "TLyqzVGLV1srkB7dToTAEqgDSfPtXRJZYH",
		Bytecode: []byte{0x60, 0x80, 0x60, 0x40},
	}
	overrides := Overrides{
		RefBlockBytes: []byte{0x01, 0x02},
		RefBlockHash:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}

	unsigned, err := Build(context.Background(), nil, "tron", intent, overrides)
	require.NoError(t, err)

	var view unsignedView
	require.NoError(t, json.Unmarshal([]byte(unsigned.Serialized), &view))
	rawData, err := hex.DecodeString(view.RawDataHex)
	require.NoError(t, err)

	wantFeeLimitField := codec.PBVarintField(fieldFeeLimit, uint64(DefaultFeeLimitSun))
	require.Contains(t, string(rawData), string(wantFeeLimitField))
}

// TestBuildContractDeployExpectedAddress exercises spec §4.1.4's
// buildContractDeploy -> {tx, expectedAddress} contract: expectedAddress
// must be a valid Tron address deterministically derived from
// lastBytes20(SHA-256(ownerHex ‖ txID)), not left empty.
func TestBuildContractDeployExpectedAddress(t *testing.T) {
	intent := tx.ContractDeploy{
		From:     "TLyqzVGLV1srkB7dToTAEqgDSfPtXRJZYH",
		Bytecode: []byte{0x60, 0x80, 0x60, 0x40},
	}
	overrides := Overrides{
		RefBlockBytes: []byte{0x01, 0x02},
		RefBlockHash:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}

	unsigned, err := Build(context.Background(), nil, "tron", intent, overrides)
	require.NoError(t, err)
	require.NotEmpty(t, unsigned.ExpectedAddress)
	require.NoError(t, address.ValidateTVM("tron", unsigned.ExpectedAddress))

	var view unsignedView
	require.NoError(t, json.Unmarshal([]byte(unsigned.Serialized), &view))
	txID, err := hex.DecodeString(view.TxID)
	require.NoError(t, err)

	ownerHex, err := address.TronBase58ToHex(intent.From)
	require.NoError(t, err)
	want, err := expectedContractAddress(ownerHex, txID)
	require.NoError(t, err)
	require.Equal(t, want, unsigned.ExpectedAddress)
}
