package evm

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/umbra-labs/chaincore/address"
	"github.com/umbra-labs/chaincore/tx"
)

// TestEncodeERC20Transfer exercises spec §8 scenario 1: sending 1000000
// units to 0x...aa encodes to the selector followed by the two
// left-padded 32-byte words.
func TestEncodeERC20Transfer(t *testing.T) {
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	amount := big.NewInt(1_000_000)

	data := encodeERC20Transfer(to, amount)

	want := hexutil.MustDecode(
		"0xa9059cbb" +
			"00000000000000000000000000000000000000000000000000000000000000aa" +
			"00000000000000000000000000000000000000000000000000000000000f4240",
	)
	require.Equal(t, want, data)
}

// TestBuildContractDeployExpectedAddress exercises spec §4.1's
// buildContractDeploy -> {tx, expectedAddress} contract for EVM:
// expectedAddress must equal keccak256(rlp([sender, nonce]))[-20:] (§4.1.1),
// computed from the same nonce the build resolved.
func TestBuildContractDeployExpectedAddress(t *testing.T) {
	from := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	nonce := uint64(7)

	intent := tx.ContractDeploy{
		From:     from.Hex(),
		Bytecode: []byte{0x60, 0x80, 0x60, 0x40},
	}
	gasLimit := uint64(100000)
	overrides := Overrides{
		Nonce:       &nonce,
		GasLimit:    &gasLimit,
		GasPrice:    big.NewInt(1),
		ForceLegacy: true,
	}

	unsigned, err := Build(context.Background(), nil, "ethereum", intent, overrides)
	require.NoError(t, err)
	require.NotEmpty(t, unsigned.ExpectedAddress)

	want, err := address.ContractAddressFromNonce(from, nonce)
	require.NoError(t, err)
	require.Equal(t, want.Hex(), unsigned.ExpectedAddress)
}
