package nativeabi

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

const testAbi = `[
	{"type":"function","name":"set","stateMutability":"nonpayable","inputs":[{"name":"v","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"get","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

func TestSelectors(t *testing.T) {
	require.Equal(t, crypto.Keccak256([]byte("Error(string)"))[:4], errorSelector)
	require.Equal(t, crypto.Keccak256([]byte("Panic(uint256)"))[:4], panicSelector)
}

func TestEncodeRevertReason(t *testing.T) {
	reason, err := abi.UnpackRevert(EncodeRevertReason("Invalid admin address"))
	require.NoError(t, err)
	require.Equal(t, "Invalid admin address", reason)

	ret, err := Revert("Count cannot be negative")
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
	reason, err = abi.UnpackRevert(ret)
	require.NoError(t, err)
	require.Equal(t, "Count cannot be negative", reason)
}

func TestEncodePanic(t *testing.T) {
	data := EncodePanic(PanicArithmetic)
	require.Len(t, data, 36)
	require.Equal(t, byte(0x11), data[35])

	code, ok := UnpackPanic(data)
	require.True(t, ok)
	require.Equal(t, PanicArithmetic, code)

	_, ok = UnpackPanic(EncodeRevertReason("x"))
	require.False(t, ok)
}

func TestParseInput(t *testing.T) {
	require := require.New(t)
	parsed := MustParse(testAbi)

	input, err := parsed.Pack("set", common.Big3)
	require.NoError(err)
	method, args, err := ParseInput(parsed, input)
	require.NoError(err)
	require.Equal("set", method.Name)
	require.Equal(common.Big3, args[0])

	method, args, err = ParseInput(parsed, parsed.Methods["get"].ID)
	require.NoError(err)
	require.Equal("get", method.Name)
	require.Empty(args)

	for _, bad := range [][]byte{
		nil,
		{0x01, 0x02, 0x03},
		{0xde, 0xad, 0xbe, 0xef},
		input[:20],
	} {
		_, _, err := ParseInput(parsed, bad)
		require.ErrorIs(err, vm.ErrExecutionReverted, "%x", bad)
	}
}

func TestRejectValue(t *testing.T) {
	free := vm.NewContract(common.Address{1}, common.Address{2}, nil, 0)
	require.NoError(t, RejectValue(free))

	paid := vm.NewContract(common.Address{1}, common.Address{2}, uint256.NewInt(1), 0)
	require.ErrorIs(t, RejectValue(paid), vm.ErrExecutionReverted)
}
