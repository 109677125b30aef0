// Package nativeabi holds the ABI plumbing shared by native contracts:
// selector dispatch and Solidity-compatible revert payloads.
package nativeabi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

// Panic codes of the Panic(uint256) error.
const (
	PanicArithmetic uint64 = 0x11 // overflow or underflow outside an unchecked block
)

var (
	// errorSelector is bytes4(keccak256("Error(string)"))
	errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}
	// panicSelector is bytes4(keccak256("Panic(uint256)"))
	panicSelector = []byte{0x4e, 0x48, 0x7b, 0x71}

	stringArgs  = abi.Arguments{{Type: mustType("string")}}
	uint256Args = abi.Arguments{{Type: mustType("uint256")}}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// MustParse parses a JSON ABI definition.
func MustParse(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ParseInput resolves the called method of contractAbi and unpacks its
// arguments. Short input, unknown selectors and malformed arguments revert
// with empty data, like a Solidity dispatcher without a fallback.
func ParseInput(contractAbi abi.ABI, input []byte) (*abi.Method, []interface{}, error) {
	// Need at least 4 bytes for function signature
	if len(input) < 4 {
		return nil, nil, vm.ErrExecutionReverted
	}
	method, err := contractAbi.MethodById(input[:4])
	if err != nil {
		return nil, nil, vm.ErrExecutionReverted
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, nil, vm.ErrExecutionReverted
	}
	return method, args, nil
}

// EncodeRevertReason encodes reason as an Error(string) payload.
func EncodeRevertReason(reason string) []byte {
	packed, err := stringArgs.Pack(reason)
	if err != nil {
		panic(err)
	}
	return append(append([]byte{}, errorSelector...), packed...)
}

// EncodePanic encodes code as a Panic(uint256) payload.
func EncodePanic(code uint64) []byte {
	packed, err := uint256Args.Pack(new(uint256.Int).SetUint64(code).ToBig())
	if err != nil {
		panic(err)
	}
	return append(append([]byte{}, panicSelector...), packed...)
}

// Revert aborts the frame with an Error(string) payload.
func Revert(reason string) ([]byte, error) {
	return EncodeRevertReason(reason), vm.ErrExecutionReverted
}

// Panic aborts the frame with a Panic(uint256) payload.
func Panic(code uint64) ([]byte, error) {
	return EncodePanic(code), vm.ErrExecutionReverted
}

// UnpackPanic decodes a Panic(uint256) payload.
func UnpackPanic(data []byte) (uint64, bool) {
	if len(data) != 4+32 || string(data[:4]) != string(panicSelector) {
		return 0, false
	}
	code := new(uint256.Int).SetBytes(data[4:])
	if !code.IsUint64() {
		return 0, false
	}
	return code.Uint64(), true
}

// RejectValue reverts non-payable functions called with value.
func RejectValue(contract *vm.Contract) error {
	if !contract.Value().IsZero() {
		return vm.ErrExecutionReverted
	}
	return nil
}
