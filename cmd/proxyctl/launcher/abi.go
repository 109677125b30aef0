package launcher

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv2"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/proxy"
)

// knownAbis are searched in order when resolving a method or an event.
var knownAbis = []abi.ABI{proxy.ProxyAbi, counterv2.CounterV2Abi}

func lookupMethod(name string) (abi.Method, error) {
	for _, a := range knownAbis {
		if method, ok := a.Methods[name]; ok {
			return method, nil
		}
	}
	return abi.Method{}, errors.Errorf("unknown method %q", name)
}

// packCall encodes a call of method with arguments given as strings.
func packCall(name string, args []string) (abi.Method, []byte, error) {
	method, err := lookupMethod(name)
	if err != nil {
		return abi.Method{}, nil, err
	}
	if len(args) != len(method.Inputs) {
		return abi.Method{}, nil, errors.Errorf("%s expects %d arguments, got %d", method.Sig, len(method.Inputs), len(args))
	}
	values := make([]interface{}, len(args))
	for i, input := range method.Inputs {
		values[i], err = parseArg(input.Type, args[i])
		if err != nil {
			return abi.Method{}, nil, errors.Wrapf(err, "argument %s", input.Name)
		}
	}
	packed, err := method.Inputs.Pack(values...)
	if err != nil {
		return abi.Method{}, nil, err
	}
	return method, append(common.CopyBytes(method.ID), packed...), nil
}

func parseArg(typ abi.Type, arg string) (interface{}, error) {
	switch typ.T {
	case abi.AddressTy:
		return parseAddress(arg)
	case abi.UintTy:
		if typ.Size != 256 {
			break
		}
		v, ok := math.ParseBig256(arg)
		if !ok || v.Sign() < 0 {
			return nil, errors.Errorf("invalid uint256 %q", arg)
		}
		return v, nil
	}
	return nil, errors.Errorf("unsupported argument type %s", typ)
}

func parseAddress(arg string) (common.Address, error) {
	if !common.IsHexAddress(arg) {
		return common.Address{}, errors.Errorf("invalid address %q", arg)
	}
	return common.HexToAddress(arg), nil
}

// describeLog renders lg as an event invocation if its signature is known.
func describeLog(lg *types.Log) string {
	if len(lg.Topics) == 0 {
		return fmt.Sprintf("anonymous(%x)", lg.Data)
	}
	for _, a := range knownAbis {
		event, err := a.EventByID(lg.Topics[0])
		if err != nil {
			continue
		}
		values := make(map[string]interface{})
		if err := event.Inputs.NonIndexed().UnpackIntoMap(values, lg.Data); err != nil {
			break
		}
		var indexed abi.Arguments
		for _, input := range event.Inputs {
			if input.Indexed {
				indexed = append(indexed, input)
			}
		}
		if err := abi.ParseTopicsIntoMap(values, indexed, lg.Topics[1:]); err != nil {
			break
		}
		parts := make([]string, len(event.Inputs))
		for i, input := range event.Inputs {
			parts[i] = fmt.Sprintf("%s=%v", input.Name, values[input.Name])
		}
		return fmt.Sprintf("%s(%s)", event.Name, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s(%x)", lg.Topics[0].Hex(), lg.Data)
}
