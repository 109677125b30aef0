package vm_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm/mock"
	"github.com/unicornultrafoundation/go-u2u-proxy/params"
)

var (
	alice  = common.HexToAddress("0xa11ce")
	target = common.HexToAddress("0x7a49e7")
	slot   = common.Hash{31: 0x01}
	word   = common.Hash{31: 0x2a}
)

func newState(t *testing.T) *state.StateDB {
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabase(rawdb.NewMemoryDatabase()), nil)
	require.NoError(t, err)
	statedb.AddBalance(alice, uint256.NewInt(1_000_000))
	return statedb
}

func newEVM(statedb vm.StateDB, natives *vm.Registry) *vm.EVM {
	return vm.NewEVM(vm.BlockContext{
		CanTransfer: func(db vm.StateDB, addr common.Address, amount *uint256.Int) bool {
			return db.GetBalance(addr).Cmp(amount) >= 0
		},
		Transfer: func(db vm.StateDB, from, to common.Address, amount *uint256.Int) {
			db.SubBalance(from, amount)
			db.AddBalance(to, amount)
		},
		GasLimit: params.DefaultBlockGasLimit,
	}, vm.TxContext{Origin: alice}, statedb, vm.Config{Natives: natives})
}

// nativeFunc adapts a function to the NativeContract interface.
type nativeFunc func(evm *vm.EVM, contract *vm.Contract) ([]byte, error)

func (f nativeFunc) Run(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	return f(evm, contract)
}

// storing writes word into slot and returns the input.
var storing = nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	if err := evm.SStore(contract, slot, word); err != nil {
		return nil, err
	}
	return contract.Input, nil
})

func TestCall_EmptyCodeSucceeds(t *testing.T) {
	require := require.New(t)
	evm := newEVM(newState(t), vm.NewRegistry())

	ret, left, err := evm.Call(vm.AccountRef(alice), target, []byte{0x01}, 50_000, uint256.NewInt(7))
	require.NoError(err)
	require.Empty(ret)
	require.Equal(uint64(50_000), left)
	require.Equal(uint64(7), evm.StateDB.GetBalance(target).Uint64())
}

func TestCall_DispatchesToNative(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	native := mock.NewMockNativeContract(ctrl)
	natives := vm.NewRegistry()
	natives.Register("mock", native)

	statedb := newState(t)
	statedb.SetCode(target, vm.NativeCode("mock"))
	evm := newEVM(statedb, natives)

	native.EXPECT().Run(evm, gomock.Any()).DoAndReturn(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		require.Equal(alice, contract.Caller())
		require.Equal(target, contract.Address())
		require.Equal(uint64(3), contract.Value().Uint64())
		require.Equal(1, evm.Depth())
		return storing(evm, contract)
	})

	ret, left, err := evm.Call(vm.AccountRef(alice), target, []byte{0xca, 0xfe}, 100_000, uint256.NewInt(3))
	require.NoError(err)
	require.Equal([]byte{0xca, 0xfe}, ret)
	require.Equal(100_000-vm.CallGas-vm.SstoreSetGas, left)
	require.Equal(word, statedb.GetState(target, slot))
	require.Equal(0, evm.Depth())
}

func TestCall_RevertRollsBackAndKeepsGas(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("reverting", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		if _, err := storing(evm, contract); err != nil {
			return nil, err
		}
		return []byte("no"), vm.ErrExecutionReverted
	}))
	statedb := newState(t)
	statedb.SetCode(target, vm.NativeCode("reverting"))
	evm := newEVM(statedb, natives)

	ret, left, err := evm.Call(vm.AccountRef(alice), target, nil, 100_000, uint256.NewInt(5))
	require.ErrorIs(err, vm.ErrExecutionReverted)
	require.Equal([]byte("no"), ret)
	require.Equal(100_000-vm.CallGas-vm.SstoreSetGas, left)
	require.Equal(common.Hash{}, statedb.GetState(target, slot))
	require.True(statedb.GetBalance(target).IsZero())
	require.Equal(uint64(1_000_000), statedb.GetBalance(alice).Uint64())
}

func TestCall_OutOfGasConsumesEverything(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("storing", storing)
	statedb := newState(t)
	statedb.SetCode(target, vm.NativeCode("storing"))
	evm := newEVM(statedb, natives)

	_, left, err := evm.Call(vm.AccountRef(alice), target, nil, vm.CallGas+vm.SstoreSetGas-1, nil)
	require.ErrorIs(err, vm.ErrOutOfGas)
	require.Zero(left)
	require.Equal(common.Hash{}, statedb.GetState(target, slot))
}

func TestCall_UnknownDesignator(t *testing.T) {
	statedb := newState(t)
	statedb.SetCode(target, vm.NativeCode("nobody"))
	evm := newEVM(statedb, vm.NewRegistry())

	_, left, err := evm.Call(vm.AccountRef(alice), target, nil, 10_000, nil)
	require.ErrorIs(t, err, vm.ErrInvalidCode)
	require.Zero(t, left)
}

func TestCall_InsufficientBalance(t *testing.T) {
	evm := newEVM(newState(t), vm.NewRegistry())

	_, left, err := evm.Call(vm.AccountRef(alice), target, nil, 10_000, uint256.NewInt(2_000_000))
	require.ErrorIs(t, err, vm.ErrInsufficientBalance)
	require.Equal(t, uint64(10_000), left)
}

func TestDelegateCall_UsesCallerStorage(t *testing.T) {
	require := require.New(t)
	var (
		proxy = common.HexToAddress("0x9904")
		logic = common.HexToAddress("0x1091c")
	)
	natives := vm.NewRegistry()
	natives.Register("forwarder", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		ret, left, err := evm.DelegateCall(contract, logic, contract.Input, contract.Gas)
		contract.Gas = left
		return ret, err
	}))
	natives.Register("logic", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		require.Equal(alice, contract.Caller())
		require.Equal(proxy, contract.Address())
		require.Equal(logic, contract.CodeAddr)
		require.True(contract.IsDelegated())
		require.Equal(uint64(9), contract.Value().Uint64())
		return storing(evm, contract)
	}))

	statedb := newState(t)
	statedb.SetCode(proxy, vm.NativeCode("forwarder"))
	statedb.SetCode(logic, vm.NativeCode("logic"))
	evm := newEVM(statedb, natives)

	ret, _, err := evm.Call(vm.AccountRef(alice), proxy, []byte{0x42}, 100_000, uint256.NewInt(9))
	require.NoError(err)
	require.Equal([]byte{0x42}, ret)
	require.Equal(word, statedb.GetState(proxy, slot))
	require.Equal(common.Hash{}, statedb.GetState(logic, slot))
	require.True(statedb.GetBalance(logic).IsZero())
}

func TestStaticCall_WriteProtection(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("storing", storing)
	natives.Register("logging", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		return nil, evm.EmitLog(contract, []common.Hash{slot}, nil)
	}))
	natives.Register("reading", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		v, err := evm.SLoad(contract, slot)
		return v.Bytes(), err
	}))
	statedb := newState(t)
	statedb.SetCode(common.Address{1}, vm.NativeCode("storing"))
	statedb.SetCode(common.Address{2}, vm.NativeCode("logging"))
	statedb.SetCode(common.Address{3}, vm.NativeCode("reading"))
	statedb.SetState(common.Address{3}, slot, word)
	evm := newEVM(statedb, natives)

	_, _, err := evm.StaticCall(vm.AccountRef(alice), common.Address{1}, nil, 100_000)
	require.ErrorIs(err, vm.ErrWriteProtection)
	_, _, err = evm.StaticCall(vm.AccountRef(alice), common.Address{2}, nil, 100_000)
	require.ErrorIs(err, vm.ErrWriteProtection)
	require.False(evm.ReadOnly())

	ret, left, err := evm.StaticCall(vm.AccountRef(alice), common.Address{3}, nil, 100_000)
	require.NoError(err)
	require.Equal(word.Bytes(), ret)
	require.Equal(100_000-vm.CallGas-vm.SloadGas, left)
}

func TestCall_DepthLimit(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("recursive", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		ret, left, err := evm.Call(contract, contract.Address(), nil, contract.Gas, nil)
		contract.Gas = left
		return ret, err
	}))
	statedb := newState(t)
	statedb.SetCode(target, vm.NativeCode("recursive"))
	evm := newEVM(statedb, natives)

	_, _, err := evm.Call(vm.AccountRef(alice), target, nil, 10_000_000, nil)
	require.ErrorIs(err, vm.ErrDepth)
	require.Equal(0, evm.Depth())
}

type constructed struct {
	nativeFunc
}

func (constructed) Construct(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	if len(contract.Input) == 0 {
		return nil, vm.ErrExecutionReverted
	}
	return nil, evm.SStore(contract, slot, common.BytesToHash(contract.Input))
}

func TestCreate_RunsConstructorAndDepositsDesignator(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("ctor", constructed{storing})
	statedb := newState(t)
	evm := newEVM(statedb, natives)

	_, addr, left, err := evm.Create(vm.AccountRef(alice), append(vm.NativeCode("ctor"), 0x2a), 200_000, nil)
	require.NoError(err)
	require.NotEqual(common.Address{}, addr)
	require.Less(left, uint64(200_000))
	require.Equal(vm.NativeCode("ctor"), statedb.GetCode(addr))
	require.Equal(word, statedb.GetState(addr, slot))
	require.Equal(uint64(1), statedb.GetNonce(alice))
	require.Equal(uint64(1), statedb.GetNonce(addr))

	_, second, _, err := evm.Create(vm.AccountRef(alice), append(vm.NativeCode("ctor"), 0x2a), 200_000, nil)
	require.NoError(err)
	require.NotEqual(addr, second)
}

func TestCreate_Failures(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("ctor", constructed{storing})
	natives.Register("plain", storing)
	statedb := newState(t)
	evm := newEVM(statedb, natives)

	_, addr, _, err := evm.Create(vm.AccountRef(alice), vm.NativeCode("ctor"), 200_000, nil)
	require.ErrorIs(err, vm.ErrExecutionReverted)
	require.Empty(statedb.GetCode(addr))
	require.Equal(common.Hash{}, statedb.GetState(addr, slot))

	_, _, left, err := evm.Create(vm.AccountRef(alice), append(vm.NativeCode("plain"), 0x01), 200_000, nil)
	require.ErrorIs(err, vm.ErrInvalidCode)
	require.Zero(left)

	_, _, _, err = evm.Create(vm.AccountRef(alice), vm.NativeCode("unknown"), 200_000, nil)
	require.ErrorIs(err, vm.ErrInvalidCode)

	_, _, _, err = evm.Create(vm.AccountRef(alice), []byte{0x60, 0x80}, 200_000, nil)
	require.ErrorIs(err, vm.ErrInvalidCode)
}

func TestEmitLog_AnnotatesStorageAddress(t *testing.T) {
	require := require.New(t)
	natives := vm.NewRegistry()
	natives.Register("logging", nativeFunc(func(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
		return nil, evm.EmitLog(contract, []common.Hash{slot}, word.Bytes())
	}))
	statedb := newState(t)
	statedb.SetTxContext(common.Hash{0x01}, 0)
	statedb.SetCode(target, vm.NativeCode("logging"))
	evm := newEVM(statedb, natives)

	_, _, err := evm.Call(vm.AccountRef(alice), target, nil, 100_000, nil)
	require.NoError(err)
	logs := statedb.Logs()
	require.Len(logs, 1)
	require.Equal(target, logs[0].Address)
	require.Equal([]common.Hash{slot}, logs[0].Topics)
	require.Equal(word.Bytes(), logs[0].Data)
}
