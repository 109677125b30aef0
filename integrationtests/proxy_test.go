package integrationtests

import (
	"errors"
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
	"github.com/unicornultrafoundation/go-u2u-proxy/integrationtests/contracts/counter"
	"github.com/unicornultrafoundation/go-u2u-proxy/integrationtests/contracts/proxy"
	counterlayout "github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counter"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv2"
	proxycontract "github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/proxy"
)

// proxiedCounter is a proxy deployed by the validator together with both
// counter versions, ready to be bound.
type proxiedCounter struct {
	net     *IntegrationTestNet
	proxy   *proxy.Proxy
	counter *counter.Counter
	address common.Address
	v1, v2  common.Address
}

func deployProxiedCounter(t *testing.T, net *IntegrationTestNet) *proxiedCounter {
	t.Helper()
	p, receipt, err := DeployContract(net, proxy.DeployProxy)
	require.NoError(t, err)
	_, v1, err := DeployContract(net, counter.DeployCounterV1)
	require.NoError(t, err)
	_, v2, err := DeployContract(net, counter.DeployCounterV2)
	require.NoError(t, err)
	return &proxiedCounter{
		net:     net,
		proxy:   p,
		counter: counter.NewCounter(receipt.ContractAddress, net.GetClient()),
		address: receipt.ContractAddress,
		v1:      v1.ContractAddress,
		v2:      v2.ContractAddress,
	}
}

func (pc *proxiedCounter) upgradeTo(t *testing.T, impl common.Address) *types.Receipt {
	t.Helper()
	receipt, err := pc.net.Apply(func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return pc.proxy.UpgradeTo(opts, impl)
	})
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status, spew.Sdump(receipt))
	return receipt
}

func (pc *proxiedCounter) apply(t *testing.T, issue func(*bind.TransactOpts) (*types.Transaction, error)) *types.Receipt {
	t.Helper()
	receipt, err := pc.net.Apply(issue)
	require.NoError(t, err)
	return receipt
}

func (pc *proxiedCounter) count(t *testing.T) uint64 {
	t.Helper()
	count, err := pc.counter.GetCount(nil)
	require.NoError(t, err)
	require.True(t, count.IsUint64())
	return count.Uint64()
}

func (pc *proxiedCounter) slot(t *testing.T, key common.Hash) common.Hash {
	t.Helper()
	value, err := pc.net.GetStorageAt(pc.address, key)
	require.NoError(t, err)
	return value
}

func (pc *proxiedCounter) implementation(t *testing.T) common.Address {
	return common.BytesToAddress(pc.slot(t, proxycontract.ImplementationSlot).Bytes())
}

func (pc *proxiedCounter) admin(t *testing.T) common.Address {
	return common.BytesToAddress(pc.slot(t, proxycontract.AdminSlot).Bytes())
}

func requireReverted(t *testing.T, err error, reason string) {
	t.Helper()
	var execErr *evmcore.ExecutionError
	require.True(t, errors.As(err, &execErr), "expected execution error, got %v", err)
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
	require.Equal(t, reason, execErr.Reason())
}

func TestProxy_AdminIsDeployer(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)

	require.Equal(t, net.Validator().Address(), pc.admin(t))
	require.Equal(t, common.Address{}, pc.implementation(t))
}

func TestProxy_ImplementationIsLastUpgradeTarget(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)

	for _, impl := range []common.Address{pc.v1, pc.v2, pc.v1} {
		receipt := pc.upgradeTo(t, impl)
		require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
		require.Equal(t, impl, pc.implementation(t))

		require.Len(t, receipt.Logs, 1)
		require.Equal(t, proxycontract.ProxyAbi.Events["Upgraded"].ID, receipt.Logs[0].Topics[0])
		require.Equal(t, common.BytesToHash(impl.Bytes()), receipt.Logs[0].Topics[1])
	}
}

func TestProxy_ExampleTrace(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)

	require.Equal(t, types.ReceiptStatusSuccessful, pc.upgradeTo(t, pc.v1).Status)
	for i := 0; i < 3; i++ {
		require.Equal(t, types.ReceiptStatusSuccessful, pc.apply(t, pc.counter.Increment).Status)
	}
	require.Equal(t, uint64(3), pc.count(t))

	require.Equal(t, types.ReceiptStatusSuccessful, pc.upgradeTo(t, pc.v2).Status)
	require.Equal(t, types.ReceiptStatusSuccessful, pc.apply(t, pc.counter.Decrement).Status)
	require.Equal(t, uint64(2), pc.count(t))

	receipt := pc.apply(t, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return pc.counter.IncrementBy(opts, big.NewInt(5))
	})
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Equal(t, uint64(7), pc.count(t))

	stranger := NewAccount()
	require.NoError(t, net.EndowAccount(stranger.Address(), 1e15))
	receipt, err := net.ApplyAs(stranger, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return pc.proxy.UpgradeTo(opts, common.Address{0x42})
	})
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	require.Equal(t, pc.v2, pc.implementation(t))
	require.Equal(t, uint64(7), pc.count(t))
}

func TestProxy_CounterEventsAreEmittedByTheProxy(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v2)

	receipt := pc.apply(t, pc.counter.Increment)
	require.Len(t, receipt.Logs, 1)
	require.Equal(t, pc.address, receipt.Logs[0].Address)
	require.Equal(t, counterv2.CounterV2Abi.Events["CountUpdated"].ID, receipt.Logs[0].Topics[0])
	require.Equal(t, common.BigToHash(big.NewInt(1)).Bytes(), receipt.Logs[0].Data)

	receipt = pc.apply(t, pc.counter.Decrement)
	require.Len(t, receipt.Logs, 1)
	require.Equal(t, counterv2.CounterV2Abi.Events["DecrementedCount"].ID, receipt.Logs[0].Topics[0])
	require.Equal(t, common.Hash{}.Bytes(), receipt.Logs[0].Data)
}

func TestProxy_MatchesReferenceAccumulator(t *testing.T) {
	const (
		opIncrement = iota
		opDecrement
		opIncrementBy
		numOps
	)
	type step struct {
		Op     uint8
		Amount uint16
	}

	for seed := int64(1); seed <= 3; seed++ {
		var steps []step
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(20, 30).Fuzz(&steps)

		net := StartIntegrationTestNet(t)
		pc := deployProxiedCounter(t, net)
		pc.upgradeTo(t, pc.v2)
		validator := net.Validator()

		var reference uint64
		for i, s := range steps {
			var (
				calldata []byte
				err      error
			)
			switch s.Op % numOps {
			case opIncrement:
				calldata, err = counterv2.CounterV2Abi.Pack("increment")
			case opDecrement:
				calldata, err = counterv2.CounterV2Abi.Pack("decrement")
			case opIncrementBy:
				calldata, err = counterv2.CounterV2Abi.Pack("incrementBy", big.NewInt(int64(s.Amount)))
			}
			require.NoError(t, err)

			receipt, err := net.Send(validator, pc.address, nil, calldata)
			switch {
			case s.Op%numOps == opDecrement && reference == 0:
				requireReverted(t, err, "Count cannot be negative")
				require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
			case s.Op%numOps == opDecrement:
				require.NoError(t, err)
				reference--
			case s.Op%numOps == opIncrement:
				require.NoError(t, err)
				reference++
			default:
				require.NoError(t, err)
				reference += uint64(s.Amount)
			}
			require.Equal(t, reference, pc.count(t), "seed %d, step %d", seed, i)
		}
	}
}

func TestProxy_UpgradePreservesCount(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v1)
	for i := 0; i < 4; i++ {
		pc.apply(t, pc.counter.Increment)
	}
	for _, impl := range []common.Address{pc.v2, pc.v1, pc.v2} {
		before := pc.slot(t, counterlayout.CountSlot)
		require.Equal(t, types.ReceiptStatusSuccessful, pc.upgradeTo(t, impl).Status)
		require.Equal(t, before, pc.slot(t, counterlayout.CountSlot))
		require.Equal(t, uint64(4), pc.count(t))
	}
}

func TestProxy_NonAdminCannotMutateBookkeeping(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v1)

	stranger := NewAccount()
	require.NoError(t, net.EndowAccount(stranger.Address(), 1e15))

	calls := map[string][]byte{}
	var err error
	calls["upgradeTo"], err = proxycontract.ProxyAbi.Pack("upgradeTo", pc.v2)
	require.NoError(t, err)
	calls["changeAdmin"], err = proxycontract.ProxyAbi.Pack("changeAdmin", stranger.Address())
	require.NoError(t, err)

	for name, calldata := range calls {
		t.Run(name, func(t *testing.T) {
			receipt, err := net.Send(stranger, pc.address, nil, calldata)
			// counterv1 has no such function, so the delegated call reverts empty
			requireReverted(t, err, "")
			require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
			require.Equal(t, pc.v1, pc.implementation(t))
			require.Equal(t, net.Validator().Address(), pc.admin(t))
		})
	}
}

func TestProxy_RejectsCodelessImplementation(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v1)

	for _, impl := range []common.Address{{}, {0x42}, net.Validator().Address()} {
		calldata, err := proxycontract.ProxyAbi.Pack("upgradeTo", impl)
		require.NoError(t, err)
		receipt, err := net.Send(net.Validator(), pc.address, nil, calldata)
		requireReverted(t, err, "Invalid implementation")
		require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
		require.Empty(t, receipt.Logs)
		require.Equal(t, pc.v1, pc.implementation(t))
	}
}

func TestProxy_ChangeAdmin(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)

	calldata, err := proxycontract.ProxyAbi.Pack("changeAdmin", common.Address{})
	require.NoError(t, err)
	_, err = net.Send(net.Validator(), pc.address, nil, calldata)
	requireReverted(t, err, "Invalid admin address")
	require.Equal(t, net.Validator().Address(), pc.admin(t))

	newAdmin := NewAccount()
	require.NoError(t, net.EndowAccount(newAdmin.Address(), 1e15))
	receipt := pc.apply(t, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return pc.proxy.ChangeAdmin(opts, newAdmin.Address())
	})
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Equal(t, newAdmin.Address(), pc.admin(t))
	require.Len(t, receipt.Logs, 1)
	require.Equal(t, proxycontract.ProxyAbi.Events["AdminChanged"].ID, receipt.Logs[0].Topics[0])

	receipt, err = net.ApplyAs(newAdmin, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return pc.proxy.UpgradeTo(opts, pc.v2)
	})
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Equal(t, pc.v2, pc.implementation(t))
}

func TestProxy_RelaysImplementationFailures(t *testing.T) {
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v2)

	calldata, err := counterv2.CounterV2Abi.Pack("decrement")
	require.NoError(t, err)
	_, err = net.Call(net.Validator(), pc.address, nil, calldata)
	requireReverted(t, err, "Count cannot be negative")

	// value is rejected by the non-payable counter, not by the proxy
	calldata, err = counterv2.CounterV2Abi.Pack("increment")
	require.NoError(t, err)
	_, err = net.Send(net.Validator(), pc.address, big.NewInt(1), calldata)
	requireReverted(t, err, "")
	require.Zero(t, pc.count(t))

	// empty input reaches the implementation, which has no fallback
	receipt, err := net.Apply(pc.proxy.Transfer)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusFailed, receipt.Status)
}

func TestProxy_BookkeepingNeverAliasesCounterStorage(t *testing.T) {
	require.NotEqual(t, counterlayout.CountSlot, proxycontract.ImplementationSlot)
	require.NotEqual(t, counterlayout.CountSlot, proxycontract.AdminSlot)

	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v2)
	pc.apply(t, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return pc.counter.IncrementBy(opts, big.NewInt(0x1234))
	})

	require.Equal(t, common.BigToHash(big.NewInt(0x1234)), pc.slot(t, counterlayout.CountSlot))
	require.Equal(t, pc.v2, pc.implementation(t))
	require.Equal(t, net.Validator().Address(), pc.admin(t))

	// the implementations keep no state of their own
	for _, impl := range []common.Address{pc.v1, pc.v2} {
		value, err := net.GetStorageAt(impl, counterlayout.CountSlot)
		require.NoError(t, err)
		require.Equal(t, common.Hash{}, value)
	}
}

func TestProxy_ConcurrentSendersAreSerialized(t *testing.T) {
	const numSenders = 8
	net := StartIntegrationTestNet(t)
	pc := deployProxiedCounter(t, net)
	pc.upgradeTo(t, pc.v2)

	senders := make([]*Account, numSenders)
	for i := range senders {
		senders[i] = NewAccount()
		require.NoError(t, net.EndowAccount(senders[i].Address(), 1e15))
	}
	calldata, err := counterv2.CounterV2Abi.Pack("increment")
	require.NoError(t, err)

	var group errgroup.Group
	for _, sender := range senders {
		sender := sender
		group.Go(func() error {
			_, err := net.Send(sender, pc.address, nil, calldata)
			return err
		})
	}
	require.NoError(t, group.Wait())
	require.Equal(t, uint64(numSenders), pc.count(t))
}
