package integrationtests

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-u2u-proxy/integrationtests/contracts/counter"
)

func TestIntegrationTestNet_CanStartAndStopIntegrationTestNet(t *testing.T) {
	StartIntegrationTestNet(t)
}

func TestIntegrationTestNet_CanStartMultipleConsecutiveInstances(t *testing.T) {
	for i := 0; i < 2; i++ {
		StartIntegrationTestNet(t)
	}
}

func TestIntegrationTestNet_CanFetchInformationFromTheNetwork(t *testing.T) {
	net := StartIntegrationTestNet(t)
	client := net.GetClient()
	block, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	require.Zero(t, block)

	require.NoError(t, net.EndowAccount(common.Address{0x01}, 1))
	block, err = client.BlockNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), block)
}

func TestIntegrationTestNet_CanEndowAccountsWithTokens(t *testing.T) {
	net := StartIntegrationTestNet(t)
	client := net.GetClient()
	address := common.Address{0x01}
	balance, err := client.BalanceAt(context.Background(), address, nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		increment := int64(1000)
		require.NoError(t, net.EndowAccount(address, increment))
		want := new(big.Int).Add(balance, big.NewInt(increment))
		balance, err = client.BalanceAt(context.Background(), address, nil)
		require.NoError(t, err)
		require.Zero(t, want.Cmp(balance), "got %v, wanted %v", balance, want)
	}
}

func TestIntegrationTestNet_CanDeployContracts(t *testing.T) {
	net := StartIntegrationTestNet(t)
	_, receipt, err := DeployContract(net, counter.DeployCounterV1)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.NotEqual(t, common.Address{}, receipt.ContractAddress)
}

func TestIntegrationTestNet_CanInteractWithContract(t *testing.T) {
	net := StartIntegrationTestNet(t)
	contract, _, err := DeployContract(net, counter.DeployCounterV1)
	require.NoError(t, err)
	receipt, err := net.Apply(contract.Increment)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	count, err := contract.GetCount(nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), count)
}

func TestIntegrationTestNet_KeepsStateInDirectory(t *testing.T) {
	dir := t.TempDir()
	net, err := startIntegrationTestNet(IntegrationTestNetOptions{Directory: dir, GasLimit: 1e6})
	require.NoError(t, err)
	contract, receipt, err := DeployContract(net, counter.DeployCounterV1)
	require.NoError(t, err)
	_, err = net.Apply(contract.Increment)
	require.NoError(t, err)
	require.NoError(t, net.Close())

	reopened := StartIntegrationTestNet(t, IntegrationTestNetOptions{Directory: dir})
	count, err := counter.NewCounter(receipt.ContractAddress, reopened.GetClient()).GetCount(nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), count)
}
