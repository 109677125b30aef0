package integrationtests

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb"

	"github.com/unicornultrafoundation/go-u2u-proxy/ethclient"
	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
	"github.com/unicornultrafoundation/go-u2u-proxy/params"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts"
	"github.com/unicornultrafoundation/go-u2u-proxy/utils"
)

// IntegrationTestNetOptions are configuration options for the integration test network.
type IntegrationTestNetOptions struct {
	// Directory keeps the chain in a LevelDB database under the given path.
	// An empty value keeps the chain in memory.
	Directory string
	// GasLimit is the gas limit of transactions issued through
	// GetTransactOptions. A value of 0 is interpreted as params.DefaultTxGas.
	GasLimit uint64
}

// IntegrationTestNet is an in-process test network for integration tests. It
// maintains a serialized ledger with the proxy and counter native contracts
// registered and a funded validator account. The network can be used to run
// transactions on and to perform queries against, through the same binding
// machinery a client of a real chain uses.
type IntegrationTestNet struct {
	options   IntegrationTestNetOptions
	ledger    *evmcore.Ledger
	client    *ethclient.Client
	validator Account
}

// validatorFunds is the genesis balance of the validator account.
var validatorFunds = utils.ToU2U(1_000_000_000)

// StartIntegrationTestNet starts a test network. The network is closed
// automatically at the end of the test.
func StartIntegrationTestNet(
	t *testing.T,
	options ...IntegrationTestNetOptions,
) *IntegrationTestNet {
	t.Helper()

	effectiveOptions, err := validateAndSanitizeOptions(options...)
	if err != nil {
		t.Fatal("failed to validate and sanitize options: ", err)
	}
	net, err := startIntegrationTestNet(effectiveOptions)
	if err != nil {
		t.Fatal("failed to start integration test network: ", err)
	}
	t.Cleanup(func() {
		if err := net.Close(); err != nil {
			t.Errorf("failed to close integration test network: %v", err)
		}
	})
	return net
}

func validateAndSanitizeOptions(options ...IntegrationTestNetOptions) (IntegrationTestNetOptions, error) {
	if len(options) > 1 {
		return IntegrationTestNetOptions{}, fmt.Errorf("expected at most one option, got %d", len(options))
	}
	var effective IntegrationTestNetOptions
	if len(options) == 1 {
		effective = options[0]
	}
	if effective.GasLimit == 0 {
		effective.GasLimit = params.DefaultTxGas
	}
	return effective, nil
}

func startIntegrationTestNet(options IntegrationTestNetOptions) (*IntegrationTestNet, error) {
	var (
		db  ethdb.Database
		err error
	)
	if options.Directory == "" {
		db = rawdb.NewMemoryDatabase()
	} else {
		db, err = rawdb.NewLevelDBDatabase(filepath.Join(options.Directory, "chaindata"), 16, 16, "", false)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}
	validator := Account{evmcore.FakeKey(1)}
	alloc := evmcore.GenesisAlloc{
		validator.Address(): {Balance: validatorFunds},
	}
	ledger, err := evmcore.NewLedger(evmcore.DefaultLedgerConfig(), db, contracts.NewRegistry(), alloc)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return &IntegrationTestNet{
		options:   options,
		ledger:    ledger,
		client:    ethclient.NewClient(ledger, big.NewInt(1)),
		validator: validator,
	}, nil
}

// Close shuts the network down.
func (n *IntegrationTestNet) Close() error {
	return n.client.Close()
}

// Validator returns the funded account used by Apply and DeployContract.
func (n *IntegrationTestNet) Validator() *Account {
	return &n.validator
}

// EndowAccount sends a requested amount of tokens to the given account. This is
// mainly intended to provide funds to accounts for testing purposes.
func (n *IntegrationTestNet) EndowAccount(
	address common.Address,
	value int64,
) error {
	ctxt := context.Background()
	chainId, err := n.client.ChainID(ctxt)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	// The requested funds are moved from the validator account to the target account.
	nonce, err := n.client.NonceAt(ctxt, n.validator.Address(), nil)
	if err != nil {
		return fmt.Errorf("failed to get nonce: %w", err)
	}
	price, err := n.client.SuggestGasPrice(ctxt)
	if err != nil {
		return fmt.Errorf("failed to get gas price: %w", err)
	}
	transaction, err := types.SignTx(types.NewTx(&types.AccessListTx{
		ChainID:  chainId,
		Gas:      params.DefaultTxGas,
		GasPrice: price,
		To:       &address,
		Value:    big.NewInt(value),
		Nonce:    nonce,
	}), types.LatestSignerForChainID(chainId), n.validator.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	receipt, err := n.Run(transaction)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("endowment of %v failed", address)
	}
	return nil
}

// Run sends the given transaction to the network and returns its receipt.
// Failed executions are reported by the receipt status.
func (n *IntegrationTestNet) Run(tx *types.Transaction) (*types.Receipt, error) {
	err := n.client.SendTransaction(context.Background(), tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return n.GetReceipt(tx.Hash())
}

// GetReceipt returns the receipt of the given transaction hash.
func (n *IntegrationTestNet) GetReceipt(txHash common.Hash) (*types.Receipt, error) {
	receipt, err := n.client.TransactionReceipt(context.Background(), txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	return receipt, nil
}

// Apply sends a transaction to the network using the network's validator account
// and returns the receipt of the processed transaction.
func (n *IntegrationTestNet) Apply(
	issue func(*bind.TransactOpts) (*types.Transaction, error),
) (*types.Receipt, error) {
	return n.ApplyAs(&n.validator, issue)
}

// ApplyAs is like Apply, but sends the transaction from the given account.
func (n *IntegrationTestNet) ApplyAs(
	account *Account,
	issue func(*bind.TransactOpts) (*types.Transaction, error),
) (*types.Receipt, error) {
	txOpts, err := n.GetTransactOptions(account)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction options: %w", err)
	}
	transaction, err := issue(txOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return n.GetReceipt(transaction.Hash())
}

// GetTransactOptions provides transaction options to be used to send a transaction
// with the given account. The options include the chain ID, a suggested gas price,
// the next free nonce of the given account, and the gas limit of the network options.
func (n *IntegrationTestNet) GetTransactOptions(account *Account) (*bind.TransactOpts, error) {
	ctxt := context.Background()
	chainId, err := n.client.ChainID(ctxt)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	gasPrice, err := n.client.SuggestGasPrice(ctxt)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price suggestion: %w", err)
	}
	nonce, err := n.client.NonceAt(ctxt, account.Address(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	txOpts, err := bind.NewKeyedTransactorWithChainID(account.PrivateKey, chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction options: %w", err)
	}
	txOpts.GasPrice = gasPrice
	txOpts.Nonce = new(big.Int).SetUint64(nonce)
	txOpts.GasLimit = n.options.GasLimit
	return txOpts, nil
}

// GetClient provides access to the client of the network. The client is owned
// by the network and must not be closed by the caller.
func (n *IntegrationTestNet) GetClient() *ethclient.Client {
	return n.client
}

// Send signs a transaction of account calling to with calldata and value and
// applies it. Unlike Run, an execution failure is returned as an
// *evmcore.ExecutionError next to the receipt, exposing the revert data.
func (n *IntegrationTestNet) Send(
	account *Account,
	to common.Address,
	value *big.Int,
	calldata []byte,
) (*types.Receipt, error) {
	txOpts, err := n.GetTransactOptions(account)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}
	tx, err := txOpts.Signer(txOpts.From, types.NewTx(&types.LegacyTx{
		Nonce:    txOpts.Nonce.Uint64(),
		GasPrice: txOpts.GasPrice,
		Gas:      txOpts.GasLimit,
		To:       &to,
		Value:    value,
		Data:     calldata,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return n.ledger.SendTransaction(tx)
}

// Call simulates a call of account to the given address against the latest
// state. A failed execution is returned as an *evmcore.ExecutionError.
func (n *IntegrationTestNet) Call(
	account *Account,
	to common.Address,
	value *big.Int,
	calldata []byte,
) ([]byte, error) {
	res, err := n.ledger.Call(evmcore.CallMsg{
		From:  account.Address(),
		To:    &to,
		Gas:   n.options.GasLimit,
		Value: value,
		Data:  calldata,
	}, false)
	if err != nil {
		return nil, err
	}
	if err := res.AsError(); err != nil {
		return nil, err
	}
	return res.Return(), nil
}

// DeployContract is a utility function handling the deployment of a contract on the network.
// The contract is deployed with by the network's validator account. The function returns the
// deployed contract instance and the transaction receipt.
func DeployContract[T any](n *IntegrationTestNet, deploy contractDeployer[T]) (*T, *types.Receipt, error) {
	transactOptions, err := n.GetTransactOptions(&n.validator)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get transaction options: %w", err)
	}
	_, transaction, contract, err := deploy(transactOptions, n.client)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deploy contract: %w", err)
	}
	receipt, err := n.GetReceipt(transaction.Hash())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, receipt, errors.New("contract deployment failed")
	}
	return contract, receipt, nil
}

// contractDeployer is the type of the deployment functions of the contract bindings.
type contractDeployer[T any] func(*bind.TransactOpts, bind.ContractBackend) (common.Address, *types.Transaction, *T, error)

// GetStorageAt returns the storage word of the given address and key in the
// latest state.
func (n *IntegrationTestNet) GetStorageAt(address common.Address, key common.Hash) (common.Hash, error) {
	data, err := n.client.StorageAt(context.Background(), address, key, nil)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(data), nil
}
