// Package ethclient provides an Ethereum client API over an in-process
// ledger. Client implements bind.ContractBackend, so contract bindings and
// bind.TransactOpts work against it unchanged.
package ethclient

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
)

// ErrHistoricalState is returned for queries against blocks other than the head.
var ErrHistoricalState = errors.New("only the latest state is available")

// Client is a client of a ledger.
type Client struct {
	ledger   *evmcore.Ledger
	gasPrice *big.Int
}

// NewClient creates a client of ledger quoting gasPrice for transactions.
func NewClient(ledger *evmcore.Ledger, gasPrice *big.Int) *Client {
	if gasPrice == nil {
		gasPrice = big.NewInt(1)
	}
	return &Client{
		ledger:   ledger,
		gasPrice: gasPrice,
	}
}

// Close closes the underlying ledger.
func (ec *Client) Close() error {
	return ec.ledger.Close()
}

// Ledger returns the underlying ledger.
func (ec *Client) Ledger() *evmcore.Ledger {
	return ec.ledger
}

func (ec *Client) checkBlock(blockNumber *big.Int) error {
	if blockNumber == nil || blockNumber.Sign() < 0 {
		return nil
	}
	if head := ec.ledger.BlockNumber(); !blockNumber.IsUint64() || blockNumber.Uint64() != head {
		return fmt.Errorf("%w: block %v, head %d", ErrHistoricalState, blockNumber, head)
	}
	return nil
}

// ChainID retrieves the current chain ID for transaction replay protection.
func (ec *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(ec.ledger.Config().ChainID), nil
}

// BlockNumber returns the most recent block number
func (ec *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return ec.ledger.BlockNumber(), nil
}

// HeaderByNumber returns the head header. A nil or negative number means
// the latest block.
func (ec *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := ec.checkBlock(number); err != nil {
		return nil, err
	}
	return ec.ledger.Head(), nil
}

// BalanceAt returns the wei balance of the given account.
func (ec *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if err := ec.checkBlock(blockNumber); err != nil {
		return nil, err
	}
	return ec.ledger.BalanceAt(account), nil
}

// StorageAt returns the value of key in the contract storage of the given account.
func (ec *Client) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	if err := ec.checkBlock(blockNumber); err != nil {
		return nil, err
	}
	return ec.ledger.StorageAt(account, key).Bytes(), nil
}

// CodeAt returns the contract code of the given account.
func (ec *Client) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if err := ec.checkBlock(blockNumber); err != nil {
		return nil, err
	}
	return ec.ledger.CodeAt(account), nil
}

// NonceAt returns the account nonce of the given account.
func (ec *Client) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	if err := ec.checkBlock(blockNumber); err != nil {
		return 0, err
	}
	return ec.ledger.NonceAt(account), nil
}

// PendingCodeAt returns the contract code of the given account. Transactions
// are sealed as they arrive, so pending and latest state are the same.
func (ec *Client) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return ec.ledger.CodeAt(account), nil
}

// PendingNonceAt returns the account nonce of the given account.
func (ec *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return ec.ledger.NonceAt(account), nil
}

// SuggestGasPrice retrieves the gas price the client quotes.
func (ec *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(ec.gasPrice), nil
}

// SuggestGasTipCap retrieves the suggested gas tip cap.
func (ec *Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return new(big.Int), nil
}

// CallContract executes a message call transaction against the latest state.
// Reverts are returned as *evmcore.ExecutionError carrying the revert data.
func (ec *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := ec.checkBlock(blockNumber); err != nil {
		return nil, err
	}
	res, err := ec.ledger.Call(toCallMsg(msg), false)
	if err != nil {
		return nil, err
	}
	if err := res.AsError(); err != nil {
		return nil, err
	}
	return res.Return(), nil
}

// EstimateGas estimates the gas needed to execute msg, leaving headroom for
// the gas retained by forwarding frames.
func (ec *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	res, err := ec.ledger.Call(toCallMsg(msg), false)
	if err != nil {
		return 0, err
	}
	if err := res.AsError(); err != nil {
		return 0, err
	}
	gas := res.UsedGas + res.UsedGas/2
	if limit := ec.ledger.Config().BlockGasLimit; gas > limit {
		gas = limit
	}
	return gas, nil
}

// SendTransaction injects a signed transaction. The transaction is sealed
// immediately; an execution failure is not an error here but shows in the
// receipt status.
func (ec *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	_, err := ec.ledger.SendTransaction(tx)
	var execErr *evmcore.ExecutionError
	if errors.As(err, &execErr) {
		return nil
	}
	return err
}

// TransactionReceipt returns the receipt of a transaction by transaction hash.
func (ec *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := ec.ledger.Receipt(txHash)
	if errors.Is(err, evmcore.ErrReceiptNotFound) {
		return nil, ethereum.NotFound
	}
	return receipt, err
}

// FilterLogs is not supported; logs are read from receipts.
func (ec *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return nil, errors.New("log filtering is not supported, read logs from receipts")
}

// SubscribeFilterLogs is not supported; logs are read from receipts.
func (ec *Client) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("log subscriptions are not supported, read logs from receipts")
}

func toCallMsg(msg ethereum.CallMsg) evmcore.CallMsg {
	return evmcore.CallMsg{
		From:  msg.From,
		To:    msg.To,
		Gas:   msg.Gas,
		Value: msg.Value,
		Data:  msg.Data,
	}
}
