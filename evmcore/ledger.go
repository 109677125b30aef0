package evmcore

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/trie"
	lru "github.com/hashicorp/golang-lru"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/logger"
	"github.com/unicornultrafoundation/go-u2u-proxy/params"
	"github.com/unicornultrafoundation/go-u2u-proxy/utils/signers/gsignercache"
)

// LedgerConfig is the configuration of a Ledger.
type LedgerConfig struct {
	ChainID       uint64
	BlockGasLimit uint64
	Coinbase      common.Address

	// ReceiptCacheSize is the number of most recent receipts kept for lookup.
	ReceiptCacheSize int
}

// DefaultLedgerConfig returns the development ledger configuration.
func DefaultLedgerConfig() LedgerConfig {
	chain := params.DevChainConfig()
	return LedgerConfig{
		ChainID:          chain.ChainID.Uint64(),
		BlockGasLimit:    chain.BlockGasLimit,
		Coinbase:         chain.Coinbase,
		ReceiptCacheSize: 4096,
	}
}

// ChainConfig returns the chain parameters of the configuration.
func (c LedgerConfig) ChainConfig() *params.ChainConfig {
	return &params.ChainConfig{
		ChainID:       new(big.Int).SetUint64(c.ChainID),
		BlockGasLimit: c.BlockGasLimit,
		Coinbase:      c.Coinbase,
	}
}

// CallMsg is a simulated message executed by Ledger.Call.
type CallMsg struct {
	From  common.Address
	To    *common.Address
	Gas   uint64
	Value *big.Int
	Data  []byte
}

// Ledger is a strictly serialized chain of native contract state. Every
// transaction is applied alone and sealed in its own block, so transactions
// never observe each other's intermediate state.
type Ledger struct {
	config  *params.ChainConfig
	natives *vm.Registry
	signer  types.Signer

	mu       sync.Mutex
	db       ethdb.Database
	stateDb  state.Database
	state    *state.StateDB
	head     *types.Header
	receipts *lru.Cache
	closed   bool

	logger.Instance
}

// NewLedger opens the ledger stored in db, writing the genesis block built
// from alloc if db is empty. The ledger owns db and closes it on Close.
func NewLedger(cfg LedgerConfig, db ethdb.Database, natives *vm.Registry, alloc GenesisAlloc) (*Ledger, error) {
	if cfg.BlockGasLimit == 0 {
		return nil, errors.New("zero block gas limit")
	}
	if cfg.ReceiptCacheSize <= 0 {
		cfg.ReceiptCacheSize = DefaultLedgerConfig().ReceiptCacheSize
	}
	receipts, err := lru.New(cfg.ReceiptCacheSize)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		config:   cfg.ChainConfig(),
		natives:  natives,
		db:       db,
		stateDb:  state.NewDatabase(db),
		receipts: receipts,
		Instance: logger.New("ledger"),
	}
	l.signer = gsignercache.Wrap(types.LatestSignerForChainID(l.config.ChainID))

	if head := readHead(db); head != nil {
		l.head = head
		l.Log.Info("Opened existing ledger", "number", head.Number, "root", head.Root)
	} else {
		head, err := commitGenesis(db, l.stateDb, alloc, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to write genesis: %w", err)
		}
		l.head = head
		l.Log.Info("Wrote genesis", "accounts", len(alloc), "root", head.Root, "hash", head.Hash())
	}
	if err := l.resetState(); err != nil {
		return nil, fmt.Errorf("missing state of block %d: %w", l.head.Number, err)
	}
	return l, nil
}

func (l *Ledger) resetState() error {
	statedb, err := state.New(l.head.Root, l.stateDb, nil)
	if err != nil {
		return err
	}
	l.state = statedb
	return nil
}

// Config returns the chain parameters.
func (l *Ledger) Config() *params.ChainConfig {
	return l.config
}

// Signer returns the signer transactions must be signed with.
func (l *Ledger) Signer() types.Signer {
	return l.signer
}

// Natives returns the registry native code is resolved with.
func (l *Ledger) Natives() *vm.Registry {
	return l.natives
}

func (l *Ledger) nextHeader() *types.Header {
	return &types.Header{
		ParentHash: l.head.Hash(),
		Number:     new(big.Int).Add(l.head.Number, common.Big1),
		GasLimit:   l.config.BlockGasLimit,
		Coinbase:   l.config.Coinbase,
		Difficulty: new(big.Int),
		UncleHash:  types.EmptyUncleHash,
		Time:       l.head.Time + 1,
	}
}

func (l *Ledger) newEVM(header *types.Header, statedb vm.StateDB) *vm.EVM {
	return vm.NewEVM(NewEVMBlockContext(header), vm.TxContext{}, statedb, vm.Config{Natives: l.natives})
}

// SendTransaction applies tx in a new block and returns its receipt.
//
// Invalid transactions are rejected without any state change. When the
// transaction is valid but its execution fails, the block is still sealed
// (charging gas) and the receipt is returned together with an
// *ExecutionError carrying the failure and its revert data.
func (l *Ledger) SendTransaction(tx *types.Transaction) (*types.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLedgerClosed
	}
	msg, err := TxAsMessage(tx, l.signer)
	if err != nil {
		rejectedTxCounter.Inc(1)
		return nil, err
	}
	var (
		header  = l.nextHeader()
		gp      = new(GasPool).AddGas(header.GasLimit)
		usedGas uint64
	)
	receipt, result, err := ApplyTransaction(msg, gp, l.state, header, tx, 0, &usedGas, l.newEVM(header, l.state))
	if err != nil {
		rejectedTxCounter.Inc(1)
		if resetErr := l.resetState(); resetErr != nil {
			return nil, resetErr
		}
		return nil, err
	}
	if err := l.seal(header, tx, receipt); err != nil {
		return nil, err
	}
	gasUsedMeter.Mark(int64(receipt.GasUsed))
	if result.Failed() {
		failedTxCounter.Inc(1)
		l.Log.Debug("Transaction failed", "hash", tx.Hash(), "number", header.Number, "err", result.Err)
		return receipt, result.AsError()
	}
	appliedTxCounter.Inc(1)
	return receipt, nil
}

// seal commits the state, writes the header and annotates the receipt.
func (l *Ledger) seal(header *types.Header, tx *types.Transaction, receipt *types.Receipt) error {
	root, err := l.state.Commit(header.Number.Uint64(), true)
	if err != nil {
		return fmt.Errorf("failed to commit block %d: %w", header.Number, err)
	}
	if err := l.stateDb.TrieDB().Commit(root, false); err != nil {
		return fmt.Errorf("failed to flush block %d: %w", header.Number, err)
	}
	header.Root = root
	header.GasUsed = receipt.GasUsed
	header.Bloom = receipt.Bloom
	header.TxHash = types.DeriveSha(types.Transactions{tx}, trie.NewStackTrie(nil))
	header.ReceiptHash = types.DeriveSha(types.Receipts{receipt}, trie.NewStackTrie(nil))

	writeHead(l.db, header)
	l.head = header
	if err := l.resetState(); err != nil {
		return err
	}

	hash := header.Hash()
	receipt.BlockHash = hash
	for _, lg := range receipt.Logs {
		lg.BlockHash = hash
	}
	l.receipts.Add(tx.Hash(), receipt)

	l.Log.Debug("Sealed block", "number", header.Number, "hash", hash, "tx", tx.Hash(),
		"status", receipt.Status, "gas", receipt.GasUsed, "logs", len(receipt.Logs))
	return nil
}

// Call executes msg against a copy of the latest state without sealing
// anything. A static call forbids state modification for its whole duration.
// The returned error is non-nil only if the message could not be executed;
// VM failures are reported in the result.
func (l *Ledger) Call(msg CallMsg, static bool) (*ExecutionResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLedgerClosed
	}
	var (
		header  = l.nextHeader()
		statedb = l.state.Copy()
		evm     = l.newEVM(header, statedb)
		gas     = msg.Gas
	)
	if gas == 0 {
		gas = header.GasLimit
	}
	evm.Reset(vm.TxContext{Origin: msg.From, GasPrice: new(big.Int)}, statedb)
	if static {
		if msg.To == nil {
			return nil, errors.New("static call without recipient")
		}
		ret, left, err := evm.StaticCall(vm.AccountRef(msg.From), *msg.To, msg.Data, gas)
		return &ExecutionResult{UsedGas: gas - left, Err: err, ReturnData: ret}, nil
	}
	nonce := statedb.GetNonce(msg.From)
	return ApplyMessage(evm, NewMessage(msg.From, msg.To, nonce, msg.Value, gas, new(big.Int), msg.Data, true), new(GasPool).AddGas(gas))
}

// Receipt returns the receipt of a recently applied transaction.
func (l *Ledger) Receipt(hash common.Hash) (*types.Receipt, error) {
	if r, ok := l.receipts.Get(hash); ok {
		return r.(*types.Receipt), nil
	}
	return nil, ErrReceiptNotFound
}

// StorageAt returns a storage word of addr in the latest state.
func (l *Ledger) StorageAt(addr common.Address, key common.Hash) common.Hash {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.GetState(addr, key)
}

// CodeAt returns the code of addr in the latest state.
func (l *Ledger) CodeAt(addr common.Address) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return common.CopyBytes(l.state.GetCode(addr))
}

// BalanceAt returns the balance of addr in the latest state.
func (l *Ledger) BalanceAt(addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.GetBalance(addr).ToBig()
}

// NonceAt returns the nonce of addr in the latest state.
func (l *Ledger) NonceAt(addr common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.GetNonce(addr)
}

// Head returns the header of the latest sealed block.
func (l *Ledger) Head() *types.Header {
	l.mu.Lock()
	defer l.mu.Unlock()
	return types.CopyHeader(l.head)
}

// BlockNumber returns the number of the latest sealed block.
func (l *Ledger) BlockNumber() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head.Number.Uint64()
}

// Close releases the database. The ledger can't be used afterwards.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}
