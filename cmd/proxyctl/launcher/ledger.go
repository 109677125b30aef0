package launcher

import (
	"crypto/ecdsa"
	"math/big"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
	"github.com/unicornultrafoundation/go-u2u-proxy/monitoring"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts"
	"github.com/unicornultrafoundation/go-u2u-proxy/utils"
)

const (
	dbCache   = 16
	dbHandles = 64
)

// fakeAccountFunds is the genesis balance of every development account.
var fakeAccountFunds = utils.ToU2U(1_000_000_000)

// openDatabase opens the chain database of cfg, or an in-memory one if the
// data directory is empty.
func openDatabase(cfg *config) (ethdb.Database, error) {
	if cfg.Node.DataDir == "" {
		return rawdb.NewMemoryDatabase(), nil
	}
	path := filepath.Join(cfg.Node.DataDir, "chaindata")
	db, err := rawdb.NewLevelDBDatabase(path, dbCache, dbHandles, "proxyctl/db/", false)
	if err != nil {
		if lerrors.IsCorrupted(err) {
			return nil, errors.Wrapf(err, "database %s is corrupted, remove it to start over", path)
		}
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	monitoring.SetDataDirMonitor(cfg.Node.DataDir)
	return db, nil
}

// makeLedger opens the ledger of cfg with every native contract registered.
func makeLedger(cfg *config) (*evmcore.Ledger, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	alloc := evmcore.FakeGenesisAlloc(cfg.Node.FakeAccounts, fakeAccountFunds)
	ledger, err := evmcore.NewLedger(cfg.Ledger, db, contracts.NewRegistry(), alloc)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to open ledger")
	}
	log.Debug("Ledger opened", "datadir", cfg.Node.DataDir, "number", ledger.BlockNumber(), "root", ledger.Head().Root)
	return ledger, nil
}

// senderKey returns the configured key, or the first development account.
func senderKey(cfg *config) (*ecdsa.PrivateKey, error) {
	if cfg.Node.Key == "" {
		return evmcore.FakeKey(1), nil
	}
	key, err := crypto.HexToECDSA(trimHexPrefix(cfg.Node.Key))
	if err != nil {
		return nil, errors.Wrap(err, "invalid key")
	}
	return key, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// transactor signs and applies transactions of a single sender.
type transactor struct {
	ledger   *evmcore.Ledger
	key      *ecdsa.PrivateKey
	gasLimit uint64
	gasPrice *big.Int
}

func newTransactor(cfg *config, ledger *evmcore.Ledger) (*transactor, error) {
	key, err := senderKey(cfg)
	if err != nil {
		return nil, err
	}
	return &transactor{
		ledger:   ledger,
		key:      key,
		gasLimit: cfg.Node.GasLimit,
		gasPrice: new(big.Int).SetUint64(cfg.Node.GasPrice),
	}, nil
}

func (t *transactor) from() common.Address {
	return crypto.PubkeyToAddress(t.key.PublicKey)
}

// send applies a transaction to to, or a contract creation if to is nil. A
// failed execution is returned as an *evmcore.ExecutionError next to the receipt.
func (t *transactor) send(to *common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	if value == nil {
		value = new(big.Int)
	}
	tx, err := types.SignNewTx(t.key, t.ledger.Signer(), &types.LegacyTx{
		Nonce:    t.ledger.NonceAt(t.from()),
		GasPrice: t.gasPrice,
		Gas:      t.gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	return t.ledger.SendTransaction(tx)
}
