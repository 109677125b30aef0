package evmcore

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/holiman/uint256"
)

// GenesisAccount is an account in the state of the genesis block.
type GenesisAccount struct {
	Balance *big.Int
	Nonce   uint64
	Code    []byte
	Storage map[common.Hash]common.Hash
}

// GenesisAlloc specifies the initial state of a ledger.
type GenesisAlloc map[common.Address]GenesisAccount

// commitGenesis writes the genesis state and header into db.
func commitGenesis(db ethdb.Database, sdb state.Database, alloc GenesisAlloc, cfg LedgerConfig) (*types.Header, error) {
	statedb, err := state.New(types.EmptyRootHash, sdb, nil)
	if err != nil {
		return nil, err
	}
	for addr, account := range alloc {
		if account.Balance != nil {
			balance, overflow := uint256.FromBig(account.Balance)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			statedb.AddBalance(addr, balance)
		}
		statedb.SetNonce(addr, account.Nonce)
		if len(account.Code) != 0 {
			statedb.SetCode(addr, account.Code)
		}
		for key, value := range account.Storage {
			statedb.SetState(addr, key, value)
		}
	}
	root, err := statedb.Commit(0, false)
	if err != nil {
		return nil, err
	}
	if err := sdb.TrieDB().Commit(root, false); err != nil {
		return nil, err
	}
	header := &types.Header{
		Number:      new(big.Int),
		Root:        root,
		GasLimit:    cfg.BlockGasLimit,
		Coinbase:    cfg.Coinbase,
		Difficulty:  new(big.Int),
		UncleHash:   types.EmptyUncleHash,
		TxHash:      types.EmptyTxsHash,
		ReceiptHash: types.EmptyReceiptsHash,
	}
	writeHead(db, header)
	return header, nil
}

func writeHead(db ethdb.KeyValueWriter, header *types.Header) {
	hash := header.Hash()
	rawdb.WriteHeader(db, header)
	rawdb.WriteCanonicalHash(db, hash, header.Number.Uint64())
	rawdb.WriteHeadHeaderHash(db, hash)
}

// readHead returns the persisted head header, or nil for an empty database.
func readHead(db ethdb.Reader) *types.Header {
	hash := rawdb.ReadHeadHeaderHash(db)
	if hash == (common.Hash{}) {
		return nil
	}
	number := rawdb.ReadHeaderNumber(db, hash)
	if number == nil {
		return nil
	}
	return rawdb.ReadHeader(db, hash, *number)
}
