package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// DefaultBlockGasLimit is the gas available to a single sealed block. Every
	// block carries exactly one transaction.
	DefaultBlockGasLimit uint64 = 30_000_000

	// DefaultTxGas is the gas limit used by tooling when a caller doesn't pick one.
	DefaultTxGas uint64 = 1_000_000

	// CallCreateDepth is the maximum depth of nested call frames.
	CallCreateDepth uint64 = 1024
)

var (
	// DevChainID identifies the in-process development ledger.
	DevChainID = big.NewInt(4439)

	// DevCoinbase receives transaction fees on the development ledger.
	DevCoinbase = common.HexToAddress("0x00000000000000000000000000000000c0ffee00")
)

// ChainConfig is the static configuration of a ledger.
type ChainConfig struct {
	ChainID       *big.Int
	BlockGasLimit uint64
	Coinbase      common.Address
}

// DevChainConfig returns the configuration of the development ledger.
func DevChainConfig() *ChainConfig {
	return &ChainConfig{
		ChainID:       new(big.Int).Set(DevChainID),
		BlockGasLimit: DefaultBlockGasLimit,
		Coinbase:      DevCoinbase,
	}
}
