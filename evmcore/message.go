package evmcore

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Message represents a message sent to a contract.
type Message interface {
	From() common.Address
	To() *common.Address

	GasPrice() *big.Int
	Gas() uint64
	Value() *big.Int

	Nonce() uint64
	IsFake() bool
	Data() []byte
}

type message struct {
	from     common.Address
	to       *common.Address
	nonce    uint64
	amount   *big.Int
	gasLimit uint64
	gasPrice *big.Int
	data     []byte
	isFake   bool
}

// NewMessage creates a message. Fake messages skip the nonce and EOA checks
// and are used for simulated calls.
func NewMessage(from common.Address, to *common.Address, nonce uint64, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte, isFake bool) Message {
	if amount == nil {
		amount = new(big.Int)
	}
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	return message{
		from:     from,
		to:       to,
		nonce:    nonce,
		amount:   amount,
		gasLimit: gasLimit,
		gasPrice: gasPrice,
		data:     data,
		isFake:   isFake,
	}
}

func (m message) From() common.Address { return m.from }
func (m message) To() *common.Address  { return m.to }
func (m message) GasPrice() *big.Int   { return m.gasPrice }
func (m message) Value() *big.Int      { return m.amount }
func (m message) Gas() uint64          { return m.gasLimit }
func (m message) Nonce() uint64        { return m.nonce }
func (m message) Data() []byte         { return m.data }
func (m message) IsFake() bool         { return m.isFake }

// TxAsMessage returns the transaction as a Message, recovering the sender
// with signer.
func TxAsMessage(tx *types.Transaction, signer types.Signer) (Message, error) {
	from, err := types.Sender(signer, tx)
	if err != nil {
		return nil, err
	}
	return NewMessage(from, tx.To(), tx.Nonce(), tx.Value(), tx.Gas(), tx.GasPrice(), tx.Data(), false), nil
}
