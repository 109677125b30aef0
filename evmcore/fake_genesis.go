package evmcore

import (
	"crypto/ecdsa"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// FakeKey returns the deterministic private key of the n-th fake account.
func FakeKey(n uint32) *ecdsa.PrivateKey {
	var seed [4]byte
	binary.BigEndian.PutUint32(seed[:], n)
	key, err := crypto.ToECDSA(crypto.Keccak256([]byte("fakekey"), seed[:]))
	if err != nil {
		panic(err)
	}
	return key
}

// FakeAddress returns the address of the n-th fake account.
func FakeAddress(n uint32) common.Address {
	return crypto.PubkeyToAddress(FakeKey(n).PublicKey)
}

// FakeGenesisAlloc funds the fake accounts 1..num with balance each.
func FakeGenesisAlloc(num uint32, balance *big.Int) GenesisAlloc {
	alloc := make(GenesisAlloc, num)
	for n := uint32(1); n <= num; n++ {
		alloc[FakeAddress(n)] = GenesisAccount{Balance: new(big.Int).Set(balance)}
	}
	return alloc
}
