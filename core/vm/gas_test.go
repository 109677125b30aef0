package vm

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

func TestSstoreGas(t *testing.T) {
	zero := common.Hash{}
	one := common.BigToHash(common.Big1)
	two := common.BigToHash(common.Big2)

	require.Equal(t, SstoreSetGas, sstoreGas(zero, one))
	require.Equal(t, SstoreResetGas, sstoreGas(one, two))
	require.Equal(t, SstoreResetGas, sstoreGas(one, zero))
	require.Equal(t, SstoreNoopGas, sstoreGas(two, two))
}

func TestLogGas(t *testing.T) {
	gas, err := logGas(2, 32)
	require.NoError(t, err)
	require.Equal(t, params.LogGas+2*params.LogTopicGas+32*params.LogDataGas, gas)

	_, err = logGas(0, math.MaxInt)
	require.ErrorIs(t, err, ErrGasUintOverflow)
}

func TestAllButOne64th(t *testing.T) {
	require.Equal(t, uint64(63), AllButOne64th(64))
	require.Equal(t, uint64(0), AllButOne64th(0))
	require.Equal(t, uint64(63_000), AllButOne64th(64_000))
}
