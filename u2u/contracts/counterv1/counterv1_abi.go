package counterv1

import (
	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

const CounterV1AbiStr = `[
	{"type":"function","name":"increment","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"getCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"CountUpdated","anonymous":false,"inputs":[{"name":"newCount","type":"uint256","indexed":false}]}
]`

var CounterV1Abi abi.ABI

func init() {
	CounterV1Abi = nativeabi.MustParse(CounterV1AbiStr)
}
