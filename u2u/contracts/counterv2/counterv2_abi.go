package counterv2

import (
	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

const CounterV2AbiStr = `[
	{"type":"function","name":"increment","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"decrement","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"incrementBy","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"CountUpdated","anonymous":false,"inputs":[{"name":"newCount","type":"uint256","indexed":false}]},
	{"type":"event","name":"DecrementedCount","anonymous":false,"inputs":[{"name":"newCount","type":"uint256","indexed":false}]}
]`

var CounterV2Abi abi.ABI

func init() {
	CounterV2Abi = nativeabi.MustParse(CounterV2AbiStr)
}
