package proxy

import (
	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

// ProxyAbiStr is the ABI of the delegation proxy. Everything not listed here
// is delegated to the implementation.
const ProxyAbiStr = `[
	{"type":"constructor","stateMutability":"payable","inputs":[]},
	{"type":"function","name":"upgradeTo","stateMutability":"payable","inputs":[{"name":"newImplementation","type":"address"}],"outputs":[]},
	{"type":"function","name":"changeAdmin","stateMutability":"payable","inputs":[{"name":"newAdmin","type":"address"}],"outputs":[]},
	{"type":"event","name":"Upgraded","anonymous":false,"inputs":[{"name":"implementation","type":"address","indexed":true}]},
	{"type":"event","name":"AdminChanged","anonymous":false,"inputs":[{"name":"previousAdmin","type":"address","indexed":false},{"name":"newAdmin","type":"address","indexed":false}]},
	{"type":"fallback","stateMutability":"payable"},
	{"type":"receive","stateMutability":"payable"}
]`

var ProxyAbi abi.ABI

func init() {
	ProxyAbi = nativeabi.MustParse(ProxyAbiStr)
}
