package launcher

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	perrors "github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counter"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv1"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv2"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/proxy"
)

var demoCommand = cli.Command{
	Action:   demo,
	Name:     "demo",
	Usage:    "Run the proxy upgrade walkthrough on an in-memory ledger",
	Category: "CONTRACT COMMANDS",
	Description: `
Deploys a proxy and both counter versions, counts through the first version,
upgrades to the second one and keeps counting. Finally an account which isn't
the admin tries to upgrade, which falls through to the implementation and
fails there. Nothing is written to the data directory.`,
}

// demoStep is a transaction of the walkthrough.
type demoStep struct {
	name string
	from *transactor
	to   func() *common.Address
	data func() ([]byte, error)
	// fails marks steps expected to fail.
	fails bool
}

func demo(ctx *cli.Context) error {
	cfg, err := mayMakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	demoCfg := *cfg
	demoCfg.Node.DataDir = ""
	demoCfg.Node.Key = ""
	demoCfg.Node.FakeAccounts = 2

	ledger, err := makeLedger(&demoCfg)
	if err != nil {
		return err
	}
	defer ledger.Close()

	admin, err := newTransactor(&demoCfg, ledger)
	if err != nil {
		return err
	}
	stranger := &transactor{
		ledger:   ledger,
		key:      evmcore.FakeKey(2),
		gasLimit: admin.gasLimit,
		gasPrice: admin.gasPrice,
	}

	var proxyAddr, v1Addr, v2Addr common.Address
	at := func(addr *common.Address) func() *common.Address {
		return func() *common.Address { return addr }
	}
	create := func() *common.Address { return nil }
	code := func(name string) func() ([]byte, error) {
		return func() ([]byte, error) { return contracts.Code(name), nil }
	}
	method := func(name string, args ...func() string) func() ([]byte, error) {
		return func() ([]byte, error) {
			values := make([]string, len(args))
			for i, arg := range args {
				values[i] = arg()
			}
			_, data, err := packCall(name, values)
			return data, err
		}
	}
	hex := func(addr *common.Address) func() string {
		return func() string { return addr.Hex() }
	}
	literal := func(s string) func() string {
		return func() string { return s }
	}

	steps := []demoStep{
		{name: "deploy proxy", from: admin, to: create, data: code(proxy.Name)},
		{name: "deploy counterv1", from: admin, to: create, data: code(counterv1.Name)},
		{name: "deploy counterv2", from: admin, to: create, data: code(counterv2.Name)},
		{name: "upgradeTo(counterv1)", from: admin, to: at(&proxyAddr), data: method("upgradeTo", hex(&v1Addr))},
		{name: "increment()", from: admin, to: at(&proxyAddr), data: method("increment")},
		{name: "increment()", from: admin, to: at(&proxyAddr), data: method("increment")},
		{name: "increment()", from: admin, to: at(&proxyAddr), data: method("increment")},
		{name: "upgradeTo(counterv2)", from: admin, to: at(&proxyAddr), data: method("upgradeTo", hex(&v2Addr))},
		{name: "decrement()", from: admin, to: at(&proxyAddr), data: method("decrement")},
		{name: "incrementBy(5)", from: admin, to: at(&proxyAddr), data: method("incrementBy", literal("5"))},
		{name: "upgradeTo(counterv1) by non-admin", from: stranger, to: at(&proxyAddr), data: method("upgradeTo", hex(&v1Addr)), fails: true},
	}
	created := []*common.Address{&proxyAddr, &v1Addr, &v2Addr}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Step", "Status", "Count", "Implementation"})
	table.SetAutoWrapText(false)
	for i, step := range steps {
		data, err := step.data()
		if err != nil {
			return perrors.Wrapf(err, "step %q", step.name)
		}
		receipt, err := step.from.send(step.to(), new(big.Int), data)
		if receipt == nil {
			return perrors.Wrapf(err, "step %q", step.name)
		}
		failed := receipt.Status != types.ReceiptStatusSuccessful
		switch {
		case failed && !step.fails:
			return perrors.Wrapf(err, "step %q", step.name)
		case !failed && step.fails:
			return perrors.Errorf("step %q unexpectedly succeeded", step.name)
		}
		if step.to() == nil {
			*created[i] = receipt.ContractAddress
		}
		status := successColor.Sprint("success")
		if failed {
			status = failureColor.Sprint("reverted")
		}
		log.Debug("Demo step applied", "step", step.name, "tx", receipt.TxHash, "gas", receipt.GasUsed)

		implementation := common.BytesToAddress(ledger.StorageAt(proxyAddr, proxy.ImplementationSlot).Bytes())
		table.Append([]string{
			step.name,
			status,
			ledger.StorageAt(proxyAddr, counter.CountSlot).Big().String(),
			implementation.Hex(),
		})
	}
	table.Render()

	if count := ledger.StorageAt(proxyAddr, counter.CountSlot).Big(); count.Cmp(big.NewInt(7)) != 0 {
		return fmt.Errorf("unexpected final count %v", count)
	}
	return nil
}
