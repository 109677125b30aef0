package launcher

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	perrors "github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/evmcore"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counter"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/proxy"
	"github.com/unicornultrafoundation/go-u2u-proxy/utils"
)

var (
	deployCommand = cli.Command{
		Action:    withLedger(deploy),
		Name:      "deploy",
		Usage:     "Deploy a native contract",
		ArgsUsage: "<proxy|counterv1|counterv2>",
		Category:  "CONTRACT COMMANDS",
		Flags:     []cli.Flag{ValueFlag},
		Description: `
Deploys a new instance of the named native contract. A deployed proxy is
administered by the sender and has no implementation yet.`,
	}
	upgradeCommand = cli.Command{
		Action:    withLedger(upgrade),
		Name:      "upgrade",
		Usage:     "Point a proxy at a new implementation",
		ArgsUsage: "<proxy> <implementation>",
		Category:  "CONTRACT COMMANDS",
	}
	changeAdminCommand = cli.Command{
		Action:    withLedger(changeAdmin),
		Name:      "changeadmin",
		Usage:     "Hand the administration of a proxy over",
		ArgsUsage: "<proxy> <admin>",
		Category:  "CONTRACT COMMANDS",
	}
	sendCommand = cli.Command{
		Action:    withLedger(send),
		Name:      "send",
		Usage:     "Send a transaction calling a contract method",
		ArgsUsage: "<address> <method> [args...]",
		Category:  "CONTRACT COMMANDS",
		Flags:     []cli.Flag{ValueFlag},
	}
	callCommand = cli.Command{
		Action:    withLedger(call),
		Name:      "call",
		Usage:     "Simulate a contract method call without sealing it",
		ArgsUsage: "<address> <method> [args...]",
		Category:  "CONTRACT COMMANDS",
		Flags:     []cli.Flag{ValueFlag},
	}
	inspectCommand = cli.Command{
		Action:    withLedger(inspect),
		Name:      "inspect",
		Usage:     "Show the code and storage of a contract",
		ArgsUsage: "<address>",
		Category:  "CONTRACT COMMANDS",
	}
)

// session is the state shared by the contract commands.
type session struct {
	cfg    *config
	ledger *evmcore.Ledger
	tx     *transactor
	out    io.Writer
}

// withLedger opens the ledger around a contract command.
func withLedger(fn func(*cli.Context, *session) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		cfg, err := mayMakeAllConfigs(ctx)
		if err != nil {
			return err
		}
		ledger, err := makeLedger(cfg)
		if err != nil {
			return err
		}
		defer ledger.Close()

		tx, err := newTransactor(cfg, ledger)
		if err != nil {
			return err
		}
		return fn(ctx, &session{
			cfg:    cfg,
			ledger: ledger,
			tx:     tx,
			out:    ctx.App.Writer,
		})
	}
}

func parseValue(ctx *cli.Context) (*big.Int, error) {
	v, ok := math.ParseBig256(ctx.String(ValueFlag.Name))
	if !ok || v.Sign() < 0 {
		return nil, perrors.Errorf("invalid value %q", ctx.String(ValueFlag.Name))
	}
	return v, nil
}

func deploy(ctx *cli.Context, s *session) error {
	if ctx.NArg() != 1 {
		return perrors.Errorf("expected a contract name, one of %s", strings.Join(s.ledger.Natives().Names(), ", "))
	}
	name := ctx.Args().First()
	if _, ok := s.ledger.Natives().Get(name); !ok {
		return perrors.Errorf("unknown contract %q, expected one of %s", name, strings.Join(s.ledger.Natives().Names(), ", "))
	}
	value, err := parseValue(ctx)
	if err != nil {
		return err
	}
	receipt, err := s.tx.send(nil, value, contracts.Code(name))
	return s.report(receipt, err)
}

func upgrade(ctx *cli.Context, s *session) error {
	return s.adminCall(ctx, "upgradeTo")
}

func changeAdmin(ctx *cli.Context, s *session) error {
	return s.adminCall(ctx, "changeAdmin")
}

func (s *session) adminCall(ctx *cli.Context, method string) error {
	if ctx.NArg() != 2 {
		return perrors.Errorf("expected 2 arguments, got %d", ctx.NArg())
	}
	to, err := parseAddress(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	_, data, err := packCall(method, ctx.Args()[1:])
	if err != nil {
		return err
	}
	receipt, err := s.tx.send(&to, nil, data)
	return s.report(receipt, err)
}

func send(ctx *cli.Context, s *session) error {
	to, data, err := contractCall(ctx)
	if err != nil {
		return err
	}
	value, err := parseValue(ctx)
	if err != nil {
		return err
	}
	receipt, err := s.tx.send(&to, value, data)
	return s.report(receipt, err)
}

func call(ctx *cli.Context, s *session) error {
	to, data, err := contractCall(ctx)
	if err != nil {
		return err
	}
	value, err := parseValue(ctx)
	if err != nil {
		return err
	}
	method, err := lookupMethod(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	res, err := s.ledger.Call(evmcore.CallMsg{
		From:  s.tx.from(),
		To:    &to,
		Gas:   s.cfg.Node.GasLimit,
		Value: value,
		Data:  data,
	}, false)
	if err != nil {
		return err
	}
	if err := res.AsError(); err != nil {
		return err
	}
	values, err := method.Outputs.Unpack(res.Return())
	if err != nil {
		return perrors.Wrapf(err, "failed to decode %s output %x", method.Sig, res.Return())
	}
	for i, v := range values {
		fmt.Fprintf(s.out, "%s: %v\n", outputName(method.Outputs[i].Name, i), v)
	}
	if len(values) == 0 {
		fmt.Fprintf(s.out, "ok (gas used %d)\n", res.UsedGas)
	}
	return nil
}

func outputName(name string, i int) string {
	if name == "" {
		return fmt.Sprintf("output%d", i)
	}
	return name
}

func contractCall(ctx *cli.Context) (common.Address, []byte, error) {
	if ctx.NArg() < 2 {
		return common.Address{}, nil, perrors.New("expected an address and a method")
	}
	to, err := parseAddress(ctx.Args().Get(0))
	if err != nil {
		return common.Address{}, nil, err
	}
	_, data, err := packCall(ctx.Args().Get(1), ctx.Args()[2:])
	return to, data, err
}

func inspect(ctx *cli.Context, s *session) error {
	if ctx.NArg() != 1 {
		return perrors.New("expected an address")
	}
	addr, err := parseAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	rows := [][]string{
		{"address", addr.Hex()},
		{"balance", utils.FormatU2U(s.ledger.BalanceAt(addr))},
		{"nonce", fmt.Sprint(s.ledger.NonceAt(addr))},
	}
	code := s.ledger.CodeAt(addr)
	name, _, ok := vm.ParseNativeCode(code)
	switch {
	case len(code) == 0:
		rows = append(rows, []string{"code", "none"})
	case !ok:
		rows = append(rows, []string{"code", fmt.Sprintf("%x", code)})
	default:
		rows = append(rows, []string{"code", name})
	}
	if name == proxy.Name {
		implementation := common.BytesToAddress(s.ledger.StorageAt(addr, proxy.ImplementationSlot).Bytes())
		admin := common.BytesToAddress(s.ledger.StorageAt(addr, proxy.AdminSlot).Bytes())
		rows = append(rows,
			[]string{"admin", admin.Hex()},
			[]string{"implementation", implementation.Hex() + s.describeCode(implementation)},
		)
	}
	count := s.ledger.StorageAt(addr, counter.CountSlot).Big()
	rows = append(rows, []string{"count", count.String()})

	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func (s *session) describeCode(addr common.Address) string {
	if addr == (common.Address{}) {
		return ""
	}
	if name, _, ok := vm.ParseNativeCode(s.ledger.CodeAt(addr)); ok {
		return " (" + name + ")"
	}
	return " (no native code)"
}

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
)

// report prints a receipt and the execution failure that came with it.
func (s *session) report(receipt *types.Receipt, err error) error {
	var execErr *evmcore.ExecutionError
	if err != nil && !errors.As(err, &execErr) {
		return err
	}
	status := successColor.Sprint("success")
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = failureColor.Sprint("failed")
	}
	rows := [][]string{
		{"transaction", receipt.TxHash.Hex()},
		{"block", receipt.BlockNumber.String()},
		{"status", status},
		{"gas used", fmt.Sprint(receipt.GasUsed)},
	}
	if receipt.ContractAddress != (common.Address{}) {
		rows = append(rows, []string{"contract", receipt.ContractAddress.Hex()})
	}
	for i, lg := range receipt.Logs {
		rows = append(rows, []string{fmt.Sprintf("log %d", i), describeLog(lg)})
	}
	if execErr != nil {
		rows = append(rows, []string{"error", execErr.Error()})
	}
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	if execErr != nil {
		return perrors.Wrap(execErr, "transaction failed")
	}
	return nil
}
