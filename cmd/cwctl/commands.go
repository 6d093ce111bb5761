package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"cryptowatch/internal/app/provider"
	"cryptowatch/internal/infrastructure/configloader"
	"cryptowatch/internal/infrastructure/render"
	"cryptowatch/internal/pkg/logger"
	"cryptowatch/internal/pkg/utils"

	"github.com/google/subcommands"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// Commands are the wallet mutation commands.
var Commands = []subcommands.Command{
	&addAddressesCmd{},
	&addBalanceCmd{},
	&removeAddressesCmd{},
	&removeBalanceCmd{},
	&removeCoinCmd{},
	&deleteWalletCmd{},
}

// openServices loads the configuration and wires the application.
func openServices() (*provider.Services, func(), error) {
	p := *configPath
	if p == "" {
		p = utils.GetEnv("CRYPTOWATCH_CONFIG", "config/config.yml")
	}
	cfg, err := configloader.Load(p)
	if err != nil {
		return nil, nil, err
	}
	zl := logger.NewConsole(*logLevel)
	svc, err := provider.NewServices(cfg, zl)
	if err != nil {
		_ = zl.Sync()
		return nil, nil, err
	}
	closeFn := func() {
		svc.Close()
		_ = zl.Sync()
	}
	return svc, closeFn, nil
}

// withServices runs fn against a wired application and maps its error onto an exit status.
func withServices(fn func(svc *provider.Services) error) subcommands.ExitStatus {
	svc, closeFn, err := openServices()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := fn(svc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// coinArgs checks that at least n positional arguments are present.
func coinArgs(f *flag.FlagSet, n int) ([]string, bool) {
	if f.NArg() < n {
		fmt.Fprintf(os.Stderr, "expected at least %d argument(s), got %d\n", n, f.NArg())
		return nil, false
	}
	return f.Args(), true
}

type reportCmd struct {
	asJSON bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "look up every tracked coin and print the portfolio" }
func (*reportCmd) Usage() string {
	return `cwctl report [-json]

  Looks up the balances of every watched address, adds the manual balances and
  values each coin in USD and BTC. Coins without a known price show N/A.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Print the report as JSON instead of a table.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(func(svc *provider.Services) error {
		report := svc.Reconciler.BuildReport(ctx, svc.Wallet.Snapshot())
		if c.asJSON {
			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		return render.Table(os.Stdout, report)
	})
}

type chainsCmd struct{}

func (*chainsCmd) Name() string             { return "chains" }
func (*chainsCmd) Synopsis() string         { return "list the coins whose addresses can be looked up" }
func (*chainsCmd) Usage() string            { return "cwctl chains\n" }
func (*chainsCmd) SetFlags(_ *flag.FlagSet) {}

func (*chainsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(func(svc *provider.Services) error {
		for _, def := range svc.Chains.All() {
			fmt.Printf("%-6s %-20s %s\n", def.Symbol, def.Name, def.Family)
		}
		return nil
	})
}

type addAddressesCmd struct{}

func (*addAddressesCmd) Name() string             { return "add-addresses" }
func (*addAddressesCmd) Synopsis() string         { return "watch one or more addresses of a coin" }
func (*addAddressesCmd) Usage() string            { return "cwctl add-addresses <COIN> <address>...\n" }
func (*addAddressesCmd) SetFlags(_ *flag.FlagSet) {}

func (*addAddressesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args, ok := coinArgs(f, 2)
	if !ok {
		return subcommands.ExitUsageError
	}
	return withServices(func(svc *provider.Services) error {
		return svc.Wallet.AddAddresses(args[0], args[1:])
	})
}

type addBalanceCmd struct{}

func (*addBalanceCmd) Name() string     { return "add-balance" }
func (*addBalanceCmd) Synopsis() string { return "add to the manually entered balance of a coin" }
func (*addBalanceCmd) Usage() string {
	return `cwctl add-balance <COIN> <amount>

  The amount is added to the existing manual balance. Use "--" before a
  negative amount: cwctl add-balance -- BTC -0.5
`
}
func (*addBalanceCmd) SetFlags(_ *flag.FlagSet) {}

func (*addBalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args, ok := coinArgs(f, 2)
	if !ok {
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(args[1]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid amount %q: %v\n", args[1], err)
		return subcommands.ExitUsageError
	}
	return withServices(func(svc *provider.Services) error {
		return svc.Wallet.AddManualBalance(args[0], amount)
	})
}

type removeAddressesCmd struct{}

func (*removeAddressesCmd) Name() string             { return "remove-addresses" }
func (*removeAddressesCmd) Synopsis() string         { return "stop watching addresses of a coin" }
func (*removeAddressesCmd) Usage() string            { return "cwctl remove-addresses <COIN> <address>...\n" }
func (*removeAddressesCmd) SetFlags(_ *flag.FlagSet) {}

func (*removeAddressesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args, ok := coinArgs(f, 2)
	if !ok {
		return subcommands.ExitUsageError
	}
	return withServices(func(svc *provider.Services) error {
		return svc.Wallet.RemoveAddresses(args[0], args[1:])
	})
}

type removeBalanceCmd struct{}

func (*removeBalanceCmd) Name() string             { return "remove-balance" }
func (*removeBalanceCmd) Synopsis() string         { return "reset the manual balance of a coin to zero" }
func (*removeBalanceCmd) Usage() string            { return "cwctl remove-balance <COIN>\n" }
func (*removeBalanceCmd) SetFlags(_ *flag.FlagSet) {}

func (*removeBalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args, ok := coinArgs(f, 1)
	if !ok {
		return subcommands.ExitUsageError
	}
	return withServices(func(svc *provider.Services) error {
		return svc.Wallet.RemoveManualBalance(args[0])
	})
}

type removeCoinCmd struct{}

func (*removeCoinCmd) Name() string             { return "remove-coin" }
func (*removeCoinCmd) Synopsis() string         { return "stop tracking a coin" }
func (*removeCoinCmd) Usage() string            { return "cwctl remove-coin <COIN>\n" }
func (*removeCoinCmd) SetFlags(_ *flag.FlagSet) {}

func (*removeCoinCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args, ok := coinArgs(f, 1)
	if !ok {
		return subcommands.ExitUsageError
	}
	return withServices(func(svc *provider.Services) error {
		return svc.Wallet.RemoveCoin(args[0])
	})
}

type deleteWalletCmd struct {
	yes bool
}

func (*deleteWalletCmd) Name() string     { return "delete-wallet" }
func (*deleteWalletCmd) Synopsis() string { return "forget every tracked coin and delete the wallet file" }
func (*deleteWalletCmd) Usage() string    { return "cwctl delete-wallet -yes\n" }

func (c *deleteWalletCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion.")
}

func (c *deleteWalletCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "refusing to delete the wallet without -yes")
		return subcommands.ExitUsageError
	}
	return withServices(func(svc *provider.Services) error {
		if err := svc.Wallet.DeleteWallet(); err != nil {
			return err
		}
		fmt.Printf("Wallet %s deleted.\n", svc.Store.Path())
		return nil
	})
}
