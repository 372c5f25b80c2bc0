package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/tnerp/internal/app"
	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/setup"
)

// importCOACmd imports the bundled Tunisian chart of accounts.
type importCOACmd struct {
	opts    *Options
	company string
}

func (*importCOACmd) Name() string     { return "import-coa" }
func (*importCOACmd) Synopsis() string { return "import the Tunisian chart of accounts" }
func (*importCOACmd) Usage() string {
	return `tnerpctl import-coa [-company <name>]

  Imports the bundled chart for one company, or for every company when none
  is given. Existing accounts are kept; companies with ledger postings are
  skipped.
`
}

func (c *importCOACmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "Company to import into. All companies when empty.")
}

func (c *importCOACmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.opts.withApp(ctx, func(ctx context.Context, a *app.App) error {
		var reports []coa.Report
		if c.company == "" {
			all, err := a.Importer.ImportForAllCompanies(ctx)
			if err != nil {
				return err
			}
			reports = all
		} else {
			rep, err := a.Importer.ImportForCompany(ctx, c.company)
			if err != nil {
				return err
			}
			reports = []coa.Report{rep}
		}

		failed := 0
		for _, r := range reports {
			if r.SkippedCompany {
				fmt.Fprintf(c.opts.out(), "%s: skipped, company has ledger entries\n", r.Company)
				continue
			}
			fmt.Fprintf(c.opts.out(), "%s: %d created, %d existing, %d skipped, %d failed\n",
				r.Company, r.Created, r.Existing, r.Skipped, r.Failed)
			failed += r.Failed
		}
		if failed > 0 {
			return fmt.Errorf("%d rows failed to import", failed)
		}
		return nil
	})
}

// setupCmd runs the complete company configuration.
type setupCmd struct {
	opts    *Options
	company string
	fix     bool
	all     bool
}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "configure a company for the Tunisian chart" }
func (*setupCmd) Usage() string {
	return `tnerpctl setup [-company <name>] [-fix-warehouses] [-all]

  Configures company defaults, tax templates, payment modes, cost centers,
  item defaults and warehouse links, then prints the validation report.
  With -fix-warehouses only the stock accounting defaults are repaired.
  With -all every company gets the chart import and setup steps.
`
}

func (c *setupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "Company to configure. Defaults to DEFAULT_COMPANY.")
	f.BoolVar(&c.fix, "fix-warehouses", false, "Only repair warehouse accounts")
	f.BoolVar(&c.all, "all", false, "Import and configure every company")
}

func (c *setupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.opts.withApp(ctx, func(ctx context.Context, a *app.App) error {
		switch {
		case c.all:
			if err := a.Setup.AutoSetupAll(ctx, a.Store); err != nil {
				return err
			}
			fmt.Fprintln(c.opts.out(), "Setup finished for every company, see the log for failed steps")
			return nil
		case c.fix:
			return c.opts.printResult(a.Setup.FixWarehouseAccounts(ctx, c.company))
		}
		return c.opts.printResult(a.Setup.SetupComplete(ctx, c.company))
	})
}

// validateCmd prints the validation report of a company.
type validateCmd struct {
	opts    *Options
	company string
	strict  bool
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "print the configuration report of a company" }
func (*validateCmd) Usage() string {
	return `tnerpctl validate [-company <name>] [-strict]

  Checks perpetual inventory, default accounts, tax templates and warehouse
  links and renders the report as markdown.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "Company to validate. Defaults to DEFAULT_COMPANY.")
	f.BoolVar(&c.strict, "strict", false, "Exit with failure when issues are found")
}

func (c *validateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.opts.withApp(ctx, func(ctx context.Context, a *app.App) error {
		res := a.Setup.QuickValidate(ctx, c.company)
		if err := c.opts.printResult(res); err != nil {
			return err
		}
		if c.strict && res.HasIssues {
			return fmt.Errorf("%d configuration issues", len(res.Report.Issues))
		}
		return nil
	})
}

// printResult renders a setup result: the report when there is one, the
// failed steps, then the message.
func (o *Options) printResult(res setup.Result) error {
	var b strings.Builder
	if res.Report != nil {
		b.WriteString(res.Report.Markdown())
		b.WriteString("\n")
	}
	var failed []string
	for _, st := range res.Steps {
		if st.Err != nil {
			failed = append(failed, fmt.Sprintf("- %s: %v", st.Name, st.Err))
		}
	}
	if len(failed) > 0 {
		b.WriteString("## Failed steps\n\n")
		b.WriteString(strings.Join(failed, "\n"))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "_%s_\n", res.Message)

	if err := o.printMarkdown(b.String()); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}
