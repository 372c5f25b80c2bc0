package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"connectrpc.com/connect"
	"github.com/google/subcommands"

	"github.com/mmynk/tnerp/internal/service"
	"github.com/mmynk/tnerp/pkg/api"
)

// distributeCmd runs the charge distributor over a JSON request file. It
// does not touch the database.
type distributeCmd struct {
	opts     *Options
	in       string
	currency string
	summary  bool
}

func (*distributeCmd) Name() string     { return "distribute" }
func (*distributeCmd) Synopsis() string { return "distribute landed cost charges from a JSON file" }
func (*distributeCmd) Usage() string {
	return `tnerpctl distribute [-in <file>] [-currency <code>] [-summary]

  Reads a distribute request ({"basis", "items", "charges"}) from a file or
  stdin and prints the distributed items and charge outcomes as JSON.
  With -summary the valuation check is rendered as markdown instead.
`
}

func (c *distributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "-", "Request file, - for stdin")
	f.StringVar(&c.currency, "currency", "", "Currency of the summary, overrides the request")
	f.BoolVar(&c.summary, "summary", false, "Print the summary as markdown")
}

func (c *distributeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data, err := c.read()
	if err != nil {
		c.opts.fail("Error reading request: %v", err)
		return subcommands.ExitUsageError
	}

	var req api.DistributeRequest
	if err := (api.JSONCodec{}).Unmarshal(data, &req); err != nil {
		c.opts.fail("Error parsing request: %v", err)
		return subcommands.ExitUsageError
	}
	if c.currency != "" {
		req.Currency = c.currency
	}

	resp, err := service.NewLandedCostService(nil, nil, req.Currency).Distribute(ctx, connect.NewRequest(&req))
	if err != nil {
		c.opts.fail("Distribution rejected: %v", err)
		return subcommands.ExitFailure
	}

	if c.summary {
		if err := c.opts.printMarkdown(summaryMarkdown(resp.Msg)); err != nil {
			c.opts.fail("Error: %v", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	enc := json.NewEncoder(c.opts.out())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp.Msg); err != nil {
		c.opts.fail("Error writing response: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *distributeCmd) read() ([]byte, error) {
	if c.in == "" || c.in == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(c.in)
}

func summaryMarkdown(resp *api.DistributeResponse) string {
	md := "# Landed cost distribution\n\n| Line | Amount | Charges |\n|---|---:|---:|\n"
	for _, it := range resp.Items {
		md += fmt.Sprintf("| %s | %s | %s |\n", it.ID, it.Amount.StringFixed(2), it.AccumulatedCharge.StringFixed(2))
	}
	md += "\n"
	for _, o := range resp.Outcomes {
		if !o.Applied {
			md += fmt.Sprintf("- Charge #%d %s: skipped, %s\n", o.Charge+1, o.Label, o.SkipReason)
		}
	}
	md += "\n"
	for _, line := range resp.Summary.Lines {
		md += "- " + line + "\n"
	}
	return md
}
