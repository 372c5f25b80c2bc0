package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/mmynk/tnerp/internal/app"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
)

// migrateCmd applies the schema migrations and runs the after_migrate hooks.
type migrateCmd struct {
	opts      *Options
	skipHooks bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply schema migrations and run after_migrate hooks" }
func (*migrateCmd) Usage() string {
	return `tnerpctl migrate [-skip-hooks]

  Applies pending schema migrations, then runs the data patches and the
  chart of accounts import for every company.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.skipHooks, "skip-hooks", false, "Only migrate the schema")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.opts.withApp(ctx, func(ctx context.Context, a *app.App) error {
		version, dirty, err := sqlite.SchemaVersion(a.Config.DBPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.opts.out(), "Schema at version %d", version)
		if dirty {
			fmt.Fprint(c.opts.out(), " (dirty)")
		}
		fmt.Fprintln(c.opts.out())

		if c.skipHooks {
			return nil
		}
		if err := a.Migrate(ctx); err != nil {
			return fmt.Errorf("after_migrate: %w", err)
		}
		fmt.Fprintln(c.opts.out(), "after_migrate hooks completed")
		return nil
	})
}
