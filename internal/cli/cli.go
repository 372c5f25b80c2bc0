// Package cli implements the tnerpctl admin commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/mmynk/tnerp/internal/app"
	"github.com/mmynk/tnerp/internal/config"
	"github.com/mmynk/tnerp/pkg/logging"
)

// Options are the flags shared by every command.
type Options struct {
	EnvFile  string
	DBPath   string
	LogLevel string
	// Style is the glamour style for markdown output. "auto" picks one from
	// the terminal, "plain" prints the markdown as is.
	Style string

	Out    io.Writer
	ErrOut io.Writer
}

// SetFlags registers the shared flags on f.
func (o *Options) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.EnvFile, "env", ".env", "Path to an optional .env file")
	f.StringVar(&o.DBPath, "db", "", "SQLite database path, overrides DB_PATH")
	f.StringVar(&o.LogLevel, "log-level", "warn", "Log level for command diagnostics")
	f.StringVar(&o.Style, "style", "auto", "Markdown style: auto, dark, light, notty or plain")
}

// Register adds the commands to c.
func Register(c *subcommands.Commander, o *Options) {
	c.Register(&migrateCmd{opts: o}, "database")

	c.Register(&importCOACmd{opts: o}, "chart of accounts")
	c.Register(&setupCmd{opts: o}, "chart of accounts")
	c.Register(&validateCmd{opts: o}, "chart of accounts")

	c.Register(&distributeCmd{opts: o}, "landed cost")
}

func (o *Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o *Options) errOut() io.Writer {
	if o.ErrOut == nil {
		return os.Stderr
	}
	return o.ErrOut
}

func (o *Options) logger() *slog.Logger {
	return slog.New(logging.NewHandler(o.errOut(), logging.ParseLevel(o.LogLevel), "text"))
}

// config loads the environment, applying the flag overrides.
func (o *Options) config() (*config.Config, error) {
	cfg := config.Load(o.EnvFile)
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp wires the application over the configured database. The caller
// closes it.
func (o *Options) openApp() (*app.App, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, o.logger())
}

// withApp runs fn over a freshly opened app and maps failures to an exit status.
func (o *Options) withApp(ctx context.Context, fn func(context.Context, *app.App) error) subcommands.ExitStatus {
	a, err := o.openApp()
	if err != nil {
		o.fail("Error opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Install(ctx); err != nil {
		o.fail("Error running install hooks: %v", err)
	}
	if err := fn(ctx, a); err != nil {
		o.fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (o *Options) fail(format string, args ...any) {
	fmt.Fprintf(o.errOut(), format+"\n", args...)
}

// printMarkdown renders md for the terminal with glamour.
func (o *Options) printMarkdown(md string) error {
	if o.Style == "plain" {
		_, err := io.WriteString(o.out(), md)
		return err
	}

	style := glamour.WithAutoStyle()
	if o.Style != "" && o.Style != "auto" {
		style = glamour.WithStandardStyle(o.Style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(o.out(), out)
	return err
}
