package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
	"github.com/mmynk/tnerp/pkg/api"
)

const company = "Sfax Trading"

// newOptions seeds a database with one company and returns options writing
// plain markdown into buffers.
func newOptions(t *testing.T) (*Options, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")

	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateCompany(ctx, &models.Company{Name: company}))
	require.NoError(t, store.CreateWarehouse(ctx, &models.Warehouse{Name: "Stores - ST", Company: company}))
	require.NoError(t, store.Close())

	out := &bytes.Buffer{}
	return &Options{
		EnvFile:  filepath.Join(dir, "missing.env"),
		DBPath:   dbPath,
		LogLevel: "error",
		Style:    "plain",
		Out:      out,
		ErrOut:   &bytes.Buffer{},
	}, out
}

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

func TestMigrate(t *testing.T) {
	opts, out := newOptions(t)

	status := execute(t, &migrateCmd{opts: opts})
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "Schema at version")
	assert.Contains(t, out.String(), "after_migrate hooks completed")

	store, err := sqlite.New(opts.DBPath)
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.AccountExists(context.Background(), company, "37 - Stocks de marchandises - Sfax Trading")
	require.NoError(t, err)
	assert.True(t, ok, "after_migrate imports the chart")

	applied, err := store.PatchApplied(context.Background(), "v0_1.delete_integrations_workspace")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestImportCOA(t *testing.T) {
	opts, out := newOptions(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &importCOACmd{opts: opts}, "-company", company))
	assert.Contains(t, out.String(), "Sfax Trading:")
	assert.Contains(t, out.String(), "0 failed")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &importCOACmd{opts: opts}))
	assert.Contains(t, out.String(), "0 created")
}

func TestValidateAndSetup(t *testing.T) {
	opts, out := newOptions(t)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &validateCmd{opts: opts}, "-company", company))
	assert.Contains(t, out.String(), "Perpetual Inventory: Disabled (CRITICAL)")
	assert.Contains(t, out.String(), "_Issues found in configuration_")

	assert.Equal(t, subcommands.ExitFailure, execute(t, &validateCmd{opts: opts}, "-company", company, "-strict"))

	require.Equal(t, subcommands.ExitSuccess, execute(t, &importCOACmd{opts: opts}, "-company", company))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &setupCmd{opts: opts}, "-company", company))
	assert.Contains(t, out.String(), "Complete Tunisia configuration finished successfully")
	assert.NotContains(t, out.String(), "Failed steps")

	out.Reset()
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &validateCmd{opts: opts}, "-company", company, "-strict"))
	assert.Contains(t, out.String(), "All configurations are in place")
}

func TestSetupAll(t *testing.T) {
	opts, out := newOptions(t)
	require.Equal(t, subcommands.ExitSuccess, execute(t, &setupCmd{opts: opts}, "-all"))
	assert.Contains(t, out.String(), "every company")

	out.Reset()
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &validateCmd{opts: opts}, "-company", company, "-strict"))
}

func TestSetupNoCompany(t *testing.T) {
	opts, _ := newOptions(t)
	t.Setenv("DEFAULT_COMPANY", "")
	assert.Equal(t, subcommands.ExitFailure, execute(t, &setupCmd{opts: opts}))
}

func TestDistribute(t *testing.T) {
	opts, out := newOptions(t)

	req := `{
		"basis": "Amount",
		"items": [
			{"id": "a", "quantity": "1", "amount": "100"},
			{"id": "b", "quantity": "3", "amount": "300"}
		],
		"charges": [
			{"label": "Freight", "amount": "40"},
			{"label": "Customs", "amount": "12", "grouped": true, "group_code": "0901"}
		]
	}`
	in := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(in, []byte(req), 0o644))

	require.Equal(t, subcommands.ExitSuccess, execute(t, &distributeCmd{opts: opts}, "-in", in))

	var resp api.DistributeResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].AccumulatedCharge.Equal(decimal.NewFromInt(10)), resp.Items[0].AccumulatedCharge.String())
	assert.True(t, resp.Items[1].AccumulatedCharge.Equal(decimal.NewFromInt(30)), resp.Items[1].AccumulatedCharge.String())

	require.Len(t, resp.Outcomes, 2)
	assert.True(t, resp.Outcomes[0].Applied)
	assert.False(t, resp.Outcomes[1].Applied)
	assert.NotEmpty(t, resp.Outcomes[1].SkipReason)

	t.Run("summary", func(t *testing.T) {
		out.Reset()
		require.Equal(t, subcommands.ExitSuccess, execute(t, &distributeCmd{opts: opts}, "-in", in, "-summary", "-currency", "TND"))
		assert.Contains(t, out.String(), "| a | 100.00 | 10.00 |")
		assert.Contains(t, out.String(), "Charge #2 Customs: skipped")
	})

	t.Run("rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"basis": "Weight", "items": [], "charges": []}`), 0o644))
		assert.Equal(t, subcommands.ExitFailure, execute(t, &distributeCmd{opts: opts}, "-in", bad))
	})

	t.Run("malformed", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
		assert.Equal(t, subcommands.ExitUsageError, execute(t, &distributeCmd{opts: opts}, "-in", bad))
	})
}

func TestPrintMarkdownStyled(t *testing.T) {
	out := &bytes.Buffer{}
	opts := &Options{Style: "notty", Out: out}
	require.NoError(t, opts.printMarkdown("# Report\n\n- Sfax Trading\n"))
	assert.Contains(t, out.String(), "Sfax Trading")
}
