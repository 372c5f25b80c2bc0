package coa

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
)

func newStore(t *testing.T, companies ...string) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "coa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, c := range companies {
		require.NoError(t, store.CreateCompany(context.Background(), &models.Company{Name: c}))
	}
	return store
}

func TestParseCSV(t *testing.T) {
	in := "Root Type,Account Name,Is Group,Parent Account,Account Number\n" +
		"Asset,CLASSE 5 - COMPTES FINANCIERS,1,,\n" +
		",Caisse,1,CLASSE 5 - COMPTES FINANCIERS,54\n" +
		",,0,,\n"
	rows, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Asset", rows[0].RootType)
	assert.True(t, rows[0].IsGroup)
	assert.Equal(t, "54", rows[1].AccountNumber)
	assert.Equal(t, "", rows[1].AccountCurrency)
	assert.Equal(t, 4, rows[2].Line)

	_, err = ParseCSV(strings.NewReader("Name,Parent\nx,y\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ParseCSV(strings.NewReader("Account Name,Is Group\nx,yes\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestBundledRows(t *testing.T) {
	rows, err := BundledRows()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.True(t, rows[0].IsRoot())

	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if p := r.ParentKey(); p != "" {
			assert.True(t, seen[p], "line %d: parent %q listed after child", r.Line, p)
		}
		assert.False(t, seen[r.Key()], "line %d: duplicate key %q", r.Line, r.Key())
		seen[r.Key()] = true
	}
}

func TestNaming(t *testing.T) {
	root := Row{AccountName: "CLASSE 5 - COMPTES FINANCIERS"}
	leaf := Row{AccountName: "Caisse en dinars", AccountNumber: "5411", ParentAccount: "Caisses", ParentAccountNumber: "541"}
	child := Row{AccountName: "Caisse", AccountNumber: "54", ParentAccount: "CLASSE 5 - COMPTES FINANCIERS"}

	assert.Equal(t, "CLASSE 5 - COMPTES FINANCIERS", root.FullName("Sfax Trading"))
	assert.Equal(t, "5411 - Caisse en dinars - Sfax Trading", leaf.FullName("Sfax Trading"))
	assert.Equal(t, "541 - Caisses - Sfax Trading", leaf.ParentFullName("Sfax Trading"))
	assert.Equal(t, "CLASSE 5 - COMPTES FINANCIERS", child.ParentFullName("Sfax Trading"))
	assert.Equal(t, "", root.ParentFullName("Sfax Trading"))
}

func TestMapRootType(t *testing.T) {
	tests := map[string]string{
		"CLASSE 1 - COMPTES DE CAPITAUX PROPRES ET PASSIFS NON COURANTS": "Equity",
		"CLASSE 2 - COMPTES D'ACTIFS NON COURANTS":                       "Asset",
		"PASSIFS COURANTS":                                               "Liability",
		"CLASSE 6 - COMPTES DE CHARGES":                                  "Expense",
		"CLASSE 7 - COMPTES DE PRODUITS":                                 "Income",
		"CLASSE 5 - COMPTES FINANCIERS":                                  "Asset",
	}
	for label, want := range tests {
		assert.Equal(t, want, MapRootType(label), label)
	}
}

func TestImportForCompany(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Sfax Trading")
	rows, err := BundledRows()
	require.NoError(t, err)
	imp := NewImporter(store, rows)

	rep, err := imp.ImportForCompany(ctx, "Sfax Trading")
	require.NoError(t, err)
	assert.Equal(t, len(rows), rep.Created)
	assert.Zero(t, rep.Failed)
	assert.False(t, rep.SkippedCompany)

	cash, err := store.GetAccount(ctx, "Sfax Trading", "5411 - Caisse en dinars - Sfax Trading")
	require.NoError(t, err)
	assert.Equal(t, "541 - Caisses - Sfax Trading", cash.ParentAccount)
	assert.Equal(t, "Cash", cash.AccountType)
	assert.Equal(t, "Asset", cash.RootType, "root type is inherited from the class")
	assert.Equal(t, "TND", cash.AccountCurrency)
	assert.Equal(t, "Caisse en dinars", cash.AccountName)

	root, err := store.GetAccount(ctx, "Sfax Trading", "CLASSE 6 - COMPTES DE CHARGES")
	require.NoError(t, err)
	assert.True(t, root.IsGroup)
	assert.Equal(t, "Expense", root.RootType)
	assert.Empty(t, root.ParentAccount)

	duty, err := store.GetAccount(ctx, "Sfax Trading", "6091 - Droits de douane NGP - Sfax Trading")
	require.NoError(t, err)
	assert.Equal(t, "Expense", duty.RootType)

	// Same label, different numbers.
	payable, err := store.GetAccount(ctx, "Sfax Trading", "4011 - Fournisseurs - achats de biens ou de prestations de services - Sfax Trading")
	require.NoError(t, err)
	assert.Equal(t, "401 - Fournisseurs d'exploitation - Sfax Trading", payable.ParentAccount)
	srbnb, err := store.GetAccount(ctx, "Sfax Trading", "4081 - Fournisseurs d'exploitation - Sfax Trading")
	require.NoError(t, err)
	assert.Equal(t, "408 - Fournisseurs - factures non parvenues - Sfax Trading", srbnb.ParentAccount)

	t.Run("second run is a no-op", func(t *testing.T) {
		again, err := imp.ImportForCompany(ctx, "Sfax Trading")
		require.NoError(t, err)
		assert.Zero(t, again.Created)
		assert.Equal(t, len(rows), again.Existing)

		accounts, err := store.ListAccounts(ctx, "Sfax Trading")
		require.NoError(t, err)
		assert.Len(t, accounts, len(rows))
	})
}

func TestImportSkipsCompanyWithPostings(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Posted")
	require.NoError(t, store.CreateGLEntry(ctx, &models.GLEntry{Company: "Posted", Account: "x", Debit: decimal.NewFromInt(1)}))

	rows, err := BundledRows()
	require.NoError(t, err)
	rep, err := NewImporter(store, rows).ImportForCompany(ctx, "Posted")
	require.NoError(t, err)
	assert.True(t, rep.SkippedCompany)
	assert.Zero(t, rep.Created)

	accounts, err := store.ListAccounts(ctx, "Posted")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestImportMissingParentAndMalformedRows(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Co")
	rows := []Row{
		{Line: 2, AccountName: "CLASSE 5 - COMPTES FINANCIERS", IsGroup: true},
		{Line: 3, AccountName: "Orphan", AccountNumber: "999", ParentAccount: "Ghost", ParentAccountNumber: "99"},
		{Line: 4},
		{Line: 5, AccountName: "Caisse", AccountNumber: "54", ParentAccount: "CLASSE 5 - COMPTES FINANCIERS", IsGroup: true, AccountCurrency: "EUR"},
	}

	rep, err := NewImporter(store, rows, WithCurrency("USD")).ImportForCompany(ctx, "Co")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Created)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.Skipped)

	root, err := store.GetAccount(ctx, "Co", "CLASSE 5 - COMPTES FINANCIERS")
	require.NoError(t, err)
	assert.Equal(t, "USD", root.AccountCurrency)
	caisse, err := store.GetAccount(ctx, "Co", "54 - Caisse - Co")
	require.NoError(t, err)
	assert.Equal(t, "EUR", caisse.AccountCurrency)
}

func TestImportForAllCompanies(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Alpha", "Beta")
	rows, err := BundledRows()
	require.NoError(t, err)

	reports, err := NewImporter(store, rows).ImportForAllCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, rep := range reports {
		assert.Equal(t, len(rows), rep.Created, rep.Company)
	}

	// Root classes are per company even though their names carry no suffix.
	ok, err := store.AccountExists(ctx, "Beta", "CLASSE 1 - COMPTES DE CAPITAUX PROPRES ET PASSIFS NON COURANTS")
	require.NoError(t, err)
	assert.True(t, ok)
}
