package coa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tnerp/internal/metrics"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage"
)

// DefaultCurrency applies to rows without an account currency.
const DefaultCurrency = "TND"

// Store is the subset of storage the importer needs.
type Store interface {
	ListCompanyNames(ctx context.Context) ([]string, error)
	CompanyHasGLEntries(ctx context.Context, company string) (bool, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, company, name string) (*models.Account, error)
	FindAccountByLabel(ctx context.Context, company, accountName string) (*models.Account, error)
}

// Report summarises one company import.
type Report struct {
	Company string

	Created  int
	Existing int
	// Skipped counts malformed rows.
	Skipped int
	// Failed counts rows whose parent could not be resolved or whose
	// insert failed.
	Failed int

	// SkippedCompany is set when the company already has ledger postings;
	// no row is looked at in that case.
	SkippedCompany bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithCurrency overrides the currency used for rows without one.
func WithCurrency(currency string) Option {
	return func(i *Importer) { i.currency = currency }
}

// WithMetrics records import counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Importer) { i.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

// Importer creates chart of accounts rows for companies.
type Importer struct {
	store    Store
	rows     []Row
	currency string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewImporter builds an importer over rows, which must list parents before
// children.
func NewImporter(store Store, rows []Row, opts ...Option) *Importer {
	i := &Importer{
		store:    store,
		rows:     rows,
		currency: DefaultCurrency,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.With("component", "coa")
	return i
}

// ImportForAllCompanies imports the chart into every company. A failing
// company is logged and the next one is imported.
func (i *Importer) ImportForAllCompanies(ctx context.Context) ([]Report, error) {
	companies, err := i.store.ListCompanyNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	reports := make([]Report, 0, len(companies))
	for _, company := range companies {
		rep, err := i.ImportForCompany(ctx, company)
		if err != nil {
			i.logger.ErrorContext(ctx, "chart import failed", "company", company, "error", err)
			continue
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// entry is an account already known to this run.
type entry struct {
	name     string
	rootType string
}

// ImportForCompany creates the missing chart rows for one company. Rows that
// already exist are left untouched, so running it twice creates nothing the
// second time.
func (i *Importer) ImportForCompany(ctx context.Context, company string) (Report, error) {
	rep := Report{Company: company}

	hasEntries, err := i.store.CompanyHasGLEntries(ctx, company)
	if err != nil {
		return rep, fmt.Errorf("check gl entries: %w", err)
	}
	if hasEntries {
		i.logger.InfoContext(ctx, "company has ledger postings, skipping chart import", "company", company)
		rep.SkippedCompany = true
		return rep, nil
	}

	known := make(map[string]entry, len(i.rows))
	for _, row := range i.rows {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if row.AccountName == "" {
			rep.Skipped++
			continue
		}

		fullName := row.FullName(company)
		existing, err := i.store.GetAccount(ctx, company, fullName)
		if err == nil {
			known[row.Key()] = entry{name: existing.Name, rootType: existing.RootType}
			rep.Existing++
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return rep, fmt.Errorf("look up %s: %w", fullName, err)
		}

		parent, ok := i.resolveParent(ctx, company, row, known)
		if !ok {
			i.logger.WarnContext(ctx, "parent account not found",
				"company", company, "account", fullName, "parent", row.ParentFullName(company), "line", row.Line)
			rep.Failed++
			continue
		}

		account := i.buildAccount(company, row, parent)
		err = i.store.CreateAccount(ctx, account)
		switch {
		case err == nil:
			known[row.Key()] = entry{name: account.Name, rootType: account.RootType}
			rep.Created++
		case errors.Is(err, storage.ErrDuplicate):
			// Created concurrently by another import.
			if again, gerr := i.store.GetAccount(ctx, company, fullName); gerr == nil {
				known[row.Key()] = entry{name: again.Name, rootType: again.RootType}
			}
			rep.Existing++
		default:
			i.logger.ErrorContext(ctx, "error creating account", "company", company, "account", fullName, "error", err)
			rep.Failed++
		}
	}

	i.metrics.AccountsImported(rep.Created, rep.Existing, rep.Skipped, rep.Failed)
	i.logger.InfoContext(ctx, "chart of accounts imported",
		"company", company,
		"created", rep.Created,
		"existing", rep.Existing,
		"skipped", rep.Skipped,
		"failed", rep.Failed)
	return rep, nil
}

// resolveParent finds the parent of row, first among accounts seen in this
// run, then in the store by expected name and finally by label.
func (i *Importer) resolveParent(ctx context.Context, company string, row Row, known map[string]entry) (entry, bool) {
	if row.ParentAccount == "" {
		return entry{}, true
	}
	if e, ok := known[row.ParentKey()]; ok {
		return e, true
	}

	if acc, err := i.store.GetAccount(ctx, company, row.ParentFullName(company)); err == nil {
		e := entry{name: acc.Name, rootType: acc.RootType}
		known[row.ParentKey()] = e
		return e, true
	}
	if row.ParentAccountNumber == "" {
		if acc, err := i.store.FindAccountByLabel(ctx, company, row.ParentAccount); err == nil {
			e := entry{name: acc.Name, rootType: acc.RootType}
			known[row.ParentKey()] = e
			return e, true
		}
	}
	return entry{}, false
}

func (i *Importer) buildAccount(company string, row Row, parent entry) *models.Account {
	account := &models.Account{
		Name:            row.FullName(company),
		AccountName:     row.AccountName,
		Company:         company,
		ParentAccount:   parent.name,
		AccountNumber:   row.AccountNumber,
		IsGroup:         row.IsGroup,
		RootType:        row.RootType,
		AccountType:     row.AccountType,
		AccountCurrency: row.AccountCurrency,
	}
	if row.IsRoot() {
		account.AccountName = row.Key()
		account.IsGroup = true
	}
	if account.RootType == "" {
		if row.IsRoot() {
			account.RootType = MapRootType(row.AccountName)
		} else {
			account.RootType = parent.rootType
		}
	}
	if account.AccountCurrency == "" {
		account.AccountCurrency = i.currency
	}
	return account
}
