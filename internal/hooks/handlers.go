package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/metrics"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/patches"
	"github.com/mmynk/tnerp/internal/setup"
	"github.com/mmynk/tnerp/internal/storage"
	"github.com/mmynk/tnerp/internal/visits"
)

// Store is the storage the shipped handlers read and write.
type Store interface {
	storage.CompanyStore
	storage.ItemStore
	storage.SalesStore
}

// Handlers holds the dependencies of the shipped hook handlers.
type Handlers struct {
	store    Store
	setup    *setup.Service
	importer *coa.Importer
	patches  *patches.Runner
	metrics  *metrics.Metrics
	logger   *slog.Logger

	defaultCurrency string
	now             func() time.Time

	dispatcher *Dispatcher
}

// Config lists the optional collaborators of the shipped handlers. Nil
// collaborators disable the handlers that need them.
type Config struct {
	Setup           *setup.Service
	Importer        *coa.Importer
	Patches         *patches.Runner
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	DefaultCurrency string
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// NewHandlers returns the shipped handlers over store.
func NewHandlers(store Store, cfg Config) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		store:           store,
		setup:           cfg.Setup,
		importer:        cfg.Importer,
		patches:         cfg.Patches,
		metrics:         cfg.Metrics,
		logger:          logger.With("component", "hooks"),
		defaultCurrency: cfg.DefaultCurrency,
		now:             now,
	}
}

// Register wires every shipped handler into d.
func (h *Handlers) Register(d *Dispatcher) {
	h.dispatcher = d
	d.On(models.DocTypeLandedCostVoucher, BeforeValidate, h.landedCostBeforeValidate)
	d.On(models.DocTypeSalesPerson, BeforeSave, h.salesPersonBeforeSave)
	d.On(models.DocTypeVisitTarget, BeforeSave, h.visitTargetBeforeSave)
	d.On(models.DocTypeSalesVisitLog, OnSubmit, h.visitLogOnSubmit)
	d.On(models.DocTypeCompany, AfterInsert, h.companyAfterInsert)
	d.On(DocTypeApp, AfterInstall, h.afterInstall)
	d.On(DocTypeApp, AfterMigrate, h.afterMigrate)
}

func (h *Handlers) salesPersonBeforeSave(ctx context.Context, doc models.Doc) error {
	if IgnoreValidate(ctx) {
		return nil
	}
	sp, ok := doc.(*models.SalesPerson)
	if !ok {
		return fmt.Errorf("unexpected document %T", doc)
	}
	today := h.now()
	for i := range sp.VisitTargets {
		if sp.VisitTargets[i].PeriodType != "" {
			visits.ApplyPeriod(&sp.VisitTargets[i], today)
		}
	}
	return visits.ValidateTargets(sp)
}

func (h *Handlers) visitTargetBeforeSave(ctx context.Context, doc models.Doc) error {
	row, ok := doc.(*models.VisitTarget)
	if !ok {
		return fmt.Errorf("unexpected document %T", doc)
	}
	if row.PeriodType != "" {
		visits.ApplyPeriod(row, h.now())
	}
	return visits.ValidateRow(row)
}

// visitLogOnSubmit credits a submitted visit to the first matching target.
// Problems are logged and never block the submission.
func (h *Handlers) visitLogOnSubmit(ctx context.Context, doc models.Doc) error {
	log, ok := doc.(*models.SalesVisitLog)
	if !ok {
		return fmt.Errorf("unexpected document %T", doc)
	}
	logger := h.logger.With("visit_log", log.Name)
	if log.SalesPerson == "" || log.VisitDate.IsZero() || log.Customer == "" {
		logger.ErrorContext(ctx, "visit log is missing sales person, visit date or customer")
		return nil
	}

	sp, err := h.store.GetSalesPerson(ctx, log.SalesPerson)
	if err != nil {
		logger.ErrorContext(ctx, "could not load sales person", "sales_person", log.SalesPerson, "error", err)
		return nil
	}

	target := visits.MatchVisit(sp, log.Customer, log.VisitDate)
	if target == nil {
		logger.ErrorContext(ctx, "no visit target matches this visit",
			"sales_person", log.SalesPerson, "customer", log.Customer, "visit_date", log.VisitDate.Format(time.DateOnly))
		return nil
	}
	target.CompletedVisits++

	saveCtx := WithIgnoreValidate(ctx)
	if h.dispatcher != nil {
		if err := h.dispatcher.Fire(saveCtx, BeforeSave, sp); err != nil {
			logger.ErrorContext(ctx, "sales person save hook failed", "error", err)
			return nil
		}
	}
	if err := h.store.SaveSalesPerson(saveCtx, sp); err != nil {
		logger.ErrorContext(ctx, "could not save sales person", "sales_person", sp.Name, "error", err)
		return nil
	}
	logger.InfoContext(ctx, "completed visits incremented",
		"sales_person", sp.Name, "row", target.Idx, "completed_visits", target.CompletedVisits)
	return nil
}

// companyAfterInsert configures a new company. Failures are logged.
func (h *Handlers) companyAfterInsert(ctx context.Context, doc models.Doc) error {
	if h.setup == nil {
		return nil
	}
	if err := h.setup.AutoSetup(ctx, doc.DocName()); err != nil {
		h.logger.ErrorContext(ctx, "automatic company setup failed", "company", doc.DocName(), "error", err)
	}
	return nil
}

func (h *Handlers) afterInstall(ctx context.Context, _ models.Doc) error {
	h.logger.InfoContext(ctx, "tnerp installed, nothing to do")
	return nil
}

// afterMigrate runs pending patches, then imports the chart for every
// company. The chart import runs even when a patch fails.
func (h *Handlers) afterMigrate(ctx context.Context, _ models.Doc) error {
	var errs []error
	if h.patches != nil {
		applied, err := h.patches.Run(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "patches failed", "error", err)
			errs = append(errs, err)
		}
		h.logger.InfoContext(ctx, "patches applied", "count", len(applied))
	}
	if h.importer != nil {
		if _, err := h.importer.ImportForAllCompanies(ctx); err != nil {
			h.logger.ErrorContext(ctx, "chart import failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
