package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/storage"
)

// Result is what the setup entry points report back to callers.
type Result struct {
	Success   bool
	Message   string
	HasIssues bool
	IsValid   bool
	Report    *ValidationReport
	Steps     []StepResult
}

const msgNoCompany = "No company specified"

// Service exposes the setup entry points. Missing company names fall back
// to the configured default company.
type Service struct {
	cfg            *Configurator
	importer       *coa.Importer
	defaultCompany string
	logger         *slog.Logger
}

// NewService wires a setup service. importer may be nil, in which case
// AutoSetup skips the chart import.
func NewService(store Store, importer *coa.Importer, defaultCompany string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:            NewConfigurator(store, logger),
		importer:       importer,
		defaultCompany: defaultCompany,
		logger:         logger.With("component", "setup"),
	}
}

func (s *Service) resolve(company string) string {
	if company != "" {
		return company
	}
	return s.defaultCompany
}

// SetupComplete runs every configuration step, then validates the result.
func (s *Service) SetupComplete(ctx context.Context, company string) Result {
	company = s.resolve(company)
	if company == "" {
		return Result{Message: msgNoCompany}
	}
	if _, err := s.cfg.store.GetCompany(ctx, company); err != nil {
		return Result{Message: fmt.Sprintf("Error during setup: %v", err)}
	}

	s.logger.InfoContext(ctx, "starting complete Tunisia COA configuration", "company", company)
	steps := s.cfg.runSteps(ctx, company, []step{
		{"company defaults", s.cfg.ConfigureDefaults},
		{"tax templates", s.cfg.CreateTaxTemplates},
		{"payment methods", s.cfg.ConfigurePaymentModes},
		{"cost centers", s.cfg.CreateCostCenters},
		{"item defaults", s.cfg.SetupItemDefaults},
		{"warehouse connections", s.cfg.LinkWarehouses},
	})

	rep, err := s.cfg.Validate(ctx, company)
	if err != nil {
		return Result{Message: fmt.Sprintf("Error during setup: %v", err), Steps: steps}
	}

	res := Result{Success: true, Report: rep, IsValid: rep.Valid(), Steps: steps}
	if rep.Valid() {
		res.Message = "Complete Tunisia configuration finished successfully"
	} else {
		res.Message = "Configuration completed with some issues"
		res.HasIssues = true
	}
	return res
}

// QuickValidate only builds the validation report.
func (s *Service) QuickValidate(ctx context.Context, company string) Result {
	company = s.resolve(company)
	if company == "" {
		return Result{Message: msgNoCompany}
	}

	rep, err := s.cfg.Validate(ctx, company)
	if err != nil {
		return Result{Message: fmt.Sprintf("Error during validation: %v", err)}
	}
	res := Result{Success: true, Report: rep, IsValid: rep.Valid(), HasIssues: !rep.Valid()}
	if rep.Valid() {
		res.Message = "Validation completed"
	} else {
		res.Message = "Issues found in configuration"
	}
	return res
}

// FixWarehouseAccounts repairs the stock accounting defaults of company.
func (s *Service) FixWarehouseAccounts(ctx context.Context, company string) Result {
	company = s.resolve(company)
	if company == "" {
		return Result{Message: msgNoCompany}
	}
	if err := s.cfg.FixWarehouseAccounts(ctx, company); err != nil {
		s.logger.ErrorContext(ctx, "fixing warehouse accounts failed", "company", company, "error", err)
		return Result{Message: fmt.Sprintf("Error fixing warehouse accounts: %v", err)}
	}
	return Result{Success: true, Message: "Warehouse accounts fixed successfully"}
}

// AutoSetup imports the chart for a new company and configures it. Steps
// after a failed import are not run.
func (s *Service) AutoSetup(ctx context.Context, company string) error {
	if s.importer != nil {
		if _, err := s.importer.ImportForCompany(ctx, company); err != nil {
			return fmt.Errorf("import chart for %s: %w", company, err)
		}
	}

	steps := s.cfg.runSteps(ctx, company, []step{
		{"company defaults", s.cfg.ConfigureDefaults},
		{"tax templates", s.cfg.CreateTaxTemplates},
		{"payment methods", s.cfg.ConfigurePaymentModes},
		{"cost centers", s.cfg.CreateCostCenters},
		{"item defaults", s.cfg.SetupItemDefaults},
		{"warehouse connections", s.cfg.LinkWarehouses},
	})

	var errs []error
	for _, st := range steps {
		if st.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", st.Name, st.Err))
		}
	}
	return errors.Join(errs...)
}

// AutoSetupAll runs AutoSetup for every company, continuing past failures.
func (s *Service) AutoSetupAll(ctx context.Context, companies storage.CompanyStore) error {
	names, err := companies.ListCompanyNames(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}
	for _, name := range names {
		if err := s.AutoSetup(ctx, name); err != nil {
			s.logger.ErrorContext(ctx, "auto setup failed", "company", name, "error", err)
		}
	}
	return nil
}
