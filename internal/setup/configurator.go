// Package setup configures a company for the Tunisian chart of accounts:
// account defaults, tax templates, payment modes, item defaults, cost
// centers and warehouse links, plus a validation report.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage"
)

// Store is the subset of storage company setup needs.
type Store interface {
	storage.CompanyStore
	storage.AccountStore
	storage.ItemStore
	storage.StockStore
	storage.TaxStore
}

// Configurator runs setup steps against a store.
type Configurator struct {
	store  Store
	logger *slog.Logger
}

// NewConfigurator returns a configurator logging through logger, or the
// default logger when nil.
func NewConfigurator(store Store, logger *slog.Logger) *Configurator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Configurator{store: store, logger: logger.With("component", "setup")}
}

// StepResult records the outcome of one setup step.
type StepResult struct {
	Name string
	Err  error
}

// step is one unit of log-and-continue setup work.
type step struct {
	name string
	run  func(ctx context.Context, company string) error
}

// runSteps runs every step, logging failures without stopping.
func (c *Configurator) runSteps(ctx context.Context, company string, steps []step) []StepResult {
	results := make([]StepResult, 0, len(steps))
	for i, s := range steps {
		c.logger.InfoContext(ctx, "running setup step", "company", company, "step", i+1, "name", s.name)
		err := s.run(ctx, company)
		if err != nil {
			c.logger.ErrorContext(ctx, "setup step failed", "company", company, "name", s.name, "error", err)
		}
		results = append(results, StepResult{Name: s.name, Err: err})
	}
	return results
}

func (c *Configurator) accountExists(ctx context.Context, company, name string) bool {
	ok, err := c.store.AccountExists(ctx, company, name)
	if err != nil {
		c.logger.WarnContext(ctx, "account lookup failed", "company", company, "account", name, "error", err)
		return false
	}
	return ok
}

// ConfigureDefaults sets every company default whose account exists and
// enables perpetual inventory.
func (c *Configurator) ConfigureDefaults(ctx context.Context, company string) error {
	doc, err := c.store.GetCompany(ctx, company)
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}

	doc.EnablePerpetualInventory = true
	for _, d := range CompanyDefaults(company) {
		if c.accountExists(ctx, company, d.Account) {
			doc.SetDefault(d.Field, d.Account)
		} else {
			c.logger.WarnContext(ctx, "account not found for default", "field", d.Field, "account", d.Account)
		}
	}

	if err := c.store.UpdateCompany(ctx, doc); err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	c.logger.InfoContext(ctx, "company defaults configured", "company", company)
	return nil
}

// CreateTaxTemplates creates the VAT templates whose titles are missing.
func (c *Configurator) CreateTaxTemplates(ctx context.Context, company string) error {
	var errs []error
	for _, tpl := range taxTemplates {
		exists, err := c.store.TaxTemplateExists(ctx, tpl.Kind, tpl.Title)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if exists {
			continue
		}
		if err := c.store.CreateTaxTemplate(ctx, tpl.build(company)); err != nil {
			c.logger.ErrorContext(ctx, "error creating tax template", "title", tpl.Title, "error", err)
			errs = append(errs, fmt.Errorf("tax template %q: %w", tpl.Title, err))
			continue
		}
		c.logger.InfoContext(ctx, "created tax template", "kind", tpl.Kind, "title", tpl.Title)
	}
	return errors.Join(errs...)
}

// ConfigurePaymentModes creates missing payment modes and links them to the
// company account. An existing company row is repointed; a new row is only
// added when the account exists.
func (c *Configurator) ConfigurePaymentModes(ctx context.Context, company string) error {
	var errs []error
	for _, pm := range paymentModes {
		if err := c.configurePaymentMode(ctx, company, pm.Name, pm.Type, coa.CompanyAccount(pm.AccountBase, company)); err != nil {
			c.logger.ErrorContext(ctx, "error configuring payment method", "mode", pm.Name, "error", err)
			errs = append(errs, fmt.Errorf("payment mode %q: %w", pm.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Configurator) configurePaymentMode(ctx context.Context, company, name, typ, account string) error {
	mop, err := c.store.GetModeOfPayment(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		mop = &models.ModeOfPayment{Name: name, Type: typ}
		if err := c.store.CreateModeOfPayment(ctx, mop); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	found := false
	for i := range mop.Accounts {
		if mop.Accounts[i].Company == company {
			mop.Accounts[i].DefaultAccount = account
			found = true
			break
		}
	}
	if !found && c.accountExists(ctx, company, account) {
		mop.Accounts = append(mop.Accounts, models.ModeOfPaymentAccount{Company: company, DefaultAccount: account})
	}
	return c.store.UpdateModeOfPayment(ctx, mop)
}

// SetupItemDefaults adds or updates the company defaults of the first
// enabled items, using only accounts and cost centers that exist.
func (c *Configurator) SetupItemDefaults(ctx context.Context, company string) error {
	items, err := c.store.ListEnabledItems(ctx, itemDefaultsLimit)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	income := coa.CompanyAccount(IncomeAccount, company)
	expense := coa.CompanyAccount(ExpenseAccount, company)
	mainCC := coa.CompanyAccount(MainCostCenter, company)

	validIncome := c.accountExists(ctx, company, income)
	validExpense := c.accountExists(ctx, company, expense)
	validCC, err := c.store.CostCenterExists(ctx, mainCC)
	if err != nil {
		return fmt.Errorf("check cost center: %w", err)
	}

	updated := 0
	for _, item := range items {
		def := item.DefaultFor(company)
		if def == nil {
			if !validIncome && !validExpense && !validCC {
				continue
			}
			item.Defaults = append(item.Defaults, models.ItemDefault{Company: company})
			def = &item.Defaults[len(item.Defaults)-1]
		}
		if validIncome {
			def.IncomeAccount = income
		}
		if validExpense {
			def.ExpenseAccount = expense
		}
		if validCC {
			def.BuyingCostCenter = mainCC
			def.SellingCostCenter = mainCC
		}

		if err := c.store.UpdateItem(ctx, item); err != nil {
			c.logger.WarnContext(ctx, "could not update item", "item", item.Code, "error", err)
			continue
		}
		updated++
	}
	c.logger.InfoContext(ctx, "updated item defaults", "company", company, "items", updated)
	return nil
}

// CreateCostCenters creates the company cost center tree and sets Main as the
// company cost center when none is set.
func (c *Configurator) CreateCostCenters(ctx context.Context, company string) error {
	root := coa.CompanyAccount(RootCostCenter, company)
	nodes := []models.CostCenter{{
		Name:           root,
		CostCenterName: RootCostCenter,
		Company:        company,
		IsGroup:        true,
	}}
	for _, cc := range costCenters {
		nodes = append(nodes, models.CostCenter{
			Name:             coa.CompanyAccount(cc.Name, company),
			CostCenterName:   cc.Name,
			ParentCostCenter: coa.CompanyAccount(cc.Parent, company),
			Company:          company,
		})
	}

	var errs []error
	for i := range nodes {
		cc := &nodes[i]
		exists, err := c.store.CostCenterExists(ctx, cc.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if exists {
			continue
		}
		if err := c.store.CreateCostCenter(ctx, cc); err != nil {
			c.logger.ErrorContext(ctx, "error creating cost center", "cost_center", cc.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		c.logger.InfoContext(ctx, "created cost center", "cost_center", cc.Name)
	}

	doc, err := c.store.GetCompany(ctx, company)
	if err != nil {
		return errors.Join(append(errs, fmt.Errorf("load company: %w", err))...)
	}
	if doc.CostCenter == "" {
		doc.CostCenter = coa.CompanyAccount(MainCostCenter, company)
		if err := c.store.UpdateCompany(ctx, doc); err != nil {
			errs = append(errs, fmt.Errorf("save company: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LinkWarehouses points unlinked warehouses of company at the stock account
// and fills the stock settings default when it is empty.
func (c *Configurator) LinkWarehouses(ctx context.Context, company string) error {
	stock := coa.CompanyAccount(StockAccount, company)
	if !c.accountExists(ctx, company, stock) {
		c.logger.WarnContext(ctx, "stock account not found, warehouses left unlinked", "account", stock)
		return nil
	}

	warehouses, err := c.store.ListWarehouses(ctx, company)
	if err != nil {
		return fmt.Errorf("list warehouses: %w", err)
	}
	var errs []error
	for _, wh := range warehouses {
		if wh.Account != "" {
			continue
		}
		wh.Account = stock
		if err := c.store.UpdateWarehouse(ctx, wh); err != nil {
			errs = append(errs, fmt.Errorf("warehouse %q: %w", wh.Name, err))
			continue
		}
		c.logger.InfoContext(ctx, "linked warehouse to stock account", "warehouse", wh.Name)
	}

	settings, err := c.store.GetStockSettings(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "could not read stock settings", "error", err)
		return errors.Join(errs...)
	}
	if settings.DefaultWarehouseAccount == "" {
		settings.DefaultWarehouseAccount = stock
		if err := c.store.UpdateStockSettings(ctx, settings); err != nil {
			c.logger.WarnContext(ctx, "could not update stock settings", "error", err)
		} else {
			c.logger.InfoContext(ctx, "set default warehouse account in stock settings")
		}
	}
	return errors.Join(errs...)
}
