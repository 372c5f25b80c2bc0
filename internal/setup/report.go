package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/tnerp/internal/coa"
)

// ValidationReport lists what is configured and what is missing for a
// company.
type ValidationReport struct {
	Company    string
	Configured []string
	Issues     []string
}

// Valid reports whether no issue was found.
func (r *ValidationReport) Valid() bool { return len(r.Issues) == 0 }

// Markdown renders the report as a markdown document.
func (r *ValidationReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tunisia COA validation report: %s\n\n", r.Company)

	if len(r.Configured) > 0 {
		b.WriteString("## Correctly configured\n\n")
		for _, item := range r.Configured {
			fmt.Fprintf(&b, "- ✅ %s\n", item)
		}
		b.WriteString("\n")
	}

	if len(r.Issues) > 0 {
		b.WriteString("## Issues found\n\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "- ❌ %s\n", issue)
		}
		fmt.Fprintf(&b, "\n**Total issues: %d**\n", len(r.Issues))
		return b.String()
	}

	fmt.Fprintf(&b, "All configurations are in place: %d components configured.\n", len(r.Configured))
	return b.String()
}

// maxListedWarehouses bounds the unlinked warehouses named in one issue.
const maxListedWarehouses = 3

// Validate checks perpetual inventory, the required default accounts, the
// required tax templates and the warehouse links.
func (c *Configurator) Validate(ctx context.Context, company string) (*ValidationReport, error) {
	doc, err := c.store.GetCompany(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}

	rep := &ValidationReport{Company: company}
	if doc.EnablePerpetualInventory {
		rep.Configured = append(rep.Configured, "Perpetual Inventory: Enabled")
	} else {
		rep.Issues = append(rep.Issues, "Perpetual Inventory: Disabled (CRITICAL)")
	}

	for _, m := range requiredMappings {
		account := doc.Default(m.Field)
		switch {
		case account == "":
			rep.Issues = append(rep.Issues, fmt.Sprintf("Missing %s (%s)", m.Field, m.Description))
		case !strings.HasPrefix(account, m.Code):
			rep.Issues = append(rep.Issues, fmt.Sprintf("%s not using correct Tunisian account (expected %s)", m.Field, m.Code))
		default:
			rep.Configured = append(rep.Configured, fmt.Sprintf("%s: %s", m.Field, account))
		}
	}

	for _, tpl := range requiredTaxTemplates {
		ok, err := c.store.TaxTemplateExists(ctx, tpl.Kind, tpl.Title)
		if err != nil {
			return nil, fmt.Errorf("check tax template: %w", err)
		}
		if ok {
			rep.Configured = append(rep.Configured, "Tax template: "+tpl.Title)
		} else {
			rep.Issues = append(rep.Issues, fmt.Sprintf("Missing %s tax template: %s", tpl.Kind, tpl.Title))
		}
	}

	warehouses, err := c.store.ListWarehouses(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	var unlinked []string
	for _, wh := range warehouses {
		if wh.Account == "" {
			unlinked = append(unlinked, wh.Name)
		}
	}
	if len(unlinked) > 0 {
		if len(unlinked) > maxListedWarehouses {
			unlinked = unlinked[:maxListedWarehouses]
		}
		rep.Issues = append(rep.Issues, "Warehouses without accounts: "+strings.Join(unlinked, ", "))
	} else {
		rep.Configured = append(rep.Configured, fmt.Sprintf("All %d warehouses linked to accounts", len(warehouses)))
	}

	return rep, nil
}

// FixWarehouseAccounts enables perpetual inventory, points the stock
// liability defaults at the supplier accrual account and links warehouses.
func (c *Configurator) FixWarehouseAccounts(ctx context.Context, company string) error {
	doc, err := c.store.GetCompany(ctx, company)
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}
	doc.EnablePerpetualInventory = true

	liability := coa.CompanyAccount(StockLiabilityAccount, company)
	if c.accountExists(ctx, company, liability) {
		doc.SetDefault("stock_received_but_not_billed", liability)
		doc.SetDefault("stock_liability_account", liability)
	}
	if err := c.store.UpdateCompany(ctx, doc); err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return c.LinkWarehouses(ctx, company)
}
