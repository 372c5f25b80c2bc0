package models

import "github.com/shopspring/decimal"

// Company is a legal entity with its own chart of accounts.
type Company struct {
	// Name is the unique company name, also used as the account suffix.
	Name string

	// Abbr is the short company abbreviation.
	Abbr string

	// DefaultCurrency is the ISO 4217 code for company ledgers (e.g. "TND").
	DefaultCurrency string

	// EnablePerpetualInventory turns on stock ledger postings.
	EnablePerpetualInventory bool

	// Defaults maps company default fields (e.g. "default_cash_account")
	// to full account names.
	Defaults map[string]string

	// CostCenter is the company's default cost center.
	CostCenter string

	// CreatedAt is the Unix timestamp when the company was created.
	CreatedAt int64
}

func (c *Company) DocType() string { return DocTypeCompany }
func (c *Company) DocName() string { return c.Name }

// Default returns the account configured for a default field, or "".
func (c *Company) Default(field string) string {
	if c.Defaults == nil {
		return ""
	}
	return c.Defaults[field]
}

// SetDefault sets a default field to an account name.
func (c *Company) SetDefault(field, account string) {
	if c.Defaults == nil {
		c.Defaults = make(map[string]string)
	}
	c.Defaults[field] = account
}

// Account is a node of a company's chart of accounts.
type Account struct {
	// Name is the full account name, unique within a company,
	// e.g. "5411 - Caisse en dinars - Sfax Trading".
	Name string

	// AccountName is the label without the company suffix.
	AccountName string

	Company       string
	ParentAccount string
	AccountNumber string
	IsGroup       bool

	// RootType is one of Asset, Liability, Equity, Income, Expense.
	RootType string

	// AccountType is the optional ERP account type (Bank, Cash, Tax, ...).
	AccountType string

	AccountCurrency string
	CreatedAt       int64
}

func (a *Account) DocType() string { return DocTypeAccount }
func (a *Account) DocName() string { return a.Name }

// CostCenter is a node of the company cost center tree.
type CostCenter struct {
	// Name is "<cost center name> - <company>".
	Name             string
	CostCenterName   string
	ParentCostCenter string
	Company          string
	IsGroup          bool
}

// Warehouse is a stock location linked to a stock account.
type Warehouse struct {
	Name    string
	Company string
	Account string
}

// StockSettings is the single global stock settings record.
type StockSettings struct {
	DefaultWarehouseAccount string
}

// GLEntry is a posted general ledger line. Only its existence matters to
// the chart importer, which refuses to touch companies with postings.
type GLEntry struct {
	ID          string
	Company     string
	Account     string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	PostingDate string
}
