package models

import "github.com/shopspring/decimal"

// Item is an item master record.
type Item struct {
	Code     string
	Name     string
	Disabled bool

	// NGPCode is the customs nomenclature code ("Nomenclature Générale des
	// Produits") used to route NGP-specific duties to matching items.
	NGPCode string

	// Defaults holds per-company accounting defaults.
	Defaults []ItemDefault
}

func (i *Item) DocType() string { return DocTypeItem }
func (i *Item) DocName() string { return i.Code }

// ItemDefault holds an item's accounting defaults for one company.
type ItemDefault struct {
	Company           string
	IncomeAccount     string
	ExpenseAccount    string
	BuyingCostCenter  string
	SellingCostCenter string
}

// DefaultFor returns the defaults row for a company, or nil.
func (i *Item) DefaultFor(company string) *ItemDefault {
	for idx := range i.Defaults {
		if i.Defaults[idx].Company == company {
			return &i.Defaults[idx]
		}
	}
	return nil
}

// Tax template kinds.
const (
	TaxKindSales    = "sales"
	TaxKindPurchase = "purchase"
)

// TaxTemplate is a Sales or Purchase Taxes and Charges Template.
type TaxTemplate struct {
	Title   string
	Company string
	// Kind is TaxKindSales or TaxKindPurchase.
	Kind  string
	Taxes []TaxTemplateRow
}

// TaxTemplateRow is one tax line of a template.
type TaxTemplateRow struct {
	AccountHead string
	Rate        decimal.Decimal
	Description string
	ChargeType  string
	AccountType string
}

// ModeOfPayment is a payment method with per-company default accounts.
type ModeOfPayment struct {
	Name string
	// Type is Cash, Bank or General.
	Type     string
	Accounts []ModeOfPaymentAccount
}

// ModeOfPaymentAccount links a payment method to a company account.
type ModeOfPaymentAccount struct {
	Company        string
	DefaultAccount string
}
