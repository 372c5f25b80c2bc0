package setup

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/models"
)

// Account bases shared by several steps.
const (
	StockAccount          = "37 - Stocks de marchandises"
	StockLiabilityAccount = "4081 - Fournisseurs d'exploitation"
	CashAccount           = "5411 - Caisse en dinars"
	BankAccount           = "5321 - Comptes en dinars"
	ChequeAccount         = "531 - Valeurs à l'encaissement"
	IncomeAccount         = "707 - Ventes de marchandises"
	ExpenseAccount        = "607 - Achats de marchandises"
	OutputVATAccount      = "4366 - Etat - TVA collectée"
	InputVATAccount       = "4365 - Etat - TVA déductible"
)

// companyDefaults maps company default fields to account bases.
var companyDefaults = []struct {
	Field string
	Base  string
}{
	{"default_cash_account", CashAccount},
	{"default_bank_account", BankAccount},
	{"default_receivable_account", "4111 - Clients - ventes de biens ou de prestations de services"},
	{"default_payable_account", "4011 - Fournisseurs - achats de biens ou de prestations de services"},
	{"default_income_account", IncomeAccount},
	{"default_expense_account", ExpenseAccount},
	{"default_inventory_account", StockAccount},
	{"stock_adjustment_account", "603 - Variation des stocks (approvisionnements et marchandises)"},
	{"round_off_account", "657 - Autres charges financières"},
	{"write_off_account", "634 - Pertes sur créances irrécouvrables"},
	{"exchange_gain_loss_account", "655 - Pertes de change"},
	{"unrealized_exchange_gain_loss_account", "465 - Différence de conversion sur éléments courants (ACTIF)"},
	{"default_discount_account", "654 - Escomptes accordés"},
	{"default_deferred_revenue_account", "472 - Produits constatés d'avance"},
	{"default_deferred_expense_account", "471 - Charges constatées d'avance"},
	{"accumulated_depreciation_account", "282 - Amortissements des immobilisations corporelles (même ventilation que celle du compte 28)"},
	{"depreciation_expense_account", "6811 - Dotations aux amortissements des immobilisations incorporelles et corporelles"},
	{"capital_work_in_progress_account", "232 - Immobilisations corporelles en cours"},
	{"asset_received_but_not_billed", StockLiabilityAccount},
	{"service_received_but_not_billed", StockLiabilityAccount},
	{"default_provisional_account", "461 - Compte d'attente (ACTIF)"},
	{"default_advance_received_account", "419 - Clients créditeurs"},
	{"default_advance_paid_account", "409 - Fournisseurs débiteurs"},
	{"stock_received_but_not_billed", StockLiabilityAccount},
	{"expenses_included_in_asset_valuation", "608 - Achats liés à une modification comptable à prendre en compte dans le résultat de"},
	{"stock_liability_account", StockLiabilityAccount},
	{"default_warehouse_account", StockAccount},
	{"gain_loss_account", "756 - Gains de change"},
	{"default_temporary_account", "461 - Compte d'attente (ACTIF)"},
}

// CompanyDefaults returns the default field to account mapping for company,
// in a stable order.
func CompanyDefaults(company string) []FieldAccount {
	out := make([]FieldAccount, len(companyDefaults))
	for i, d := range companyDefaults {
		out[i] = FieldAccount{Field: d.Field, Account: coa.CompanyAccount(d.Base, company)}
	}
	return out
}

// FieldAccount pairs a company default field with an account name.
type FieldAccount struct {
	Field   string
	Account string
}

type taxTemplateDef struct {
	Title       string
	Kind        string
	AccountBase string
	Rate        int64
	Description string
}

var taxTemplates = []taxTemplateDef{
	{"TVA Collectée 19% - Tunisia", models.TaxKindSales, OutputVATAccount, 19, "TVA Collectée 19%"},
	{"TVA Collectée 13% - Tunisia", models.TaxKindSales, OutputVATAccount, 13, "TVA Collectée 13%"},
	{"TVA Collectée 7% - Tunisia", models.TaxKindSales, OutputVATAccount, 7, "TVA Collectée 7%"},
	{"TVA Collectée 0% - Tunisia", models.TaxKindSales, OutputVATAccount, 0, "TVA Collectée 0% (Exonérée)"},
	{"TVA Déductible 19% - Tunisia", models.TaxKindPurchase, InputVATAccount, 19, "TVA Déductible 19%"},
	{"TVA Déductible 13% - Tunisia", models.TaxKindPurchase, InputVATAccount, 13, "TVA Déductible 13%"},
	{"TVA Déductible 7% - Tunisia", models.TaxKindPurchase, InputVATAccount, 7, "TVA Déductible 7%"},
}

func (s taxTemplateDef) build(company string) *models.TaxTemplate {
	return &models.TaxTemplate{
		Title:   s.Title,
		Company: company,
		Kind:    s.Kind,
		Taxes: []models.TaxTemplateRow{{
			AccountHead: coa.CompanyAccount(s.AccountBase, company),
			Rate:        decimal.NewFromInt(s.Rate),
			Description: s.Description,
			ChargeType:  "On Net Total",
			AccountType: "Tax",
		}},
	}
}

var paymentModes = []struct {
	Name        string
	Type        string
	AccountBase string
}{
	{"Cash", "Cash", CashAccount},
	{"Bank Transfer", "Bank", BankAccount},
	{"Check", "Bank", ChequeAccount},
	{"Credit Card", "Bank", BankAccount},
	{"Wire Transfer", "Bank", BankAccount},
	{"Mobile Payment", "Bank", BankAccount},
}

// Cost centers created under "All Cost Centers - <company>".
const (
	RootCostCenter = "All Cost Centers"
	MainCostCenter = "Main"
)

var costCenters = []struct {
	Name   string
	Parent string
}{
	{MainCostCenter, RootCostCenter},
	{"Sales", MainCostCenter},
	{"Administration", MainCostCenter},
	{"Operations", MainCostCenter},
}

// itemDefaultsLimit bounds how many items one setup run touches.
const itemDefaultsLimit = 50

// requiredMappings are checked by the validation report: the field must be
// set to an account whose name starts with the given code.
var requiredMappings = []struct {
	Field       string
	Code        string
	Description string
}{
	{"default_cash_account", "541", "Cash operations"},
	{"default_bank_account", "532", "Banking operations"},
	{"default_receivable_account", "4111", "Customer invoices"},
	{"default_payable_account", "4011", "Supplier bills"},
	{"default_expense_account", "607", "Purchase expenses"},
	{"default_income_account", "707", "Sales revenue"},
	{"stock_adjustment_account", "603", "Inventory adjustments"},
	{"default_inventory_account", "37", "Inventory management"},
	{"round_off_account", "657", "Rounding differences"},
	{"write_off_account", "634", "Bad debts"},
	{"stock_received_but_not_billed", "4081", "Stock received but not billed"},
	{"expenses_included_in_asset_valuation", "608", "Freight and customs"},
}

var requiredTaxTemplates = []struct {
	Kind  string
	Title string
}{
	{models.TaxKindSales, "TVA Collectée 19% - Tunisia"},
	{models.TaxKindPurchase, "TVA Déductible 19% - Tunisia"},
}
