package api

import "github.com/shopspring/decimal"

// LineItem is a line to receive a share of the charges.
type LineItem struct {
	ID       string          `json:"id"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	// GroupCode is the NGP code; grouped charges only reach matching lines.
	GroupCode string `json:"group_code,omitempty"`
	// AccumulatedCharge is the charge carried in and, in responses, out.
	AccumulatedCharge decimal.Decimal `json:"accumulated_charge"`
}

// Charge is one amount to distribute.
type Charge struct {
	Label     string          `json:"label,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Grouped   bool            `json:"grouped,omitempty"`
	GroupCode string          `json:"group_code,omitempty"`
}

type DistributeRequest struct {
	// Basis is "Amount" or "Qty".
	Basis   string     `json:"basis"`
	Items   []LineItem `json:"items"`
	Charges []Charge   `json:"charges"`
	// Currency formats the summary lines; bare decimals when empty.
	Currency string `json:"currency,omitempty"`
}

// Increment is one line's share of one charge.
type Increment struct {
	Index  int             `json:"index"`
	ItemID string          `json:"item_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ChargeOutcome reports what happened to one charge.
type ChargeOutcome struct {
	Charge     int             `json:"charge"`
	Label      string          `json:"label,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Applied    bool            `json:"applied"`
	SkipReason string          `json:"skip_reason,omitempty"`
	Base       decimal.Decimal `json:"base"`
	Increments []Increment     `json:"increments,omitempty"`
}

// Summary is the valuation check of a distribution.
type Summary struct {
	InitialValue decimal.Decimal `json:"initial_value"`
	TotalCharges decimal.Decimal `json:"total_charges"`
	FinalValue   decimal.Decimal `json:"final_value"`
	Lines        []string        `json:"lines,omitempty"`
}

type DistributeResponse struct {
	Items    []LineItem      `json:"items"`
	Outcomes []ChargeOutcome `json:"outcomes"`
	Summary  Summary         `json:"summary"`
}

type ApplyVoucherRequest struct {
	Name string `json:"name"`
}

// VoucherItem is a stored voucher line after distribution.
type VoucherItem struct {
	ItemCode          string          `json:"item_code"`
	Qty               decimal.Decimal `json:"qty"`
	Amount            decimal.Decimal `json:"amount"`
	ApplicableCharges decimal.Decimal `json:"applicable_charges"`
}

type ApplyVoucherResponse struct {
	Name    string        `json:"name"`
	Items   []VoucherItem `json:"items"`
	Summary Summary       `json:"summary"`
}

// CompanyRequest names the company a setup call acts on. Empty falls back
// to the server's default company.
type CompanyRequest struct {
	Company string `json:"company,omitempty"`
}

func (r *CompanyRequest) GetCompany() string { return r.Company }

// ValidationReport lists configured items and issues.
type ValidationReport struct {
	Company    string   `json:"company"`
	Configured []string `json:"configured"`
	Issues     []string `json:"issues"`
	Markdown   string   `json:"markdown"`
}

// StepResult is one setup step outcome.
type StepResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

type SetupResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	HasIssues bool              `json:"has_issues"`
	IsValid   bool              `json:"is_valid"`
	Report    *ValidationReport `json:"report,omitempty"`
	Steps     []StepResult      `json:"steps,omitempty"`
}

// ImportReport is the chart import outcome of one company.
type ImportReport struct {
	Company        string `json:"company"`
	Created        int    `json:"created"`
	Existing       int    `json:"existing"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
	SkippedCompany bool   `json:"skipped_company"`
}

type ImportChartResponse struct {
	Reports []ImportReport `json:"reports"`
}

// VisitTarget is one visit target row. Dates are YYYY-MM-DD.
type VisitTarget struct {
	Idx             int    `json:"idx,omitempty"`
	Customer        string `json:"customer,omitempty"`
	Territory       string `json:"territory,omitempty"`
	PeriodType      string `json:"period_type,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	TargetVisits    int    `json:"target_visits"`
	CompletedVisits int    `json:"completed_visits"`
}

type SalesPerson struct {
	Name         string        `json:"name"`
	VisitTargets []VisitTarget `json:"visit_targets"`
}

type SaveSalesPersonRequest struct {
	SalesPerson SalesPerson `json:"sales_person"`
}

type SaveSalesPersonResponse struct {
	SalesPerson SalesPerson `json:"sales_person"`
}

type SubmitVisitLogRequest struct {
	Name        string `json:"name,omitempty"`
	SalesPerson string `json:"sales_person"`
	Customer    string `json:"customer"`
	VisitDate   string `json:"visit_date"`
}

type SubmitVisitLogResponse struct {
	Name      string `json:"name"`
	DocStatus int    `json:"docstatus"`
}

type ResolvePeriodRequest struct {
	PeriodType string `json:"period_type"`
	// Today defaults to the server date.
	Today     string `json:"today,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type ResolvePeriodResponse struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	ReadOnly  bool   `json:"read_only"`
}

// Operator is the public view of an API operator.
type Operator struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Operator Operator `json:"operator"`
	Token    string   `json:"token"`
}
