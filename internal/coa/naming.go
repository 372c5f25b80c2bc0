package coa

import "strings"

// BaseName prefixes the account number, when there is one, to the label.
func BaseName(number, label string) string {
	if number == "" {
		return label
	}
	return number + " - " + label
}

// IsRoot reports whether the row is a top-level "Classe" account. Root
// accounts are shared by name and carry no company suffix.
func (r Row) IsRoot() bool {
	return r.ParentAccount == "" || strings.HasPrefix(strings.ToUpper(r.AccountName), "CLASSE")
}

// Key identifies the row within a chart independently of any company.
func (r Row) Key() string {
	return BaseName(r.AccountNumber, r.AccountName)
}

// ParentKey is the Key of the row's parent, or "".
func (r Row) ParentKey() string {
	if r.ParentAccount == "" {
		return ""
	}
	return BaseName(r.ParentAccountNumber, r.ParentAccount)
}

// FullName is the account name stored for company, e.g.
// "5411 - Caisse en dinars - Sfax Trading".
func (r Row) FullName(company string) string {
	if r.IsRoot() {
		return r.Key()
	}
	return CompanyAccount(r.Key(), company)
}

// ParentFullName is the expected stored name of the parent, or "".
func (r Row) ParentFullName(company string) string {
	if r.ParentAccount == "" {
		return ""
	}
	if strings.HasPrefix(r.ParentAccount, "CLASSE") || strings.HasPrefix(r.ParentAccount, "Classe ") {
		return r.ParentKey()
	}
	return CompanyAccount(r.ParentKey(), company)
}

// CompanyAccount appends the company suffix to a base account name.
func CompanyAccount(base, company string) string {
	return base + " - " + company
}

// MapRootType derives the root type of a "Classe" account from its label.
func MapRootType(label string) string {
	switch {
	case strings.Contains(label, "ACTIFS"):
		return "Asset"
	case strings.Contains(label, "CAPITAUX PROPRES"):
		return "Equity"
	case strings.Contains(label, "PASSIFS"):
		return "Liability"
	case strings.Contains(label, "COMPTES DE CHARGES"):
		return "Expense"
	case strings.Contains(label, "COMPTES DE PRODUITS"):
		return "Income"
	default:
		return "Asset"
	}
}
