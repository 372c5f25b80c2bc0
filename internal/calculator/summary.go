package calculator

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Summary is the valuation check shown after distributing a voucher.
type Summary struct {
	InitialValue decimal.Decimal
	TotalCharges decimal.Decimal
	FinalValue   decimal.Decimal
}

// Summarize totals line amounts and accumulated charges. Values are rounded
// to 2 places for display.
func Summarize(items []*LineItem) Summary {
	initial, charges := decimal.Zero, decimal.Zero
	for _, item := range items {
		if item == nil {
			continue
		}
		initial = initial.Add(item.Amount)
		charges = charges.Add(item.AccumulatedCharge)
	}
	return Summary{
		InitialValue: initial.Round(2),
		TotalCharges: charges.Round(2),
		FinalValue:   initial.Add(charges).Round(2),
	}
}

// Journal sides.
const (
	Debit  = "debit"
	Credit = "credit"
)

// JournalLine is one planned ledger posting of a landed cost voucher.
type JournalLine struct {
	Side   string
	Label  string
	Amount decimal.Decimal
}

// JournalEntries returns the planned postings: stock is debited with the
// final value, charges and initial stock are credited.
func (s Summary) JournalEntries() []JournalLine {
	return []JournalLine{
		{Side: Debit, Label: "Stock", Amount: s.FinalValue},
		{Side: Credit, Label: "Charges", Amount: s.TotalCharges},
		{Side: Credit, Label: "Stock initial", Amount: s.InitialValue},
	}
}

// Balanced reports whether debits equal credits.
func (s Summary) Balanced() bool {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range s.JournalEntries() {
		if l.Side == Debit {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}
	return debit.Equal(credit)
}

// Lines renders the summary as display lines in the given currency.
func (s Summary) Lines(currency string) []string {
	return []string{
		"=== VÉRIFICATION FINALE ===",
		"Valeur initiale: " + FormatMoney(s.InitialValue, currency),
		"Charges totales: " + FormatMoney(s.TotalCharges, currency),
		"Valeur finale: " + FormatMoney(s.FinalValue, currency),
	}
}

// FormatMoney formats an amount with the currency's symbol and minor units.
// An empty currency formats the bare decimal with 2 places.
func FormatMoney(d decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return d.StringFixed(2)
	}
	cur := money.New(0, currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
