package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ngpMarker identifies expense accounts that carry NGP-specific duties.
const ngpMarker = "ngp"

// ClassifyTax turns a voucher tax line into a charge entry. A tax is grouped
// by NGP code when its expense account mentions NGP and it carries a code;
// every other tax is spread over all lines.
func ClassifyTax(expenseAccount, ngpCode string, amount decimal.Decimal) ChargeEntry {
	entry := ChargeEntry{Label: expenseAccount, Amount: amount}
	code := strings.TrimSpace(ngpCode)
	if code != "" && strings.Contains(strings.ToLower(expenseAccount), ngpMarker) {
		entry.Grouped = true
		entry.GroupCode = code
	}
	return entry
}
