// Package calculator distributes landed cost charges across stock lines.
package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tnerp/internal/models"
)

// Basis selects the weight used to split a charge across line items.
type Basis int

const (
	// ByAmount weights each line by its monetary amount.
	ByAmount Basis = iota + 1
	// ByQuantity weights each line by its quantity.
	ByQuantity
)

var (
	ErrUnknownBasis     = errors.New("unknown distribution basis")
	ErrNegativeQuantity = errors.New("line item quantity cannot be negative")
	ErrNegativeAmount   = errors.New("line item amount cannot be negative")
	ErrNilLineItem      = errors.New("line item cannot be nil")
)

// ParseBasis maps the voucher's "distribute charges based on" value to a Basis.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amount":
		return ByAmount, nil
	case "qty", "quantity":
		return ByQuantity, nil
	case "distribute manually":
		return 0, models.Reject(ErrUnknownBasis, "Manual Distribution",
			"charges distributed manually are entered per line and cannot be computed")
	}
	return 0, models.Reject(ErrUnknownBasis, "Invalid Distribution Basis",
		"charges can be distributed by Amount or Qty, got %q", s)
}

func (b Basis) String() string {
	switch b {
	case ByAmount:
		return "Amount"
	case ByQuantity:
		return "Qty"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

func (b Basis) valid() bool { return b == ByAmount || b == ByQuantity }

// LineItem is a stock line receiving charges.
type LineItem struct {
	ID       string
	Quantity decimal.Decimal
	Amount   decimal.Decimal

	// GroupCode restricts which grouped charges apply to this line.
	GroupCode string

	// AccumulatedCharge grows as charges are distributed.
	AccumulatedCharge decimal.Decimal
}

func (it *LineItem) weight(b Basis) decimal.Decimal {
	if b == ByQuantity {
		return it.Quantity
	}
	return it.Amount
}

// ChargeEntry is a tax or incidental cost to distribute.
type ChargeEntry struct {
	// Label identifies the charge in results (e.g. its expense account).
	Label string

	// Amount is signed; negative charges reduce valuation.
	Amount decimal.Decimal

	// Grouped charges only reach line items sharing GroupCode.
	Grouped   bool
	GroupCode string
}

// SkipReason explains why a charge was not applied.
type SkipReason string

const (
	SkipNoMatchingItems SkipReason = "no matching items"
	SkipZeroBase        SkipReason = "zero distribution base"
)

// Increment is the share of one charge added to one line item.
type Increment struct {
	// Index is the position of the line item in the input slice.
	Index  int
	ItemID string
	Amount decimal.Decimal
}

// ChargeOutcome records what happened to one charge.
type ChargeOutcome struct {
	// Charge is the position of the charge in the input slice.
	Charge int
	Label  string
	Amount decimal.Decimal

	// Skipped is empty when the charge was applied.
	Skipped SkipReason

	Base       decimal.Decimal
	Increments []Increment
}

// Applied reports whether the charge reached at least one line item.
func (o ChargeOutcome) Applied() bool { return o.Skipped == "" }

// SkippedNoOp reports whether the charge was skipped without error.
func (o ChargeOutcome) SkippedNoOp() bool { return o.Skipped != "" }

// Result is the outcome of a distribution run, one entry per charge.
type Result struct {
	Basis    Basis
	Outcomes []ChargeOutcome
}

// Applied counts the charges that were distributed.
func (r *Result) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Applied() {
			n++
		}
	}
	return n
}

// Skipped counts the charges that were skipped.
func (r *Result) Skipped() int {
	return len(r.Outcomes) - r.Applied()
}

// Distribute allocates each charge across its target line items in
// proportion to amount or quantity, adding to AccumulatedCharge.
//
// Every line but the last of a target subset receives its share rounded to
// 2 places; the last receives the remainder, so the increments of a charge
// always sum exactly to its amount. A grouped charge with no matching lines,
// or a subset whose total weight is zero, is skipped without error.
//
// Malformed input is rejected with a *models.RejectedInput before any line
// is mutated.
func Distribute(items []*LineItem, charges []ChargeEntry, basis Basis) (*Result, error) {
	if err := validate(items, basis); err != nil {
		return nil, err
	}

	result := &Result{Basis: basis, Outcomes: make([]ChargeOutcome, 0, len(charges))}
	for ci, c := range charges {
		outcome := ChargeOutcome{Charge: ci, Label: c.Label, Amount: c.Amount}

		subset := targets(items, c)
		if len(subset) == 0 {
			outcome.Skipped = SkipNoMatchingItems
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		base := decimal.Zero
		for _, idx := range subset {
			base = base.Add(items[idx].weight(basis))
		}
		outcome.Base = base
		if base.IsZero() {
			outcome.Skipped = SkipZeroBase
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		distributed := decimal.Zero
		last := len(subset) - 1
		outcome.Increments = make([]Increment, 0, len(subset))
		for pos, idx := range subset {
			item := items[idx]

			var inc decimal.Decimal
			if pos == last {
				inc = c.Amount.Sub(distributed)
			} else {
				inc = item.weight(basis).Mul(c.Amount).Div(base).Round(2)
				distributed = distributed.Add(inc)
			}

			item.AccumulatedCharge = item.AccumulatedCharge.Add(inc)
			outcome.Increments = append(outcome.Increments, Increment{Index: idx, ItemID: item.ID, Amount: inc})
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// targets returns the indexes of the line items a charge applies to, in
// input order. A grouped charge without a code is spread over every line,
// the same as ClassifyTax does for an NGP account with no code.
func targets(items []*LineItem, c ChargeEntry) []int {
	grouped := c.Grouped && c.GroupCode != ""
	subset := make([]int, 0, len(items))
	for i, item := range items {
		if grouped && item.GroupCode != c.GroupCode {
			continue
		}
		subset = append(subset, i)
	}
	return subset
}

func validate(items []*LineItem, basis Basis) error {
	if !basis.valid() {
		return models.Reject(ErrUnknownBasis, "Invalid Distribution Basis",
			"charges can be distributed by Amount or Qty, got %s", basis)
	}
	for i, item := range items {
		if item == nil {
			return models.Reject(ErrNilLineItem, "Invalid Line Item", "row #%d is empty", i+1)
		}
		if item.Quantity.IsNegative() {
			return models.Reject(ErrNegativeQuantity, "Invalid Line Item",
				"row #%d (%s) has quantity %s", i+1, item.ID, item.Quantity)
		}
		if item.Amount.IsNegative() {
			return models.Reject(ErrNegativeAmount, "Invalid Line Item",
				"row #%d (%s) has amount %s", i+1, item.ID, item.Amount)
		}
	}
	return nil
}
