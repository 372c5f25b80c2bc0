// Package visits plans and tracks salesperson visit targets.
package visits

import (
	"errors"
	"time"

	"github.com/mmynk/tnerp/internal/models"
)

// Period types a visit target row can carry.
const (
	CurrentMonth   = "Current Month"
	CurrentQuarter = "Current Quarter"
	Next30Days     = "Next 30 Days"
	CustomRange    = "Custom Range"
)

var (
	// ErrMissingCustomerOrTerritory rejects a row that names neither.
	ErrMissingCustomerOrTerritory = errors.New("missing customer or territory")
	// ErrOverlappingTargets rejects two rows for the same target whose ranges overlap.
	ErrOverlappingTargets = errors.New("overlapping visit targets")
	// ErrInvertedRange rejects a row whose end date precedes its start date.
	ErrInvertedRange = errors.New("end date before start date")
)

// ResolvePeriod computes the date range of a visit target row from its period
// type. Fixed periods are relative to today and read-only; a custom range
// keeps the given dates and stays editable; any other value clears them.
func ResolvePeriod(periodType string, today, start, end time.Time) (time.Time, time.Time, bool) {
	day := truncate(today)
	switch periodType {
	case CurrentMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), true
	case CurrentQuarter:
		qStart := time.Month((int(day.Month())-1)/3*3 + 1)
		first := time.Date(day.Year(), qStart, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 3, -1), true
	case Next30Days:
		return day, day.AddDate(0, 0, 30), true
	case CustomRange:
		return start, end, false
	default:
		return time.Time{}, time.Time{}, false
	}
}

// ApplyPeriod fills a row's dates from its period type and reports whether
// the dates are read-only.
func ApplyPeriod(row *models.VisitTarget, today time.Time) bool {
	start, end, readOnly := ResolvePeriod(row.PeriodType, today, row.StartDate, row.EndDate)
	row.StartDate, row.EndDate = start, end
	return readOnly
}

// ValidateRow checks a single visit target row.
func ValidateRow(row *models.VisitTarget) error {
	if row.Customer == "" && row.Territory == "" {
		return models.Reject(ErrMissingCustomerOrTerritory, "Missing Information",
			"Please specify either a Customer or a Territory. One of them is required.")
	}
	return nil
}

// ValidateTargets checks every row of a salesperson. Rows aimed at the same
// customer, or the same territory when no customer is set, must not overlap.
func ValidateTargets(sp *models.SalesPerson) error {
	for i := range sp.VisitTargets {
		row := &sp.VisitTargets[i]
		if row.Customer == "" && row.Territory == "" {
			return models.Reject(ErrMissingCustomerOrTerritory, "Missing Information in Visit Target Details",
				"Row #%d: Please specify either a Customer or a Territory in Visit Target Details. One of them is required.", i+1)
		}
		if row.HasRange() && row.EndDate.Before(row.StartDate) {
			return models.Reject(ErrInvertedRange, "Invalid Visit Target",
				"Row #%d: End Date %s is before Start Date %s.", i+1,
				row.EndDate.Format(time.DateOnly), row.StartDate.Format(time.DateOnly))
		}
	}

	for i := range sp.VisitTargets {
		a := &sp.VisitTargets[i]
		if !a.HasRange() {
			continue
		}
		for j := i + 1; j < len(sp.VisitTargets); j++ {
			b := &sp.VisitTargets[j]
			if !b.HasRange() || targetKey(a) != targetKey(b) {
				continue
			}
			if !a.EndDate.Before(b.StartDate) && !b.EndDate.Before(a.StartDate) {
				return models.Reject(ErrOverlappingTargets, "Overlapping Visit Targets",
					"Row #%d overlaps row #%d for %s.", j+1, i+1, targetKey(a))
			}
		}
	}
	return nil
}

// MatchVisit returns the first row targeting customer whose range covers
// day, or nil.
func MatchVisit(sp *models.SalesPerson, customer string, day time.Time) *models.VisitTarget {
	for i := range sp.VisitTargets {
		row := &sp.VisitTargets[i]
		if row.Customer == customer && row.Covers(day) {
			return row
		}
	}
	return nil
}

// targetKey identifies what a row targets. Customer and territory names
// live in separate namespaces.
func targetKey(row *models.VisitTarget) string {
	if row.Customer != "" {
		return "customer " + row.Customer
	}
	return "territory " + row.Territory
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
