package models

import "time"

// SalesPerson carries the visit targets assigned to a salesperson.
type SalesPerson struct {
	Name string

	// VisitTargets is the "custom_number_visit_target" child table.
	VisitTargets []VisitTarget
}

func (s *SalesPerson) DocType() string { return DocTypeSalesPerson }
func (s *SalesPerson) DocName() string { return s.Name }

// VisitTarget is a planned number of visits to a customer or territory over
// a date range.
type VisitTarget struct {
	// Idx is the 1-based row number within the parent.
	Idx int

	Customer  string
	Territory string

	// PeriodType is Current Month, Current Quarter, Next 30 Days or
	// Custom Range.
	PeriodType string

	// StartDate and EndDate are zero when unset.
	StartDate time.Time
	EndDate   time.Time

	TargetVisits    int
	CompletedVisits int
}

func (t *VisitTarget) DocType() string { return DocTypeVisitTarget }
func (t *VisitTarget) DocName() string { return "" }

// HasRange reports whether both dates are set.
func (t *VisitTarget) HasRange() bool {
	return !t.StartDate.IsZero() && !t.EndDate.IsZero()
}

// Covers reports whether day falls inside the row's inclusive date range.
func (t *VisitTarget) Covers(day time.Time) bool {
	if !t.HasRange() {
		return false
	}
	d := truncateDay(day)
	return !d.Before(truncateDay(t.StartDate)) && !d.After(truncateDay(t.EndDate))
}

// SalesVisitLog records a visit of a salesperson to a customer.
type SalesVisitLog struct {
	Name        string
	SalesPerson string
	Customer    string
	VisitDate   time.Time
	DocStatus   int
	CreatedAt   int64
}

func (l *SalesVisitLog) DocType() string { return DocTypeSalesVisitLog }
func (l *SalesVisitLog) DocName() string { return l.Name }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
