package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tnerp/internal/models"
)

// SaveSalesPerson inserts or replaces a salesperson and its visit targets.
func (s *SQLiteStore) SaveSalesPerson(ctx context.Context, sp *models.SalesPerson) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sales_persons (name) VALUES (?) ON CONFLICT(name) DO NOTHING", sp.Name); err != nil {
		return fmt.Errorf("failed to upsert sales person: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM visit_targets WHERE sales_person = ?", sp.Name); err != nil {
		return fmt.Errorf("failed to clear visit targets: %w", err)
	}

	for i := range sp.VisitTargets {
		t := &sp.VisitTargets[i]
		if t.Idx == 0 {
			t.Idx = i + 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO visit_targets (sales_person, idx, customer, territory, period_type,
				start_date, end_date, target_visits, completed_visits)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sp.Name, t.Idx, t.Customer, t.Territory, t.PeriodType,
			formatDate(t.StartDate), formatDate(t.EndDate), t.TargetVisits, t.CompletedVisits,
		)
		if err != nil {
			return fmt.Errorf("failed to insert visit target %d: %w", t.Idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSalesPerson retrieves a salesperson with its visit targets by row order.
func (s *SQLiteStore) GetSalesPerson(ctx context.Context, name string) (*models.SalesPerson, error) {
	sp := &models.SalesPerson{}
	err := s.db.QueryRowContext(ctx, "SELECT name FROM sales_persons WHERE name = ?", name).Scan(&sp.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("sales person", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sales person: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, customer, territory, period_type, start_date, end_date, target_visits, completed_visits
		FROM visit_targets WHERE sales_person = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.VisitTarget
		var start, end string
		if err := rows.Scan(&t.Idx, &t.Customer, &t.Territory, &t.PeriodType,
			&start, &end, &t.TargetVisits, &t.CompletedVisits); err != nil {
			return nil, fmt.Errorf("failed to scan visit target: %w", err)
		}
		if t.StartDate, err = parseDate(start); err != nil {
			return nil, fmt.Errorf("invalid start date on row %d: %w", t.Idx, err)
		}
		if t.EndDate, err = parseDate(end); err != nil {
			return nil, fmt.Errorf("invalid end date on row %d: %w", t.Idx, err)
		}
		sp.VisitTargets = append(sp.VisitTargets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visit targets: %w", err)
	}
	return sp, nil
}

// CreateSalesVisitLog inserts a visit log.
func (s *SQLiteStore) CreateSalesVisitLog(ctx context.Context, log *models.SalesVisitLog) error {
	if log.CreatedAt == 0 {
		log.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sales_visit_logs (name, sales_person, customer, visit_date, docstatus, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		log.Name, log.SalesPerson, log.Customer, formatDate(log.VisitDate), log.DocStatus, log.CreatedAt,
	)
	if err != nil {
		return insertErr("sales visit log", log.Name, err)
	}
	return nil
}

// GetSalesVisitLog retrieves a visit log by name.
func (s *SQLiteStore) GetSalesVisitLog(ctx context.Context, name string) (*models.SalesVisitLog, error) {
	log := &models.SalesVisitLog{}
	var visitDate string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, sales_person, customer, visit_date, docstatus, created_at
		FROM sales_visit_logs WHERE name = ?`, name,
	).Scan(&log.Name, &log.SalesPerson, &log.Customer, &visitDate, &log.DocStatus, &log.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("sales visit log", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sales visit log: %w", err)
	}
	if log.VisitDate, err = parseDate(visitDate); err != nil {
		return nil, fmt.Errorf("invalid visit date: %w", err)
	}
	return log, nil
}

// UpdateSalesVisitLog rewrites a visit log.
func (s *SQLiteStore) UpdateSalesVisitLog(ctx context.Context, log *models.SalesVisitLog) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sales_visit_logs
		SET sales_person = ?, customer = ?, visit_date = ?, docstatus = ?
		WHERE name = ?`,
		log.SalesPerson, log.Customer, formatDate(log.VisitDate), log.DocStatus, log.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update sales visit log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("sales visit log", log.Name)
	}
	return nil
}
