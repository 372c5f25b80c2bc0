package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tnerp/internal/models"
)

// CreateCompany inserts a company and its default account mapping.
func (s *SQLiteStore) CreateCompany(ctx context.Context, company *models.Company) error {
	if company.CreatedAt == 0 {
		company.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO companies (name, abbr, default_currency, enable_perpetual_inventory, cost_center, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		company.Name, company.Abbr, company.DefaultCurrency,
		boolInt(company.EnablePerpetualInventory), company.CostCenter, company.CreatedAt,
	)
	if err != nil {
		return insertErr("company", company.Name, err)
	}

	if err := writeCompanyDefaults(ctx, tx, company); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCompany retrieves a company with its defaults.
func (s *SQLiteStore) GetCompany(ctx context.Context, name string) (*models.Company, error) {
	company := &models.Company{}
	var perpetual int
	err := s.db.QueryRowContext(ctx, `
		SELECT name, abbr, default_currency, enable_perpetual_inventory, cost_center, created_at
		FROM companies WHERE name = ?`, name,
	).Scan(&company.Name, &company.Abbr, &company.DefaultCurrency, &perpetual, &company.CostCenter, &company.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("company", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	company.EnablePerpetualInventory = perpetual == 1

	rows, err := s.db.QueryContext(ctx,
		"SELECT field, account FROM company_defaults WHERE company = ? ORDER BY field", name)
	if err != nil {
		return nil, fmt.Errorf("failed to get company defaults: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var field, account string
		if err := rows.Scan(&field, &account); err != nil {
			return nil, fmt.Errorf("failed to scan company default: %w", err)
		}
		company.SetDefault(field, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate company defaults: %w", err)
	}

	return company, nil
}

// UpdateCompany rewrites a company row and replaces its defaults.
func (s *SQLiteStore) UpdateCompany(ctx context.Context, company *models.Company) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE companies
		SET abbr = ?, default_currency = ?, enable_perpetual_inventory = ?, cost_center = ?
		WHERE name = ?`,
		company.Abbr, company.DefaultCurrency, boolInt(company.EnablePerpetualInventory),
		company.CostCenter, company.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("company", company.Name)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM company_defaults WHERE company = ?", company.Name); err != nil {
		return fmt.Errorf("failed to clear company defaults: %w", err)
	}
	if err := writeCompanyDefaults(ctx, tx, company); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeCompanyDefaults(ctx context.Context, tx *sql.Tx, company *models.Company) error {
	for field, account := range company.Defaults {
		if account == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO company_defaults (company, field, account) VALUES (?, ?, ?)",
			company.Name, field, account,
		)
		if err != nil {
			return fmt.Errorf("failed to insert company default %s: %w", field, err)
		}
	}
	return nil
}

// ListCompanyNames returns every company name in alphabetical order.
func (s *SQLiteStore) ListCompanyNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM companies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}
	return names, nil
}

// CompanyHasGLEntries reports whether any ledger postings exist for company.
func (s *SQLiteStore) CompanyHasGLEntries(ctx context.Context, company string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT 1 FROM gl_entries WHERE company = ? LIMIT 1", company)
	if err != nil {
		return false, fmt.Errorf("failed to check gl entries: %w", err)
	}
	return ok, nil
}

// CreateGLEntry records a ledger posting.
func (s *SQLiteStore) CreateGLEntry(ctx context.Context, entry *models.GLEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.PostingDate == "" {
		entry.PostingDate = time.Now().UTC().Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gl_entries (id, company, account, debit, credit, posting_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Company, entry.Account, entry.Debit.String(), entry.Credit.String(), entry.PostingDate,
	)
	if err != nil {
		return insertErr("gl entry", entry.ID, err)
	}
	return nil
}
