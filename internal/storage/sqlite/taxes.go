package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/tnerp/internal/models"
)

// CreateTaxTemplate inserts a sales or purchase tax template with its rows.
func (s *SQLiteStore) CreateTaxTemplate(ctx context.Context, tpl *models.TaxTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO tax_templates (kind, title, company) VALUES (?, ?, ?)",
		tpl.Kind, tpl.Title, tpl.Company,
	)
	if err != nil {
		return insertErr("tax template", tpl.Title, err)
	}

	for i, row := range tpl.Taxes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tax_template_rows (kind, title, idx, account_head, rate, description, charge_type, account_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			tpl.Kind, tpl.Title, i+1, row.AccountHead, row.Rate.String(), row.Description, row.ChargeType, row.AccountType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tax row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TaxTemplateExists reports whether a template of kind with title exists.
func (s *SQLiteStore) TaxTemplateExists(ctx context.Context, kind, title string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT 1 FROM tax_templates WHERE kind = ? AND title = ?", kind, title)
	if err != nil {
		return false, fmt.Errorf("failed to check tax template: %w", err)
	}
	return ok, nil
}

// CreateModeOfPayment inserts a payment method and its company accounts.
func (s *SQLiteStore) CreateModeOfPayment(ctx context.Context, mop *models.ModeOfPayment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "INSERT INTO modes_of_payment (name, type) VALUES (?, ?)", mop.Name, mop.Type)
	if err != nil {
		return insertErr("mode of payment", mop.Name, err)
	}
	if err := writePaymentAccounts(ctx, tx, mop); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetModeOfPayment retrieves a payment method with its company accounts.
func (s *SQLiteStore) GetModeOfPayment(ctx context.Context, name string) (*models.ModeOfPayment, error) {
	mop := &models.ModeOfPayment{}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, type FROM modes_of_payment WHERE name = ?", name,
	).Scan(&mop.Name, &mop.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("mode of payment", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mode of payment: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT company, default_account FROM mode_of_payment_accounts
		WHERE mode_of_payment = ? ORDER BY company`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc models.ModeOfPaymentAccount
		if err := rows.Scan(&acc.Company, &acc.DefaultAccount); err != nil {
			return nil, fmt.Errorf("failed to scan payment account: %w", err)
		}
		mop.Accounts = append(mop.Accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment accounts: %w", err)
	}
	return mop, nil
}

// UpdateModeOfPayment rewrites a payment method and replaces its accounts.
func (s *SQLiteStore) UpdateModeOfPayment(ctx context.Context, mop *models.ModeOfPayment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE modes_of_payment SET type = ? WHERE name = ?", mop.Type, mop.Name)
	if err != nil {
		return fmt.Errorf("failed to update mode of payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("mode of payment", mop.Name)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM mode_of_payment_accounts WHERE mode_of_payment = ?", mop.Name); err != nil {
		return fmt.Errorf("failed to clear payment accounts: %w", err)
	}
	if err := writePaymentAccounts(ctx, tx, mop); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writePaymentAccounts(ctx context.Context, tx *sql.Tx, mop *models.ModeOfPayment) error {
	for _, acc := range mop.Accounts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mode_of_payment_accounts (mode_of_payment, company, default_account)
			VALUES (?, ?, ?)`,
			mop.Name, acc.Company, acc.DefaultAccount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment account: %w", err)
		}
	}
	return nil
}
