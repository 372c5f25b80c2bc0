package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tnerp/internal/models"
)

// CreateLandedCostVoucher persists a voucher with its items and taxes.
func (s *SQLiteStore) CreateLandedCostVoucher(ctx context.Context, v *models.LandedCostVoucher) error {
	if v.CreatedAt == 0 {
		v.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO landed_cost_vouchers (name, company, distribute_charges_based_on, docstatus, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		v.Name, v.Company, v.DistributeChargesBasedOn, v.DocStatus, v.CreatedAt,
	)
	if err != nil {
		return insertErr("landed cost voucher", v.Name, err)
	}
	if err := writeVoucherRows(ctx, tx, v); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetLandedCostVoucher retrieves a voucher with its rows in document order.
func (s *SQLiteStore) GetLandedCostVoucher(ctx context.Context, name string) (*models.LandedCostVoucher, error) {
	v := &models.LandedCostVoucher{}
	err := s.db.QueryRowContext(ctx, `
		SELECT name, company, distribute_charges_based_on, docstatus, created_at
		FROM landed_cost_vouchers WHERE name = ?`, name,
	).Scan(&v.Name, &v.Company, &v.DistributeChargesBasedOn, &v.DocStatus, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("landed cost voucher", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get landed cost voucher: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT item_code, qty, amount, applicable_charges
		FROM landed_cost_items WHERE voucher = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get voucher items: %w", err)
	}
	for itemRows.Next() {
		var item models.LandedCostItem
		if err := itemRows.Scan(&item.ItemCode, &item.Qty, &item.Amount, &item.ApplicableCharges); err != nil {
			itemRows.Close()
			return nil, fmt.Errorf("failed to scan voucher item: %w", err)
		}
		v.Items = append(v.Items, item)
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voucher items: %w", err)
	}

	taxRows, err := s.db.QueryContext(ctx, `
		SELECT description, expense_account, ngp_code, amount
		FROM landed_cost_taxes WHERE voucher = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get voucher taxes: %w", err)
	}
	defer taxRows.Close()
	for taxRows.Next() {
		var tax models.LandedCostTax
		if err := taxRows.Scan(&tax.Description, &tax.ExpenseAccount, &tax.NGPCode, &tax.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan voucher tax: %w", err)
		}
		v.Taxes = append(v.Taxes, tax)
	}
	if err := taxRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voucher taxes: %w", err)
	}

	return v, nil
}

// UpdateLandedCostVoucher rewrites the voucher header and replaces its rows.
func (s *SQLiteStore) UpdateLandedCostVoucher(ctx context.Context, v *models.LandedCostVoucher) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE landed_cost_vouchers
		SET company = ?, distribute_charges_based_on = ?, docstatus = ?
		WHERE name = ?`,
		v.Company, v.DistributeChargesBasedOn, v.DocStatus, v.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update landed cost voucher: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("landed cost voucher", v.Name)
	}

	for _, table := range []string{"landed_cost_items", "landed_cost_taxes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE voucher = ?", v.Name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := writeVoucherRows(ctx, tx, v); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeVoucherRows(ctx context.Context, tx *sql.Tx, v *models.LandedCostVoucher) error {
	for i, item := range v.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO landed_cost_items (voucher, idx, item_code, qty, amount, applicable_charges)
			VALUES (?, ?, ?, ?, ?, ?)`,
			v.Name, i+1, item.ItemCode, item.Qty.String(), item.Amount.String(), item.ApplicableCharges.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert voucher item: %w", err)
		}
	}
	for i, tax := range v.Taxes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO landed_cost_taxes (voucher, idx, description, expense_account, ngp_code, amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			v.Name, i+1, tax.Description, tax.ExpenseAccount, tax.NGPCode, tax.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert voucher tax: %w", err)
		}
	}
	return nil
}
