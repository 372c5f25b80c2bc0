package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/tnerp/internal/models"
)

// CreateItem inserts an item master with its company defaults.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO items (code, name, disabled, ngp_code) VALUES (?, ?, ?, ?)",
		item.Code, item.Name, boolInt(item.Disabled), item.NGPCode,
	)
	if err != nil {
		return insertErr("item", item.Code, err)
	}
	if err := writeItemDefaults(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetItem retrieves an item master by code.
func (s *SQLiteStore) GetItem(ctx context.Context, code string) (*models.Item, error) {
	item := &models.Item{}
	var disabled int
	err := s.db.QueryRowContext(ctx,
		"SELECT code, name, disabled, ngp_code FROM items WHERE code = ?", code,
	).Scan(&item.Code, &item.Name, &disabled, &item.NGPCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("item", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	item.Disabled = disabled == 1

	if err := s.loadItemDefaults(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem rewrites an item master and replaces its defaults.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE items SET name = ?, disabled = ?, ngp_code = ? WHERE code = ?",
		item.Name, boolInt(item.Disabled), item.NGPCode, item.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("item", item.Code)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM item_defaults WHERE item_code = ?", item.Code); err != nil {
		return fmt.Errorf("failed to clear item defaults: %w", err)
	}
	if err := writeItemDefaults(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEnabledItems returns at most limit enabled items ordered by code.
func (s *SQLiteStore) ListEnabledItems(ctx context.Context, limit int) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT code, name, disabled, ngp_code FROM items WHERE disabled = 0 ORDER BY code LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		var disabled int
		if err := rows.Scan(&item.Code, &item.Name, &disabled, &item.NGPCode); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Disabled = disabled == 1
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	// Defaults are loaded after the cursor closes; the pool holds one connection.
	for _, item := range items {
		if err := s.loadItemDefaults(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *SQLiteStore) loadItemDefaults(ctx context.Context, item *models.Item) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT company, income_account, expense_account, buying_cost_center, selling_cost_center
		FROM item_defaults WHERE item_code = ? ORDER BY company`, item.Code)
	if err != nil {
		return fmt.Errorf("failed to get item defaults: %w", err)
	}
	defer rows.Close()

	item.Defaults = nil
	for rows.Next() {
		var def models.ItemDefault
		if err := rows.Scan(&def.Company, &def.IncomeAccount, &def.ExpenseAccount,
			&def.BuyingCostCenter, &def.SellingCostCenter); err != nil {
			return fmt.Errorf("failed to scan item default: %w", err)
		}
		item.Defaults = append(item.Defaults, def)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate item defaults: %w", err)
	}
	return nil
}

func writeItemDefaults(ctx context.Context, tx *sql.Tx, item *models.Item) error {
	for _, def := range item.Defaults {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO item_defaults (item_code, company, income_account, expense_account, buying_cost_center, selling_cost_center)
			VALUES (?, ?, ?, ?, ?, ?)`,
			item.Code, def.Company, def.IncomeAccount, def.ExpenseAccount, def.BuyingCostCenter, def.SellingCostCenter,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item default: %w", err)
		}
	}
	return nil
}
