package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/tnerp/internal/models"
)

// CreateWarehouse inserts a warehouse.
func (s *SQLiteStore) CreateWarehouse(ctx context.Context, wh *models.Warehouse) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO warehouses (name, company, account) VALUES (?, ?, ?)",
		wh.Name, wh.Company, wh.Account,
	)
	if err != nil {
		return insertErr("warehouse", wh.Name, err)
	}
	return nil
}

// UpdateWarehouse rewrites the warehouse's company and stock account.
func (s *SQLiteStore) UpdateWarehouse(ctx context.Context, wh *models.Warehouse) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE warehouses SET company = ?, account = ? WHERE name = ?",
		wh.Company, wh.Account, wh.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update warehouse: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("warehouse", wh.Name)
	}
	return nil
}

// ListWarehouses returns the warehouses of company ordered by name.
func (s *SQLiteStore) ListWarehouses(ctx context.Context, company string) ([]*models.Warehouse, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, company, account FROM warehouses WHERE company = ? ORDER BY name", company)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	var out []*models.Warehouse
	for rows.Next() {
		wh := &models.Warehouse{}
		if err := rows.Scan(&wh.Name, &wh.Company, &wh.Account); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		out = append(out, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate warehouses: %w", err)
	}
	return out, nil
}

// GetStockSettings reads the single stock settings row.
func (s *SQLiteStore) GetStockSettings(ctx context.Context) (*models.StockSettings, error) {
	settings := &models.StockSettings{}
	err := s.db.QueryRowContext(ctx,
		"SELECT default_warehouse_account FROM stock_settings WHERE id = 1",
	).Scan(&settings.DefaultWarehouseAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock settings: %w", err)
	}
	return settings, nil
}

// UpdateStockSettings writes the single stock settings row.
func (s *SQLiteStore) UpdateStockSettings(ctx context.Context, settings *models.StockSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_settings (id, default_warehouse_account) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET default_warehouse_account = excluded.default_warehouse_account`,
		settings.DefaultWarehouseAccount,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock settings: %w", err)
	}
	return nil
}

// CreateCostCenter inserts a cost center node.
func (s *SQLiteStore) CreateCostCenter(ctx context.Context, cc *models.CostCenter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cost_centers (name, cost_center_name, parent_cost_center, company, is_group)
		VALUES (?, ?, ?, ?, ?)`,
		cc.Name, cc.CostCenterName, cc.ParentCostCenter, cc.Company, boolInt(cc.IsGroup),
	)
	if err != nil {
		return insertErr("cost center", cc.Name, err)
	}
	return nil
}

// CostCenterExists reports whether a cost center called name exists.
func (s *SQLiteStore) CostCenterExists(ctx context.Context, name string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT 1 FROM cost_centers WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to check cost center: %w", err)
	}
	return ok, nil
}
