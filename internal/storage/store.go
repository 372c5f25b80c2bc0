// Package storage provides abstractions for persistent document storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tnerp/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when inserting a document whose name is taken.
	ErrDuplicate = errors.New("duplicate entry")
)

// CompanyStore persists companies and answers ledger questions about them.
type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, name string) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	ListCompanyNames(ctx context.Context) ([]string, error)

	// CompanyHasGLEntries reports whether any ledger postings exist.
	CompanyHasGLEntries(ctx context.Context, company string) (bool, error)
	CreateGLEntry(ctx context.Context, entry *models.GLEntry) error
}

// AccountStore persists chart of accounts nodes.
type AccountStore interface {
	// CreateAccount returns ErrDuplicate when (company, name) is taken.
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, company, name string) (*models.Account, error)
	// FindAccountByLabel looks an account up by its label within a company.
	FindAccountByLabel(ctx context.Context, company, accountName string) (*models.Account, error)
	AccountExists(ctx context.Context, company, name string) (bool, error)
	ListAccounts(ctx context.Context, company string) ([]*models.Account, error)
}

// ItemStore persists item masters.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, code string) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	// ListEnabledItems returns at most limit enabled items ordered by code.
	ListEnabledItems(ctx context.Context, limit int) ([]*models.Item, error)
}

// StockStore persists warehouses, cost centers and stock settings.
type StockStore interface {
	CreateWarehouse(ctx context.Context, wh *models.Warehouse) error
	UpdateWarehouse(ctx context.Context, wh *models.Warehouse) error
	ListWarehouses(ctx context.Context, company string) ([]*models.Warehouse, error)

	GetStockSettings(ctx context.Context) (*models.StockSettings, error)
	UpdateStockSettings(ctx context.Context, settings *models.StockSettings) error

	CreateCostCenter(ctx context.Context, cc *models.CostCenter) error
	CostCenterExists(ctx context.Context, name string) (bool, error)
}

// TaxStore persists tax and payment templates.
type TaxStore interface {
	CreateTaxTemplate(ctx context.Context, tpl *models.TaxTemplate) error
	TaxTemplateExists(ctx context.Context, kind, title string) (bool, error)

	CreateModeOfPayment(ctx context.Context, mop *models.ModeOfPayment) error
	GetModeOfPayment(ctx context.Context, name string) (*models.ModeOfPayment, error)
	UpdateModeOfPayment(ctx context.Context, mop *models.ModeOfPayment) error
}

// VoucherStore persists landed cost vouchers.
type VoucherStore interface {
	CreateLandedCostVoucher(ctx context.Context, v *models.LandedCostVoucher) error
	GetLandedCostVoucher(ctx context.Context, name string) (*models.LandedCostVoucher, error)
	UpdateLandedCostVoucher(ctx context.Context, v *models.LandedCostVoucher) error
}

// SalesStore persists salespeople and their visit logs.
type SalesStore interface {
	// SaveSalesPerson inserts or replaces a salesperson and its targets.
	SaveSalesPerson(ctx context.Context, sp *models.SalesPerson) error
	GetSalesPerson(ctx context.Context, name string) (*models.SalesPerson, error)

	CreateSalesVisitLog(ctx context.Context, log *models.SalesVisitLog) error
	GetSalesVisitLog(ctx context.Context, name string) (*models.SalesVisitLog, error)
	UpdateSalesVisitLog(ctx context.Context, log *models.SalesVisitLog) error
}

// WorkspaceStore persists desk workspaces.
type WorkspaceStore interface {
	CreateWorkspace(ctx context.Context, ws *models.Workspace) error
	WorkspaceExists(ctx context.Context, name string) (bool, error)
	DeleteWorkspace(ctx context.Context, name string) error
	RenameWorkspace(ctx context.Context, oldName, newName string) error
}

// PatchLog records applied migration patches.
type PatchLog interface {
	PatchApplied(ctx context.Context, name string) (bool, error)
	RecordPatch(ctx context.Context, name string) error
}

// OperatorStore persists API operators.
type OperatorStore interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	// GetOperatorByEmail returns ErrNotFound when no operator matches.
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
	GetOperatorByID(ctx context.Context, id string) (*models.Operator, error)
}

// Store groups every document operation. This abstraction allows swapping
// storage backends without changing hooks or services.
type Store interface {
	CompanyStore
	AccountStore
	ItemStore
	StockStore
	TaxStore
	VoucherStore
	SalesStore
	WorkspaceStore
	PatchLog
	OperatorStore

	// Close releases any resources held by the store.
	Close() error
}
