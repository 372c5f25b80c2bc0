// Package models defines the ERP documents that tnerp customizes.
//
// # Documents
//
// The host ERP owns far more doctypes than these; only the ones the
// customizations read or write are modelled:
//   - Company, Account, CostCenter, Warehouse, StockSettings: the chart of
//     accounts and company configuration targets
//   - TaxTemplate, ModeOfPayment: records created by company setup
//   - Item: item master, carrying the NGP customs classification code
//   - LandedCostVoucher: stock items plus the taxes and charges to distribute
//   - SalesPerson, VisitTarget, SalesVisitLog: visit planning and tracking
//   - Workspace: desk workspaces touched by migration patches
//   - Operator: an API user allowed to call the RPC surface
//
// # Conventions
//
//  1. Monetary amounts and quantities are decimal.Decimal, never float64.
//  2. Documents reference each other by name strings, as the ERP does.
//  3. Child rows are ordered slices; the order is significant for charge
//     distribution and is persisted as an explicit idx column.
//  4. Every document type implements Doc so hooks can dispatch on it.
package models

// Doc is implemented by every document that can fire lifecycle hooks.
type Doc interface {
	DocType() string
	DocName() string
}

// Document type names, as the ERP spells them.
const (
	DocTypeCompany           = "Company"
	DocTypeAccount           = "Account"
	DocTypeItem              = "Item"
	DocTypeLandedCostVoucher = "Landed Cost Voucher"
	DocTypeSalesPerson       = "Sales Person"
	DocTypeVisitTarget       = "Visit Target Detail"
	DocTypeSalesVisitLog     = "Sales Visit Log"
	DocTypeWorkspace         = "Workspace"
)

// Document status values.
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)
