package models

import "github.com/shopspring/decimal"

// LandedCostVoucher adds taxes and incidental charges to the valuation of
// received stock items.
type LandedCostVoucher struct {
	// Name is the voucher identifier, e.g. "LCV-0001".
	Name    string
	Company string

	// DistributeChargesBasedOn is "Amount" or "Qty".
	DistributeChargesBasedOn string

	// Items are the received stock lines, in document order.
	Items []LandedCostItem

	// Taxes are the charges to distribute, in document order.
	Taxes []LandedCostTax

	DocStatus int
	CreatedAt int64
}

func (v *LandedCostVoucher) DocType() string { return DocTypeLandedCostVoucher }
func (v *LandedCostVoucher) DocName() string { return v.Name }

// LandedCostItem is one received stock line.
type LandedCostItem struct {
	ItemCode string
	Qty      decimal.Decimal
	Amount   decimal.Decimal

	// ApplicableCharges is the share of voucher taxes charged to this line.
	ApplicableCharges decimal.Decimal
}

// LandedCostTax is one tax or charge line.
type LandedCostTax struct {
	Description    string
	ExpenseAccount string

	// NGPCode restricts an NGP duty to items with the same item-master code.
	NGPCode string

	Amount decimal.Decimal
}
