package hooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/tnerp/internal/calculator"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage"
)

// ItemLookup resolves item masters for NGP matching.
type ItemLookup interface {
	GetItem(ctx context.Context, code string) (*models.Item, error)
}

// VoucherRun is the outcome of distributing a voucher's charges.
type VoucherRun struct {
	Result  *calculator.Result
	Summary calculator.Summary
	// Lines are human-readable debug lines for the run.
	Lines []string
}

// DistributeVoucher recomputes the applicable charges of every voucher line
// from zero. A rejected voucher is left as it was. NGP duties go to lines whose item master carries the same
// NGP code; a line whose item master is missing matches no NGP duty.
func DistributeVoucher(ctx context.Context, items ItemLookup, v *models.LandedCostVoucher, currency string) (*VoucherRun, error) {
	basis, err := calculator.ParseBasis(v.DistributeChargesBasedOn)
	if err != nil {
		return nil, err
	}

	charges := make([]calculator.ChargeEntry, len(v.Taxes))
	grouped := false
	for i, tax := range v.Taxes {
		charges[i] = calculator.ClassifyTax(tax.ExpenseAccount, tax.NGPCode, tax.Amount)
		grouped = grouped || charges[i].Grouped
	}

	lines := make([]*calculator.LineItem, len(v.Items))
	codes := make(map[string]string)
	for i, it := range v.Items {
		line := &calculator.LineItem{ID: it.ItemCode, Quantity: it.Qty, Amount: it.Amount}
		if grouped {
			code, ok := codes[it.ItemCode]
			if !ok {
				code, err = ngpCode(ctx, items, it.ItemCode)
				if err != nil {
					return nil, err
				}
				codes[it.ItemCode] = code
			}
			line.GroupCode = code
		}
		lines[i] = line
	}

	result, err := calculator.Distribute(lines, charges, basis)
	if err != nil {
		return nil, err
	}

	for i := range v.Items {
		v.Items[i].ApplicableCharges = lines[i].AccumulatedCharge
	}

	run := &VoucherRun{Result: result, Summary: calculator.Summarize(lines)}
	for _, o := range result.Outcomes {
		if o.SkippedNoOp() {
			run.Lines = append(run.Lines, fmt.Sprintf("Charge #%d (%s): skipped, %s", o.Charge+1, o.Label, o.Skipped))
			continue
		}
		run.Lines = append(run.Lines, fmt.Sprintf("Charge #%d (%s): %s over base %s",
			o.Charge+1, o.Label, calculator.FormatMoney(o.Amount, currency), o.Base.StringFixed(2)))
	}
	run.Lines = append(run.Lines, run.Summary.Lines(currency)...)
	return run, nil
}

func ngpCode(ctx context.Context, items ItemLookup, code string) (string, error) {
	item, err := items.GetItem(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load item %s: %w", code, err)
	}
	return item.NGPCode, nil
}

func (h *Handlers) landedCostBeforeValidate(ctx context.Context, doc models.Doc) error {
	v, ok := doc.(*models.LandedCostVoucher)
	if !ok {
		return fmt.Errorf("unexpected document %T", doc)
	}

	run, err := DistributeVoucher(ctx, h.store, v, h.currency(ctx, v.Company))
	if err != nil {
		return err
	}
	h.metrics.ChargesDistributed(run.Result.Applied(), run.Result.Skipped())

	logger := h.logger.With("voucher", v.Name)
	for _, line := range run.Lines {
		logger.DebugContext(ctx, line)
	}
	if !run.Summary.Balanced() {
		logger.WarnContext(ctx, "landed cost journal does not balance",
			"initial", run.Summary.InitialValue, "charges", run.Summary.TotalCharges, "final", run.Summary.FinalValue)
	}
	logger.InfoContext(ctx, "landed cost charges distributed",
		"applied", run.Result.Applied(), "skipped", run.Result.Skipped(), "total", run.Summary.TotalCharges)
	return nil
}

func (h *Handlers) currency(ctx context.Context, company string) string {
	if company != "" {
		c, err := h.store.GetCompany(ctx, company)
		if err == nil && c.DefaultCurrency != "" {
			return c.DefaultCurrency
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.logger.WarnContext(ctx, "company lookup failed", "company", company, "error", err)
		}
	}
	return h.defaultCurrency
}
