package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tnerp/internal/calculator"
	"github.com/mmynk/tnerp/internal/docs"
	"github.com/mmynk/tnerp/internal/metrics"
	"github.com/mmynk/tnerp/pkg/api"
)

// LandedCostService implements the Connect LandedCostService.
type LandedCostService struct {
	docs     *docs.Manager
	metrics  *metrics.Metrics
	currency string
}

var _ api.LandedCostServiceHandler = (*LandedCostService)(nil)

// NewLandedCostService creates a LandedCostService saving vouchers through
// manager. currency formats summaries of stored vouchers.
func NewLandedCostService(manager *docs.Manager, m *metrics.Metrics, currency string) *LandedCostService {
	return &LandedCostService{docs: manager, metrics: m, currency: currency}
}

// Distribute runs the charge distributor over request data. Nothing is
// stored.
func (s *LandedCostService) Distribute(ctx context.Context, req *connect.Request[api.DistributeRequest]) (*connect.Response[api.DistributeResponse], error) {
	slog.Info("Distribute request received",
		"basis", req.Msg.Basis,
		"items_count", len(req.Msg.Items),
		"charges_count", len(req.Msg.Charges),
	)

	basis, err := calculator.ParseBasis(req.Msg.Basis)
	if err != nil {
		return nil, connectError(err)
	}

	items := make([]*calculator.LineItem, len(req.Msg.Items))
	for i, it := range req.Msg.Items {
		items[i] = &calculator.LineItem{
			ID:                it.ID,
			Quantity:          it.Quantity,
			Amount:            it.Amount,
			GroupCode:         it.GroupCode,
			AccumulatedCharge: it.AccumulatedCharge,
		}
	}
	charges := make([]calculator.ChargeEntry, len(req.Msg.Charges))
	for i, c := range req.Msg.Charges {
		charges[i] = calculator.ChargeEntry{Label: c.Label, Amount: c.Amount, Grouped: c.Grouped, GroupCode: c.GroupCode}
	}

	result, err := calculator.Distribute(items, charges, basis)
	if err != nil {
		slog.Warn("Distribute rejected", "error", err)
		return nil, connectError(err)
	}
	s.metrics.ChargesDistributed(result.Applied(), result.Skipped())

	resp := &api.DistributeResponse{
		Items:    make([]api.LineItem, len(items)),
		Outcomes: make([]api.ChargeOutcome, len(result.Outcomes)),
		Summary:  toSummary(calculator.Summarize(items), req.Msg.Currency),
	}
	for i, it := range items {
		resp.Items[i] = api.LineItem{
			ID:                it.ID,
			Quantity:          it.Quantity,
			Amount:            it.Amount,
			GroupCode:         it.GroupCode,
			AccumulatedCharge: it.AccumulatedCharge,
		}
	}
	for i, o := range result.Outcomes {
		out := api.ChargeOutcome{
			Charge:     o.Charge,
			Label:      o.Label,
			Amount:     o.Amount,
			Applied:    o.Applied(),
			SkipReason: string(o.Skipped),
			Base:       o.Base,
		}
		for _, inc := range o.Increments {
			out.Increments = append(out.Increments, api.Increment{Index: inc.Index, ItemID: inc.ItemID, Amount: inc.Amount})
		}
		resp.Outcomes[i] = out
	}

	slog.Info("Distribute successful", "applied", result.Applied(), "skipped", result.Skipped())
	return connect.NewResponse(resp), nil
}

// ApplyVoucher recomputes and saves a stored voucher.
func (s *LandedCostService) ApplyVoucher(ctx context.Context, req *connect.Request[api.ApplyVoucherRequest]) (*connect.Response[api.ApplyVoucherResponse], error) {
	slog.Info("ApplyVoucher request received", "voucher", req.Msg.Name)

	v, err := s.docs.ApplyVoucher(ctx, req.Msg.Name)
	if err != nil {
		slog.Error("ApplyVoucher failed", "voucher", req.Msg.Name, "error", err)
		return nil, connectError(err)
	}

	lines := make([]*calculator.LineItem, len(v.Items))
	resp := &api.ApplyVoucherResponse{Name: v.Name, Items: make([]api.VoucherItem, len(v.Items))}
	for i, it := range v.Items {
		resp.Items[i] = api.VoucherItem{ItemCode: it.ItemCode, Qty: it.Qty, Amount: it.Amount, ApplicableCharges: it.ApplicableCharges}
		lines[i] = &calculator.LineItem{ID: it.ItemCode, Quantity: it.Qty, Amount: it.Amount, AccumulatedCharge: it.ApplicableCharges}
	}
	resp.Summary = toSummary(calculator.Summarize(lines), s.currency)

	slog.Info("ApplyVoucher successful", "voucher", v.Name, "total_charges", resp.Summary.TotalCharges)
	return connect.NewResponse(resp), nil
}

func toSummary(sum calculator.Summary, currency string) api.Summary {
	return api.Summary{
		InitialValue: sum.InitialValue,
		TotalCharges: sum.TotalCharges,
		FinalValue:   sum.FinalValue,
		Lines:        sum.Lines(currency),
	}
}
