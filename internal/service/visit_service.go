package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tnerp/internal/docs"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/visits"
	"github.com/mmynk/tnerp/pkg/api"
)

// VisitService implements the Connect VisitService.
type VisitService struct {
	docs *docs.Manager
	now  func() time.Time
}

var _ api.VisitServiceHandler = (*VisitService)(nil)

// NewVisitService creates a VisitService saving through manager.
func NewVisitService(manager *docs.Manager) *VisitService {
	return &VisitService{docs: manager, now: time.Now}
}

// SaveSalesPerson validates and stores a salesperson with its visit targets.
func (s *VisitService) SaveSalesPerson(ctx context.Context, req *connect.Request[api.SaveSalesPersonRequest]) (*connect.Response[api.SaveSalesPersonResponse], error) {
	in := req.Msg.SalesPerson
	slog.Info("SaveSalesPerson request received", "sales_person", in.Name, "targets_count", len(in.VisitTargets))

	sp := &models.SalesPerson{Name: in.Name, VisitTargets: make([]models.VisitTarget, len(in.VisitTargets))}
	for i, t := range in.VisitTargets {
		row, err := fromVisitTarget(t)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("row #%d: %w", i+1, err))
		}
		sp.VisitTargets[i] = row
	}

	if err := s.docs.SaveSalesPerson(ctx, sp); err != nil {
		slog.Warn("SaveSalesPerson failed", "sales_person", sp.Name, "error", err)
		return nil, connectError(err)
	}

	out := api.SalesPerson{Name: sp.Name, VisitTargets: make([]api.VisitTarget, len(sp.VisitTargets))}
	for i := range sp.VisitTargets {
		out.VisitTargets[i] = toVisitTarget(&sp.VisitTargets[i])
	}
	return connect.NewResponse(&api.SaveSalesPersonResponse{SalesPerson: out}), nil
}

// SubmitVisitLog submits a visit and credits the matching target.
func (s *VisitService) SubmitVisitLog(ctx context.Context, req *connect.Request[api.SubmitVisitLogRequest]) (*connect.Response[api.SubmitVisitLogResponse], error) {
	slog.Info("SubmitVisitLog request received", "sales_person", req.Msg.SalesPerson, "customer", req.Msg.Customer)

	visitDate, err := parseDate(req.Msg.VisitDate)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("visit date: %w", err))
	}
	log := &models.SalesVisitLog{
		Name:        req.Msg.Name,
		SalesPerson: req.Msg.SalesPerson,
		Customer:    req.Msg.Customer,
		VisitDate:   visitDate,
	}
	if err := s.docs.SubmitVisitLog(ctx, log); err != nil {
		slog.Warn("SubmitVisitLog failed", "visit_log", log.Name, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.SubmitVisitLogResponse{Name: log.Name, DocStatus: log.DocStatus}), nil
}

// ResolvePeriod returns the date range a period type stands for.
func (s *VisitService) ResolvePeriod(ctx context.Context, req *connect.Request[api.ResolvePeriodRequest]) (*connect.Response[api.ResolvePeriodResponse], error) {
	today := s.now()
	if req.Msg.Today != "" {
		t, err := parseDate(req.Msg.Today)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("today: %w", err))
		}
		today = t
	}
	start, err := parseDate(req.Msg.StartDate)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("start date: %w", err))
	}
	end, err := parseDate(req.Msg.EndDate)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("end date: %w", err))
	}

	start, end, readOnly := visits.ResolvePeriod(req.Msg.PeriodType, today, start, end)
	return connect.NewResponse(&api.ResolvePeriodResponse{
		StartDate: formatDate(start),
		EndDate:   formatDate(end),
		ReadOnly:  readOnly,
	}), nil
}

func fromVisitTarget(t api.VisitTarget) (models.VisitTarget, error) {
	start, err := parseDate(t.StartDate)
	if err != nil {
		return models.VisitTarget{}, fmt.Errorf("start date: %w", err)
	}
	end, err := parseDate(t.EndDate)
	if err != nil {
		return models.VisitTarget{}, fmt.Errorf("end date: %w", err)
	}
	return models.VisitTarget{
		Idx:             t.Idx,
		Customer:        t.Customer,
		Territory:       t.Territory,
		PeriodType:      t.PeriodType,
		StartDate:       start,
		EndDate:         end,
		TargetVisits:    t.TargetVisits,
		CompletedVisits: t.CompletedVisits,
	}, nil
}

func toVisitTarget(t *models.VisitTarget) api.VisitTarget {
	return api.VisitTarget{
		Idx:             t.Idx,
		Customer:        t.Customer,
		Territory:       t.Territory,
		PeriodType:      t.PeriodType,
		StartDate:       formatDate(t.StartDate),
		EndDate:         formatDate(t.EndDate),
		TargetVisits:    t.TargetVisits,
		CompletedVisits: t.CompletedVisits,
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
