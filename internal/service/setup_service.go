package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/setup"
	"github.com/mmynk/tnerp/pkg/api"
)

// SetupService implements the Connect SetupService.
type SetupService struct {
	setup    *setup.Service
	importer *coa.Importer
}

var _ api.SetupServiceHandler = (*SetupService)(nil)

// NewSetupService creates a SetupService.
func NewSetupService(svc *setup.Service, importer *coa.Importer) *SetupService {
	return &SetupService{setup: svc, importer: importer}
}

// SetupComplete runs every configuration step for a company.
func (s *SetupService) SetupComplete(ctx context.Context, req *connect.Request[api.CompanyRequest]) (*connect.Response[api.SetupResponse], error) {
	slog.Info("SetupComplete request received", "company", req.Msg.Company)
	return connect.NewResponse(toSetupResponse(s.setup.SetupComplete(ctx, req.Msg.Company))), nil
}

// QuickValidate reports the configuration state of a company.
func (s *SetupService) QuickValidate(ctx context.Context, req *connect.Request[api.CompanyRequest]) (*connect.Response[api.SetupResponse], error) {
	slog.Info("QuickValidate request received", "company", req.Msg.Company)
	return connect.NewResponse(toSetupResponse(s.setup.QuickValidate(ctx, req.Msg.Company))), nil
}

// FixWarehouseAccounts repairs the stock accounting of a company.
func (s *SetupService) FixWarehouseAccounts(ctx context.Context, req *connect.Request[api.CompanyRequest]) (*connect.Response[api.SetupResponse], error) {
	slog.Info("FixWarehouseAccounts request received", "company", req.Msg.Company)
	return connect.NewResponse(toSetupResponse(s.setup.FixWarehouseAccounts(ctx, req.Msg.Company))), nil
}

// ImportChart imports the bundled chart for one company, or for every
// company when none is named.
func (s *SetupService) ImportChart(ctx context.Context, req *connect.Request[api.CompanyRequest]) (*connect.Response[api.ImportChartResponse], error) {
	slog.Info("ImportChart request received", "company", req.Msg.Company)

	var reports []coa.Report
	if req.Msg.Company == "" {
		all, err := s.importer.ImportForAllCompanies(ctx)
		if err != nil {
			slog.Error("ImportChart failed", "error", err)
			return nil, connectError(err)
		}
		reports = all
	} else {
		rep, err := s.importer.ImportForCompany(ctx, req.Msg.Company)
		if err != nil {
			slog.Error("ImportChart failed", "company", req.Msg.Company, "error", err)
			return nil, connectError(err)
		}
		reports = []coa.Report{rep}
	}

	resp := &api.ImportChartResponse{Reports: make([]api.ImportReport, len(reports))}
	for i, r := range reports {
		resp.Reports[i] = api.ImportReport{
			Company:        r.Company,
			Created:        r.Created,
			Existing:       r.Existing,
			Skipped:        r.Skipped,
			Failed:         r.Failed,
			SkippedCompany: r.SkippedCompany,
		}
	}
	return connect.NewResponse(resp), nil
}

func toSetupResponse(res setup.Result) *api.SetupResponse {
	out := &api.SetupResponse{
		Success:   res.Success,
		Message:   res.Message,
		HasIssues: res.HasIssues,
		IsValid:   res.IsValid,
	}
	if res.Report != nil {
		out.Report = &api.ValidationReport{
			Company:    res.Report.Company,
			Configured: res.Report.Configured,
			Issues:     res.Report.Issues,
			Markdown:   res.Report.Markdown(),
		}
	}
	for _, st := range res.Steps {
		step := api.StepResult{Name: st.Name}
		if st.Err != nil {
			step.Error = st.Err.Error()
		}
		out.Steps = append(out.Steps, step)
	}
	return out
}
