package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tnerp/internal/auth"
	"github.com/mmynk/tnerp/internal/coa"
	"github.com/mmynk/tnerp/internal/docs"
	"github.com/mmynk/tnerp/internal/hooks"
	"github.com/mmynk/tnerp/internal/metrics"
	"github.com/mmynk/tnerp/internal/middleware"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/setup"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
	"github.com/mmynk/tnerp/pkg/api"
)

type testClients struct {
	landedCost *api.LandedCostClient
	setup      *api.SetupClient
	visits     *api.VisitClient
	auth       *api.AuthClient
	store      *sqlite.SQLiteStore
}

// setupTestServer serves every service over a temp SQLite database. Calls
// need an operator token when requireAuth is set.
func setupTestServer(t *testing.T, requireAuth bool) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	rows, err := coa.BundledRows()
	if err != nil {
		t.Fatalf("failed to load chart: %v", err)
	}
	m := metrics.New()
	importer := coa.NewImporter(store, rows, coa.WithMetrics(m))
	setupSvc := setup.NewService(store, importer, "Sfax Trading", nil)

	dispatcher := hooks.NewDispatcher(hooks.WithMetrics(m))
	hooks.NewHandlers(store, hooks.Config{Setup: setupSvc, Importer: importer, Metrics: m, DefaultCurrency: "TND"}).Register(dispatcher)
	manager := docs.NewManager(store, dispatcher)

	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	interceptors := []connect.Interceptor{middleware.LoggingInterceptor(nil), middleware.MetricsInterceptor(m)}
	if requireAuth {
		interceptors = append([]connect.Interceptor{middleware.RequireAuth(jwtManager, api.PublicProcedures)}, interceptors...)
	}
	opt := connect.WithInterceptors(interceptors...)

	mux := http.NewServeMux()
	mux.Handle(api.NewLandedCostServiceHandler(NewLandedCostService(manager, m, "TND"), opt))
	mux.Handle(api.NewSetupServiceHandler(NewSetupService(setupSvc, importer), opt))
	mux.Handle(api.NewVisitServiceHandler(NewVisitService(manager), opt))
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, nil), opt))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		landedCost: api.NewLandedCostClient(http.DefaultClient, server.URL),
		setup:      api.NewSetupClient(http.DefaultClient, server.URL),
		visits:     api.NewVisitClient(http.DefaultClient, server.URL),
		auth:       api.NewAuthClient(http.DefaultClient, server.URL),
		store:      store,
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var ce *connect.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if ce.Code() != want {
		t.Errorf("expected code %v, got %v (%s)", want, ce.Code(), ce.Message())
	}
}

func TestDistribute(t *testing.T) {
	c := setupTestServer(t, false)

	tests := []struct {
		name    string
		req     *api.DistributeRequest
		want    []string
		skipped []string
	}{
		{
			name: "equal quantities take the remainder on the last line",
			req: &api.DistributeRequest{
				Basis:   "Qty",
				Items:   []api.LineItem{{ID: "A", Quantity: d("1")}, {ID: "B", Quantity: d("1")}, {ID: "C", Quantity: d("1")}},
				Charges: []api.Charge{{Label: "Fret", Amount: d("10")}},
			},
			want:    []string{"3.33", "3.33", "3.34"},
			skipped: []string{""},
		},
		{
			name: "proportional to amount",
			req: &api.DistributeRequest{
				Basis: "Amount",
				Items: []api.LineItem{
					{ID: "A", Quantity: d("1"), Amount: d("100")},
					{ID: "B", Quantity: d("1"), Amount: d("200")},
					{ID: "C", Quantity: d("1"), Amount: d("300")},
				},
				Charges: []api.Charge{{Label: "Fret", Amount: d("60")}},
			},
			want:    []string{"10", "20", "30"},
			skipped: []string{""},
		},
		{
			name: "grouped charge reaches its group only",
			req: &api.DistributeRequest{
				Basis: "Qty",
				Items: []api.LineItem{
					{ID: "A", Quantity: d("2"), GroupCode: "X"},
					{ID: "B", Quantity: d("1"), GroupCode: "X"},
					{ID: "C", Quantity: d("5"), GroupCode: "Y"},
				},
				Charges: []api.Charge{
					{Label: "Duty X", Amount: d("15"), Grouped: true, GroupCode: "X"},
					{Label: "Duty Z", Amount: d("4"), Grouped: true, GroupCode: "Z"},
				},
			},
			want:    []string{"10", "5", "0"},
			skipped: []string{"", "no matching items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.landedCost.Distribute(context.Background(), connect.NewRequest(tt.req))
			if err != nil {
				t.Fatalf("Distribute failed: %v", err)
			}
			for i, want := range tt.want {
				got := resp.Msg.Items[i].AccumulatedCharge
				if !got.Equal(d(want)) {
					t.Errorf("item %s: expected %s, got %s", resp.Msg.Items[i].ID, want, got)
				}
			}
			for i, want := range tt.skipped {
				if got := resp.Msg.Outcomes[i].SkipReason; got != want {
					t.Errorf("charge %d: expected skip reason %q, got %q", i, want, got)
				}
			}
		})
	}
}

func TestDistribute_Rejected(t *testing.T) {
	c := setupTestServer(t, false)
	ctx := context.Background()

	_, err := c.landedCost.Distribute(ctx, connect.NewRequest(&api.DistributeRequest{Basis: "Weight"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.landedCost.Distribute(ctx, connect.NewRequest(&api.DistributeRequest{
		Basis: "Qty",
		Items: []api.LineItem{{ID: "A", Quantity: d("-1")}},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestApplyVoucher(t *testing.T) {
	c := setupTestServer(t, false)
	ctx := context.Background()

	err := c.store.CreateLandedCostVoucher(ctx, &models.LandedCostVoucher{
		Name:                     "LCV-0001",
		DistributeChargesBasedOn: "Amount",
		Items: []models.LandedCostItem{
			{ItemCode: "A", Qty: d("1"), Amount: d("100")},
			{ItemCode: "B", Qty: d("1"), Amount: d("200")},
		},
		Taxes: []models.LandedCostTax{{ExpenseAccount: "Fret", Amount: d("30")}},
	})
	if err != nil {
		t.Fatalf("failed to create voucher: %v", err)
	}

	resp, err := c.landedCost.ApplyVoucher(ctx, connect.NewRequest(&api.ApplyVoucherRequest{Name: "LCV-0001"}))
	if err != nil {
		t.Fatalf("ApplyVoucher failed: %v", err)
	}
	if !resp.Msg.Items[1].ApplicableCharges.Equal(d("20")) {
		t.Errorf("expected 20 on the second line, got %s", resp.Msg.Items[1].ApplicableCharges)
	}
	if !resp.Msg.Summary.FinalValue.Equal(d("330")) {
		t.Errorf("expected final value 330, got %s", resp.Msg.Summary.FinalValue)
	}

	stored, err := c.store.GetLandedCostVoucher(ctx, "LCV-0001")
	if err != nil {
		t.Fatalf("failed to reload voucher: %v", err)
	}
	if !stored.Items[0].ApplicableCharges.Equal(d("10")) {
		t.Errorf("expected stored charge 10, got %s", stored.Items[0].ApplicableCharges)
	}

	_, err = c.landedCost.ApplyVoucher(ctx, connect.NewRequest(&api.ApplyVoucherRequest{Name: "LCV-404"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestSetupFlow(t *testing.T) {
	c := setupTestServer(t, false)
	ctx := context.Background()

	if err := c.store.CreateCompany(ctx, &models.Company{Name: "Sfax Trading"}); err != nil {
		t.Fatalf("failed to create company: %v", err)
	}

	imp, err := c.setup.ImportChart(ctx, connect.NewRequest(&api.CompanyRequest{}))
	if err != nil {
		t.Fatalf("ImportChart failed: %v", err)
	}
	if len(imp.Msg.Reports) != 1 || imp.Msg.Reports[0].Created == 0 {
		t.Fatalf("unexpected import reports %+v", imp.Msg.Reports)
	}

	before, err := c.setup.QuickValidate(ctx, connect.NewRequest(&api.CompanyRequest{}))
	if err != nil {
		t.Fatalf("QuickValidate failed: %v", err)
	}
	if before.Msg.IsValid || before.Msg.Message != "Issues found in configuration" {
		t.Errorf("expected issues before setup, got %+v", before.Msg)
	}

	res, err := c.setup.SetupComplete(ctx, connect.NewRequest(&api.CompanyRequest{Company: "Sfax Trading"}))
	if err != nil {
		t.Fatalf("SetupComplete failed: %v", err)
	}
	if !res.Msg.Success || !res.Msg.IsValid {
		t.Errorf("expected a valid setup, got %+v", res.Msg)
	}
	if res.Msg.Report == nil || !strings.Contains(res.Msg.Report.Markdown, "Sfax Trading") {
		t.Errorf("expected a markdown report, got %+v", res.Msg.Report)
	}

	fix, err := c.setup.FixWarehouseAccounts(ctx, connect.NewRequest(&api.CompanyRequest{}))
	if err != nil {
		t.Fatalf("FixWarehouseAccounts failed: %v", err)
	}
	if fix.Msg.Message != "Warehouse accounts fixed successfully" {
		t.Errorf("unexpected message %q", fix.Msg.Message)
	}
}

func TestVisitFlow(t *testing.T) {
	c := setupTestServer(t, false)
	ctx := context.Background()

	_, err := c.visits.SaveSalesPerson(ctx, connect.NewRequest(&api.SaveSalesPersonRequest{
		SalesPerson: api.SalesPerson{Name: "Amel", VisitTargets: []api.VisitTarget{{TargetVisits: 2}}},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	saved, err := c.visits.SaveSalesPerson(ctx, connect.NewRequest(&api.SaveSalesPersonRequest{
		SalesPerson: api.SalesPerson{Name: "Amel", VisitTargets: []api.VisitTarget{{
			Customer: "Carrefour", PeriodType: "Custom Range",
			StartDate: "2026-05-01", EndDate: "2026-05-31", TargetVisits: 4,
		}}},
	}))
	if err != nil {
		t.Fatalf("SaveSalesPerson failed: %v", err)
	}
	if saved.Msg.SalesPerson.VisitTargets[0].Idx != 1 {
		t.Errorf("expected row idx 1, got %d", saved.Msg.SalesPerson.VisitTargets[0].Idx)
	}

	sub, err := c.visits.SubmitVisitLog(ctx, connect.NewRequest(&api.SubmitVisitLogRequest{
		SalesPerson: "Amel", Customer: "Carrefour", VisitDate: "2026-05-20",
	}))
	if err != nil {
		t.Fatalf("SubmitVisitLog failed: %v", err)
	}
	if sub.Msg.DocStatus != models.DocStatusSubmitted {
		t.Errorf("expected submitted, got %d", sub.Msg.DocStatus)
	}

	sp, err := c.store.GetSalesPerson(ctx, "Amel")
	if err != nil {
		t.Fatalf("failed to load sales person: %v", err)
	}
	if sp.VisitTargets[0].CompletedVisits != 1 {
		t.Errorf("expected 1 completed visit, got %d", sp.VisitTargets[0].CompletedVisits)
	}

	_, err = c.visits.SubmitVisitLog(ctx, connect.NewRequest(&api.SubmitVisitLogRequest{
		Name: sub.Msg.Name, SalesPerson: "Amel", Customer: "Carrefour", VisitDate: "2026-05-21",
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = c.visits.SubmitVisitLog(ctx, connect.NewRequest(&api.SubmitVisitLogRequest{
		SalesPerson: "Amel", Customer: "Carrefour", VisitDate: "20/05/2026",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestResolvePeriod(t *testing.T) {
	c := setupTestServer(t, false)

	resp, err := c.visits.ResolvePeriod(context.Background(), connect.NewRequest(&api.ResolvePeriodRequest{
		PeriodType: "Current Month", Today: "2026-02-10",
	}))
	if err != nil {
		t.Fatalf("ResolvePeriod failed: %v", err)
	}
	if resp.Msg.StartDate != "2026-02-01" || resp.Msg.EndDate != "2026-02-28" || !resp.Msg.ReadOnly {
		t.Errorf("unexpected period %+v", resp.Msg)
	}

	cleared, err := c.visits.ResolvePeriod(context.Background(), connect.NewRequest(&api.ResolvePeriodRequest{
		PeriodType: "", StartDate: "2026-01-01",
	}))
	if err != nil {
		t.Fatalf("ResolvePeriod failed: %v", err)
	}
	if cleared.Msg.StartDate != "" || cleared.Msg.ReadOnly {
		t.Errorf("expected cleared dates, got %+v", cleared.Msg)
	}
}

func TestAuthRequired(t *testing.T) {
	c := setupTestServer(t, true)
	ctx := context.Background()

	_, err := c.setup.QuickValidate(ctx, connect.NewRequest(&api.CompanyRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	reg, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "compta@example.tn", DisplayName: "Comptable", Password: "s3cret-pass",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "compta@example.tn", DisplayName: "Again", Password: "s3cret-pass",
	}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "compta@example.tn", Password: "wrong-pass"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	login, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "compta@example.tn", Password: "s3cret-pass"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.Operator.ID != reg.Msg.Operator.ID {
		t.Errorf("expected operator %s, got %s", reg.Msg.Operator.ID, login.Msg.Operator.ID)
	}

	req := connect.NewRequest(&api.ResolvePeriodRequest{PeriodType: "Next 30 Days", Today: "2026-01-01"})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	resp, err := c.visits.ResolvePeriod(ctx, req)
	if err != nil {
		t.Fatalf("authenticated call failed: %v", err)
	}
	if resp.Msg.EndDate != "2026-01-31" {
		t.Errorf("expected end date 2026-01-31, got %s", resp.Msg.EndDate)
	}
}
