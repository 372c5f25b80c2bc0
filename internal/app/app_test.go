package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tnerp/internal/config"
	"github.com/mmynk/tnerp/pkg/api"
)

func newTestApp(t *testing.T, authRequired bool) (*App, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{
		Port:            8080,
		DBPath:          filepath.Join(t.TempDir(), "data", "app.db"),
		LogLevel:        "error",
		LogFormat:       "text",
		AuthRequired:    authRequired,
		JWTSecret:       "app-test-secret-0123456789",
		JWTTTL:          time.Hour,
		DefaultCurrency: "TND",
	}
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	server := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		server.Close()
		a.Close()
	})
	return a, server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func distributeRequest() *connect.Request[api.DistributeRequest] {
	return connect.NewRequest(&api.DistributeRequest{
		Basis: "Qty",
		Items: []api.LineItem{
			{ID: "a", Quantity: decimal.NewFromInt(1), Amount: decimal.NewFromInt(10)},
			{ID: "b", Quantity: decimal.NewFromInt(3), Amount: decimal.NewFromInt(10)},
		},
		Charges: []api.Charge{{Label: "Freight", Amount: decimal.NewFromInt(8)}},
	})
}

func TestInstallRunsOnce(t *testing.T) {
	a, _ := newTestApp(t, false)
	if !a.freshInstall {
		t.Fatal("expected a new database to count as a fresh install")
	}
	if err := a.Install(context.Background()); err != nil {
		t.Fatalf("install: %v", err)
	}
	if a.freshInstall {
		t.Error("install should only run once")
	}
	if err := a.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func TestHandler(t *testing.T) {
	_, server := newTestApp(t, false)

	code, body := get(t, server.URL+"/healthz")
	if code != http.StatusOK || strings.TrimSpace(body) != "ok" {
		t.Errorf("healthz: got %d %q", code, body)
	}

	client := api.NewLandedCostClient(http.DefaultClient, server.URL)
	resp, err := client.Distribute(context.Background(), distributeRequest())
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if got := resp.Msg.Items[1].AccumulatedCharge; !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("expected 6 on the second line, got %s", got)
	}

	code, body = get(t, server.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("metrics: status %d", code)
	}
	for _, want := range []string{"tnerp_rpc_requests_total", "tnerp_landed_cost_charges_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestHandlerRequiresAuth(t *testing.T) {
	_, server := newTestApp(t, true)
	ctx := context.Background()

	client := api.NewLandedCostClient(http.DefaultClient, server.URL)
	_, err := client.Distribute(ctx, distributeRequest())
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	authClient := api.NewAuthClient(http.DefaultClient, server.URL)
	reg, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "ops@example.tn",
		DisplayName: "Ops",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	req := distributeRequest()
	req.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	if _, err := client.Distribute(ctx, req); err != nil {
		t.Fatalf("distribute with token: %v", err)
	}
}
