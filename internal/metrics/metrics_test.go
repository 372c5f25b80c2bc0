package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRPC("/tnerp.v1.LandedCostService/Distribute", "ok", 12*time.Millisecond)
	m.ObserveRPC("/tnerp.v1.LandedCostService/Distribute", "ok", 3*time.Millisecond)
	m.HookFired("Landed Cost Voucher", "before_validate", "rejected")
	m.ChargesDistributed(3, 1)
	m.AccountsImported(10, 2, 1, 0)

	assert.InDelta(t, 2, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/tnerp.v1.LandedCostService/Distribute", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.hookFires.WithLabelValues("Landed Cost Voucher", "before_validate", "rejected")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.chargesTotal.WithLabelValues("applied")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.chargesTotal.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(m.coaAccounts.WithLabelValues("created")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRPC("p", "ok", time.Second)
		m.HookFired("Company", "after_insert", "ok")
		m.ChargesDistributed(1, 1)
		m.AccountsImported(1, 1, 1, 1)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.HookFired("Company", "after_insert", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tnerp_hook_fires_total")
	assert.Contains(t, body, "go_goroutines")
}
