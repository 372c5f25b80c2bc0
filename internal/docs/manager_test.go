package docs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tnerp/internal/events"
	"github.com/mmynk/tnerp/internal/hooks"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
	"github.com/mmynk/tnerp/internal/visits"
)

func newManager(t *testing.T) (*Manager, *sqlite.SQLiteStore, *events.Recorder) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rec := &events.Recorder{}
	d := hooks.NewDispatcher(hooks.WithPublisher(rec))
	hooks.NewHandlers(store, hooks.Config{
		Now: func() time.Time { return time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC) },
	}).Register(d)
	return NewManager(store, d), store, rec
}

func TestSaveLandedCostVoucher(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)

	v := &models.LandedCostVoucher{
		Name:                     "LCV-0001",
		DistributeChargesBasedOn: "Amount",
		Items: []models.LandedCostItem{
			{ItemCode: "A", Qty: decimal.NewFromInt(1), Amount: decimal.NewFromInt(100)},
			{ItemCode: "B", Qty: decimal.NewFromInt(1), Amount: decimal.NewFromInt(200)},
			{ItemCode: "C", Qty: decimal.NewFromInt(1), Amount: decimal.NewFromInt(300)},
		},
		Taxes: []models.LandedCostTax{{ExpenseAccount: "Fret", Amount: decimal.NewFromInt(60)}},
	}
	require.NoError(t, m.SaveLandedCostVoucher(ctx, v))

	got, err := store.GetLandedCostVoucher(ctx, "LCV-0001")
	require.NoError(t, err)
	for i, want := range []int64{10, 20, 30} {
		assert.True(t, decimal.NewFromInt(want).Equal(got.Items[i].ApplicableCharges), "row %d: %s", i, got.Items[i].ApplicableCharges)
	}

	t.Run("apply recomputes after edits", func(t *testing.T) {
		got.Taxes[0].Amount = decimal.NewFromInt(6)
		require.NoError(t, store.UpdateLandedCostVoucher(ctx, got))

		applied, err := m.ApplyVoucher(ctx, "LCV-0001")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(3).Equal(applied.Items[2].ApplicableCharges))
	})

	t.Run("rejected voucher is not stored", func(t *testing.T) {
		bad := &models.LandedCostVoucher{Name: "LCV-BAD", DistributeChargesBasedOn: "Volume"}
		assert.True(t, models.IsRejected(m.SaveLandedCostVoucher(ctx, bad)))
		_, err := store.GetLandedCostVoucher(ctx, "LCV-BAD")
		assert.Error(t, err)
	})
}

func TestSaveSalesPerson(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)

	sp := &models.SalesPerson{Name: "Karim", VisitTargets: []models.VisitTarget{
		{Customer: "Magasin General", PeriodType: visits.CurrentMonth, TargetVisits: 3},
	}}
	require.NoError(t, m.SaveSalesPerson(ctx, sp))

	got, err := store.GetSalesPerson(ctx, "Karim")
	require.NoError(t, err)
	require.Len(t, got.VisitTargets, 1)
	assert.Equal(t, 1, got.VisitTargets[0].Idx)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), got.VisitTargets[0].EndDate)

	err = m.SaveSalesPerson(ctx, &models.SalesPerson{Name: "Karim", VisitTargets: []models.VisitTarget{{}}})
	assert.ErrorIs(t, err, visits.ErrMissingCustomerOrTerritory)
	got, err = store.GetSalesPerson(ctx, "Karim")
	require.NoError(t, err)
	assert.Len(t, got.VisitTargets, 1, "rejected save leaves the stored rows alone")
}

func TestSubmitVisitLog(t *testing.T) {
	ctx := context.Background()
	m, store, rec := newManager(t)
	require.NoError(t, m.SaveSalesPerson(ctx, &models.SalesPerson{Name: "Karim", VisitTargets: []models.VisitTarget{
		{Customer: "Magasin General", PeriodType: visits.CurrentMonth, TargetVisits: 3},
	}}))

	log := &models.SalesVisitLog{SalesPerson: "Karim", Customer: "Magasin General", VisitDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, m.SubmitVisitLog(ctx, log))
	assert.NotEmpty(t, log.Name)
	assert.Equal(t, models.DocStatusSubmitted, log.DocStatus)

	sp, err := store.GetSalesPerson(ctx, "Karim")
	require.NoError(t, err)
	assert.Equal(t, 1, sp.VisitTargets[0].CompletedVisits)

	err = m.SubmitVisitLog(ctx, log)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	var submits int
	for _, e := range rec.Events() {
		if e.Hook == string(hooks.OnSubmit) {
			submits++
		}
	}
	assert.Equal(t, 1, submits)
}

func TestInsertCompany(t *testing.T) {
	ctx := context.Background()
	m, store, rec := newManager(t)

	require.NoError(t, m.InsertCompany(ctx, &models.Company{Name: "Bizerte SARL", DefaultCurrency: "TND"}))
	_, err := store.GetCompany(ctx, "Bizerte SARL")
	require.NoError(t, err)

	assert.True(t, models.IsRejected(m.InsertCompany(ctx, &models.Company{})))

	// No setup service is wired, so after_insert has a handler that does nothing.
	require.NotEmpty(t, rec.Events())
	assert.Equal(t, "after_insert", rec.Events()[len(rec.Events())-1].Hook)
}
