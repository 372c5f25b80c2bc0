// Package docs saves documents through their lifecycle hooks.
package docs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/tnerp/internal/hooks"
	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage"
)

// ErrAlreadySubmitted is returned when submitting a document twice.
var ErrAlreadySubmitted = errors.New("document already submitted")

// Store is the storage the manager writes through.
type Store interface {
	storage.CompanyStore
	storage.VoucherStore
	storage.SalesStore
}

// Manager runs hooks around document writes. Hooks that fail abort the
// write; nothing is persisted for a rejected document.
type Manager struct {
	store      Store
	dispatcher *hooks.Dispatcher
}

// NewManager returns a manager firing hooks on dispatcher.
func NewManager(store Store, dispatcher *hooks.Dispatcher) *Manager {
	return &Manager{store: store, dispatcher: dispatcher}
}

// InsertCompany creates a company, then fires after_insert.
func (m *Manager) InsertCompany(ctx context.Context, c *models.Company) error {
	if c.Name == "" {
		return models.Reject(nil, "Missing Company Name", "a company needs a name")
	}
	if err := m.store.CreateCompany(ctx, c); err != nil {
		return err
	}
	return m.dispatcher.Fire(ctx, hooks.AfterInsert, c)
}

// SaveLandedCostVoucher fires before_validate, then inserts or updates the
// voucher.
func (m *Manager) SaveLandedCostVoucher(ctx context.Context, v *models.LandedCostVoucher) error {
	if v.DocStatus != models.DocStatusDraft {
		return models.Reject(ErrAlreadySubmitted, "Not Editable", "voucher %s is not a draft", v.Name)
	}
	if v.Name == "" {
		v.Name = "LCV-" + uuid.NewString()[:8]
	}
	if err := m.dispatcher.Fire(ctx, hooks.BeforeValidate, v); err != nil {
		return err
	}

	err := m.store.UpdateLandedCostVoucher(ctx, v)
	if errors.Is(err, storage.ErrNotFound) {
		return m.store.CreateLandedCostVoucher(ctx, v)
	}
	return err
}

// ApplyVoucher reloads a stored voucher and saves it again, recomputing
// its charges.
func (m *Manager) ApplyVoucher(ctx context.Context, name string) (*models.LandedCostVoucher, error) {
	v, err := m.store.GetLandedCostVoucher(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := m.SaveLandedCostVoucher(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveSalesPerson fires before_save on every visit target row and on the
// salesperson, then persists it.
func (m *Manager) SaveSalesPerson(ctx context.Context, sp *models.SalesPerson) error {
	if sp.Name == "" {
		return models.Reject(nil, "Missing Sales Person Name", "a sales person needs a name")
	}
	for i := range sp.VisitTargets {
		row := &sp.VisitTargets[i]
		if row.Idx == 0 {
			row.Idx = i + 1
		}
		if err := m.dispatcher.Fire(ctx, hooks.BeforeSave, row); err != nil {
			return fmt.Errorf("row #%d: %w", row.Idx, err)
		}
	}
	if err := m.dispatcher.Fire(ctx, hooks.BeforeSave, sp); err != nil {
		return err
	}
	return m.store.SaveSalesPerson(ctx, sp)
}

// SubmitVisitLog stores a visit log as submitted, then fires on_submit.
func (m *Manager) SubmitVisitLog(ctx context.Context, log *models.SalesVisitLog) error {
	if log.Name == "" {
		log.Name = "SVL-" + uuid.NewString()[:8]
	}

	existing, err := m.store.GetSalesVisitLog(ctx, log.Name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.DocStatus = models.DocStatusSubmitted
		if err := m.store.CreateSalesVisitLog(ctx, log); err != nil {
			return err
		}
	case err != nil:
		return err
	case existing.DocStatus != models.DocStatusDraft:
		return models.Reject(ErrAlreadySubmitted, "Already Submitted", "visit log %s is already submitted", log.Name)
	default:
		log.DocStatus = models.DocStatusSubmitted
		log.CreatedAt = existing.CreatedAt
		if err := m.store.UpdateSalesVisitLog(ctx, log); err != nil {
			return err
		}
	}
	return m.dispatcher.Fire(ctx, hooks.OnSubmit, log)
}
