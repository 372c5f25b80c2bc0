// Package hooks dispatches document lifecycle events to registered handlers
// and implements the handlers tnerp ships.
package hooks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmynk/tnerp/internal/events"
	"github.com/mmynk/tnerp/internal/metrics"
	"github.com/mmynk/tnerp/internal/models"
)

// Event is a document lifecycle event name.
type Event string

const (
	AfterInstall   Event = "after_install"
	AfterMigrate   Event = "after_migrate"
	BeforeValidate Event = "before_validate"
	BeforeSave     Event = "before_save"
	OnSubmit       Event = "on_submit"
	OnCancel       Event = "on_cancel"
	AfterInsert    Event = "after_insert"
)

// DocTypeApp is the doctype app-level events fire under.
const DocTypeApp = "App"

// Handler reacts to one event of one document. doc is nil for app events.
type Handler func(ctx context.Context, doc models.Doc) error

type key struct {
	doctype string
	event   Event
}

// Dispatcher runs handlers registered by doctype and event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[key][]Handler

	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPublisher publishes every fired event.
func WithPublisher(p events.Publisher) Option {
	return func(d *Dispatcher) { d.publisher = p }
}

// WithMetrics counts hook executions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers:  make(map[key][]Handler),
		publisher: events.NopPublisher{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "hooks")
	return d
}

// On registers h for event on doctype. Handlers run in registration order.
func (d *Dispatcher) On(doctype string, event Event, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := key{doctype, event}
	d.handlers[k] = append(d.handlers[k], h)
}

// Fire runs the handlers of event for doc and stops at the first error. A nil
// doc fires an app-level event.
func (d *Dispatcher) Fire(ctx context.Context, event Event, doc models.Doc) error {
	doctype, name := DocTypeApp, ""
	if doc != nil {
		doctype, name = doc.DocType(), doc.DocName()
	}

	d.mu.RLock()
	handlers := d.handlers[key{doctype, event}]
	d.mu.RUnlock()
	if len(handlers) == 0 {
		return nil
	}

	var err error
	for _, h := range handlers {
		if err = h(ctx, doc); err != nil {
			break
		}
	}

	outcome := "ok"
	switch {
	case models.IsRejected(err):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	}
	d.metrics.HookFired(doctype, string(event), outcome)
	d.logger.DebugContext(ctx, "hook fired", "doctype", doctype, "name", name, "event", event, "outcome", outcome)

	if perr := d.publisher.Publish(ctx, events.New(doctype, name, string(event), outcome)); perr != nil {
		d.logger.WarnContext(ctx, "publishing hook event failed", "doctype", doctype, "event", event, "error", perr)
	}
	return err
}

type ignoreValidateKey struct{}

// WithIgnoreValidate marks saves made with ctx as skipping validation
// handlers.
func WithIgnoreValidate(ctx context.Context) context.Context {
	return context.WithValue(ctx, ignoreValidateKey{}, true)
}

// IgnoreValidate reports whether ctx carries the ignore-validate flag.
func IgnoreValidate(ctx context.Context) bool {
	v, _ := ctx.Value(ignoreValidateKey{}).(bool)
	return v
}
