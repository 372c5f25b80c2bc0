package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingKey(t *testing.T) {
	tests := []struct {
		doctype, event, want string
	}{
		{"Landed Cost Voucher", "before_validate", "landed_cost_voucher.before_validate"},
		{"Company", "after_insert", "company.after_insert"},
		{"Sales  Visit Log", "on_submit", "sales_visit_log.on_submit"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.doctype, "x", tt.event, "ok").RoutingKey())
	}
}

func TestJSON(t *testing.T) {
	e := New("Company", "Sfax Trading", "after_insert", "ok")
	data, err := e.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"doctype":"Company"`)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, e.Name, back.Name)
	assert.Equal(t, e.ID, back.ID)
	assert.True(t, e.OccurredAt.Equal(back.OccurredAt))

	_, err = FromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), New("Company", "A", "after_insert", "ok")))
	require.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))

	got := r.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	assert.NotEmpty(t, got[0].ID)
}
