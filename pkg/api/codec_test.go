package api

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestJSONCodec(t *testing.T) {
	c := JSONCodec{}
	if c.Name() != "json" {
		t.Fatalf("unexpected codec name %q", c.Name())
	}

	data, err := c.Marshal(&Charge{Amount: decimal.RequireFromString("12.50"), Grouped: true, GroupCode: "1509"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"amount":"12.5","grouped":true,"group_code":"1509"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var req DistributeRequest
	if err := c.Unmarshal([]byte(`{"basis":"Qty","items":[{"id":"A","quantity":2,"amount":"10.5"}]}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(req.Items) != 1 || !req.Items[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("unexpected items %+v", req.Items)
	}

	var empty CompanyRequest
	if err := c.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body should decode to the zero message: %v", err)
	}
	if err := c.Unmarshal([]byte("{"), &empty); err == nil {
		t.Error("expected an error for truncated JSON")
	}
}
