package calculator

import (
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	items := lines([3]string{"A", "100", "1"}, [3]string{"B", "200", "1"}, [3]string{"C", "300", "1"})
	if _, err := Distribute(items, []ChargeEntry{{Amount: d("60")}, {Amount: d("0.05")}}, ByAmount); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	s := Summarize(items)
	if !s.InitialValue.Equal(d("600")) {
		t.Errorf("InitialValue = %s, want 600", s.InitialValue)
	}
	if !s.TotalCharges.Equal(d("60.05")) {
		t.Errorf("TotalCharges = %s, want 60.05", s.TotalCharges)
	}
	if !s.FinalValue.Equal(d("660.05")) {
		t.Errorf("FinalValue = %s, want 660.05", s.FinalValue)
	}
	if !s.Balanced() {
		t.Errorf("journal entries should balance: %+v", s.JournalEntries())
	}

	entries := s.JournalEntries()
	if entries[0].Side != Debit || !entries[0].Amount.Equal(s.FinalValue) {
		t.Errorf("first entry should debit stock with the final value, got %+v", entries[0])
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(d("1234.5"), "USD"); got != "$1,234.50" {
		t.Errorf("FormatMoney(USD) = %q, want %q", got, "$1,234.50")
	}
	if got := FormatMoney(d("12.345"), ""); got != "12.35" {
		t.Errorf("FormatMoney(no currency) = %q, want %q", got, "12.35")
	}

	lines := Summary{InitialValue: d("10"), TotalCharges: d("1"), FinalValue: d("11")}.Lines("USD")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "===") || !strings.Contains(lines[3], "$11.00") {
		t.Errorf("unexpected summary lines %q", lines)
	}
}

func TestClassifyTax(t *testing.T) {
	tests := []struct {
		account, code string
		wantGrouped   bool
	}{
		{account: "6091 - Droits de douane NGP - Sfax Trading", code: "8471", wantGrouped: true},
		{account: "6091 - droits ngp", code: " 8471 ", wantGrouped: true},
		{account: "6091 - Droits de douane NGP", code: "", wantGrouped: false},
		{account: "6241 - Transports sur achats", code: "8471", wantGrouped: false},
		{account: "", code: "8471", wantGrouped: false},
	}
	for _, tt := range tests {
		got := ClassifyTax(tt.account, tt.code, d("10"))
		if got.Grouped != tt.wantGrouped {
			t.Errorf("ClassifyTax(%q, %q).Grouped = %v, want %v", tt.account, tt.code, got.Grouped, tt.wantGrouped)
		}
		if got.Grouped && got.GroupCode != "8471" {
			t.Errorf("GroupCode = %q, want 8471", got.GroupCode)
		}
		if !got.Amount.Equal(d("10")) || got.Label != tt.account {
			t.Errorf("unexpected entry %+v", got)
		}
	}
}
