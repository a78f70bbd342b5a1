package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-15", true},
		{"2024-02-29", true}, // leap year
		{" 2024-01-15 ", true},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"2024-1-5", false},
		{"15/01/2024", false},
		{"", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error, got %v", i, d)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 29)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-02-29"` {
		t.Fatalf("unexpected encoding %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:     NewDate(2024, 1, 15),
		Category: "Food",
		Amount:   decimal.NewFromInt(10),
		Note:     "Groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Category: "Food", Amount: decimal.NewFromInt(1)}, // zero date
		{Date: NewDate(2024, 1, 1), Category: "  ", Amount: decimal.NewFromInt(1)},
		{Date: NewDate(2024, 1, 1), Category: strings.Repeat("x", MaxCategoryLen+1), Amount: decimal.NewFromInt(1)},
		{Date: NewDate(2024, 1, 1), Category: "Food", Note: strings.Repeat("n", MaxNoteLen+1)},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
