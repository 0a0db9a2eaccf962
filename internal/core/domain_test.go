package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-03-01", "2025-03-01", true},
		{" 2025-03-01 ", "2025-03-01", true},
		{"2025-03-01T22:15:00Z", "2025-03-01", true},
		{"2025-03-01T23:30:00-05:00", "2025-03-01", true},
		{"03/01/2025", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		now         time.Time
		first, last string
	}{
		{time.Date(2025, 2, 14, 18, 0, 0, 0, time.UTC), "2025-02-01", "2025-02-28"},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), "2025-12-01", "2025-12-31"},
	}
	for _, tc := range cases {
		first, last := MonthBounds(tc.now)
		if first.String() != tc.first || last.String() != tc.last {
			t.Fatalf("MonthBounds(%v) = %s..%s, want %s..%s", tc.now, first, last, tc.first, tc.last)
		}
	}
}

func TestTransactionJSONLayout(t *testing.T) {
	tx := Transaction{
		ID:          "t1",
		Type:        Expense,
		Amount:      Money{Cents: 120050},
		Category:    "Food & Dining",
		Description: "Groceries",
		Date:        NewDate(2025, 3, 2),
		CreatedAt:   time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"amount":1200.5`, `"date":"2025-03-02"`, `"createdAt":"2025-03-02T10:00:00Z"`, `"type":"expense"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}

	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount.Cents != 120050 || !back.Date.Equal(tx.Date.Time) {
		t.Fatalf("unexpected round trip: %+v", back)
	}
}

func TestTransactionJSONAcceptsStoredShape(t *testing.T) {
	raw := `{"id":"1712","type":"income","amount":5000,"category":"Salary","description":"Monthly Salary","date":"2025-03-01","createdAt":"2025-03-01T09:30:00.123Z"}`
	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tx.Amount.Cents != 500000 || tx.Type != Income || tx.Date.String() != "2025-03-01" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
}
