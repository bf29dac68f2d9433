package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseWeekID(t *testing.T) {
	cases := []struct {
		raw        string
		year, week int
		ok         bool
	}{
		{"2023-W01", 2023, 1, true},
		{"2024-W53", 2024, 53, true},
		{"2023-W99", 2023, 99, true}, // out of range is the caller's problem
		{"2023", 0, 0, false},
		{"2023-W", 0, 0, false},
		{"yyyy-W01", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		year, week, err := ParseWeekID(tc.raw)
		if tc.ok {
			if err != nil || year != tc.year || week != tc.week {
				t.Fatalf("%q: got (%d, %d, %v)", tc.raw, year, week, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q: expected error", tc.raw)
		}
		if !errors.Is(err, ErrBadWeekID) {
			t.Fatalf("%q: error %v is not ErrBadWeekID", tc.raw, err)
		}
	}
}

func TestFormatWeekID(t *testing.T) {
	if got := FormatWeekID(2023, 1); got != "2023-W01" {
		t.Fatalf("got %q", got)
	}
	if got := FormatWeekID(2024, 53); got != "2024-W53" {
		t.Fatalf("got %q", got)
	}
}

func TestWeekValidate(t *testing.T) {
	w, _ := GenerateWeek("2023-W01")
	if err := w.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	short := w.Clone()
	short.Days = short.Days[:6]
	if err := short.Validate(); !errors.Is(err, ErrBadWeekShape) {
		t.Fatalf("expected ErrBadWeekShape, got %v", err)
	}

	bad := w.Clone()
	bad.WeekID = "nope"
	if err := bad.Validate(); !errors.Is(err, ErrBadWeekID) {
		t.Fatalf("expected ErrBadWeekID, got %v", err)
	}
}

func TestDayAddRemoveRow(t *testing.T) {
	var d Day
	r := d.AddRow()
	r.Name = "Alice"
	d.AddRow().Name = "Bob"
	d.AddRow().Name = "Carol"

	if !d.RemoveRow(1) {
		t.Fatalf("remove failed")
	}
	got := []string{}
	for _, r := range d.Rows {
		got = append(got, r.Name)
	}
	if !reflect.DeepEqual(got, []string{"Alice", "Carol"}) {
		t.Fatalf("rows after remove: %v", got)
	}
	if d.RemoveRow(5) || d.RemoveRow(-1) {
		t.Fatalf("out-of-range remove must be a no-op")
	}
}

func TestWeekJSONRoundTrip(t *testing.T) {
	w, _ := GenerateWeek("2023-W01")
	w.Days[0].Rows = []Row{{
		Name:    "Alice",
		Direct:  NumberCell(20),
		Visa:    ExprCell("10+5"),
		Reading: NumberCell(60),
	}}

	b, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Week
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(w, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", w, back)
	}
}

func TestWeekUnmarshalLegacyMixedCells(t *testing.T) {
	// Documents written by older clients mix numbers and strings per cell.
	raw := `{"weekId":"2023-W02","days":[{"date":"2023-01-09","dayName":"Monday",
		"rows":[{"name":"Bob","direct":15,"visa":"20+5","master":0,"amex":0,
		"diner":0,"coupons":"","cash":10,"reading":"50"}]}]}`
	var w Week
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := w.Days[0].Rows[0]
	if r.Direct != NumberCell(15) || r.Visa != ExprCell("20+5") || r.Coupons != ExprCell("") {
		t.Fatalf("unexpected cells: %+v", r)
	}
	if got := RowTotal(r); got != 50 {
		t.Fatalf("RowTotal = %v, want 50", got)
	}
	if got := RowDiff(r); got != 0 {
		t.Fatalf("RowDiff = %v, want 0", got)
	}
}

func TestWeekCloneIsIndependent(t *testing.T) {
	w, _ := GenerateWeek("2023-W01")
	w.Days[0].Rows = []Row{{Name: "Alice"}}
	c := w.Clone()
	c.Days[0].Rows[0].Name = "Mallory"
	c.Days[1].Rows = append(c.Days[1].Rows, Row{Name: "Eve"})
	if w.Days[0].Rows[0].Name != "Alice" || len(w.Days[1].Rows) != 0 {
		t.Fatalf("clone mutated the original")
	}
}

func TestWeekClonePreservesEmptyRows(t *testing.T) {
	w, _ := GenerateWeek("2023-W01")
	c := w.Clone()
	if !reflect.DeepEqual(w, c) {
		t.Fatalf("clone differs from original:\n%+v\n%+v", w, c)
	}
	for i, d := range c.Days {
		if d.Rows == nil {
			t.Fatalf("day %d: empty rows collapsed to nil", i)
		}
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(b, []byte(`"rows":[]`)) {
		t.Fatalf("empty days must marshal as \"rows\":[], got %s", b)
	}
}
