package core

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sampleRow() Row {
	return Row{
		Name:    "Alice",
		Direct:  NumberCell(20),
		Visa:    NumberCell(30),
		Cash:    NumberCell(10),
		Reading: NumberCell(60),
	}
}

func TestRowFormulas(t *testing.T) {
	r := sampleRow()
	if got := RowTotal(r); !approx(got, 60) {
		t.Fatalf("RowTotal = %v, want 60", got)
	}
	if got := RowTips(r); !approx(got, 2.4) {
		t.Fatalf("RowTips = %v, want 2.4", got)
	}
	if got := RowDiff(r); !approx(got, 0) {
		t.Fatalf("RowDiff = %v, want 0", got)
	}
	if got := RowFinal(r); !approx(got, 2.4) {
		t.Fatalf("RowFinal = %v, want 2.4", got)
	}
}

func TestRowTotalExcludesReading(t *testing.T) {
	r := Row{Reading: NumberCell(500)}
	if got := RowTotal(r); got != 0 {
		t.Fatalf("RowTotal = %v, reading must not count", got)
	}
}

func TestRowFormulasWithExpressions(t *testing.T) {
	r := Row{
		Direct:  ExprCell("20+15.5"),
		Cash:    ExprCell("abc+10"), // degraded part contributes 0
		Reading: ExprCell("50"),
	}
	if got := RowTotal(r); !approx(got, 45.5) {
		t.Fatalf("RowTotal = %v, want 45.5", got)
	}
	if got := RowTips(r); !approx(got, 2) {
		t.Fatalf("RowTips = %v, want 2", got)
	}
	if got := RowDiff(r); !approx(got, 4.5) {
		t.Fatalf("RowDiff = %v, want 4.5", got)
	}
}

func TestNegativeAndEmptyValuesAccepted(t *testing.T) {
	r := Row{Direct: NumberCell(-10), Visa: ExprCell("")}
	if got := RowTotal(r); !approx(got, -10) {
		t.Fatalf("RowTotal = %v, want -10", got)
	}
}

func TestDayAggregates(t *testing.T) {
	d := Day{
		Date:    "2023-01-02",
		DayName: "Monday",
		Rows: []Row{
			sampleRow(),
			{Name: "Bob", Visa: NumberCell(40), Reading: NumberCell(50)},
		},
	}
	if got := DayTotal(d, FieldVisa); !approx(got, 70) {
		t.Fatalf("DayTotal(visa) = %v, want 70", got)
	}
	if got := DayGrandTotal(d); !approx(got, 100) {
		t.Fatalf("DayGrandTotal = %v, want 100", got)
	}
	if got := DayTotalReading(d); !approx(got, 110) {
		t.Fatalf("DayTotalReading = %v, want 110", got)
	}
	if got := DayTotalTips(d); !approx(got, 4.4) {
		t.Fatalf("DayTotalTips = %v, want 4.4", got)
	}
	if got := DayTotalDiff(d); !approx(got, 10) {
		t.Fatalf("DayTotalDiff = %v, want 10", got)
	}
	if got := DayTotalFinal(d); !approx(got, 14.4) {
		t.Fatalf("DayTotalFinal = %v, want 14.4", got)
	}
}

func TestWeekAggregatesAreAssociative(t *testing.T) {
	w, err := GenerateWeek("2023-W07")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Scatter rows across a few days; the rest stay empty and contribute 0.
	w.Days[0].Rows = []Row{sampleRow(), {Cash: ExprCell("5+5")}}
	w.Days[3].Rows = []Row{{Visa: NumberCell(200), Reading: NumberCell(210)}}
	w.Days[6].Rows = []Row{{Direct: ExprCell("oops"), Reading: NumberCell(-20)}}

	sumRows := 0.0
	sumDays := 0.0
	for _, d := range w.Days {
		sumDays += DayGrandTotal(d)
		for _, r := range d.Rows {
			sumRows += RowTotal(r)
		}
	}
	if got := WeekGrandTotal(w); !approx(got, sumDays) || !approx(got, sumRows) {
		t.Fatalf("WeekGrandTotal = %v, day sum = %v, row sum = %v", got, sumDays, sumRows)
	}

	if got, want := WeekTotal(w, FieldCash), 20.0; !approx(got, want) {
		t.Fatalf("WeekTotal(cash) = %v, want %v", got, want)
	}
	if got, want := WeekTotalReading(w), 250.0; !approx(got, want) {
		t.Fatalf("WeekTotalReading = %v, want %v", got, want)
	}
	if got, want := WeekTotalTips(w), 250.0*0.04; !approx(got, want) {
		t.Fatalf("WeekTotalTips = %v, want %v", got, want)
	}
	wantDiff := WeekTotalReading(w) - WeekGrandTotal(w)
	if got := WeekTotalDiff(w); !approx(got, wantDiff) {
		t.Fatalf("WeekTotalDiff = %v, want %v", got, wantDiff)
	}
	if got := WeekTotalFinal(w); !approx(got, WeekTotalTips(w)+WeekTotalDiff(w)) {
		t.Fatalf("WeekTotalFinal = %v", got)
	}
}

func TestEmptyWeekTotalsAreZero(t *testing.T) {
	w, _ := GenerateWeek("2024-W10")
	if WeekGrandTotal(w) != 0 || WeekTotalTips(w) != 0 || WeekTotalFinal(w) != 0 {
		t.Fatalf("empty week must total 0")
	}
}
