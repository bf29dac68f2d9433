package core

// tipRate is the fixed heuristic applied to the register reading to estimate
// tips. It is not configurable; the business treats 4% as a constant.
const tipRate = 0.04

// RowTotal sums the seven tender channels of a row. The register reading is
// excluded: it is the register's own account of the same money, not an
// additional channel.
func RowTotal(r Row) float64 {
	total := 0.0
	for _, f := range TenderFields {
		total += r.Cell(f).Amount()
	}
	return total
}

// RowTips estimates the tip share as a fixed fraction of the reading.
func RowTips(r Row) float64 {
	return r.Reading.Amount() * tipRate
}

// RowDiff is the drift between what the register recorded and what the
// tender breakdown accounts for.
func RowDiff(r Row) float64 {
	return r.Reading.Amount() - RowTotal(r)
}

// RowFinal is the net adjustment for the employee: estimated tips plus the
// cash-drawer drift.
func RowFinal(r Row) float64 {
	return RowTips(r) + RowDiff(r)
}

// DayTotal sums one field across all rows of a day.
func DayTotal(d Day, f Field) float64 {
	total := 0.0
	for _, r := range d.Rows {
		total += r.Cell(f).Amount()
	}
	return total
}

// DayGrandTotal sums RowTotal across the day's rows.
func DayGrandTotal(d Day) float64 {
	total := 0.0
	for _, r := range d.Rows {
		total += RowTotal(r)
	}
	return total
}

// DayTotalTips sums RowTips across the day's rows.
func DayTotalTips(d Day) float64 {
	total := 0.0
	for _, r := range d.Rows {
		total += RowTips(r)
	}
	return total
}

// DayTotalDiff sums RowDiff across the day's rows.
func DayTotalDiff(d Day) float64 {
	total := 0.0
	for _, r := range d.Rows {
		total += RowDiff(r)
	}
	return total
}

// DayTotalFinal sums RowFinal across the day's rows.
func DayTotalFinal(d Day) float64 {
	total := 0.0
	for _, r := range d.Rows {
		total += RowFinal(r)
	}
	return total
}

// DayTotalReading sums the register readings across the day's rows.
func DayTotalReading(d Day) float64 {
	return DayTotal(d, FieldReading)
}

// WeekTotal sums one field across every day of the week. Empty days
// contribute 0.
func WeekTotal(w Week, f Field) float64 {
	total := 0.0
	for _, d := range w.Days {
		total += DayTotal(d, f)
	}
	return total
}

// WeekGrandTotal sums DayGrandTotal across the week.
func WeekGrandTotal(w Week) float64 {
	total := 0.0
	for _, d := range w.Days {
		total += DayGrandTotal(d)
	}
	return total
}

// WeekTotalTips sums DayTotalTips across the week.
func WeekTotalTips(w Week) float64 {
	total := 0.0
	for _, d := range w.Days {
		total += DayTotalTips(d)
	}
	return total
}

// WeekTotalDiff sums DayTotalDiff across the week.
func WeekTotalDiff(w Week) float64 {
	total := 0.0
	for _, d := range w.Days {
		total += DayTotalDiff(d)
	}
	return total
}

// WeekTotalFinal sums DayTotalFinal across the week.
func WeekTotalFinal(w Week) float64 {
	total := 0.0
	for _, d := range w.Days {
		total += DayTotalFinal(d)
	}
	return total
}

// WeekTotalReading sums DayTotalReading across the week.
func WeekTotalReading(w Week) float64 {
	total := 0.0
	for _, d := range w.Days {
		total += DayTotalReading(d)
	}
	return total
}
