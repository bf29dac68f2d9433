package core

import (
	"fmt"
	"time"
)

// dayNames maps the positional offset inside a generated week to its label.
// Day names come from this table, not from the date's actual weekday; the
// two are derived from the same arithmetic and must not diverge.
var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekStart returns the Monday of the given ISO week at midnight UTC.
// January 4th always falls in ISO week 1, so the Monday of week 1 is Jan 4
// minus its ISO weekday offset; the target week is a whole number of weeks
// later. No bounds are applied: week numbers outside 1..53 simply land
// outside the nominal year.
func WeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	monday := jan4.AddDate(0, 0, -(wd - 1))
	return monday.AddDate(0, 0, (week-1)*7)
}

// GenerateWeek materializes an empty ledger for the identifier: seven
// consecutive days starting at WeekStart, each with no rows. This is how a
// week comes into being when nothing is stored under its id yet.
func GenerateWeek(id WeekID) (Week, error) {
	year, week, err := ParseWeekID(string(id))
	if err != nil {
		return Week{}, err
	}
	start := WeekStart(year, week)
	days := make([]Day, 7)
	for i := range days {
		days[i] = Day{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			DayName: dayNames[i],
			Rows:    []Row{},
		}
	}
	return Week{WeekID: id, Days: days}, nil
}

// RangeLabel renders "2023-W01" as "Jan 2 - Jan 8, 2023" for pickers and the
// history list. When the week spans a year boundary both full dates are
// shown. A malformed identifier is echoed back unchanged rather than
// reported as an error; the label is purely cosmetic.
func RangeLabel(raw string) string {
	year, week, err := ParseWeekID(raw)
	if err != nil {
		return raw
	}
	start := WeekStart(year, week)
	end := start.AddDate(0, 0, 6)
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), start.Year())
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}
