// Package core holds the ledger domain: week identifiers, the Week/Day/Row
// document model, cell parsing and the aggregation formulas. Everything in
// this package is pure and synchronous; persistence lives in internal/store.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field names a single column of a sales row. The seven tender channels are
// summed into the row total; Reading is the register's self-reported figure
// and is only used for drift and tip estimation.
type Field string

const (
	FieldDirect  Field = "direct"
	FieldVisa    Field = "visa"
	FieldMaster  Field = "master"
	FieldAmex    Field = "amex"
	FieldDiner   Field = "diner"
	FieldCoupons Field = "coupons"
	FieldCash    Field = "cash"
	FieldReading Field = "reading"
)

// TenderFields lists the channels that contribute to RowTotal, in display
// order. Reading is deliberately excluded.
var TenderFields = []Field{
	FieldDirect, FieldVisa, FieldMaster, FieldAmex,
	FieldDiner, FieldCoupons, FieldCash,
}

// WeekID is an ISO week identifier of the form "2023-W01". The string form
// sorts chronologically, which the history listing relies on.
type WeekID string

var ErrBadWeekID = errors.New("malformed week identifier")

// ParseWeekID splits a YYYY-Www identifier into its year and week number.
// Week numbers are not range-checked here; week generation is pure date
// arithmetic and tolerates identifiers outside 1..53.
func ParseWeekID(raw string) (year, week int, err error) {
	parts := strings.SplitN(raw, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadWeekID, raw)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadWeekID, raw)
	}
	week, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadWeekID, raw)
	}
	return year, week, nil
}

// FormatWeekID renders a year and ISO week number as a WeekID.
func FormatWeekID(year, week int) WeekID {
	return WeekID(fmt.Sprintf("%04d-W%02d", year, week))
}

// Valid reports whether the identifier parses as YYYY-Www.
func (id WeekID) Valid() bool {
	_, _, err := ParseWeekID(string(id))
	return err == nil
}

// Row is one employee's entry for one day. Name may be empty while the row
// is being edited; cell values may be negative, zero or empty.
type Row struct {
	Name    string `json:"name"`
	Direct  Cell   `json:"direct"`
	Visa    Cell   `json:"visa"`
	Master  Cell   `json:"master"`
	Amex    Cell   `json:"amex"`
	Diner   Cell   `json:"diner"`
	Coupons Cell   `json:"coupons"`
	Cash    Cell   `json:"cash"`
	Reading Cell   `json:"reading"`
}

// Cell returns the cell stored under the given field name. Unknown fields
// yield a zero cell so aggregation over arbitrary field lists stays total.
func (r Row) Cell(f Field) Cell {
	switch f {
	case FieldDirect:
		return r.Direct
	case FieldVisa:
		return r.Visa
	case FieldMaster:
		return r.Master
	case FieldAmex:
		return r.Amex
	case FieldDiner:
		return r.Diner
	case FieldCoupons:
		return r.Coupons
	case FieldCash:
		return r.Cash
	case FieldReading:
		return r.Reading
	default:
		return Cell{}
	}
}

// Day groups the rows entered for one calendar date. Rows keep their
// insertion order; order affects display only, never totals.
type Day struct {
	Date    string `json:"date"`
	DayName string `json:"dayName"`
	Rows    []Row  `json:"rows"`
}

// AddRow appends an empty row and returns a pointer to it.
func (d *Day) AddRow() *Row {
	d.Rows = append(d.Rows, Row{})
	return &d.Rows[len(d.Rows)-1]
}

// RemoveRow deletes the row at index i, preserving the order of the rest.
// Out-of-range indexes are ignored.
func (d *Day) RemoveRow(i int) bool {
	if i < 0 || i >= len(d.Rows) {
		return false
	}
	d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
	return true
}

// Week is one tenant's ledger document for one ISO week: exactly seven
// consecutive days, Monday first. LastUpdated is stamped by the store on
// save and is never set by callers.
type Week struct {
	WeekID      WeekID    `json:"weekId"`
	Days        []Day     `json:"days"`
	LastUpdated time.Time `json:"lastUpdated"`
}

var ErrBadWeekShape = errors.New("week must have exactly 7 days")

// Validate checks the structural invariants enforced at the store boundary:
// a parseable identifier and the fixed seven-day shape. Cell contents are
// intentionally not validated; the engine accepts arbitrary values.
func (w Week) Validate() error {
	if !w.WeekID.Valid() {
		return fmt.Errorf("%w: %q", ErrBadWeekID, w.WeekID)
	}
	if len(w.Days) != 7 {
		return fmt.Errorf("%w, got %d", ErrBadWeekShape, len(w.Days))
	}
	return nil
}

// Clone returns a deep copy; the in-memory store hands out clones so callers
// cannot mutate stored documents behind its back. Empty row slices stay
// non-nil so a cloned week marshals with "rows":[] exactly like the original.
func (w Week) Clone() Week {
	out := w
	out.Days = make([]Day, len(w.Days))
	for i, d := range w.Days {
		nd := d
		if d.Rows != nil {
			nd.Rows = make([]Row, len(d.Rows))
			copy(nd.Rows, d.Rows)
		}
		out.Days[i] = nd
	}
	return out
}
