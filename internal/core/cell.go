package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CellKind tags the two persisted representations of a cell value.
type CellKind uint8

const (
	// CellNumber is a plain numeric amount.
	CellNumber CellKind = iota
	// CellExpr is a "+"-joined text expression such as "20+15.50", meaning
	// two partial tender amounts summed into one cell.
	CellExpr
)

// Cell is a tagged union over the two shapes a persisted cell may take.
// Documents written by older clients mix raw numbers and strings freely;
// decoding normalizes them here so the aggregation formulas never see
// untyped data.
type Cell struct {
	Kind   CellKind
	Number float64
	Expr   string
}

// NumberCell wraps a plain amount.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// ExprCell wraps a raw text expression without evaluating it. The original
// text is kept so the user sees what they typed; evaluation happens on read.
func ExprCell(s string) Cell {
	return Cell{Kind: CellExpr, Expr: s}
}

// Value evaluates the cell. The boolean reports whether every part of the
// value parsed cleanly: a plain number and the empty string are clean, while
// an expression with an unparsable part degrades that part to 0 and reports
// false. Callers that only need the amount use Amount.
func (c Cell) Value() (float64, bool) {
	if c.Kind == CellNumber {
		return c.Number, true
	}
	s := strings.TrimSpace(c.Expr)
	if s == "" {
		return 0, true
	}
	sum := 0.0
	ok := true
	for _, part := range strings.Split(s, "+") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			ok = false
			continue
		}
		sum += v
	}
	return sum, ok
}

// Amount returns the degraded numeric value of the cell. Malformed input
// contributes 0 and never surfaces an error.
func (c Cell) Amount() float64 {
	v, _ := c.Value()
	return v
}

// MarshalJSON writes the cell back in the shape it was entered: numbers as
// JSON numbers, expressions as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Kind == CellNumber {
		return json.Marshal(c.Number)
	}
	return json.Marshal(c.Expr)
}

// UnmarshalJSON accepts a JSON number, a string, or null. Anything else is
// kept as an expression of its raw text so it degrades to 0 on evaluation
// instead of failing the whole document load.
func (c *Cell) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*c = NumberCell(0)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = NumberCell(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*c = ExprCell(str)
		return nil
	}
	*c = ExprCell(s)
	return nil
}
