package iss

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/moex-tools/bond"
	"github.com/shopspring/decimal"
)

// table is one ISS response block in its columns/data form. Cells are
// addressed by column name so blocks survive the feed reordering or
// growing columns.
type table struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

func (t *table) index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *table) cell(row []any, name string) any {
	i := t.index(name)
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// str returns the named cell as a string, empty for null or absent cells.
func (t *table) str(row []any, name string) string {
	if s, ok := t.cell(row, name).(string); ok {
		return s
	}
	return ""
}

// dec returns the named cell as a nullable decimal. ISS sends numbers, but
// the odd block encodes them as strings; both are accepted.
func (t *table) dec(row []any, name string) decimal.NullDecimal {
	var s string
	switch v := t.cell(row, name).(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	default:
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// date returns the named cell as a Date, zero for null, absent or
// "0000-00-00" cells.
func (t *table) date(row []any, name string) bond.Date {
	d, err := bond.ParseISSDate(t.str(row, name))
	if err != nil {
		return bond.Date{}
	}
	return d
}

// integer returns the named cell as an int, 0 for null or absent cells.
func (t *table) integer(row []any, name string) int {
	d := t.dec(row, name)
	if !d.Valid {
		return 0
	}
	return int(d.Decimal.IntPart())
}

// tableAt extracts the columns/data block at the given jsonpath from a
// decoded payload. Bracket syntax reaches blocks whose name contains a dot,
// like $["history.cursor"].
func tableAt(jobj any, path string) (*table, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("no block at %q: %w", path, err)
	}
	block, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("block at %q: not an ISS block", path)
	}
	t := new(table)
	cols, _ := block["columns"].([]any)
	for _, c := range cols {
		if s, ok := c.(string); ok {
			t.Columns = append(t.Columns, s)
		}
	}
	rows, _ := block["data"].([]any)
	for _, r := range rows {
		if row, ok := r.([]any); ok {
			t.Data = append(t.Data, row)
		}
	}
	return t, nil
}
