package iss

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTableAccessors(t *testing.T) {
	payload := `{
		"columns": ["SECID", "PREVWAPRICE", "MATDATE", "LISTLEVEL", "EXTRA"],
		"data": [
			["SU26238RMFS4", 52.2, "2041-05-15", 1, "x"],
			["XXNULLS00000", null, "0000-00-00", null, null]
		]
	}`
	var tbl table
	d := json.NewDecoder(strings.NewReader(payload))
	d.UseNumber()
	if err := d.Decode(&tbl); err != nil {
		t.Fatalf("decode: %v", err)
	}

	row := tbl.Data[0]
	if got := tbl.str(row, "SECID"); got != "SU26238RMFS4" {
		t.Errorf("str() = %q", got)
	}
	if v := tbl.dec(row, "PREVWAPRICE"); !v.Valid || !v.Decimal.Equal(dec("52.2")) {
		t.Errorf("dec() = %v, want 52.2", v)
	}
	if got := tbl.date(row, "MATDATE").String(); got != "2041-05-15" {
		t.Errorf("date() = %s", got)
	}
	if got := tbl.integer(row, "LISTLEVEL"); got != 1 {
		t.Errorf("integer() = %d", got)
	}

	nulls := tbl.Data[1]
	if v := tbl.dec(nulls, "PREVWAPRICE"); v.Valid {
		t.Errorf("dec() of null = %v, want invalid", v)
	}
	if !tbl.date(nulls, "MATDATE").IsZero() {
		t.Errorf("date() of 0000-00-00 = %s, want zero", tbl.date(nulls, "MATDATE"))
	}
	if got := tbl.integer(nulls, "LISTLEVEL"); got != 0 {
		t.Errorf("integer() of null = %d, want 0", got)
	}

	// unknown columns read as empty values, not panics
	if got := tbl.str(row, "NOSUCH"); got != "" {
		t.Errorf("str() of unknown column = %q", got)
	}
	if v := tbl.dec(row, "NOSUCH"); v.Valid {
		t.Errorf("dec() of unknown column = %v", v)
	}
}

func TestTableAt(t *testing.T) {
	payload := `{
		"history": {
			"columns": ["TRADEDATE", "VALUE"],
			"data": [["2026-08-20", 1000000]]
		},
		"history.cursor": {
			"columns": ["INDEX", "TOTAL", "PAGESIZE"],
			"data": [[0, 11, 100]]
		}
	}`
	var jobj any
	d := json.NewDecoder(strings.NewReader(payload))
	d.UseNumber()
	if err := d.Decode(&jobj); err != nil {
		t.Fatalf("decode: %v", err)
	}

	hist, err := tableAt(jobj, "$.history")
	if err != nil {
		t.Fatalf("tableAt(history) unexpected error = %v", err)
	}
	if len(hist.Data) != 1 || !hist.dec(hist.Data[0], "VALUE").Decimal.Equal(dec("1000000")) {
		t.Errorf("tableAt(history) = %+v", hist)
	}

	// the dotted block name needs the bracket syntax
	cur, err := tableAt(jobj, `$["history.cursor"]`)
	if err != nil {
		t.Fatalf("tableAt(history.cursor) unexpected error = %v", err)
	}
	if got := cur.integer(cur.Data[0], "TOTAL"); got != 11 {
		t.Errorf("cursor TOTAL = %d, want 11", got)
	}

	if _, err := tableAt(jobj, "$.nosuch"); err == nil {
		t.Error("tableAt() of a missing block should fail")
	}
}
