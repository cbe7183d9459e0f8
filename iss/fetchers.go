package iss

import (
	"fmt"
	"net/url"

	"github.com/moex-tools/bond"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the ISS endpoints.

// fetchSearch returns the security rows matching a free-text query.
func fetchSearch(query string) (*table, error) {
	// https://iss.moex.com/iss/securities.json?q=RU000A1038V6&iss.meta=off
	// {
	// 	"securities": {
	// 		"columns": ["id", "secid", "shortname", "regnumber", "name", "isin", ...],
	// 		"data": [
	// 			[426271054, "SU26238RMFS4", "ОФЗ 26238", "26238RMFS", "ОФЗ-ПД 26238 15/05/2041", "RU000A1038V6", ...]
	// 		]
	// 	}
	// }

	addr := fmt.Sprintf("%s/iss/securities.json?q=%s&iss.meta=off", BaseURL, url.QueryEscape(query))

	// that's the payload
	type payload struct {
		Securities table `json:"securities"`
	}
	var content payload
	if err := jwget(newCachingClient(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot search for %q: %w", query, err)
	}
	return &content.Securities, nil
}

// fetchDescription returns the description block of a security, one row per
// attribute.
func fetchDescription(secid string) (*table, error) {
	// https://iss.moex.com/iss/securities/SU26238RMFS4.json
	// {
	// 	"description": {
	// 		"columns": ["name", "title", "value", "type", "sort_order", "is_hidden", "precision"],
	// 		"data": [
	// 			["SECID", "Код ценной бумаги", "SU26238RMFS4", "string", 1, 0, null],
	// 			["NAME", "Полное наименование", "ОФЗ-ПД 26238 15/05/2041", "string", 3, 0, null],
	// 			["MATDATE", "Дата погашения", "2041-05-15", "date", 13, 0, null],
	// 			...
	// 		]
	// 	},
	// 	"boards": { ... }
	// }
	// nota bene: every value comes back as a string here, whatever its type
	// column says. The table accessors convert on read.

	addr := fmt.Sprintf("%s/iss/securities/%s.json", BaseURL, secid)

	type payload struct {
		Description table `json:"description"`
	}
	var content payload
	if err := jwget(newCachingClient(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch description for %s: %w", secid, err)
	}
	return &content.Description, nil
}

// fetchMarket returns the bond market securities block, one row per trading
// board the security is listed on.
func fetchMarket(secid string) (*table, error) {
	// https://iss.moex.com/iss/engines/stock/markets/bonds/securities/SU26238RMFS4.json?iss.only=securities
	// {
	// 	"securities": {
	// 		"columns": ["SECID", "BOARDID", ..., "PREVWAPRICE", "YIELDATPREVWAPRICE", "ACCRUEDINT", ...],
	// 		"data": [
	// 			["SU26238RMFS4", "TQOB", ..., 52.2, 14.91, 14.56, ...],
	// 			["SU26238RMFS4", "SPOB", ..., 52.19, 14.92, 14.56, ...]
	// 		]
	// 	}
	// }

	addr := fmt.Sprintf("%s/iss/engines/stock/markets/bonds/securities/%s.json?iss.only=securities&iss.meta=off", BaseURL, secid)

	type payload struct {
		Securities table `json:"securities"`
	}
	var content payload
	if err := jwget(newCachingClient(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch quote for %s: %w", secid, err)
	}
	return &content.Securities, nil
}

// fetchHistory returns the daily traded values on the main board over
// [from, till], following the history.cursor paging. Days the bond did not
// trade have a null VALUE and are skipped.
func fetchHistory(secid string, from, till bond.Date) ([]decimal.Decimal, error) {
	// https://iss.moex.com/iss/history/engines/stock/markets/bonds/securities/SU26238RMFS4.json?from=2026-08-08&till=2026-08-22&marketprice_board=1
	// {
	// 	"history": {
	// 		"columns": ["BOARDID", "TRADEDATE", "SHORTNAME", ..., "VALUE", ...],
	// 		"data": [
	// 			["TQOB", "2026-08-10", "ОФЗ 26238", ..., 123456789.5, ...],
	// 			...
	// 		]
	// 	},
	// 	"history.cursor": {
	// 		"columns": ["INDEX", "TOTAL", "PAGESIZE"],
	// 		"data": [[0, 11, 100]]
	// 	}
	// }

	client := newCachingClient()
	var values []decimal.Decimal
	for start := 0; ; {
		addr := fmt.Sprintf("%s/iss/history/engines/stock/markets/bonds/securities/%s.json?from=%s&till=%s&marketprice_board=1&start=%d",
			BaseURL, secid, from, till, start)

		var jobj any
		if err := jwget(client, addr, &jobj); err != nil {
			return nil, fmt.Errorf("cannot fetch history for %s: %w", secid, err)
		}

		hist, err := tableAt(jobj, "$.history")
		if err != nil {
			return nil, fmt.Errorf("history for %s: %w", secid, err)
		}
		for _, row := range hist.Data {
			if v := hist.dec(row, "VALUE"); v.Valid {
				values = append(values, v.Decimal)
			}
		}

		// the paging state block has a dot in its name, hence the bracket
		// syntax
		cur, err := tableAt(jobj, `$["history.cursor"]`)
		if err != nil || len(cur.Data) == 0 {
			break
		}
		row := cur.Data[0]
		index, total, size := cur.integer(row, "INDEX"), cur.integer(row, "TOTAL"), cur.integer(row, "PAGESIZE")
		if size <= 0 || index+size >= total {
			break
		}
		start = index + size
	}
	return values, nil
}

// fetchBondization returns one page of the coupon, amortization and offer
// streams, starting at the given row of each.
func fetchBondization(secid string, start int) (coupons, amortizations, offers *table, err error) {
	// https://iss.moex.com/iss/statistics/engines/stock/markets/bonds/bondization/SU26238RMFS4.json?limit=100
	// {
	// 	"amortizations": {
	// 		"columns": ["isin", "name", "issuevalue", "amortdate", "facevalue", ..., "value", ...],
	// 		"data": [["RU000A1038V6", "ОФЗ-ПД 26238 15/05/2041", 350000000000, "2041-05-15", 1000, ..., 1000, ...]]
	// 	},
	// 	"coupons": {
	// 		"columns": ["isin", "name", ..., "coupondate", ..., "value", "valueprc", ...],
	// 		"data": [
	// 			["RU000A1038V6", "ОФЗ-ПД 26238 15/05/2041", ..., "2021-12-15", ..., 35.4, 7.1, ...],
	// 			["RU000A1038V6", "ОФЗ-ПД 26238 15/05/2041", ..., "2022-06-15", ..., 35.4, 7.1, ...]
	// 		]
	// 	},
	// 	"offers": {
	// 		"columns": ["isin", "name", ..., "offerdate", ..., "price", "value", "agent", "offertype"],
	// 		"data": []
	// 	}
	// }
	// nota bene: a floating coupon that is not fixed yet has a null value.

	addr := fmt.Sprintf("%s/iss/statistics/engines/stock/markets/bonds/bondization/%s.json?iss.meta=off&limit=%d&start=%d",
		BaseURL, secid, bondizationPage, start)

	type payload struct {
		Coupons       table `json:"coupons"`
		Amortizations table `json:"amortizations"`
		Offers        table `json:"offers"`
	}
	var content payload
	if err := jwget(newCachingClient(), addr, &content); err != nil {
		return nil, nil, nil, fmt.Errorf("cannot fetch bondization for %s: %w", secid, err)
	}
	return &content.Coupons, &content.Amortizations, &content.Offers, nil
}
