// Package iss is a thin client for the Moscow Exchange ISS data feed.
//
// The feed is public and keyless. Every response is a set of named blocks
// in columns/data form; blocks are decoded by name so the client survives
// column reordering. All requests go through a disk cache whose entries
// expire daily, so repeated lookups within a day cost one round trip.
package iss

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/moex-tools/bond"
	"github.com/shopspring/decimal"
)

// BaseURL is the root of the ISS feed. Tests point it at a local server.
var BaseURL = "https://iss.moex.com"

const (
	historyWindow   = 14  // days of trading history behind the mean daily value
	bondizationPage = 100 // rows per bondization request
)

// ErrNoQuote reports that a security has no row on the main bond boards.
var ErrNoQuote = errors.New("no quote on the main boards")

// ErrNotFound reports that the full-text search knows no such code.
var ErrNotFound = errors.New("not found on the exchange")

// Direction selects what Resolve looks up.
type Direction int

const (
	ISINToSecID Direction = iota // the trading code of an ISIN
	SecIDToISIN                  // the ISIN of a trading code
)

// Resolve translates between a bond's ISIN and its trading code (SECID)
// using the ISS full-text search.
func Resolve(code string, dir Direction) (string, error) {
	var from, to string
	switch dir {
	case ISINToSecID:
		from, to = "isin", "secid"
	case SecIDToISIN:
		from, to = "secid", "isin"
	default:
		return "", fmt.Errorf("unknown resolve direction %d", dir)
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	tbl, err := fetchSearch(code)
	if err != nil {
		return "", err
	}
	for _, row := range tbl.Data {
		if tbl.str(row, from) == code {
			return tbl.str(row, to), nil
		}
	}
	return "", fmt.Errorf("no match for %s %s: %w", strings.ToUpper(from), code, ErrNotFound)
}

// SecID normalizes a user-supplied code into a trading code. A well-formed
// ISIN goes through Resolve, anything else is taken as a SECID already.
// Government SECIDs like SU26238RMFS4 are ISIN shaped themselves, so an
// ISIN the search does not know falls back to being a SECID.
func SecID(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if bond.ValidateISIN(code) != nil {
		return code, nil
	}
	secid, err := Resolve(code, ISINToSecID)
	if errors.Is(err, ErrNotFound) {
		return code, nil
	}
	if err != nil {
		return "", err
	}
	return secid, nil
}

// Description returns the instrument card built from the static description
// of the security. Market fields (previous price and yield, accrued
// interest, traded value) are left null; Fetch fills them.
func Description(secid string) (*bond.Bond, error) {
	tbl, err := fetchDescription(secid)
	if err != nil {
		return nil, err
	}
	if len(tbl.Data) == 0 {
		return nil, fmt.Errorf("no description data for SECID %s", secid)
	}

	// one row per attribute, keyed by the name column
	attrs := make(map[string]string, len(tbl.Data))
	for _, row := range tbl.Data {
		attrs[tbl.str(row, "name")] = tbl.str(row, "value")
	}

	b := &bond.Bond{
		SecID:            attrs["SECID"],
		ISIN:             attrs["ISIN"],
		Name:             attrs["NAME"],
		ShortName:        attrs["SHORTNAME"],
		ListLevel:        parseInt(attrs["LISTLEVEL"]),
		QualifiedOnly:    attrs["ISQUALIFIEDINVESTORS"] == "1",
		IssueSize:        int64(parseInt(attrs["ISSUESIZE"])),
		InitialFaceValue: parseDec(attrs["INITIALFACEVALUE"]),
		FaceUnit:         attrs["FACEUNIT"],
		DaysToRedemption: parseInt(attrs["DAYSTOREDEMPTION"]),
		IssueDate:        parseDate(attrs["ISSUEDATE"]),
		MaturityDate:     parseDate(attrs["MATDATE"]),
		BuybackDate:      parseDate(attrs["BUYBACKDATE"]),
		FaceValue:        parseDec(attrs["FACEVALUE"]),
		CouponPercent:    parseDec(attrs["COUPONPERCENT"]),
		CouponValue:      parseDec(attrs["COUPONVALUE"]),
		CouponFrequency:  parseInt(attrs["COUPONFREQUENCY"]),
	}
	return b, nil
}

// Quote is the previous-day market snapshot of a bond on its main board.
type Quote struct {
	PrevWAPrice     decimal.NullDecimal // weighted average price, percent of face
	PrevYield       decimal.NullDecimal // yield at that price, percent
	AccruedInterest decimal.NullDecimal // per bond, in the face currency
}

// Snapshot returns the previous-day quote from the main trading board, TQCB
// for corporate bonds or TQOB for government ones. Listings on other boards
// only yield ErrNoQuote.
func Snapshot(secid string) (Quote, error) {
	tbl, err := fetchMarket(secid)
	if err != nil {
		return Quote{}, err
	}
	for _, row := range tbl.Data {
		switch tbl.str(row, "BOARDID") {
		case "TQCB", "TQOB":
			return Quote{
				PrevWAPrice:     tbl.dec(row, "PREVWAPRICE"),
				PrevYield:       tbl.dec(row, "YIELDATPREVWAPRICE"),
				AccruedInterest: tbl.dec(row, "ACCRUEDINT"),
			}, nil
		}
	}
	return Quote{}, fmt.Errorf("%s: %w", secid, ErrNoQuote)
}

// AverageDailyValue returns the mean daily traded value of the security on
// the main board over the trailing window ending today. Days without trades
// do not count; a bond that did not trade at all means zero.
func AverageDailyValue(secid string, days int) (decimal.Decimal, error) {
	till := bond.Today()
	values, err := fetchHistory(secid, till.Add(-days), till)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(values) == 0 {
		return decimal.Zero, nil
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))), nil
}

// Bondization returns the complete coupon, amortization and offer streams
// of a security, following the start paging of the bondization endpoint.
// The streams are raw feed data: coupon values may be null (floaters not
// fixed yet), dates may repeat.
func Bondization(secid string) ([]bond.CouponEvent, []bond.AmortizationEvent, []bond.OfferEvent, error) {
	var coupons []bond.CouponEvent
	var amortizations []bond.AmortizationEvent
	var offers []bond.OfferEvent

	for start := 0; ; start += bondizationPage {
		ctbl, atbl, otbl, err := fetchBondization(secid, start)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, row := range ctbl.Data {
			coupons = append(coupons, bond.CouponEvent{
				Date:  ctbl.date(row, "coupondate"),
				Value: ctbl.dec(row, "value"),
			})
		}
		for _, row := range atbl.Data {
			amortizations = append(amortizations, bond.AmortizationEvent{
				Date:  atbl.date(row, "amortdate"),
				Value: atbl.dec(row, "value"),
			})
		}
		for _, row := range otbl.Data {
			offers = append(offers, bond.OfferEvent{
				Date:  otbl.date(row, "offerdate"),
				Price: otbl.dec(row, "price"),
				Type:  otbl.str(row, "offertype"),
			})
		}
		if len(ctbl.Data) < bondizationPage && len(atbl.Data) < bondizationPage && len(otbl.Data) < bondizationPage {
			break
		}
	}
	return coupons, amortizations, offers, nil
}

// Fetch assembles the complete instrument card: static description, main
// board quote, and mean traded value over the last two weeks.
func Fetch(secid string) (*bond.Bond, error) {
	b, err := Description(secid)
	if err != nil {
		return nil, err
	}

	q, err := Snapshot(secid)
	if err != nil && !errors.Is(err, ErrNoQuote) {
		return nil, err
	}
	b.PrevWAPrice = q.PrevWAPrice
	b.PrevYield = q.PrevYield
	b.AccruedInterest = q.AccruedInterest

	v, err := AverageDailyValue(secid, historyWindow)
	if err != nil {
		return nil, err
	}
	b.AvgDailyValue = decimal.NewNullDecimal(v)
	return b, nil
}

// description values are strings whatever their declared type, absent
// attributes are empty strings. Conversions are lenient like the feed.

func parseDec(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseDate(s string) bond.Date {
	d, err := bond.ParseISSDate(s)
	if err != nil {
		return bond.Date{}
	}
	return d
}
