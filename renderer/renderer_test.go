package renderer

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/moex-tools/bond"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ndec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

// wantRow asserts that the rendered table has a row with the given label
// and value, whatever padding the table writer added.
func wantRow(t *testing.T, got, label, value string) {
	t.Helper()
	re := regexp.MustCompile(`\|\s*` + regexp.QuoteMeta(label) + `\s*\|\s*` + regexp.QuoteMeta(value) + `\s*\|`)
	if !re.MatchString(got) {
		t.Errorf("missing row %q | %q in:\n%s", label, value, got)
	}
}

func ofz26238() *bond.Bond {
	return &bond.Bond{
		SecID:            "SU26238RMFS4",
		ISIN:             "RU000A1038V6",
		Name:             "ОФЗ-ПД 26238 15/05/2041",
		ShortName:        "ОФЗ 26238",
		ListLevel:        1,
		IssueSize:        350000000,
		InitialFaceValue: ndec("1000"),
		FaceUnit:         "SUR",
		DaysToRedemption: 5370,
		IssueDate:        bond.NewDate(2021, time.June, 16),
		MaturityDate:     bond.NewDate(2041, time.May, 15),
		FaceValue:        ndec("1000"),
		CouponPercent:    ndec("7.1"),
		CouponValue:      ndec("35.4"),
		CouponFrequency:  2,
		PrevWAPrice:      ndec("52.2"),
		PrevYield:        ndec("14.91"),
		AccruedInterest:  ndec("14.56"),
		AvgDailyValue:    ndec("123456789.5"),
	}
}

func TestBondMarkdown(t *testing.T) {
	got := BondMarkdown(ofz26238())

	if !strings.HasPrefix(got, "# ОФЗ 26238") {
		t.Errorf("BondMarkdown() does not start with the short name heading:\n%s", got)
	}
	wantRow(t, got, "Код ценной бумаги", "SU26238RMFS4")
	wantRow(t, got, "ISIN код", "RU000A1038V6")
	wantRow(t, got, "Уровень листинга", "1")
	wantRow(t, got, "Для квал. инвесторов", "Нет")
	// 350 000 000 bonds at 1000 rubles
	wantRow(t, got, "Объем выпуска", "350.0 млрд")
	wantRow(t, got, "Первоначальная номн. стоимость", "1,000.00 ₽")
	wantRow(t, got, "Дата погашения", "2041-05-15")
	// unknown buyback date renders as the placeholder
	wantRow(t, got, "Дата для расчета доходности", placeholder)
	wantRow(t, got, "Ставка купона, %", "7.1")
	wantRow(t, got, "Купонов в год", "2")
	wantRow(t, got, "Средневзвешенная цена пред. дня", "52.2")
	wantRow(t, got, "НКД", "14.56 ₽")
	wantRow(t, got, "Среднедневной объем", "123.5 млн")
}

func TestBondMarkdownSparse(t *testing.T) {
	// a card straight from Description, before any market data
	got := BondMarkdown(&bond.Bond{SecID: "XXNEW", ShortName: "Новый выпуск", FaceUnit: "SUR"})

	wantRow(t, got, "Объем выпуска", placeholder)
	wantRow(t, got, "Номинальная стоимость", placeholder)
	wantRow(t, got, "Средневзвешенная цена пред. дня", placeholder)
	wantRow(t, got, "Среднедневной объем", placeholder)
}

func TestScheduleMarkdown(t *testing.T) {
	s := bond.MergeEvents(
		[]bond.CouponEvent{
			{Date: bond.NewDate(2026, time.March, 10), Value: ndec("42.38")},
			{Date: bond.NewDate(2027, time.March, 10)},
		},
		[]bond.AmortizationEvent{
			{Date: bond.NewDate(2027, time.March, 10), Value: ndec("1000")},
		},
		[]bond.OfferEvent{
			{Date: bond.NewDate(2026, time.September, 10), Price: ndec("100"), Type: "Call"},
		},
	)

	got := ScheduleMarkdown("Демо выпуск", s)

	for _, col := range []string{"event_date", "coupon", "amt", "offer", "offer_type"} {
		if !strings.Contains(got, col) {
			t.Errorf("ScheduleMarkdown() missing column %q in:\n%s", col, got)
		}
	}
	// rows numbered from 1, in date order
	wantRow(t, got, "1", "2026-03-10")
	wantRow(t, got, "2", "2026-09-10")
	wantRow(t, got, "3", "2027-03-10")
	// the offer row carries its price and type
	if !regexp.MustCompile(`2026-09-10\s*\|.*\|.*\|\s*100\s*\|\s*Call`).MatchString(got) {
		t.Errorf("ScheduleMarkdown() offer row wrong in:\n%s", got)
	}
	// the unfixed coupon renders as the placeholder
	if !regexp.MustCompile(`2027-03-10\s*\|\s*` + placeholder).MatchString(got) {
		t.Errorf("ScheduleMarkdown() unfixed coupon row wrong in:\n%s", got)
	}
}

func TestYieldMarkdown(t *testing.T) {
	b := ofz26238()
	terms := bond.Terms{
		FaceValue:       dec("1000"),
		AccruedInterest: dec("14.56"),
		PurchaseDate:    bond.NewDate(2026, time.August, 21),
	}

	got := YieldMarkdown(b, terms, dec("52.2"), bond.Percent(14.909734))

	if !strings.HasPrefix(got, "# Доходность ОФЗ 26238") {
		t.Errorf("YieldMarkdown() heading wrong:\n%s", got)
	}
	wantRow(t, got, "Дата покупки", "2026-08-21")
	wantRow(t, got, "Цена, % от номинала", "52.2")
	wantRow(t, got, "НКД", "14.56 ₽")
	// the rate rounds to two decimals only here, in presentation
	if !strings.Contains(got, "14.91%") {
		t.Errorf("YieldMarkdown() missing the rounded rate in:\n%s", got)
	}
}

func TestGrouped(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"350", "350.0"},
		{"1234.56", "1,234.6"},
		{"123456789.5", "123,456,789.5"},
		{"0", "0.0"},
		{"-1234.5", "-1,234.5"},
	}
	for _, tc := range tests {
		if got := grouped(dec(tc.in)); got != tc.want {
			t.Errorf("grouped(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
