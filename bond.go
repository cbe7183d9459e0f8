package bond

import "github.com/shopspring/decimal"

// Bond is the instrument card assembled from the ISS description, the
// trading board snapshot and the trading history. Optional numbers are
// null, optional dates are zero.
type Bond struct {
	SecID            string
	ISIN             string
	Name             string
	ShortName        string
	ListLevel        int
	QualifiedOnly    bool // restricted to qualified investors
	IssueSize        int64
	InitialFaceValue decimal.NullDecimal
	FaceUnit         string // ISS currency code, rubles are "SUR"
	DaysToRedemption int
	IssueDate        Date
	MaturityDate     Date
	BuybackDate      Date
	FaceValue        decimal.NullDecimal // current face, after amortizations
	CouponPercent    decimal.NullDecimal
	CouponValue      decimal.NullDecimal
	CouponFrequency  int // payments per year

	// Main board snapshot (TQCB or TQOB).
	PrevWAPrice     decimal.NullDecimal // weighted average price, percent of face
	PrevYield       decimal.NullDecimal // yield at that price, percent
	AccruedInterest decimal.NullDecimal // per bond, in the face currency

	// Mean daily traded value over the trailing window.
	AvgDailyValue decimal.NullDecimal
}

// IssueVolume returns the total issue volume, issue size times initial face
// value, and false when either part is unknown.
func (b *Bond) IssueVolume() (decimal.Decimal, bool) {
	if b.IssueSize == 0 || !b.InitialFaceValue.Valid {
		return decimal.Decimal{}, false
	}
	return b.InitialFaceValue.Decimal.Mul(decimal.NewFromInt(b.IssueSize)), true
}
