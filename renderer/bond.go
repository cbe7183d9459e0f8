package renderer

import (
	"bytes"

	"github.com/moex-tools/bond"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// BondMarkdown renders the instrument card: identity, issue terms, then
// the previous day snapshot from the main board. Rows keep the feed order
// and labels the MOEX terminal users know.
func BondMarkdown(b *bond.Bond) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(orDash(b.ShortName))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Параметр", "Значение"},
		Rows: [][]string{
			{"Код ценной бумаги", orDash(b.SecID)},
			{"ISIN код", orDash(b.ISIN)},
			{"Полное наименование", orDash(b.Name)},
			{"Краткое наименование", orDash(b.ShortName)},
			{"Уровень листинга", intOrDash(b.ListLevel)},
			{"Для квал. инвесторов", yesNo(b.QualifiedOnly)},
			{"Объем выпуска", issueVolume(b)},
			{"Первоначальная номн. стоимость", moneyOrDash(b.InitialFaceValue, b.FaceUnit)},
			{"Валюта номинала", orDash(b.FaceUnit)},
			{"Дней до погашения", intOrDash(b.DaysToRedemption)},
			{"Дата начала торгов", dateOrDash(b.IssueDate)},
			{"Дата погашения", dateOrDash(b.MaturityDate)},
			{"Дата для расчета доходности", dateOrDash(b.BuybackDate)},
			{"Номинальная стоимость", moneyOrDash(b.FaceValue, b.FaceUnit)},
			{"Ставка купона, %", decOrDash(b.CouponPercent)},
			{"Сумма купона", moneyOrDash(b.CouponValue, b.FaceUnit)},
			{"Купонов в год", intOrDash(b.CouponFrequency)},
			{"Средневзвешенная цена пред. дня", decOrDash(b.PrevWAPrice)},
			{"Доходность по оценке пред. дня", decOrDash(b.PrevYield)},
			{"НКД", moneyOrDash(b.AccruedInterest, b.FaceUnit)},
			{"Среднедневной объем", avgDailyValue(b)},
		},
	})

	return doc.String()
}

// issueVolume is the money raised at issue, in billions of the face
// currency.
func issueVolume(b *bond.Bond) string {
	vol, ok := b.IssueVolume()
	if !ok {
		return placeholder
	}
	return grouped(vol.Div(decimal.New(1, 9))) + " млрд"
}

// avgDailyValue is the mean traded value, in millions.
func avgDailyValue(b *bond.Bond) string {
	if !b.AvgDailyValue.Valid {
		return placeholder
	}
	return grouped(b.AvgDailyValue.Decimal.Div(decimal.New(1, 6))) + " млн"
}
