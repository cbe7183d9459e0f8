package renderer

import (
	"bytes"

	"github.com/moex-tools/bond"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// YieldMarkdown renders the outcome of a yield computation: the purchase
// terms it was made under and the resulting rate.
func YieldMarkdown(b *bond.Bond, t bond.Terms, cleanPrice decimal.Decimal, ytm bond.Percent) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Доходность " + orDash(b.ShortName))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Параметр", "Значение"},
		Rows: [][]string{
			{"Дата покупки", t.PurchaseDate.String()},
			{"Цена, % от номинала", cleanPrice.String()},
			{"Номинал", bond.M(t.FaceValue, b.FaceUnit).String()},
			{"НКД", bond.M(t.AccruedInterest, b.FaceUnit).String()},
			{md.Bold("Доходность к погашению"), md.Bold(ytm.String())},
		},
	})

	return doc.String()
}
