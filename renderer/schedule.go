package renderer

import (
	"bytes"
	"strconv"

	"github.com/moex-tools/bond"
	md "github.com/nao1215/markdown"
)

// ScheduleMarkdown renders the merged cash-flow table of a bond, offers
// included, under the feed's own column names. Rows are numbered from 1 in
// a column headed by the bond's short name, the way the table reads on a
// terminal.
func ScheduleMarkdown(shortname string, s bond.Schedule) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{orDash(shortname), "event_date", "coupon", "amt", "offer", "offer_type"},
	}
	for i, e := range s {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			e.Date.String(),
			decOrDash(e.Coupon),
			decOrDash(e.Amortization),
			decOrDash(e.OfferPrice),
			orDash(e.OfferType),
		})
	}
	doc.Table(table)

	return doc.String()
}
