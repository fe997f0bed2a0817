package quotes

import (
	quotedto "github.com/angelmondragon/washline-backend/api/controllers/quotes/dto"
	"github.com/angelmondragon/washline-backend/internal/quote"
)

const moneyPlaces = 2

func newQuote(q *quote.Quote) quotedto.Quote {
	if q == nil {
		return quotedto.Quote{}
	}
	out := quotedto.Quote{
		Meta: quotedto.QuoteMeta{
			OutletID:   q.Meta.OutletID,
			MemberTier: q.Meta.MemberTier,
			Date:       q.Meta.Date,
			Warnings:   append([]string{}, q.Meta.Warnings...),
		},
		Items:      make([]quotedto.QuoteLine, 0, len(q.Items)),
		Subtotal:   q.Subtotal.StringFixed(moneyPlaces),
		GrandTotal: q.GrandTotal.StringFixed(moneyPlaces),
	}
	for _, line := range q.Items {
		out.Items = append(out.Items, newQuoteLine(line))
	}
	return out
}

func newQuoteLine(line quote.Line) quotedto.QuoteLine {
	out := quotedto.QuoteLine{
		ServiceID:     line.ServiceID,
		ServiceCode:   line.ServiceCode,
		ServiceName:   line.ServiceName,
		PricingModel:  line.PricingModel.String(),
		IsExpress:     line.IsExpress,
		Qty:           line.Qty,
		UnitPrice:     line.UnitPrice.StringFixed(moneyPlaces),
		PriceSource:   line.PriceSource.String(),
		PriceRecordID: line.PriceRecordID,
		MemberTier:    line.MemberTier,
		Date:          line.Date,
		BaseTotal:     line.BaseTotal.StringFixed(moneyPlaces),
		Addons:        make([]quotedto.QuoteAddonLine, 0, len(line.Addons)),
		AddonsTotal:   line.AddonsTotal.StringFixed(moneyPlaces),
		LineTotal:     line.LineTotal.StringFixed(moneyPlaces),
	}
	if line.WeightKg != nil {
		weight := line.WeightKg.String()
		out.WeightKg = &weight
	}
	for _, addon := range line.Addons {
		out.Addons = append(out.Addons, quotedto.QuoteAddonLine{
			AddonID:   addon.AddonID,
			AddonCode: addon.AddonCode,
			Qty:       addon.Qty,
			UnitPrice: addon.UnitPrice.StringFixed(moneyPlaces),
			LineTotal: addon.LineTotal.StringFixed(moneyPlaces),
		})
	}
	return out
}
