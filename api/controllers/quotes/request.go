package quotes

import (
	quotedto "github.com/angelmondragon/washline-backend/api/controllers/quotes/dto"
	"github.com/angelmondragon/washline-backend/internal/quote"
	"github.com/angelmondragon/washline-backend/pkg/types"
)

func toQuoteRequest(payload quotedto.QuoteRequest) quote.Request {
	items := make([]quote.LineRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		addons := make([]quote.AddonRequest, 0, len(item.Addons))
		for _, addon := range item.Addons {
			addons = append(addons, quote.AddonRequest{
				AddonID: addon.AddonID,
				Qty:     addon.Qty,
			})
		}
		items = append(items, quote.LineRequest{
			ServiceID: item.ServiceID,
			IsExpress: item.IsExpress,
			Qty:       item.Qty,
			WeightKg:  item.WeightKg,
			Addons:    addons,
		})
	}

	req := quote.Request{
		OutletID:   payload.OutletID,
		MemberTier: types.TierFromPtr(payload.MemberTier),
		Items:      items,
	}
	if payload.Date != nil {
		req.Date = *payload.Date
	}
	return req
}
