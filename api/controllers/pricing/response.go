package pricing

import (
	pricingdto "github.com/angelmondragon/washline-backend/api/controllers/pricing/dto"
	pricingsvc "github.com/angelmondragon/washline-backend/internal/pricing"
	"github.com/angelmondragon/washline-backend/pkg/db/models"
)

const moneyPlaces = 2

func newPriceRecord(record *models.PriceRecord) pricingdto.PriceRecord {
	if record == nil {
		return pricingdto.PriceRecord{}
	}
	return pricingdto.PriceRecord{
		ID:             record.ID,
		ServiceID:      record.ServiceID,
		OutletID:       record.OutletID,
		MemberTier:     record.MemberTier,
		IsExpress:      record.IsExpress,
		Price:          record.Price.StringFixed(moneyPlaces),
		EffectiveStart: record.EffectiveStart,
		EffectiveEnd:   record.EffectiveEnd,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func newPriceRecordList(result *pricingsvc.ListResult) pricingdto.PriceRecordList {
	list := pricingdto.PriceRecordList{Items: []pricingdto.PriceRecord{}}
	if result == nil {
		return list
	}
	for i := range result.Items {
		list.Items = append(list.Items, newPriceRecord(&result.Items[i]))
	}
	list.Cursor = result.Cursor
	return list
}

func newResolution(res *pricingsvc.Resolution) pricingdto.Resolution {
	if res == nil {
		return pricingdto.Resolution{}
	}
	return pricingdto.Resolution{
		Price:          res.Price.StringFixed(moneyPlaces),
		Source:         res.Source.String(),
		PriceRecordID:  res.RecordID,
		MemberTierUsed: res.TierUsed,
	}
}
