package pricingdto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/washline-backend/pkg/types"
)

// PriceRecordRequest is the create/update payload. A null or missing
// member_tier is the general price; effective_end null means open-ended.
type PriceRecordRequest struct {
	ServiceID      uuid.UUID        `json:"service_id" validate:"required"`
	OutletID       uuid.UUID        `json:"outlet_id" validate:"required"`
	MemberTier     *string          `json:"member_tier" validate:"omitempty,tier"`
	IsExpress      bool             `json:"is_express"`
	Price          *decimal.Decimal `json:"price" validate:"required,money"`
	EffectiveStart *types.Date      `json:"effective_start" validate:"required"`
	EffectiveEnd   types.NullDate   `json:"effective_end"`
}

// PriceRecord is the exchanged price record shape.
type PriceRecord struct {
	ID             uuid.UUID      `json:"id"`
	ServiceID      uuid.UUID      `json:"service_id"`
	OutletID       uuid.UUID      `json:"outlet_id"`
	MemberTier     types.Tier     `json:"member_tier"`
	IsExpress      bool           `json:"is_express"`
	Price          string         `json:"price"`
	EffectiveStart types.Date     `json:"effective_start"`
	EffectiveEnd   types.NullDate `json:"effective_end"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// PriceRecordList is one page of records.
type PriceRecordList struct {
	Items  []PriceRecord `json:"items"`
	Cursor string        `json:"cursor,omitempty"`
}

// Resolution is the answer of the resolve endpoint.
type Resolution struct {
	Price          string     `json:"price"`
	Source         string     `json:"source"`
	PriceRecordID  *uuid.UUID `json:"price_record_id"`
	MemberTierUsed types.Tier `json:"member_tier_used"`
}
