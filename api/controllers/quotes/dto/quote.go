package quotedto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/washline-backend/pkg/types"
)

// QuoteRequest is the body of POST /api/v1/quotes.
type QuoteRequest struct {
	OutletID   uuid.UUID   `json:"outlet_id" validate:"required"`
	MemberTier *string     `json:"member_tier" validate:"omitempty,tier"`
	Date       *types.Date `json:"date"`
	Items      []QuoteItem `json:"items" validate:"required,min=1,dive"`
}

// QuoteItem is one requested service line.
type QuoteItem struct {
	ServiceID uuid.UUID        `json:"service_id" validate:"required"`
	IsExpress bool             `json:"is_express"`
	Qty       *int             `json:"qty" validate:"omitempty,min=1"`
	WeightKg  *decimal.Decimal `json:"weight_kg" validate:"omitempty,positive"`
	Addons    []QuoteAddon     `json:"addons" validate:"omitempty,dive"`
}

// QuoteAddon is an extra requested on a line.
type QuoteAddon struct {
	AddonID uuid.UUID `json:"addon_id" validate:"required"`
	Qty     *int      `json:"qty" validate:"omitempty,min=1"`
}

// Quote is the priced response.
type Quote struct {
	Meta       QuoteMeta   `json:"meta"`
	Items      []QuoteLine `json:"items"`
	Subtotal   string      `json:"subtotal"`
	GrandTotal string      `json:"grand_total"`
}

// QuoteMeta echoes the pricing context and carries line warnings.
type QuoteMeta struct {
	OutletID   uuid.UUID  `json:"outlet_id"`
	MemberTier types.Tier `json:"member_tier"`
	Date       types.Date `json:"date"`
	Warnings   []string   `json:"warnings"`
}

// QuoteLine is one priced service line.
type QuoteLine struct {
	ServiceID     uuid.UUID        `json:"service_id"`
	ServiceCode   string           `json:"service_code"`
	ServiceName   string           `json:"service_name"`
	PricingModel  string           `json:"pricing_model"`
	IsExpress     bool             `json:"is_express"`
	Qty           *int             `json:"qty,omitempty"`
	WeightKg      *string          `json:"weight_kg,omitempty"`
	UnitPrice     string           `json:"unit_price"`
	PriceSource   string           `json:"price_source"`
	PriceRecordID *uuid.UUID       `json:"price_record_id"`
	MemberTier    types.Tier       `json:"member_tier"`
	Date          types.Date       `json:"date"`
	BaseTotal     string           `json:"base_total"`
	Addons        []QuoteAddonLine `json:"addons"`
	AddonsTotal   string           `json:"addons_total"`
	LineTotal     string           `json:"line_total"`
}

// QuoteAddonLine is one priced extra.
type QuoteAddonLine struct {
	AddonID   uuid.UUID `json:"addon_id"`
	AddonCode string    `json:"addon_code"`
	Qty       int       `json:"qty"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}
