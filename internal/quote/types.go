package quote

import (
	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/enums"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request is an order-like set of lines to price at one outlet on one date.
type Request struct {
	OutletID   uuid.UUID
	MemberTier types.Tier
	Date       types.Date
	Items      []LineRequest
}

// LineRequest references a service with its measure. Qty applies to by-piece
// services and WeightKg to by-weight ones.
type LineRequest struct {
	ServiceID uuid.UUID
	IsExpress bool
	Qty       *int
	WeightKg  *decimal.Decimal
	Addons    []AddonRequest
}

// AddonRequest is an extra on a line; a nil Qty means one.
type AddonRequest struct {
	AddonID uuid.UUID
	Qty     *int
}

// Snapshot is the catalog and price data one quote is computed against.
type Snapshot struct {
	Services map[uuid.UUID]models.Service
	Addons   map[uuid.UUID]models.Addon
	Records  []models.PriceRecord
}

// Options tunes Calculate.
type Options struct {
	UnknownAddonPolicy enums.UnknownAddonPolicy
}

// Warning is a non-fatal issue attached to one request line.
type Warning struct {
	Type    enums.QuoteWarningType
	Line    int
	Message string
}

// Quote is the priced result. GrandTotal always equals Subtotal here;
// discounts, tax and fees belong to order finalisation.
type Quote struct {
	Meta       Meta
	Items      []Line
	Subtotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Meta echoes the request context.
type Meta struct {
	OutletID   uuid.UUID
	MemberTier types.Tier
	Date       types.Date
	Warnings   []string
}

// Line is one priced order line with enough detail to audit the price.
type Line struct {
	ServiceID     uuid.UUID
	ServiceCode   string
	ServiceName   string
	PricingModel  enums.PricingModel
	IsExpress     bool
	Qty           *int
	WeightKg      *decimal.Decimal
	UnitPrice     decimal.Decimal
	PriceSource   enums.PriceSource
	PriceRecordID *uuid.UUID
	MemberTier    types.Tier
	Date          types.Date
	BaseTotal     decimal.Decimal
	Addons        []AddonLine
	AddonsTotal   decimal.Decimal
	LineTotal     decimal.Decimal
}

// AddonLine is one priced extra.
type AddonLine struct {
	AddonID   uuid.UUID
	AddonCode string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
