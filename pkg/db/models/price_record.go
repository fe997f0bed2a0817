package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/washline-backend/pkg/types"
)

// PriceRecord is a dated price for one (service, outlet, tier, express) dimension.
// EffectiveEnd absent means the period is open-ended.
type PriceRecord struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceID      uuid.UUID       `gorm:"column:service_id;type:uuid;not null"`
	OutletID       uuid.UUID       `gorm:"column:outlet_id;type:uuid;not null"`
	MemberTier     types.Tier      `gorm:"column:member_tier;type:varchar(32)"`
	IsExpress      bool            `gorm:"column:is_express;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	EffectiveStart types.Date      `gorm:"column:effective_start;type:date;not null"`
	EffectiveEnd   types.NullDate  `gorm:"column:effective_end;type:date"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
