package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/washline-backend/pkg/enums"
)

// Service is a sellable laundry offering (wash, dry clean, ironing, ...).
type Service struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string             `gorm:"column:code;not null;uniqueIndex"`
	Name               string             `gorm:"column:name;not null"`
	PricingModel       enums.PricingModel `gorm:"column:pricing_model;type:varchar(16);not null"`
	BasePrice          decimal.Decimal    `gorm:"column:base_price;type:numeric(12,2);not null"`
	IsExpressAvailable bool               `gorm:"column:is_express_available;not null"`
	IsActive           bool               `gorm:"column:is_active;not null"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
