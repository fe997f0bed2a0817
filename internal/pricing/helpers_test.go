package pricing

import (
	"fmt"
	"testing"

	"github.com/angelmondragon/washline-backend/pkg/config"
	pkgdb "github.com/angelmondragon/washline-backend/pkg/db"
	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/enums"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupPricingClient(t).DB()
}

// setupPricingClient opens a private in-memory sqlite database with the
// pricing tables.
func setupPricingClient(t *testing.T) *pkgdb.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:pricing_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := pkgdb.Open(sqlite.Open(dsn), config.DBConfig{}, nil)
	require.NoError(t, err)
	db := client.DB()

	schema := []string{`
CREATE TABLE services (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  pricing_model TEXT NOT NULL,
  base_price TEXT NOT NULL,
  is_express_available INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE outlets (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE member_tiers (
  code TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE price_records (
  id TEXT PRIMARY KEY,
  service_id TEXT NOT NULL,
  outlet_id TEXT NOT NULL,
  member_tier TEXT,
  is_express INTEGER NOT NULL DEFAULT 0,
  price TEXT NOT NULL,
  effective_start TEXT NOT NULL,
  effective_end TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

type catalogFixture struct {
	service models.Service
	outlet  models.Outlet
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()

	svc := models.Service{
		ID:                 uuid.New(),
		Code:               "WASH-REG",
		Name:               "Regular wash",
		PricingModel:       enums.PricingModelByWeight,
		BasePrice:          decimal.NewFromInt(10000),
		IsExpressAvailable: true,
		IsActive:           true,
	}
	outlet := models.Outlet{
		ID:       uuid.New(),
		Code:     "OUT-1",
		Name:     "Main outlet",
		IsActive: true,
	}
	require.NoError(t, db.Create(&svc).Error)
	require.NoError(t, db.Create(&outlet).Error)
	require.NoError(t, db.Create(&models.MemberTier{Code: "GOLD", Name: "Gold"}).Error)
	require.NoError(t, db.Create(&models.MemberTier{Code: "SILVER", Name: "Silver"}).Error)
	return catalogFixture{service: svc, outlet: outlet}
}

var baseDay = types.NewDate(2026, 3, 1)

func day(offset int) types.Date {
	return baseDay.AddDays(offset)
}

func until(offset int) types.NullDate {
	return types.DateValue(day(offset))
}

func record(serviceID, outletID uuid.UUID, tier types.Tier, express bool, price int64, start types.Date, end types.NullDate) models.PriceRecord {
	return models.PriceRecord{
		ID:             uuid.New(),
		ServiceID:      serviceID,
		OutletID:       outletID,
		MemberTier:     tier,
		IsExpress:      express,
		Price:          decimal.NewFromInt(price),
		EffectiveStart: start,
		EffectiveEnd:   end,
	}
}
