package pricing

import (
	"context"

	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/pagination"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the price record store. It holds no business rules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.PriceRecord) error
	Update(ctx context.Context, record *models.PriceRecord) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error)
	ListSameDimension(ctx context.Context, key DimensionKey) ([]models.PriceRecord, error)
	ListActive(ctx context.Context, params ActiveParams) ([]models.PriceRecord, error)
	List(ctx context.Context, params listParams) ([]models.PriceRecord, error)
}

// ActiveParams selects records active on Date for an outlet. An empty
// ServiceIDs slice means every service; a nil IsExpress means both flags.
type ActiveParams struct {
	OutletID   uuid.UUID
	ServiceIDs []uuid.UUID
	Date       types.Date
	IsExpress  *bool
}

// ListFilter narrows admin listings.
type ListFilter struct {
	ServiceID *uuid.UUID
	OutletID  *uuid.UUID
	IsExpress *bool
	Tier      TierFilter
	ActiveOn  *types.Date
}

type listParams struct {
	filter ListFilter
	limit  int
	cursor *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a price record repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, record *models.PriceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repositoryImpl) Update(ctx context.Context, record *models.PriceRecord) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceRecord{}).
		Where("id = ?", record.ID).
		Select("service_id", "outlet_id", "member_tier", "is_express", "price", "effective_start", "effective_end", "updated_at").
		Updates(record).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriceRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error) {
	var record models.PriceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) ListSameDimension(ctx context.Context, key DimensionKey) ([]models.PriceRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PriceRecord{}).
		Where("service_id = ? AND outlet_id = ? AND is_express = ?", key.ServiceID, key.OutletID, key.IsExpress)
	query = applyTierFilter(query, ExactTier(key.Tier))

	var records []models.PriceRecord
	if err := query.Order("effective_start ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repositoryImpl) ListActive(ctx context.Context, params ActiveParams) ([]models.PriceRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PriceRecord{}).
		Where("outlet_id = ?", params.OutletID)
	if len(params.ServiceIDs) > 0 {
		query = query.Where("service_id IN ?", params.ServiceIDs)
	}
	if params.IsExpress != nil {
		query = query.Where("is_express = ?", *params.IsExpress)
	}
	query = applyActiveOn(query, params.Date)

	var records []models.PriceRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listParams) ([]models.PriceRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.PriceRecord{})
	if params.filter.ServiceID != nil {
		query = query.Where("service_id = ?", *params.filter.ServiceID)
	}
	if params.filter.OutletID != nil {
		query = query.Where("outlet_id = ?", *params.filter.OutletID)
	}
	if params.filter.IsExpress != nil {
		query = query.Where("is_express = ?", *params.filter.IsExpress)
	}
	query = applyTierFilter(query, params.filter.Tier)
	if params.filter.ActiveOn != nil {
		query = applyActiveOn(query, *params.filter.ActiveOn)
	}
	if params.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.cursor.CreatedAt, params.cursor.CreatedAt, params.cursor.ID)
	}

	var records []models.PriceRecord
	if err := query.Order("created_at DESC, id DESC").Limit(params.limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func applyTierFilter(query *gorm.DB, filter TierFilter) *gorm.DB {
	switch filter.Mode {
	case TierFilterAbsent:
		return query.Where("member_tier IS NULL")
	case TierFilterExact:
		return query.Where("member_tier = ?", filter.Code)
	default:
		return query
	}
}

func applyActiveOn(query *gorm.DB, date types.Date) *gorm.DB {
	return query.
		Where("effective_start <= ?", date).
		Where("(effective_end IS NULL OR effective_end >= ?)", date)
}
