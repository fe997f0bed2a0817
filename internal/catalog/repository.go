package catalog

import (
	"context"
	"errors"

	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the read side of the service, add-on, outlet and tier catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	FindServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error)
	FindAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error)
	FindOutletByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
	TierExists(ctx context.Context, tier types.Tier) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// FindServicesByIDs loads the subset of ids that exist; missing ids are not an error.
func (r *repositoryImpl) FindServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var services []models.Service
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// FindAddonsByIDs loads active add-ons among ids.
func (r *repositoryImpl) FindAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []models.Addon
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&addons).Error; err != nil {
		return nil, err
	}
	return addons, nil
}

func (r *repositoryImpl) FindOutletByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error) {
	var outlet models.Outlet
	if err := r.db.WithContext(ctx).First(&outlet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &outlet, nil
}

// TierExists reports whether tier is in the member tier catalog. The absent
// tier always exists.
func (r *repositoryImpl) TierExists(ctx context.Context, tier types.Tier) (bool, error) {
	if !tier.Valid {
		return true, nil
	}
	var row models.MemberTier
	err := r.db.WithContext(ctx).First(&row, "code = ?", tier.Code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
