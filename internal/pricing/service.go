package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/washline-backend/pkg/db"
	"github.com/angelmondragon/washline-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/logger"
	"github.com/angelmondragon/washline-backend/pkg/metrics"
	"github.com/angelmondragon/washline-backend/pkg/pagination"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// OverlapConstraint is the Postgres exclusion constraint guarding price_records.
const OverlapConstraint = "price_records_no_overlap"

const maxTierCodeLength = 32

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogReader interface {
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	FindOutletByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
	TierExists(ctx context.Context, tier types.Tier) (bool, error)
}

// Service manages price records and resolves prices.
type Service interface {
	Create(ctx context.Context, input RecordInput) (*models.PriceRecord, error)
	Update(ctx context.Context, id uuid.UUID, input RecordInput) (*models.PriceRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error)
}

// RecordInput is the writable shape of a price record. A nil MemberTier is
// the absent tier; a blank one is rejected.
type RecordInput struct {
	ServiceID      uuid.UUID
	OutletID       uuid.UUID
	MemberTier     *string
	IsExpress      bool
	Price          decimal.Decimal
	EffectiveStart types.Date
	EffectiveEnd   types.NullDate
}

// ListParams combines filters with cursor pagination.
type ListParams struct {
	Filter ListFilter
	pagination.Params
}

// ListResult is one page of price records.
type ListResult struct {
	Items  []models.PriceRecord
	Cursor string
}

// ResolveRequest is a single price lookup.
type ResolveRequest struct {
	ServiceID uuid.UUID
	OutletID  uuid.UUID
	Date      types.Date
	Tier      types.Tier
	IsExpress bool
}

type service struct {
	repo    Repository
	catalog catalogReader
	tx      txRunner
	locker  DimensionLocker
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// NewService builds the pricing service. logg and m may be nil.
func NewService(repo Repository, catalog catalogReader, tx txRunner, locker DimensionLocker, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price record repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locker == nil {
		return nil, fmt.Errorf("dimension locker required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    repo,
		catalog: catalog,
		tx:      tx,
		locker:  locker,
		logg:    logg,
		metrics: m,
	}, nil
}

func (s *service) Create(ctx context.Context, input RecordInput) (*models.PriceRecord, error) {
	record, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	record.ID = uuid.New()

	started := time.Now()
	err = s.write(ctx, record, nil, func(repo Repository) error {
		return repo.Create(ctx, record)
	})
	s.metrics.ObserveWrite("create", time.Since(started))
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"price_record_id": record.ID.String(),
		"dimension":       KeyOf(*record).String(),
	}), "price_record.created")
	return record, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input RecordInput) (*models.PriceRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	record.ID = current.ID
	record.CreatedAt = current.CreatedAt

	started := time.Now()
	err = s.write(ctx, record, &current.ID, func(repo Repository) error {
		return repo.Update(ctx, record)
	})
	s.metrics.ObserveWrite("update", time.Since(started))
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"price_record_id": record.ID.String(),
		"dimension":       KeyOf(*record).String(),
	}), "price_record.updated")
	return record, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "price record id is required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price record")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "price record not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "price_record_id", id.String()), "price_record.deleted")
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PriceRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price record id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price record")
	}
	return record, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listParams{
		filter: params.Filter,
		limit:  pagination.LimitWithBuffer(params.Limit),
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.cursor = cursor

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price records")
	}

	items, next := pagination.Page(rows, params.Limit, func(record models.PriceRecord) pagination.Cursor {
		return pagination.Cursor{CreatedAt: record.CreatedAt, ID: record.ID}
	})
	return &ListResult{Items: items, Cursor: next}, nil
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error) {
	if req.ServiceID == uuid.Nil || req.OutletID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service_id and outlet_id are required")
	}
	svc, err := s.catalog.FindServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, notFoundOrDependency(err, "service not found", "load service")
	}
	if _, err := s.catalog.FindOutletByID(ctx, req.OutletID); err != nil {
		return nil, notFoundOrDependency(err, "outlet not found", "load outlet")
	}

	express := req.IsExpress
	records, err := s.repo.ListActive(ctx, ActiveParams{
		OutletID:   req.OutletID,
		ServiceIDs: []uuid.UUID{req.ServiceID},
		Date:       req.Date,
		IsExpress:  &express,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price records")
	}

	resolution := Resolve(*svc, records, Query{
		OutletID:  req.OutletID,
		Date:      req.Date,
		Tier:      req.Tier,
		IsExpress: req.IsExpress,
	})
	s.metrics.IncResolution(resolution.Source.String())
	return &resolution, nil
}

// prepare validates input and checks every reference it carries.
func (s *service) prepare(ctx context.Context, input RecordInput) (*models.PriceRecord, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	record := &models.PriceRecord{
		ServiceID:      input.ServiceID,
		OutletID:       input.OutletID,
		MemberTier:     types.TierFromPtr(input.MemberTier),
		IsExpress:      input.IsExpress,
		Price:          input.Price.Round(2),
		EffectiveStart: input.EffectiveStart,
		EffectiveEnd:   input.EffectiveEnd,
	}

	if _, err := s.catalog.FindServiceByID(ctx, record.ServiceID); err != nil {
		return nil, referenceError(err, "service_id", record.ServiceID.String(), "load service")
	}
	if _, err := s.catalog.FindOutletByID(ctx, record.OutletID); err != nil {
		return nil, referenceError(err, "outlet_id", record.OutletID.String(), "load outlet")
	}
	exists, err := s.catalog.TierExists(ctx, record.MemberTier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member tier")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeReferenceNotFound, "member tier not found").
			WithDetails(map[string]string{"field": "member_tier", "value": record.MemberTier.Code})
	}
	return record, nil
}

// write runs lock, overlap check and persist as one transaction.
func (s *service) write(ctx context.Context, record *models.PriceRecord, ignoreID *uuid.UUID, persist func(Repository) error) error {
	key := KeyOf(*record)
	var release ReleaseFunc

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rel, err := s.locker.Lock(ctx, tx, key)
		if err != nil {
			return err
		}
		release = rel

		repo := s.repo.WithTx(tx)
		existing, err := repo.ListSameDimension(ctx, key)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price records")
		}
		if err := ValidateNoOverlap(*record, existing, ignoreID); err != nil {
			return err
		}
		return persist(repo)
	})

	if release != nil {
		if relErr := release(ctx); relErr != nil {
			s.logg.Error(ctx, "price_record.lock_release_failed", relErr)
		}
	}
	if err == nil {
		return nil
	}
	return s.mapWriteError(ctx, key, WindowOf(*record), err)
}

func (s *service) mapWriteError(ctx context.Context, key DimensionKey, window Window, err error) error {
	var conflict *OverlapConflict
	switch {
	case errors.As(err, &conflict):
		s.metrics.IncOverlapConflict()
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"dimension":      key.String(),
			"conflicting_id": conflict.ConflictingID.String(),
		}), "price_record.overlap_conflict")
		return pkgerrors.Wrap(pkgerrors.CodePeriodOverlap, err, "price period overlaps an existing period").
			WithDetails(conflict)
	case db.IsExclusionViolation(err, OverlapConstraint):
		s.metrics.IncOverlapConflict()
		s.logg.Warn(s.logg.WithField(ctx, "dimension", key.String()), "price_record.overlap_constraint")
		return pkgerrors.Wrap(pkgerrors.CodePeriodOverlap, err, "price period overlaps an existing period").
			WithDetails(map[string]any{"dimension": key, "candidate": window})
	case errors.Is(err, ErrDimensionBusy):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "price dimension is being modified, retry")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist price record")
}

type fieldError struct {
	field   string
	message string
}

func (e fieldError) Error() string {
	return e.field + ": " + e.message
}

// validateInput reports every invalid field at once.
func validateInput(input RecordInput) error {
	var errs error
	if input.ServiceID == uuid.Nil {
		errs = multierr.Append(errs, fieldError{"service_id", "is required"})
	}
	if input.OutletID == uuid.Nil {
		errs = multierr.Append(errs, fieldError{"outlet_id", "is required"})
	}
	if input.MemberTier != nil {
		code := types.NormalizeTierCode(*input.MemberTier)
		switch {
		case code == "":
			errs = multierr.Append(errs, fieldError{"member_tier", "must be null or a non-empty code"})
		case len(code) > maxTierCodeLength:
			errs = multierr.Append(errs, fieldError{"member_tier", fmt.Sprintf("must be at most %d characters", maxTierCodeLength)})
		}
	}
	if input.Price.IsNegative() {
		errs = multierr.Append(errs, fieldError{"price", "must be zero or greater"})
	}
	if input.EffectiveStart.IsZero() {
		errs = multierr.Append(errs, fieldError{"effective_start", "is required"})
	} else if !(Window{Start: input.EffectiveStart, End: input.EffectiveEnd}).Valid() {
		errs = multierr.Append(errs, fieldError{"effective_end", "must not be before effective_start"})
	}
	if errs == nil {
		return nil
	}

	details := map[string]string{}
	var messages []string
	for _, err := range multierr.Errors(errs) {
		var fe fieldError
		if errors.As(err, &fe) {
			details[fe.field] = fe.message
		}
		messages = append(messages, err.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, strings.Join(messages, "; ")).WithDetails(details)
}

func referenceError(err error, field, value, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeReferenceNotFound, field+" does not reference an existing record").
			WithDetails(map[string]string{"field": field, "value": value})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func notFoundOrDependency(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
