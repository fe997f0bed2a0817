package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/washline-backend/internal/pricing"
	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/logger"
	"github.com/angelmondragon/washline-backend/pkg/metrics"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const defaultMaxLines = 100

type catalogReader interface {
	FindServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error)
	FindAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error)
	FindOutletByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
}

type priceReader interface {
	ListActive(ctx context.Context, params pricing.ActiveParams) ([]models.PriceRecord, error)
}

// Service prices quote requests against a per-request snapshot.
type Service interface {
	Quote(ctx context.Context, req Request) (*Quote, error)
}

// Config carries the quote settings resolved from configuration.
type Config struct {
	UnknownAddonPolicy enums.UnknownAddonPolicy
	MaxLines           int
	Location           *time.Location
	Now                func() time.Time
}

type service struct {
	catalog catalogReader
	prices  priceReader
	cfg     Config
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// NewService builds the quote service. logg and m may be nil.
func NewService(catalog catalogReader, prices priceReader, cfg Config, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price reader required")
	}
	if !cfg.UnknownAddonPolicy.IsValid() {
		cfg.UnknownAddonPolicy = enums.UnknownAddonPolicyIgnore
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = defaultMaxLines
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		catalog: catalog,
		prices:  prices,
		cfg:     cfg,
		logg:    logg,
		metrics: m,
	}, nil
}

// Quote validates req, loads the snapshot once and computes every line.
func (s *service) Quote(ctx context.Context, req Request) (*Quote, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		req.Date = types.Today(s.cfg.Now(), s.cfg.Location)
	}

	snap, err := s.loadSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	result, warnings := Calculate(snap, req, Options{UnknownAddonPolicy: s.cfg.UnknownAddonPolicy})

	s.metrics.ObserveQuoteLines(len(req.Items))
	for _, line := range result.Items {
		s.metrics.IncResolution(line.PriceSource.String())
	}
	for _, w := range warnings {
		s.metrics.IncQuoteWarning(w.Type.String())
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"outlet_id": req.OutletID.String(),
		"date":      req.Date.String(),
		"lines":     len(result.Items),
		"warnings":  len(warnings),
		"subtotal":  result.Subtotal.StringFixed(moneyPlaces),
	}), "quote.computed")

	return &result, nil
}

func (s *service) validate(req Request) error {
	if req.OutletID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "outlet_id is required")
	}
	if len(req.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote must contain at least one item")
	}
	if len(req.Items) > s.cfg.MaxLines {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quote may contain at most %d items", s.cfg.MaxLines))
	}
	for i, item := range req.Items {
		if item.ServiceID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].service_id is required", i))
		}
		if item.Qty != nil && *item.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].qty must be positive", i))
		}
		if item.WeightKg != nil && !item.WeightKg.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].weight_kg must be positive", i))
		}
		for j, addon := range item.Addons {
			if addon.AddonID == uuid.Nil {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].addons[%d].addon_id is required", i, j))
			}
			if addon.Qty != nil && *addon.Qty <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].addons[%d].qty must be positive", i, j))
			}
		}
	}
	return nil
}

// loadSnapshot issues a fixed number of queries regardless of line count.
func (s *service) loadSnapshot(ctx context.Context, req Request) (Snapshot, error) {
	serviceIDs, addonIDs := collectIDs(req.Items)

	var (
		services []models.Service
		addons   []models.Addon
		records  []models.PriceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.catalog.FindOutletByID(gctx, req.OutletID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "outlet not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load outlet")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if services, err = s.catalog.FindServicesByIDs(gctx, serviceIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load services")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if addons, err = s.catalog.FindAddonsByIDs(gctx, addonIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load addons")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.prices.ListActive(gctx, pricing.ActiveParams{
			OutletID:   req.OutletID,
			ServiceIDs: serviceIDs,
			Date:       req.Date,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price records")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Services: make(map[uuid.UUID]models.Service, len(services)),
		Addons:   make(map[uuid.UUID]models.Addon, len(addons)),
		Records:  records,
	}
	for _, svc := range services {
		snap.Services[svc.ID] = svc
	}
	for _, addon := range addons {
		snap.Addons[addon.ID] = addon
	}
	return snap, nil
}

func collectIDs(items []LineRequest) ([]uuid.UUID, []uuid.UUID) {
	seenServices := map[uuid.UUID]struct{}{}
	seenAddons := map[uuid.UUID]struct{}{}
	var serviceIDs, addonIDs []uuid.UUID
	for _, item := range items {
		if _, ok := seenServices[item.ServiceID]; !ok {
			seenServices[item.ServiceID] = struct{}{}
			serviceIDs = append(serviceIDs, item.ServiceID)
		}
		for _, addon := range item.Addons {
			if _, ok := seenAddons[addon.AddonID]; !ok {
				seenAddons[addon.AddonID] = struct{}{}
				addonIDs = append(addonIDs, addon.AddonID)
			}
		}
	}
	return serviceIDs, addonIDs
}
