package quote

import (
	"fmt"

	"github.com/angelmondragon/washline-backend/internal/pricing"
	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// round2 rounds half away from zero, which is half-up for the non-negative
// amounts a quote produces.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// Calculate prices every line of req against snap. Problem lines are skipped
// or downgraded with a warning; Calculate never fails as a whole.
func Calculate(snap Snapshot, req Request, opts Options) (Quote, []Warning) {
	var warnings []Warning
	warn := func(kind enums.QuoteWarningType, line int, format string, args ...any) {
		warnings = append(warnings, Warning{
			Type:    kind,
			Line:    line,
			Message: fmt.Sprintf("item %d: ", line+1) + fmt.Sprintf(format, args...),
		})
	}

	lines := make([]Line, 0, len(req.Items))
	subtotal := decimal.Zero

	for idx, item := range req.Items {
		service, ok := snap.Services[item.ServiceID]
		if !ok || !service.IsActive {
			warn(enums.QuoteWarningTypeServiceNotFound, idx, "service not found (%s)", item.ServiceID)
			continue
		}

		measure, ok := lineMeasure(service, item)
		if !ok {
			warn(enums.QuoteWarningTypeMissingWeight, idx, "weight_kg is required for %s", service.Code)
			continue
		}

		express := item.IsExpress && service.IsExpressAvailable
		if item.IsExpress && !express {
			warn(enums.QuoteWarningTypeExpressUnavailable, idx, "express is not available for %s, priced as regular", service.Code)
		}

		resolution := pricing.Resolve(service, snap.Records, pricing.Query{
			OutletID:  req.OutletID,
			Date:      req.Date,
			Tier:      req.MemberTier,
			IsExpress: express,
		})

		line := Line{
			ServiceID:     service.ID,
			ServiceCode:   service.Code,
			ServiceName:   service.Name,
			PricingModel:  service.PricingModel,
			IsExpress:     express,
			UnitPrice:     resolution.Price,
			PriceSource:   resolution.Source,
			PriceRecordID: resolution.RecordID,
			MemberTier:    resolution.TierUsed,
			Date:          req.Date,
			BaseTotal:     round2(resolution.Price.Mul(measure)),
			Addons:        []AddonLine{},
			AddonsTotal:   decimal.Zero,
		}
		if service.PricingModel == enums.PricingModelByWeight {
			weight := measure
			line.WeightKg = &weight
		} else {
			qty := int(measure.IntPart())
			line.Qty = &qty
		}

		for _, requested := range item.Addons {
			addon, ok := snap.Addons[requested.AddonID]
			if !ok || !addon.IsActive {
				if opts.UnknownAddonPolicy == enums.UnknownAddonPolicyWarn {
					warn(enums.QuoteWarningTypeAddonNotFound, idx, "addon not found (%s)", requested.AddonID)
				}
				continue
			}
			addonLine := priceAddon(addon, requested)
			line.Addons = append(line.Addons, addonLine)
			line.AddonsTotal = line.AddonsTotal.Add(addonLine.LineTotal)
		}

		line.AddonsTotal = round2(line.AddonsTotal)
		line.LineTotal = round2(line.BaseTotal.Add(line.AddonsTotal))
		subtotal = subtotal.Add(line.LineTotal)
		lines = append(lines, line)
	}

	subtotal = round2(subtotal)
	messages := make([]string, len(warnings))
	for i, w := range warnings {
		messages[i] = w.Message
	}

	return Quote{
		Meta: Meta{
			OutletID:   req.OutletID,
			MemberTier: req.MemberTier,
			Date:       req.Date,
			Warnings:   messages,
		},
		Items:      lines,
		Subtotal:   subtotal,
		GrandTotal: subtotal,
	}, warnings
}

// lineMeasure returns the quantity or weight the unit price multiplies.
// By-piece lines default to one piece; by-weight lines need a weight.
func lineMeasure(service models.Service, item LineRequest) (decimal.Decimal, bool) {
	if service.PricingModel == enums.PricingModelByWeight {
		if item.WeightKg == nil {
			return decimal.Zero, false
		}
		return *item.WeightKg, true
	}
	qty := 1
	if item.Qty != nil {
		qty = *item.Qty
	}
	return decimal.NewFromInt(int64(qty)), true
}

func priceAddon(addon models.Addon, requested AddonRequest) AddonLine {
	qty := 1
	if requested.Qty != nil {
		qty = *requested.Qty
	}
	return AddonLine{
		AddonID:   addon.ID,
		AddonCode: addon.Code,
		Qty:       qty,
		UnitPrice: addon.Price,
		LineTotal: round2(addon.Price.Mul(decimal.NewFromInt(int64(qty)))),
	}
}
