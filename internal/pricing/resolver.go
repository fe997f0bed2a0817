package pricing

import (
	"sort"
	"strings"

	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/enums"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Query identifies one price lookup for a service.
type Query struct {
	OutletID  uuid.UUID
	Date      types.Date
	Tier      types.Tier
	IsExpress bool
}

// Resolution is the price that applies to a Query and where it came from.
type Resolution struct {
	Price    decimal.Decimal
	Source   enums.PriceSource
	RecordID *uuid.UUID
	// TierUsed is the tier of the matched record; absent for the general
	// bucket and for base-price fallbacks.
	TierUsed types.Tier
}

// Resolve picks the single price for service under query. records may hold
// anything; only rows for the same service, outlet and express flag that are
// active on the query date are considered. With a tier, the exact-tier bucket
// is preferred over the absent-tier bucket; without one only the absent-tier
// bucket applies. No match falls back to the service base price.
func Resolve(service models.Service, records []models.PriceRecord, query Query) Resolution {
	candidates := make([]models.PriceRecord, 0, len(records))
	for _, record := range records {
		if record.ServiceID != service.ID || record.OutletID != query.OutletID || record.IsExpress != query.IsExpress {
			continue
		}
		if !WindowOf(record).Contains(query.Date) {
			continue
		}
		if !inResolutionBucket(record.MemberTier, query.Tier) {
			continue
		}
		candidates = append(candidates, record)
	}

	if len(candidates) == 0 {
		return Resolution{
			Price:  service.BasePrice,
			Source: enums.PriceSourceFallbackBasePrice,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return CompareCandidates(candidates[i], candidates[j], query.Tier) < 0
	})

	winner := candidates[0]
	id := winner.ID
	return Resolution{
		Price:    winner.Price,
		Source:   enums.PriceSourceTiered,
		RecordID: &id,
		TierUsed: winner.MemberTier,
	}
}

// inResolutionBucket keeps exact-tier and absent-tier rows for a tiered
// request, and only absent-tier rows otherwise.
func inResolutionBucket(recordTier, requested types.Tier) bool {
	if !recordTier.Valid {
		return true
	}
	return requested.Valid && recordTier.Equal(requested)
}

// CompareCandidates orders two active records for a request with the given
// tier: an exact tier match ranks before an absent tier, then the later
// effective start wins. The id breaks any remaining tie so the order is total.
// It returns a negative number when a should win.
func CompareCandidates(a, b models.PriceRecord, requested types.Tier) int {
	if ra, rb := tierRank(a.MemberTier, requested), tierRank(b.MemberTier, requested); ra != rb {
		return ra - rb
	}
	if c := b.EffectiveStart.Compare(a.EffectiveStart); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func tierRank(recordTier, requested types.Tier) int {
	if requested.Valid && recordTier.Equal(requested) {
		return 0
	}
	return 1
}
