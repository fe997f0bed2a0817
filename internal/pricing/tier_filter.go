package pricing

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/washline-backend/pkg/types"
)

// TierFilterMode selects how list queries treat member_tier. It is unrelated
// to resolution, which uses its own fallback bucket.
type TierFilterMode int

const (
	// TierFilterAny applies no tier predicate.
	TierFilterAny TierFilterMode = iota
	// TierFilterAbsent matches only rows without a tier.
	TierFilterAbsent
	// TierFilterExact matches only rows with the given tier.
	TierFilterExact
)

// TierFilter is a list-time predicate on member_tier.
type TierFilter struct {
	Mode TierFilterMode
	Code string
}

// AnyTier disables tier filtering.
func AnyTier() TierFilter { return TierFilter{Mode: TierFilterAny} }

// AbsentTier matches general, non-tier rows.
func AbsentTier() TierFilter { return TierFilter{Mode: TierFilterAbsent} }

// ExactTier matches rows carrying tier.
func ExactTier(tier types.Tier) TierFilter {
	if !tier.Valid {
		return AbsentTier()
	}
	return TierFilter{Mode: TierFilterExact, Code: tier.Code}
}

// ParseTierFilter maps query input: "" means any, "none" means absent, anything
// else is an exact tier code.
func ParseTierFilter(raw string) (TierFilter, error) {
	value := strings.TrimSpace(raw)
	switch strings.ToLower(value) {
	case "", "any":
		return AnyTier(), nil
	case "none", "null":
		return AbsentTier(), nil
	}
	tier := types.TierOf(value)
	if !tier.Valid {
		return TierFilter{}, fmt.Errorf("invalid tier filter %q", raw)
	}
	return ExactTier(tier), nil
}

// Matches applies the filter to an in-memory tier.
func (f TierFilter) Matches(tier types.Tier) bool {
	switch f.Mode {
	case TierFilterAbsent:
		return !tier.Valid
	case TierFilterExact:
		return tier.Valid && tier.Code == f.Code
	default:
		return true
	}
}
