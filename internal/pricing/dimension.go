package pricing

import (
	"fmt"

	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
)

// DimensionKey scopes the no-overlap rule: records sharing a key never share a day.
type DimensionKey struct {
	ServiceID uuid.UUID  `json:"service_id"`
	OutletID  uuid.UUID  `json:"outlet_id"`
	Tier      types.Tier `json:"member_tier"`
	IsExpress bool       `json:"is_express"`
}

// KeyOf extracts the dimension key of a record.
func KeyOf(record models.PriceRecord) DimensionKey {
	return DimensionKey{
		ServiceID: record.ServiceID,
		OutletID:  record.OutletID,
		Tier:      record.MemberTier,
		IsExpress: record.IsExpress,
	}
}

// Equal compares keys with null-safe tier equality.
func (k DimensionKey) Equal(other DimensionKey) bool {
	return k.ServiceID == other.ServiceID &&
		k.OutletID == other.OutletID &&
		k.IsExpress == other.IsExpress &&
		k.Tier.Equal(other.Tier)
}

// String renders a stable identifier used for lock names and logs.
func (k DimensionKey) String() string {
	tier := "-"
	if k.Tier.Valid {
		tier = k.Tier.Code
	}
	return fmt.Sprintf("%s:%s:%s:%t", k.ServiceID, k.OutletID, tier, k.IsExpress)
}

// Window is an inclusive date range; an absent End is unbounded.
type Window struct {
	Start types.Date     `json:"effective_start"`
	End   types.NullDate `json:"effective_end"`
}

// WindowOf extracts the effective window of a record.
func WindowOf(record models.PriceRecord) Window {
	return Window{Start: record.EffectiveStart, End: record.EffectiveEnd}
}

// Contains reports whether date falls inside the window, both bounds included.
func (w Window) Contains(date types.Date) bool {
	if date.Before(w.Start) {
		return false
	}
	return !w.End.Valid || !date.After(w.End.Date)
}

// Overlaps is the closed-interval intersection test.
func (w Window) Overlaps(other Window) bool {
	return w.startsNoLaterThanEndOf(other) && other.startsNoLaterThanEndOf(w)
}

func (w Window) startsNoLaterThanEndOf(other Window) bool {
	return !other.End.Valid || !w.Start.After(other.End.Date)
}

// Valid reports whether the end, when present, is not before the start.
func (w Window) Valid() bool {
	return !w.End.Valid || !w.End.Date.Before(w.Start)
}
