package pricing

import (
	"fmt"

	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/google/uuid"
)

// OverlapConflict describes a candidate whose window intersects an existing
// record of the same dimension.
type OverlapConflict struct {
	Dimension     DimensionKey `json:"dimension"`
	Candidate     Window       `json:"candidate"`
	ConflictingID uuid.UUID    `json:"conflicting_id"`
	Conflicting   Window       `json:"conflicting"`
}

func (c *OverlapConflict) Error() string {
	return fmt.Sprintf(
		"price period %s..%s overlaps record %s (%s..%s) for dimension %s",
		c.Candidate.Start, c.Candidate.End, c.ConflictingID,
		c.Conflicting.Start, c.Conflicting.End, c.Dimension,
	)
}

// ValidateNoOverlap checks candidate against existing records. Records with a
// different dimension key or with id == ignoreID are not considered. The first
// overlapping record, in input order, is reported.
func ValidateNoOverlap(candidate models.PriceRecord, existing []models.PriceRecord, ignoreID *uuid.UUID) error {
	key := KeyOf(candidate)
	window := WindowOf(candidate)

	for _, record := range existing {
		if ignoreID != nil && record.ID == *ignoreID {
			continue
		}
		if !KeyOf(record).Equal(key) {
			continue
		}
		if other := WindowOf(record); window.Overlaps(other) {
			return &OverlapConflict{
				Dimension:     key,
				Candidate:     window,
				ConflictingID: record.ID,
				Conflicting:   other,
			}
		}
	}
	return nil
}
