package pricing

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/angelmondragon/washline-backend/pkg/db/models"
	"github.com/angelmondragon/washline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoOverlap(t *testing.T) {
	serviceID, outletID := uuid.New(), uuid.New()
	gold := types.TierOf("gold")
	none := types.NoTier()

	existing := record(serviceID, outletID, none, false, 10000, day(0), until(9))

	cases := []struct {
		name      string
		candidate models.PriceRecord
		existing  []models.PriceRecord
		conflict  bool
	}{
		{
			name:      "disjoint after",
			candidate: record(serviceID, outletID, none, false, 9000, day(10), types.NullDate{}),
			existing:  []models.PriceRecord{existing},
		},
		{
			name:      "touching end day overlaps",
			candidate: record(serviceID, outletID, none, false, 9000, day(9), until(20)),
			existing:  []models.PriceRecord{existing},
			conflict:  true,
		},
		{
			name:      "touching start day overlaps",
			candidate: record(serviceID, outletID, none, false, 9000, day(-5), until(0)),
			existing:  []models.PriceRecord{existing},
			conflict:  true,
		},
		{
			name:      "open ended candidate covering existing",
			candidate: record(serviceID, outletID, none, false, 9000, day(-30), types.NullDate{}),
			existing:  []models.PriceRecord{existing},
			conflict:  true,
		},
		{
			name:      "two open ended windows always meet",
			candidate: record(serviceID, outletID, none, false, 9000, day(100), types.NullDate{}),
			existing:  []models.PriceRecord{record(serviceID, outletID, none, false, 1, day(0), types.NullDate{})},
			conflict:  true,
		},
		{
			name:      "tiered record does not collide with absent tier",
			candidate: record(serviceID, outletID, gold, false, 9000, day(0), until(9)),
			existing:  []models.PriceRecord{existing},
		},
		{
			name:      "same tier collides",
			candidate: record(serviceID, outletID, gold, false, 9000, day(5), until(6)),
			existing:  []models.PriceRecord{record(serviceID, outletID, gold, false, 1, day(0), until(9))},
			conflict:  true,
		},
		{
			name:      "express and standard are separate",
			candidate: record(serviceID, outletID, none, true, 15000, day(0), until(9)),
			existing:  []models.PriceRecord{existing},
		},
		{
			name:      "other outlet ignored",
			candidate: record(serviceID, uuid.New(), none, false, 9000, day(0), until(9)),
			existing:  []models.PriceRecord{existing},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNoOverlap(tc.candidate, tc.existing, nil)
			if !tc.conflict {
				assert.NoError(t, err)
				return
			}
			var conflict *OverlapConflict
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tc.existing[0].ID, conflict.ConflictingID)
			assert.True(t, conflict.Dimension.Equal(KeyOf(tc.candidate)))
			assert.Equal(t, WindowOf(tc.candidate), conflict.Candidate)
			assert.Equal(t, WindowOf(tc.existing[0]), conflict.Conflicting)
		})
	}
}

func TestValidateNoOverlapIgnoresRecordBeingUpdated(t *testing.T) {
	serviceID, outletID := uuid.New(), uuid.New()
	current := record(serviceID, outletID, types.NoTier(), false, 10000, day(0), types.NullDate{})

	moved := current
	moved.EffectiveEnd = until(30)

	require.NoError(t, ValidateNoOverlap(moved, []models.PriceRecord{current}, &current.ID))
	require.Error(t, ValidateNoOverlap(moved, []models.PriceRecord{current}, nil))
}

func TestValidateNoOverlapErrorMessageNamesBothWindows(t *testing.T) {
	serviceID, outletID := uuid.New(), uuid.New()
	current := record(serviceID, outletID, types.NoTier(), false, 10000, day(0), types.NullDate{})
	candidate := record(serviceID, outletID, types.NoTier(), false, 10000, day(3), until(4))

	err := ValidateNoOverlap(candidate, []models.PriceRecord{current}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2026-03-04..2026-03-05")
	assert.Contains(t, err.Error(), "2026-03-01..open")
}

// Sequential inserts through the validator must leave every pair of committed
// records in the same dimension disjoint.
func TestValidateNoOverlapPropertyCommittedSetStaysDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	serviceID, outletID := uuid.New(), uuid.New()
	tiers := []types.Tier{types.NoTier(), types.TierOf("GOLD"), types.TierOf("SILVER")}

	for round := 0; round < 50; round++ {
		var committed []models.PriceRecord
		for attempt := 0; attempt < 40; attempt++ {
			start := day(rng.Intn(120))
			end := types.NullDate{}
			if rng.Intn(5) != 0 {
				end = types.DateValue(start.AddDays(rng.Intn(20)))
			}
			candidate := record(serviceID, outletID, tiers[rng.Intn(len(tiers))], rng.Intn(2) == 0, 100, start, end)
			if ValidateNoOverlap(candidate, committed, nil) == nil {
				committed = append(committed, candidate)
			}
		}

		for i := range committed {
			for j := i + 1; j < len(committed); j++ {
				a, b := committed[i], committed[j]
				if !KeyOf(a).Equal(KeyOf(b)) {
					continue
				}
				require.False(t, WindowOf(a).Overlaps(WindowOf(b)),
					"round %d: %s and %s overlap in %s", round, WindowOf(a).Start, WindowOf(b).Start, KeyOf(a))
			}
		}
	}
}

func TestWindow(t *testing.T) {
	closed := Window{Start: day(0), End: until(0)}
	assert.True(t, closed.Contains(day(0)))
	assert.False(t, closed.Contains(day(-1)))
	assert.False(t, closed.Contains(day(1)))
	assert.True(t, closed.Valid())

	open := Window{Start: day(0)}
	assert.True(t, open.Contains(day(10000)))
	assert.True(t, open.Valid())

	inverted := Window{Start: day(5), End: until(4)}
	assert.False(t, inverted.Valid())
}

func TestDimensionKeyString(t *testing.T) {
	serviceID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	outletID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	general := DimensionKey{ServiceID: serviceID, OutletID: outletID}
	assert.Equal(t, "11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222:-:false", general.String())

	gold := DimensionKey{ServiceID: serviceID, OutletID: outletID, Tier: types.TierOf("gold"), IsExpress: true}
	assert.Equal(t, "11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222:GOLD:true", gold.String())
	assert.False(t, general.Equal(gold))
}
