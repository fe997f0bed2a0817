package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tier is an optional member tier code. The absent tier is a real, comparable
// value: it equals only another absent tier.
type Tier struct {
	Code  string
	Valid bool
}

// NoTier returns the absent tier.
func NoTier() Tier {
	return Tier{}
}

// TierOf normalizes code into a present tier. Blank input yields the absent tier.
func TierOf(code string) Tier {
	normalized := NormalizeTierCode(code)
	if normalized == "" {
		return Tier{}
	}
	return Tier{Code: normalized, Valid: true}
}

// TierFromPtr maps a nil pointer to the absent tier.
func TierFromPtr(code *string) Tier {
	if code == nil {
		return Tier{}
	}
	return TierOf(*code)
}

// NormalizeTierCode trims and upper-cases a tier code.
func NormalizeTierCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Equal is null-safe equality.
func (t Tier) Equal(other Tier) bool {
	if t.Valid != other.Valid {
		return false
	}
	return !t.Valid || t.Code == other.Code
}

// Ptr returns nil for the absent tier.
func (t Tier) Ptr() *string {
	if !t.Valid {
		return nil
	}
	code := t.Code
	return &code
}

func (t Tier) String() string {
	if !t.Valid {
		return "<none>"
	}
	return t.Code
}

// MarshalJSON renders null for the absent tier.
func (t Tier) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Code)
}

// UnmarshalJSON accepts null or a string code.
func (t *Tier) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Tier{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("member tier must be a string or null: %w", err)
	}
	*t = TierOf(raw)
	return nil
}

// Value implements driver.Valuer.
func (t Tier) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Code, nil
}

// Scan implements sql.Scanner.
func (t *Tier) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = Tier{}
	case string:
		*t = TierOf(v)
	case []byte:
		*t = TierOf(string(v))
	default:
		return fmt.Errorf("unsupported Tier scan type %T", value)
	}
	return nil
}
