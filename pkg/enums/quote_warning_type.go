package enums

import "fmt"

// QuoteWarningType enumerates the non-fatal issues a quote can report.
type QuoteWarningType string

const (
	QuoteWarningTypeServiceNotFound    QuoteWarningType = "service_not_found"
	QuoteWarningTypeExpressUnavailable QuoteWarningType = "express_unavailable"
	QuoteWarningTypeAddonNotFound      QuoteWarningType = "addon_not_found"
	QuoteWarningTypeMissingWeight      QuoteWarningType = "missing_weight"
)

var validQuoteWarningTypes = []QuoteWarningType{
	QuoteWarningTypeServiceNotFound,
	QuoteWarningTypeExpressUnavailable,
	QuoteWarningTypeAddonNotFound,
	QuoteWarningTypeMissingWeight,
}

// String implements fmt.Stringer.
func (q QuoteWarningType) String() string {
	return string(q)
}

// IsValid reports whether the value is known.
func (q QuoteWarningType) IsValid() bool {
	for _, candidate := range validQuoteWarningTypes {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuoteWarningType converts raw input into a QuoteWarningType.
func ParseQuoteWarningType(value string) (QuoteWarningType, error) {
	for _, candidate := range validQuoteWarningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote warning type %q", value)
}
