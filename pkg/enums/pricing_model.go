package enums

import "fmt"

// PricingModel describes how a laundry service is billed.
type PricingModel string

const (
	PricingModelByWeight PricingModel = "by-weight"
	PricingModelByPiece  PricingModel = "by-piece"
)

var validPricingModels = []PricingModel{
	PricingModelByWeight,
	PricingModelByPiece,
}

// String implements fmt.Stringer.
func (p PricingModel) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingModel.
func (p PricingModel) IsValid() bool {
	for _, candidate := range validPricingModels {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingModel converts raw input into a PricingModel.
func ParsePricingModel(value string) (PricingModel, error) {
	for _, candidate := range validPricingModels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing model %q", value)
}
