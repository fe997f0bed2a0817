package enums

import (
	"fmt"
	"strings"
)

// UnknownAddonPolicy decides what a quote does with add-on ids it cannot find.
type UnknownAddonPolicy string

const (
	// UnknownAddonPolicyIgnore drops the add-on without a warning.
	UnknownAddonPolicyIgnore UnknownAddonPolicy = "ignore"
	// UnknownAddonPolicyWarn drops the add-on and attaches a warning.
	UnknownAddonPolicyWarn UnknownAddonPolicy = "warn"
)

var validUnknownAddonPolicies = []UnknownAddonPolicy{
	UnknownAddonPolicyIgnore,
	UnknownAddonPolicyWarn,
}

// String implements fmt.Stringer.
func (p UnknownAddonPolicy) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p UnknownAddonPolicy) IsValid() bool {
	for _, candidate := range validUnknownAddonPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseUnknownAddonPolicy converts raw input into a policy; matching ignores case.
func ParseUnknownAddonPolicy(value string) (UnknownAddonPolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUnknownAddonPolicies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unknown addon policy %q", value)
}
