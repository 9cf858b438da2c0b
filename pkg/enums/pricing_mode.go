package enums

import "fmt"

// PricingMode records how a sale line was priced and converted to base units.
// It is persisted on the line at sale time so cancellation can reverse the
// exact same conversion instead of re-inferring it from the quantity.
type PricingMode string

const (
	// PricingPackage prices the entered quantity per package and multiplies by
	// the package content when hitting the inventory ledger.
	PricingPackage PricingMode = "PAQUETE"
	// PricingBulk prices the entered quantity per base unit and applies it to
	// the ledger unmodified.
	PricingBulk PricingMode = "GRANEL"
)

var validPricingModes = []PricingMode{
	PricingPackage,
	PricingBulk,
}

// String implements fmt.Stringer.
func (p PricingMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingMode.
func (p PricingMode) IsValid() bool {
	for _, candidate := range validPricingModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingMode converts raw input into a PricingMode.
func ParsePricingMode(value string) (PricingMode, error) {
	for _, candidate := range validPricingModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing mode %q", value)
}
