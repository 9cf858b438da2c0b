package enums

import "fmt"

// UnitOfMeasure defines the sale unit a product is captured in. Base units
// (kilogram, liter, piece) are the units the inventory ledger is kept in;
// packaged units bundle package_content base units per package.
type UnitOfMeasure string

const (
	UnitPiece    UnitOfMeasure = "pieza"
	UnitKilogram UnitOfMeasure = "kg"
	UnitLiter    UnitOfMeasure = "litro"
	UnitBag      UnitOfMeasure = "bulto"
	UnitBox      UnitOfMeasure = "caja"
	UnitSack     UnitOfMeasure = "costal"
	UnitPack     UnitOfMeasure = "paquete"
)

var validUnitsOfMeasure = []UnitOfMeasure{
	UnitPiece,
	UnitKilogram,
	UnitLiter,
	UnitBag,
	UnitBox,
	UnitSack,
	UnitPack,
}

// String implements fmt.Stringer.
func (u UnitOfMeasure) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnitOfMeasure.
func (u UnitOfMeasure) IsValid() bool {
	for _, candidate := range validUnitsOfMeasure {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitOfMeasure converts raw input into a UnitOfMeasure.
func ParseUnitOfMeasure(value string) (UnitOfMeasure, error) {
	for _, candidate := range validUnitsOfMeasure {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit of measure %q", value)
}

// IsPackaged reports whether quantities in this unit must be multiplied by the
// product's package content to reach base units.
func (u UnitOfMeasure) IsPackaged() bool {
	switch u {
	case UnitBag, UnitBox, UnitSack, UnitPack:
		return true
	}
	return false
}

// IsBase reports whether the unit already is a ledger base unit. Quantities in
// base units hit the ledger unmodified and the package content is pinned to 1.
func (u UnitOfMeasure) IsBase() bool {
	switch u {
	case UnitPiece, UnitKilogram, UnitLiter:
		return true
	}
	return false
}

// BulkSaleForced returns the forced value of the bulk-sale flag for units that
// do not leave the choice to the operator: kg/liter products are inherently
// loose, pieces are indivisible. The second result reports whether the flag is
// forced at all.
func (u UnitOfMeasure) BulkSaleForced() (bool, bool) {
	switch u {
	case UnitKilogram, UnitLiter:
		return true, true
	case UnitPiece:
		return false, true
	}
	return false, false
}
