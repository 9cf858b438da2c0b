package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
)

// PricingModeFor decides how a captured quantity is priced and converted.
// Units that force the choice (kg/liter always loose, pieces never) override
// the requested flag; packaged units honor it.
func PricingModeFor(product *models.Product, bulk bool) enums.PricingMode {
	if forced, ok := product.Unit.BulkSaleForced(); ok {
		bulk = forced
	}
	if bulk {
		return enums.PricingBulk
	}
	return enums.PricingPackage
}

// BaseUnits converts a captured quantity to ledger base units. Package-mode
// quantities on packaged units multiply by the package content; everything
// else passes through unchanged. Ingress, sale, and cancellation all go
// through this one conversion so reversals restore exactly what was taken.
func BaseUnits(product *models.Product, qty decimal.Decimal, mode enums.PricingMode) decimal.Decimal {
	if mode == enums.PricingPackage && product.Unit.IsPackaged() {
		return qty.Mul(product.PackageContent)
	}
	return qty
}
