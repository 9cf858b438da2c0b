package inventory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
)

func TestBaseUnitsPackagedProduct(t *testing.T) {
	product := &models.Product{
		Unit:           enums.UnitBag,
		PackageContent: decimal.RequireFromString("40"),
	}

	got := BaseUnits(product, decimal.RequireFromString("5"), enums.PricingPackage)
	if !got.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("5 bags of 40kg should be 200 base units, got %s", got)
	}

	got = BaseUnits(product, decimal.RequireFromString("1.5"), enums.PricingPackage)
	if !got.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("1.5 bags of 40kg should be 60 base units, got %s", got)
	}

	// bulk quantities are already in base units
	got = BaseUnits(product, decimal.RequireFromString("12.5"), enums.PricingBulk)
	if !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("bulk quantity should pass through, got %s", got)
	}
}

func TestBaseUnitsBaseUnitProduct(t *testing.T) {
	product := &models.Product{
		Unit:           enums.UnitKilogram,
		PackageContent: decimal.NewFromInt(1),
	}
	got := BaseUnits(product, decimal.RequireFromString("3.250"), enums.PricingPackage)
	if !got.Equal(decimal.RequireFromString("3.250")) {
		t.Fatalf("base-unit products never multiply, got %s", got)
	}
}

func TestBaseUnitsRoundTrip(t *testing.T) {
	product := &models.Product{
		Unit:           enums.UnitSack,
		PackageContent: decimal.RequireFromString("20"),
	}
	qty := decimal.RequireFromString("2.75")

	debit := BaseUnits(product, qty, enums.PricingPackage)
	credit := BaseUnits(product, qty, enums.PricingPackage)
	if !debit.Equal(credit) {
		t.Fatalf("sale and cancellation conversions must match: %s vs %s", debit, credit)
	}
}

func TestPricingModeForForcedUnits(t *testing.T) {
	kg := &models.Product{Unit: enums.UnitKilogram}
	if got := PricingModeFor(kg, false); got != enums.PricingBulk {
		t.Fatalf("kg products are always bulk, got %s", got)
	}

	piece := &models.Product{Unit: enums.UnitPiece}
	if got := PricingModeFor(piece, true); got != enums.PricingPackage {
		t.Fatalf("piece products are never bulk, got %s", got)
	}

	bag := &models.Product{Unit: enums.UnitBag, AllowBulkSale: true}
	if got := PricingModeFor(bag, true); got != enums.PricingBulk {
		t.Fatalf("packaged products honor the flag, got %s", got)
	}
	if got := PricingModeFor(bag, false); got != enums.PricingPackage {
		t.Fatalf("packaged products honor the flag, got %s", got)
	}
}
