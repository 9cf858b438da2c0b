package discounts

import "github.com/granverde/forrajera-backend/pkg/db/models"

// specificity ranks a rule's scope: a product-specific rule beats a
// brand-wide one, which beats a global one.
func specificity(rule models.DiscountRule) int {
	switch {
	case rule.ProductID != nil:
		return 2
	case rule.BrandID != nil:
		return 1
	}
	return 0
}

// BestRule picks the winning rule among candidates that match the product.
// Candidates are compared by specificity, then by higher percentage, then by
// lower id, which makes the result deterministic regardless of input order.
// Returns nil when nothing applies.
func BestRule(rules []models.DiscountRule, productID int64, brandID *int64) *models.DiscountRule {
	var best *models.DiscountRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Active {
			continue
		}
		if !matches(rule, productID, brandID) {
			continue
		}
		if best == nil || beats(rule, best) {
			best = rule
		}
	}
	return best
}

func matches(rule *models.DiscountRule, productID int64, brandID *int64) bool {
	switch {
	case rule.ProductID != nil:
		return *rule.ProductID == productID
	case rule.BrandID != nil:
		return brandID != nil && *rule.BrandID == *brandID
	}
	return true
}

func beats(candidate, current *models.DiscountRule) bool {
	cs, xs := specificity(*candidate), specificity(*current)
	if cs != xs {
		return cs > xs
	}
	if !candidate.Percentage.Equal(current.Percentage) {
		return candidate.Percentage.GreaterThan(current.Percentage)
	}
	return candidate.ID < current.ID
}
