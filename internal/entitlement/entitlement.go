// Package entitlement gates how many recipes a library may hold. The
// server consults it before committing a new recipe; the parse
// pipeline never does.
package entitlement

// DefaultFreeLimit is the free-tier recipe cap.
const DefaultFreeLimit = 10

// Checker decides whether another recipe can be added given the
// current library size.
type Checker interface {
	CanAddRecipe(currentCount int) bool
	Limit() int
}

// FreeTier allows up to a fixed number of recipes.
type FreeTier struct {
	limit int
}

// NewFreeTier builds a FreeTier checker; a non-positive limit falls
// back to DefaultFreeLimit.
func NewFreeTier(limit int) FreeTier {
	if limit <= 0 {
		limit = DefaultFreeLimit
	}
	return FreeTier{limit: limit}
}

func (f FreeTier) CanAddRecipe(currentCount int) bool {
	return currentCount < f.limit
}

func (f FreeTier) Limit() int { return f.limit }

// Unlimited never blocks an add.
type Unlimited struct{}

func (Unlimited) CanAddRecipe(int) bool { return true }

func (Unlimited) Limit() int { return 0 }
