package cart

import (
	"context"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

// Store is the persistence surface the reconciliation engine runs against.
// The store assigns line ids on insert; the engine never updates a row in
// place, it deletes the old line and inserts a replacement.
type Store interface {
	Fetch(ctx context.Context, owner string) ([]models.CartLine, error)
	Insert(ctx context.Context, line models.CartLine) (models.CartLine, error)
	Delete(ctx context.Context, owner string, lineID int64) error
}

// CouponMatcher resolves a coupon code to its coupon. A miss is not an error;
// implementations return (nil, nil) when the code does not exist.
type CouponMatcher interface {
	Match(ctx context.Context, code string) (*models.Coupon, error)
}
