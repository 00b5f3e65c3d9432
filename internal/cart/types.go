package cart

import "github.com/serhattastan/foodfleet/pkg/db/models"

// AddItemInput describes one add-to-cart request. UnitPrice is the price of a
// single unit; the engine derives the line aggregate from it.
type AddItemInput struct {
	ItemName  string `json:"item_name" validate:"required"`
	ImageRef  string `json:"image_ref"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// TotalsDTO is the checkout summary for a cart.
type TotalsDTO struct {
	Subtotal   int64   `json:"subtotal"`
	Discount   float64 `json:"discount"`
	Total      int64   `json:"total"`
	CouponCode string  `json:"coupon_code,omitempty"`
}

// CartDTO is the full cart view returned to clients.
type CartDTO struct {
	Lines  []models.CartLine `json:"lines"`
	Totals TotalsDTO         `json:"totals"`
}
