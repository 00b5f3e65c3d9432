package models

import (
	"time"

	"github.com/google/uuid"
)

// NoCoupon is recorded on orders placed without a redeemed coupon.
const NoCoupon = "none"

// OrderLine is a frozen snapshot of one cart line at checkout time. Snapshots
// drop the store-assigned line id; the order only cares about what was bought.
type OrderLine struct {
	ItemName   string `json:"item_name"`
	ImageRef   string `json:"image_ref"`
	TotalPrice int64  `json:"total_price"`
	Quantity   int    `json:"quantity"`
}

// OrderRecord is an immutable record of a placed order.
type OrderRecord struct {
	ID         uuid.UUID   `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Owner      string      `gorm:"column:owner;not null;index:order_records_owner_idx" json:"owner"`
	Lines      []OrderLine `gorm:"column:lines;type:jsonb;serializer:json" json:"lines"`
	TotalPrice int64       `gorm:"column:total_price;not null" json:"total_price"`
	CouponCode string      `gorm:"column:coupon_code;not null;default:'none'" json:"coupon_code"`
	PlacedAt   time.Time   `gorm:"column:placed_at;autoCreateTime" json:"placed_at"`
}

func (OrderRecord) TableName() string {
	return "order_records"
}
