package models

import "time"

// CartLine is one row in a user's cart. TotalPrice is always the line
// aggregate (unit price times quantity), never a per-unit value. LineID is
// assigned by the store on insert; callers never choose it.
type CartLine struct {
	LineID     int64     `gorm:"column:line_id;primaryKey;autoIncrement" json:"line_id"`
	ItemName   string    `gorm:"column:item_name;not null" json:"item_name"`
	ImageRef   string    `gorm:"column:image_ref;not null;default:''" json:"image_ref"`
	TotalPrice int64     `gorm:"column:total_price;not null" json:"total_price"`
	Quantity   int       `gorm:"column:quantity;not null" json:"quantity"`
	Owner      string    `gorm:"column:owner;not null;index:cart_lines_owner_idx" json:"owner"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}
