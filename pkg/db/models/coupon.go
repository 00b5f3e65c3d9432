package models

import "time"

// Coupon is a flat-amount discount redeemable at checkout. Codes are matched
// exactly, case-sensitively.
type Coupon struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code           string    `gorm:"column:code;not null;uniqueIndex:coupons_code_key" json:"code"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Description    string    `gorm:"column:description;not null;default:''" json:"description"`
	ImageRef       string    `gorm:"column:image_ref;not null;default:''" json:"image_ref"`
	DiscountAmount float64   `gorm:"column:discount_amount;not null" json:"discount_amount"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}
