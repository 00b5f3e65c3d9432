package models

import "time"

// Food is a catalog entry. UnitPrice is the price of a single unit in the
// smallest currency denomination.
type Food struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ItemName  string    `gorm:"column:item_name;not null;uniqueIndex:foods_item_name_key" json:"item_name"`
	ImageRef  string    `gorm:"column:image_ref;not null;default:''" json:"image_ref"`
	Category  string    `gorm:"column:category;not null;index:foods_category_idx" json:"category"`
	UnitPrice int64     `gorm:"column:unit_price;not null" json:"unit_price"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Food) TableName() string {
	return "foods"
}
