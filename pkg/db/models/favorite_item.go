package models

import "time"

// FavoriteItem marks a catalog entry as favorited by an owner. The price and
// image are denormalized at save time so the favorites list renders without a
// catalog join.
type FavoriteItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Owner     string    `gorm:"column:owner;not null;uniqueIndex:favorite_items_owner_item_key" json:"owner"`
	ItemID    int64     `gorm:"column:item_id;not null;uniqueIndex:favorite_items_owner_item_key" json:"item_id"`
	ItemName  string    `gorm:"column:item_name;not null" json:"item_name"`
	ImageRef  string    `gorm:"column:image_ref;not null;default:''" json:"image_ref"`
	UnitPrice int64     `gorm:"column:unit_price;not null" json:"unit_price"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FavoriteItem) TableName() string {
	return "favorite_items"
}
