package models

import "time"

// User is a profile document keyed by the opaque owner identifier carried in
// the auth token. All display fields are optional; updates merge field by
// field rather than replacing the row wholesale.
type User struct {
	Owner     string    `gorm:"column:owner;primaryKey" json:"owner"`
	UserName  string    `gorm:"column:user_name;not null;default:''" json:"user_name"`
	Name      string    `gorm:"column:name;not null;default:''" json:"name"`
	Surname   string    `gorm:"column:surname;not null;default:''" json:"surname"`
	Email     string    `gorm:"column:email;not null;default:''" json:"email"`
	Phone     string    `gorm:"column:phone;not null;default:''" json:"phone"`
	Address   string    `gorm:"column:address;not null;default:''" json:"address"`
	ImageRef  string    `gorm:"column:image_ref;not null;default:''" json:"image_ref"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
