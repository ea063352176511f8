package model

import "time"

// User 用户，属于一个国家
type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	CountryID uint64    `json:"country_id" gorm:"index:idx_user_country;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
