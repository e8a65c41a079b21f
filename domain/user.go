package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FullName      string         `gorm:"column:full_name;not null" json:"full_name"`
	Email         string         `gorm:"column:email;unique;not null" json:"email"`
	Phone         string         `gorm:"column:phone" json:"phone"`
	IndexNumber   *string        `gorm:"column:index_number;uniqueIndex" json:"index_number,omitempty"`
	IsVerified    bool           `gorm:"column:is_verified;default:false" json:"is_verified"`
	Password      string         `gorm:"column:password;not null" json:"password,omitempty"`
	Role          string         `gorm:"column:role;default:student" json:"role"`
	PaymentStatus bool           `gorm:"column:payment_status;default:false" json:"payment_status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
