package models

import (
	"time"
)

// Credentials 个人用户与 NGO 共用的登录信息
type Credentials struct {
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `json:"-"` // bcrypt hash, empty until set-password
	Otp        string     `gorm:"size:6" json:"-"`
	Verified   bool       `gorm:"default:false" json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// HasPassword reports whether set-password already ran.
func (c Credentials) HasPassword() bool { return c.Password != "" }

type User struct {
	Base
	Credentials
	FullName string  `gorm:"not null" json:"fullName"`
	Points   float64 `gorm:"default:0" json:"points"`
	Role     string  `gorm:"size:20;default:'USER';not null" json:"role"`

	CreatedPosts []Post `gorm:"foreignKey:OwnUserID" json:"createdPosts,omitempty"`
}

type Ngo struct {
	Base
	Credentials
	Name    string  `gorm:"not null;index" json:"name"`
	Type    string  `gorm:"size:50" json:"type"`
	Phone   string  `gorm:"size:20" json:"phone"`
	Address Address `gorm:"serializer:json" json:"address"`
	Points  float64 `gorm:"default:0" json:"points"`
	Role    string  `gorm:"size:20;default:'NGO';not null" json:"role"`

	CreatedPosts []Post `gorm:"foreignKey:OwnNgoID" json:"createdPosts,omitempty"`
}
