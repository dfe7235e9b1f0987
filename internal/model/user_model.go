package model

import "time"

type UserModel struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName        string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName         string    `gorm:"type:varchar(150)" json:"last_name"`
	Bio              string    `gorm:"type:text" json:"bio"`
	Role             string    `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	IsStaff          bool      `gorm:"not null;default:false" json:"-"`
	IsActive         bool      `gorm:"not null;default:false" json:"-"`
	ConfirmationCode string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}
