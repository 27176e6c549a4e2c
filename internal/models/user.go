package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(256);uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"type:varchar(256);uniqueIndex;not null" json:"username"`
	Name         string    `gorm:"type:varchar(256);not null" json:"name"`
	Surname      string    `gorm:"type:varchar(256);not null" json:"surname"`
	Patronymic   string    `gorm:"type:varchar(256);not null" json:"patronymic"`
	PasswordHash string    `gorm:"type:varchar(256);not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsManager    bool      `gorm:"not null;default:false" json:"is_manager"`
	IsUser       bool      `gorm:"not null;default:false" json:"is_user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Memberships []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
}
