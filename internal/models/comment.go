package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	CreatorID uint64    `gorm:"not null;index" json:"creator_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Creator User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}
