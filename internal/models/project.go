package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Prefix      string    `gorm:"type:varchar(5);uniqueIndex;not null" json:"prefix"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatorID   uint64    `gorm:"not null;index" json:"creator_id"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	// LastTaskID is the per-project ticket counter. It only ever grows, so a
	// deleted task's number is never handed out again.
	LastTaskID uint64    `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
