package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is owned by exactly one user. Version backs the conditional
// update in the repository; concurrent writers with a stale version get
// a conflict instead of silently losing their update.
type Article struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	PublishedAt time.Time `gorm:"index" json:"published_at"`
	AuthorID    string    `gorm:"type:char(36);not null;index" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Version     int64     `gorm:"not null;default:1" json:"version"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ArticlePage is the listing envelope cached and returned as a unit.
type ArticlePage struct {
	Articles []Article `json:"articles"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
