package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ArticleEventCreated = "created"
	ArticleEventUpdated = "updated"
	ArticleEventDeleted = "deleted"
)

// ArticleEvent is an audit record of a write to an article. Events are
// published to the broker on the request path and persisted by the
// audit worker.
type ArticleEvent struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	ArticleID  string    `gorm:"type:char(36);not null;index" json:"article_id"`
	AuthorID   string    `gorm:"type:char(36);not null;index" json:"author_id"`
	Action     string    `gorm:"size:16;not null" json:"action"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
}

func (e *ArticleEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
