package repository

import (
	"fmt"

	"gorm.io/gorm"

	"blogapi/internal/model"
)

type ArticleEventRepository struct {
	db *gorm.DB
}

func NewArticleEventRepository(db *gorm.DB) *ArticleEventRepository {
	return &ArticleEventRepository{db: db}
}

func (r *ArticleEventRepository) Create(event *model.ArticleEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create article event failed: %w", err)
	}
	return nil
}

func (r *ArticleEventRepository) ListByArticleID(articleID string, limit int) ([]model.ArticleEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var events []model.ArticleEvent
	if err := r.db.Where("article_id = ?", articleID).Order("occurred_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list article events failed: %w", err)
	}
	return events, nil
}
