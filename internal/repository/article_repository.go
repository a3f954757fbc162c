package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"blogapi/internal/model"
)

type ArticleRepository struct {
	db *gorm.DB
}

// ArticleFilter narrows a paginated listing query. Nil date bounds are
// not applied; both set means an inclusive BETWEEN on published_at.
type ArticleFilter struct {
	AuthorID  string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(article *model.Article) error {
	if err := r.db.Create(article).Error; err != nil {
		return fmt.Errorf("create article failed: %w", err)
	}
	return nil
}

func (r *ArticleRepository) GetByID(id string) (*model.Article, error) {
	var article model.Article
	if err := r.db.Preload("Author").Where("id = ?", id).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query article by id failed: %w", err)
	}
	return &article, nil
}

// UpdateFields applies a partial update guarded by the article version.
// The returned count is zero when the version no longer matches.
func (r *ArticleRepository) UpdateFields(id string, version int64, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 1, nil
	}
	fields["version"] = gorm.Expr("version + 1")

	result := r.db.Model(&model.Article{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if result.Error != nil {
		return 0, fmt.Errorf("update article failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ArticleRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Article{}).Error; err != nil {
		return fmt.Errorf("delete article failed: %w", err)
	}
	return nil
}

// List returns one page of matching articles with authors preloaded,
// newest published first, plus the total match count before pagination.
func (r *ArticleRepository) List(filter ArticleFilter) ([]model.Article, int64, error) {
	query := r.db.Model(&model.Article{})

	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		query = query.Where("published_at BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	case filter.StartDate != nil:
		query = query.Where("published_at >= ?", *filter.StartDate)
	case filter.EndDate != nil:
		query = query.Where("published_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count articles failed: %w", err)
	}

	var articles []model.Article
	if err := query.
		Preload("Author").
		Order("published_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&articles).Error; err != nil {
		return nil, 0, fmt.Errorf("list articles failed: %w", err)
	}
	return articles, total, nil
}
