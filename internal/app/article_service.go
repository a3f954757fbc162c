package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"blogapi/internal/cache"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrNotArticleAuthor = errors.New("you can only modify your own articles")
	ErrVersionConflict  = errors.New("article was modified by a concurrent update")
	ErrInvalidStartDate = errors.New("invalid date format for start_date")
	ErrInvalidEndDate   = errors.New("invalid date format for end_date")
	ErrInvalidPublishAt = errors.New("invalid date format for published_at")
)

type ArticleStore interface {
	Create(article *model.Article) error
	GetByID(id string) (*model.Article, error)
	UpdateFields(id string, version int64, fields map[string]any) (int64, error)
	Delete(id string) error
	List(filter repository.ArticleFilter) ([]model.Article, int64, error)
}

type ArticleCache interface {
	GetArticle(ctx context.Context, id string) (*model.Article, bool, error)
	SetArticle(ctx context.Context, article *model.Article) error
	DeleteArticle(ctx context.Context, id string) error
	GetList(ctx context.Context, key string) (*model.ArticlePage, bool, error)
	SetList(ctx context.Context, key string, page *model.ArticlePage) error
	InvalidateLists(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.ArticleEvent) error
}

// ArticleService orchestrates article reads and writes across the store
// and the cache. Reads are cache-first with no freshness check; every
// write invalidates the touched article key and the entire listing
// namespace before returning. Cache errors fail the whole operation.
type ArticleService struct {
	articleStore ArticleStore
	articleCache ArticleCache
	publisher    EventPublisher
}

type CreateArticleInput struct {
	Title       string
	Description string
	PublishedAt string
}

type UpdateArticleInput struct {
	Title       string
	Description string
	PublishedAt string
}

type ListArticlesInput struct {
	Page      int
	Limit     int
	AuthorID  string
	StartDate string
	EndDate   string
}

func NewArticleService(articleStore ArticleStore, articleCache ArticleCache, publisher EventPublisher) *ArticleService {
	return &ArticleService{
		articleStore: articleStore,
		articleCache: articleCache,
		publisher:    publisher,
	}
}

// Create persists a new article owned by the caller. Shape and length
// constraints are enforced by the transport layer; the service only
// resolves the publish time.
func (s *ArticleService) Create(ctx context.Context, input CreateArticleInput, callerID string) (*model.Article, error) {
	if callerID == "" {
		return nil, ErrInvalidInput
	}

	publishedAt := time.Now()
	if strings.TrimSpace(input.PublishedAt) != "" {
		parsed, err := parseDate(input.PublishedAt)
		if err != nil {
			return nil, ErrInvalidPublishAt
		}
		publishedAt = parsed
	}

	article := &model.Article{
		Title:       input.Title,
		Description: input.Description,
		PublishedAt: publishedAt,
		AuthorID:    callerID,
		Version:     1,
	}
	if err := s.articleStore.Create(article); err != nil {
		return nil, err
	}

	// Any new article can change any listing page's contents and counts.
	if err := s.articleCache.InvalidateLists(ctx); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.ArticleEventCreated, article)
	return article, nil
}

// Read returns the article from the cache when present, otherwise from
// the store with its author joined. The cached copy is served as-is.
func (s *ArticleService) Read(ctx context.Context, id string) (*model.Article, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	cached, hit, err := s.articleCache.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	article, err := s.articleStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	sanitizeArticle(article)
	if err := s.articleCache.SetArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update applies the present patch fields to the caller's own article.
// Existence is checked before ownership, so a missing id yields not
// found even for a non-owner. The write is conditional on the version
// read here; a concurrent writer winning the race surfaces a conflict.
func (s *ArticleService) Update(ctx context.Context, id string, patch UpdateArticleInput, callerID string) (*model.Article, error) {
	current, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != callerID {
		return nil, ErrNotArticleAuthor
	}

	fields := map[string]any{}
	if patch.Title != "" {
		fields["title"] = patch.Title
	}
	if patch.Description != "" {
		fields["description"] = patch.Description
	}
	if strings.TrimSpace(patch.PublishedAt) != "" {
		parsed, err := parseDate(patch.PublishedAt)
		if err != nil {
			return nil, ErrInvalidPublishAt
		}
		fields["published_at"] = parsed
	}

	if len(fields) > 0 {
		affected, err := s.articleStore.UpdateFields(id, current.Version, fields)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrVersionConflict
		}
	}

	if err := s.articleCache.DeleteArticle(ctx, id); err != nil {
		return nil, err
	}
	if err := s.articleCache.InvalidateLists(ctx); err != nil {
		return nil, err
	}

	fresh, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.ArticleEventUpdated, fresh)
	return fresh, nil
}

// Delete permanently removes the caller's own article, with the same
// not-found-before-forbidden ordering as Update.
func (s *ArticleService) Delete(ctx context.Context, id string, callerID string) error {
	article, err := s.Read(ctx, id)
	if err != nil {
		return err
	}
	if article.AuthorID != callerID {
		return ErrNotArticleAuthor
	}

	if err := s.articleStore.Delete(id); err != nil {
		return err
	}
	if err := s.articleCache.DeleteArticle(ctx, id); err != nil {
		return err
	}
	if err := s.articleCache.InvalidateLists(ctx); err != nil {
		return err
	}

	s.publishEvent(ctx, model.ArticleEventDeleted, article)
	return nil
}

// List serves one page of articles ordered by publish date descending.
// The whole result envelope is cached under a canonical key, so a
// repeat of the same logical query never reaches the store.
func (s *ArticleService) List(ctx context.Context, input ListArticlesInput) (*model.ArticlePage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	key := cache.ListKey(page, limit, input.AuthorID, input.StartDate, input.EndDate)
	cached, hit, err := s.articleCache.GetList(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	filter := repository.ArticleFilter{
		AuthorID: input.AuthorID,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}
	if input.StartDate != "" {
		start, err := parseDate(input.StartDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
		filter.StartDate = &start
	}
	if input.EndDate != "" {
		end, err := parseDate(input.EndDate)
		if err != nil {
			return nil, ErrInvalidEndDate
		}
		filter.EndDate = &end
	}

	articles, total, err := s.articleStore.List(filter)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		sanitizeArticle(&articles[i])
	}

	result := &model.ArticlePage{
		Articles: articles,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	if err := s.articleCache.SetList(ctx, key, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ArticleService) publishEvent(ctx context.Context, action string, article *model.Article) {
	if s.publisher == nil {
		return
	}
	event := model.ArticleEvent{
		ArticleID:  article.ID,
		AuthorID:   article.AuthorID,
		Action:     action,
		OccurredAt: time.Now(),
	}
	// The audit trail is advisory; a broker outage must not fail the write.
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish article event failed: %v", err)
	}
}

// sanitizeArticle clears credential material from the nested author
// before the article is cached or returned. Articles without a loaded
// author pass through untouched.
func sanitizeArticle(article *model.Article) {
	if article.Author == nil {
		return
	}
	article.Author.PasswordHash = ""
	article.Author.Articles = nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
