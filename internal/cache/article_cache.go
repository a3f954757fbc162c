package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"blogapi/internal/model"
)

const (
	articleKeyPrefix = "article:"
	listKeyPrefix    = "article:list:"
)

// ArticleCache holds individual articles under article:{id} and listing
// pages under article:list:{canonical-query}. Any article write blows
// away the whole listing namespace.
type ArticleCache struct {
	client     *redisv9.Client
	articleTTL time.Duration
}

func NewArticleCache(client *redisv9.Client, articleTTL time.Duration) *ArticleCache {
	if articleTTL <= 0 {
		articleTTL = 30 * 24 * time.Hour
	}
	return &ArticleCache{
		client:     client,
		articleTTL: articleTTL,
	}
}

// ListKey builds the canonical cache key for a listing query. Fields are
// emitted in a fixed order with unset filters omitted, so logically
// identical queries always share one key.
func ListKey(page, limit int, authorID, startDate, endDate string) string {
	parts := []string{
		fmt.Sprintf("page=%d", page),
		fmt.Sprintf("limit=%d", limit),
	}
	if authorID != "" {
		parts = append(parts, "author_id="+authorID)
	}
	if startDate != "" {
		parts = append(parts, "start="+startDate)
	}
	if endDate != "" {
		parts = append(parts, "end="+endDate)
	}
	return listKeyPrefix + strings.Join(parts, "&")
}

func (c *ArticleCache) GetArticle(ctx context.Context, id string) (*model.Article, bool, error) {
	raw, err := c.client.Get(ctx, c.articleKey(id)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get article failed: %w", err)
	}

	var article model.Article
	if err := json.Unmarshal([]byte(raw), &article); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached article failed: %w", err)
	}
	return &article, true, nil
}

func (c *ArticleCache) SetArticle(ctx context.Context, article *model.Article) error {
	payload, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("marshal article cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.articleKey(article.ID), payload, c.articleTTL).Err(); err != nil {
		return fmt.Errorf("redis set article failed: %w", err)
	}
	return nil
}

func (c *ArticleCache) DeleteArticle(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.articleKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete article failed: %w", err)
	}
	return nil
}

func (c *ArticleCache) GetList(ctx context.Context, key string) (*model.ArticlePage, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get article list failed: %w", err)
	}

	var page model.ArticlePage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached article list failed: %w", err)
	}
	return &page, true, nil
}

func (c *ArticleCache) SetList(ctx context.Context, key string, page *model.ArticlePage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal article list cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.articleTTL).Err(); err != nil {
		return fmt.Errorf("redis set article list failed: %w", err)
	}
	return nil
}

// InvalidateLists deletes every cached listing page. A new or changed
// article can move any page's contents, so there is no targeted variant.
func (c *ArticleCache) InvalidateLists(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, listKeyPrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan article lists failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete article lists failed: %w", err)
	}
	return nil
}

func (c *ArticleCache) articleKey(id string) string {
	return articleKeyPrefix + id
}
