package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogapi/internal/app"
	"blogapi/internal/transport/http/middleware"
	"blogapi/internal/transport/http/response"
)

type ArticleHandler struct {
	articleService *app.ArticleService
}

type CreateArticleRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"required,min=10"`
	PublishedAt string `json:"published_at" binding:"omitempty"`
}

type UpdateArticleRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,min=10"`
	PublishedAt string `json:"published_at" binding:"omitempty"`
}

type ListArticlesRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	AuthorID  string `form:"authorId" binding:"omitempty"`
	StartDate string `form:"startDate" binding:"omitempty"`
	EndDate   string `form:"endDate" binding:"omitempty"`
}

func NewArticleHandler(articleService *app.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

func (h *ArticleHandler) Create(c *gin.Context) {
	callerID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), app.CreateArticleInput{
		Title:       req.Title,
		Description: req.Description,
		PublishedAt: req.PublishedAt,
	}, callerID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidPublishAt):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create article failed")
		}
		return
	}

	response.OK(c, article)
}

func (h *ArticleHandler) List(c *gin.Context) {
	var req ListArticlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid query parameters")
		return
	}

	page, err := h.articleService.List(c.Request.Context(), app.ListArticlesInput{
		Page:      req.Page,
		Limit:     req.Limit,
		AuthorID:  req.AuthorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidStartDate), errors.Is(err, app.ErrInvalidEndDate):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list articles failed")
		}
		return
	}

	response.OK(c, page)
}

func (h *ArticleHandler) Read(c *gin.Context) {
	id := c.Param("id")

	article, err := h.articleService.Read(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrArticleNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read article failed")
		}
		return
	}

	response.OK(c, article)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	callerID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), c.Param("id"), app.UpdateArticleInput{
		Title:       req.Title,
		Description: req.Description,
		PublishedAt: req.PublishedAt,
	}, callerID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidPublishAt):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrArticleNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrNotArticleAuthor):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		case errors.Is(err, app.ErrVersionConflict):
			response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update article failed")
		}
		return
	}

	response.OK(c, article)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	callerID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	id := c.Param("id")
	if err := h.articleService.Delete(c.Request.Context(), id, callerID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrArticleNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrNotArticleAuthor):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete article failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_article_id": id})
}

func getUserIDFromContext(c *gin.Context) (string, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := userIDAny.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
