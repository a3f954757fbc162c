package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNotSelf      = errors.New("you can only modify your own profile")
)

// UserService covers the user-facing profile operations. Deleting a
// user cascades to their articles, so the article cache has to be
// cleaned up here as well.
type UserService struct {
	userStore    UserStore
	articleCache ArticleCache
}

type UpdateUserInput struct {
	Email    string
	Password string
}

func NewUserService(userStore UserStore, articleCache ArticleCache) *UserService {
	return &UserService{
		userStore:    userStore,
		articleCache: articleCache,
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.List()
	if err != nil {
		return nil, err
	}
	for i := range users {
		sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.userStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	sanitizeUser(user)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, patch UpdateUserInput, callerID string) (*model.User, error) {
	user, err := s.userStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.ID != callerID {
		return nil, ErrNotSelf
	}

	fields := map[string]any{}
	if email := strings.TrimSpace(strings.ToLower(patch.Email)); email != "" && email != user.Email {
		existing, err := s.userStore.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailExists
		}
		fields["email"] = email
	}
	if password := strings.TrimSpace(patch.Password); password != "" {
		if len(password) < 6 {
			return nil, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}
		fields["password_hash"] = string(hash)
	}

	if err := s.userStore.Update(id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the user together with their articles, then drops the
// dead article cache entries and the whole listing namespace.
func (s *UserService) Delete(ctx context.Context, id string, callerID string) error {
	user, err := s.userStore.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ID != callerID {
		return ErrNotSelf
	}

	if err := s.userStore.Delete(id); err != nil {
		return err
	}

	for _, article := range user.Articles {
		if err := s.articleCache.DeleteArticle(ctx, article.ID); err != nil {
			return err
		}
	}
	return s.articleCache.InvalidateLists(ctx)
}

func sanitizeUser(user *model.User) {
	user.PasswordHash = ""
	for i := range user.Articles {
		sanitizeArticle(&user.Articles[i])
	}
}
