package app

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/model"
	"blogapi/internal/pkg/jwtutil"
)

type fakeUserStore struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User

	updated map[string]map[string]any
	deleted []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    map[string]*model.User{},
		byEmail: map[string]*model.User{},
		updated: map[string]map[string]any{},
	}
}

func (s *fakeUserStore) add(user *model.User) {
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
}

func (s *fakeUserStore) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = "user-" + time.Now().Format("150405.000000000")
	}
	copied := *user
	s.add(&copied)
	return nil
}

func (s *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByID(id string) (*model.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) List() ([]model.User, error) {
	var users []model.User
	for _, user := range s.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (s *fakeUserStore) Update(id string, fields map[string]any) error {
	s.updated[id] = fields
	user, ok := s.byID[id]
	if !ok {
		return nil
	}
	if email, ok := fields["email"].(string); ok {
		delete(s.byEmail, user.Email)
		user.Email = email
		s.byEmail[email] = user
	}
	if hash, ok := fields["password_hash"].(string); ok {
		user.PasswordHash = hash
	}
	return nil
}

func (s *fakeUserStore) Delete(id string) error {
	s.deleted = append(s.deleted, id)
	if user, ok := s.byID[id]; ok {
		delete(s.byEmail, user.Email)
		delete(s.byID, id)
	}
	return nil
}

const testSecret = "test-secret"

func TestAuthServiceRegister(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, testSecret, time.Hour)

	result, err := service.Register(RegisterInput{Email: "New@Example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.User.Email != "new@example.com" {
		t.Errorf("email = %q, want lowercased new@example.com", result.User.Email)
	}
	if result.User.PasswordHash == "password123" || result.User.PasswordHash == "" {
		t.Error("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	claims, err := jwtutil.ParseToken(testSecret, result.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Email != result.User.Email {
		t.Errorf("token claims = %+v, want id/email of the new user", claims)
	}
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, testSecret, time.Hour)

	if _, err := service.Register(RegisterInput{Email: "dup@example.com", Password: "password123"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := service.Register(RegisterInput{Email: "dup@example.com", Password: "password123"}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("second Register() error = %v, want ErrEmailExists", err)
	}
}

func TestAuthServiceRegisterInvalidInput(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), testSecret, time.Hour)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"empty email", RegisterInput{Password: "password123"}},
		{"empty password", RegisterInput{Email: "a@example.com"}},
		{"short password", RegisterInput{Email: "a@example.com", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Register(tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Register() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAuthServiceLogin(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, testSecret, time.Hour)

	if _, err := service.Register(RegisterInput{Email: "user@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := service.Login(LoginInput{Email: "user@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned an empty token")
	}
}

func TestAuthServiceLoginGenericError(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, testSecret, time.Hour)
	if _, err := service.Register(RegisterInput{Email: "user@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := service.Login(LoginInput{Email: "nobody@example.com", Password: "password123"})
	_, wrongErr := service.Login(LoginInput{Email: "user@example.com", Password: "wrong-password"})

	if !errors.Is(unknownErr, ErrInvalidCredential) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredential", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredential) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredential", wrongErr)
	}
}
