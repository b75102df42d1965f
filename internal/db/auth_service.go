package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/goalie/internal/auth"
	"github.com/balkashynov/goalie/internal/models"
)

// AuthService registers and logs in users
type AuthService struct {
	db     *gorm.DB
	hasher auth.Hasher
	tokens *auth.Issuer

	// compared against when the email is unknown, so both login failures cost the same
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *gorm.DB, hasher auth.Hasher, tokens *auth.Issuer) *AuthService {
	return &AuthService{db: db, hasher: hasher, tokens: tokens}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns a session for it
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	email = NormalizeEmail(email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("email %s is already registered: %w", email, ErrConflict)
		}
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("email %s is already registered: %w", email, ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.session(user)
}

// Login verifies credentials. Unknown email and wrong password both yield ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = s.hasher.CheckPassword(s.dummy(), password)
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return s.session(user)
}

// GetUserByID returns the public view of a user
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.UserDTO, error) {
	return s.findUser(ctx, "id = ?", id)
}

// GetUserByEmail looks a user up by (normalized) email
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.UserDTO, error) {
	return s.findUser(ctx, "email = ?", NormalizeEmail(email))
}

func (s *AuthService) findUser(ctx context.Context, query string, arg interface{}) (*models.UserDTO, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	dto := user.ToDTO()
	return &dto, nil
}

func (s *AuthService) session(user models.User) (*models.AuthResponse, error) {
	if s.tokens == nil {
		return nil, errors.New("no token issuer configured")
	}
	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user.ToDTO()}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("goalie-dummy-password")
	})
	return s.dummyHash
}
