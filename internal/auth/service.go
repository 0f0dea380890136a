package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

var (
	// ErrInvalidCredentials reports a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound reports a missing user id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInput wraps every user validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// Service owns staff accounts: login/logout plus user administration.
type Service struct {
	db     *gorm.DB
	tokens *TokenManager
}

func NewService(db *gorm.DB, tokens *TokenManager) *Service {
	return &Service{db: db, tokens: tokens}
}

// Login verifies the credentials and returns a signed token plus the user.
// A successful login marks the user active and stamps the login time.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(&u)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Model(&u).
		Updates(map[string]any{"active": true, "last_login_at": now}).Error
	if err != nil {
		return "", nil, err
	}
	u.Active = true
	u.LastLoginAt = &now
	return token, &u, nil
}

// Logout clears the user's active flag.
func (s *Service) Logout(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UserInput carries the mutable user fields.
type UserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (in UserInput) validate(requirePassword bool) error {
	if in.Name == "" || in.Email == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if requirePassword && in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}
	return nil
}

// Users returns all staff accounts.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

// User fetches one staff account by id.
func (s *Service) User(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a staff account.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser overwrites a staff account; an empty password keeps the
// current one.
func (s *Service) UpdateUser(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	u, err := s.User(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a staff account.
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
