package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robaadekings/Robert-portifolio-website/internal/config"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/internal/utils"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db            *gorm.DB
	jwtConfig     *config.JWTConfig
	gateway       *media.Gateway
	profileFolder string
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, gateway *media.Gateway, profileFolder string) *AuthService {
	return &AuthService{
		db:            db,
		jwtConfig:     jwtCfg,
		gateway:       gateway,
		profileFolder: profileFolder,
	}
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterAdminRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// AuthResponse is returned by login and admin registration.
type AuthResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

var (
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash     string
	dummyHashOnce sync.Once
)

func getDummyHash() string {
	dummyHashOnce.Do(func() {
		h, err := utils.HashPassword("not-a-real-password")
		if err == nil {
			dummyHash = h
		}
	})
	return dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CheckPassword(req.Password, getDummyHash())
			return nil, response.NewInvalidCredentials()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewInvalidCredentials()
	}

	return s.issue(&user)
}

// RegisterAdmin creates the one admin account. It fails once any admin exists.
func (s *AuthService) RegisterAdmin(req *RegisterAdminRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if err := s.RegistrationOpen(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, response.NewEmailTaken()
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrPasswordTooLong):
			return nil, response.NewValidation(fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
		case errors.Is(err, utils.ErrEmptyPassword):
			return nil, response.NewValidation("password is required")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	slot := 1
	user := models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		AdminSlot: &slot,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration; report which rule it hit.
			if exists, _ := s.adminExists(); exists {
				return nil, response.NewAdminAlreadyExists()
			}
			return nil, response.NewEmailTaken()
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	logger.Info().Uint("user_id", user.ID).Msg("admin account registered")
	return s.issue(&user)
}

// RegistrationOpen fails with AdminAlreadyExists once the admin account has
// been created, regardless of what the caller submitted.
func (s *AuthService) RegistrationOpen() error {
	exists, err := s.adminExists()
	if err != nil {
		return err
	}
	if exists {
		return response.NewAdminAlreadyExists()
	}
	return nil
}

func (s *AuthService) adminExists() (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return count > 0, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Summary()}, nil
}

// VerifyToken checks signature and expiry of a bearer token.
func (s *AuthService) VerifyToken(token string) (*utils.Claims, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, response.NewUnauthorized("invalid or expired token")
	}
	return claims, nil
}

// AuthorizeRole fails with Forbidden unless role equals required.
func AuthorizeRole(role, required string) error {
	if role != required {
		return response.NewForbidden(required + " access required")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUserNotFound()
		}
		return nil, err
	}
	return &user, nil
}

// UploadProfileImage replaces the user's profile picture. The remote asset
// id is fixed per user so a re-upload overwrites the previous image.
func (s *AuthService) UploadProfileImage(ctx context.Context, userID uint, localPath string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	url, err := s.gateway.Upload(ctx, localPath, s.profileFolder, media.UploadOptions{
		PublicID:  fmt.Sprintf("user-%d", user.ID),
		Overwrite: true,
	})
	if err != nil {
		return "", err
	}

	if err := s.db.Model(user).Update("profile_image", url).Error; err != nil {
		return "", fmt.Errorf("save profile image: %w", err)
	}
	return url, nil
}
