package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/pkg/auth"
	"github.com/shashiranjanraj/genosys/pkg/event"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"gorm.io/gorm"
)

// AuthService handles account registration and login.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// RegisterInput is the signup payload. Role and discount tier are never
// client-settable; admins are promoted out of band.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a customer account and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	_, err := s.users.FindByEmail(in.Email)
	if err == nil {
		return models.User{}, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("register: hash password: %w", err)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     "customer",
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, "", fmt.Errorf("register: create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("register: sign token: %w", err)
	}

	event.FireAsync(event.UserRegistered, user)
	logger.WithCtx(ctx).Info("user registered", "email", user.Email)
	return user, token, nil
}

// Login verifies credentials and returns the account with a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("login: lookup email: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("login: sign token: %w", err)
	}

	logger.WithCtx(ctx).Info("user logged in", "email", user.Email)
	return user, token, nil
}
