package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/devnet/internal/helpers"
	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	userRepo models.UserRepo
	tokens   *helpers.TokenService
}

func NewUserService(userRepo models.UserRepo, tokens *helpers.TokenService) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates the account and returns a token for it.
func (us *UserService) Register(ctx context.Context, in models.RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := models.ValidateStruct(&in); err != nil {
		return "", err
	}

	if _, err := us.userRepo.GetUserByEmail(ctx, in.Email); err == nil {
		return "", models.ErrUserExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	user, err := us.userRepo.CreateUser(ctx, &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Avatar:   helpers.GravatarURL(in.Email),
		Date:     time.Now(),
	})
	if err != nil {
		return "", err
	}

	return us.tokens.Issue(user.ID.Hex())
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (us *UserService) Login(ctx context.Context, in models.LoginInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := models.ValidateStruct(&in); err != nil {
		return "", err
	}

	user, err := us.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !helpers.CheckPassword(user.Password, in.Password) {
		return "", models.ErrInvalidCredentials
	}

	return us.tokens.Issue(user.ID.Hex())
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}
