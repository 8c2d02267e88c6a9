package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"qrbaker/internal/entities"
	"qrbaker/internal/interfaces"
)

type AuthUsecase struct {
	profiles  interfaces.ProfileRepository
	jwtSecret []byte
}

func NewAuthUsecase(profiles interfaces.ProfileRepository, secret string) *AuthUsecase {
	return &AuthUsecase{
		profiles:  profiles,
		jwtSecret: []byte(secret),
	}
}

// Register creates the auth identity and its profile in one step: every
// profile starts on the free plan with a zero counter.
func (uc *AuthUsecase) Register(ctx context.Context, email, password, displayName string) (*entities.UserProfile, error) {
	existing, err := uc.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	profile := &entities.UserProfile{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hashed),
		Plan:         entities.PlanFree,
		QRCount:      0,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	profile, err := uc.profiles.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", errors.New("invalid credentials")
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password))
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": profile.ID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}
