package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration, login, and bearer token
// verification.
type AuthService interface {
	Register(email, password, firstName, lastName string) (*models.User, string, error)
	Login(email, password string) (*models.User, string, error)
	ParseToken(token string) (string, error)
	GetUser(id string) (*models.User, error)
}

// Claims is the JWT payload for account tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repository.UserRepository
	secretKey []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService signing HS256 tokens with the
// given secret.
func NewAuthService(userRepo repository.UserRepository, secretKey string, tokenTTLDays int) AuthService {
	if tokenTTLDays <= 0 {
		tokenTTLDays = 7
	}
	return &authService{
		userRepo:  userRepo,
		secretKey: []byte(secretKey),
		tokenTTL:  time.Duration(tokenTTLDays) * 24 * time.Hour,
	}
}

func (s *authService) Register(email, password, firstName, lastName string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("INFO: [AuthService] Registered account %s.", user.ID)
	return user, token, nil
}

func (s *authService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ParseToken verifies a bearer token and returns the account ID it carries.
func (s *authService) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidCredentials
	}
	return claims.UserID, nil
}

func (s *authService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *authService) issueToken(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   "access",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
