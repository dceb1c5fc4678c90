package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"i18n_portal/internal/logger"
	"i18n_portal/internal/models"
	"i18n_portal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUserExists      = errors.New("username already taken")
	ErrInvalidUsername = errors.New("username is empty")
	ErrEmptyPassword   = errors.New("password is empty")
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
)

// AuthService handles user auth logic
type AuthService struct {
	authRepo   repository.Authorization
	auditRepo  repository.AuditRepo
	log        *logger.Logger
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo repository.Authorization, audit repository.AuditRepo, log *logger.Logger, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		authRepo:   repo,
		auditRepo:  audit,
		log:        log,
		signingKey: []byte(secret),
		tokenTTL:   ttl,
	}
}

// Claims defines JWT claims; the subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// Login validates credentials and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Token, error) {
	username = normalizeUsername(username)
	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return models.Token{}, err
	}
	if u == nil {
		s.loginFailed(ctx, username, "unknown user")
		return models.Token{}, ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		s.loginFailed(ctx, username, "wrong password")
		return models.Token{}, ErrInvalidPassword
	}

	access, err := s.issueToken(u.Username)
	if err != nil {
		return models.Token{}, err
	}
	return models.Token{AccessToken: access, TokenType: models.TokenTypeBearer}, nil
}

// ParseToken verifies the JWT and returns the identity it carries. A valid
// token without a subject yields an unresolved TokenData.
func (s *AuthService) ParseToken(accessToken string) (models.TokenData, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return models.TokenData{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.TokenData{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return models.TokenData{}, nil
	}
	username := claims.Subject
	return models.TokenData{Username: &username}, nil
}

// CurrentUser resolves token data to the stored account.
func (s *AuthService) CurrentUser(ctx context.Context, data models.TokenData) (*models.UserRecord, error) {
	if !data.Resolved() {
		return nil, ErrInvalidToken
	}
	u, err := s.authRepo.GetByUsername(ctx, *data.Username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// CreateUser hashes the password and stores a regular (non-admin) account.
func (s *AuthService) CreateUser(ctx context.Context, actor string, in models.UserCreate) (models.User, error) {
	username := normalizeUsername(in.Username)
	if username == "" {
		return models.User{}, ErrInvalidUsername
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	id, err := s.authRepo.Create(ctx, username, hash, false)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}

	rec := models.UserRecord{ID: id, Username: username}
	recordAudit(ctx, s.auditRepo, s.log, models.AuditEvent{
		Type:        models.AuditUserCreated,
		Actor:       actor,
		Description: fmt.Sprintf("created user %s", username),
		Metadata:    map[string]any{"user_id": id},
	})
	return rec.Public(), nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string) {
	recordAudit(ctx, s.auditRepo, s.log, models.AuditEvent{
		Type:        models.AuditLoginFailed,
		Actor:       username,
		Description: reason,
	})
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// normalizeUsername is applied on every path that stores or looks up a name.
func normalizeUsername(name string) string {
	return strings.TrimSpace(name)
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}
