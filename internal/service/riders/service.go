package riders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/ridershift/internal/config"
	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
)

const (
	minPasswordLength = 6
	tokenIssuer       = "ridershift"
)

var (
	// ErrInvalidAccount indicates malformed sign-up input.
	ErrInvalidAccount = errors.New("invalid account details")
	// ErrEmailTaken indicates the e-mail is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a bearer token cannot be trusted.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the signed payload of an access token.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service is the rider directory and identity provider.
type Service struct {
	repo   repository.UserStore
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires the rider directory with the token settings from cfg.
func NewService(repo repository.UserStore, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SignUp creates an account with a bcrypt password hash.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest, role models.Role) (models.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.FullName)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return models.User{}, fmt.Errorf("%w: email is malformed", ErrInvalidAccount)
	case name == "":
		return models.User{}, fmt.Errorf("%w: full name is required", ErrInvalidAccount)
	case len(req.Password) < minPasswordLength:
		return models.User{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidAccount, minPasswordLength)
	case role != models.RoleAdmin && role != models.RoleRider:
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidAccount, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           s.newID(),
		Email:        email,
		FullName:     name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.InsertUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("login rejected", zap.String("user_id", user.ID))
		return models.Session{}, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign token: %w", err)
	}

	return models.Session{Token: signed, ExpiresAt: expires.UTC(), User: user}, nil
}

// ParseToken verifies the signature and expiry of a bearer token.
func (s *Service) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves a bearer token to its account.
func (s *Service) CurrentUser(ctx context.Context, token string) (models.User, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ListRiders returns every rider account.
func (s *Service) ListRiders(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx, models.RoleRider)
	if err != nil {
		return nil, fmt.Errorf("list riders: %w", err)
	}
	return users, nil
}

// EnsureAdmin creates the bootstrap administrator unless the e-mail already exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	if email == "" {
		return nil
	}
	_, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	_, err = s.SignUp(ctx, models.SignUpRequest{Email: email, Password: password, FullName: fullName}, models.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
