package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/config"
	identityrepo "github.com/recallerhq/recaller-backend/internal/data/repos/identity"
	tenantrepo "github.com/recallerhq/recaller-backend/internal/data/repos/tenant"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Tenant    string `json:"tenant"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Kind     string    `json:"kind"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error)
	Login(ctx context.Context, input LoginInput) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context) (*types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       config.AuthConfig
	users     identityrepo.UserRepo
	tokens    identityrepo.UserTokenRepo
	tenants   tenantrepo.TenantRepo
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg config.AuthConfig,
	users identityrepo.UserRepo,
	tokens identityrepo.UserTokenRepo,
	tenants tenantrepo.TenantRepo,
) AuthService {
	return &authService{
		db:      db,
		log:     baseLog.With("service", "AuthService"),
		cfg:     cfg,
		users:   users,
		tokens:  tokens,
		tenants: tenants,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user *types.User
	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := s.resolveTenant(ctx, tx, input.Tenant)
		if err != nil {
			return err
		}

		exists, err := s.users.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("email already registered: %w", pkgerr.ErrConflict)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user, err = s.users.Create(ctx, tx, &types.User{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			Email:     email,
			Password:  string(hash),
			FirstName: input.FirstName,
			LastName:  input.LastName,
		})
		if err != nil {
			return err
		}

		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*types.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user *types.User
	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.users.GetByEmail(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("invalid credentials: %w", pkgerr.ErrUnauthorized)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			return fmt.Errorf("invalid credentials: %w", pkgerr.ErrUnauthorized)
		}
		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.Kind != "refresh" {
		return nil, fmt.Errorf("invalid refresh token: %w", pkgerr.ErrUnauthorized)
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := s.tokens.GetByUserID(ctx, tx, claims.UserID)
		if err != nil {
			return fmt.Errorf("no active session: %w", pkgerr.ErrUnauthorized)
		}
		if stored.RefreshToken != refreshToken || time.Now().After(stored.ExpiresAt) {
			return fmt.Errorf("refresh token expired or rotated: %w", pkgerr.ErrUnauthorized)
		}
		user, err := s.users.GetByID(ctx, tx, claims.UserID)
		if err != nil {
			return err
		}
		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteByUserID(ctx, nil, userID)
}

func (s *authService) Me(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.users.GetByID(ctx, nil, rd.UserID)
}

// SetContextFromToken validates an access token and stamps the request
// context with the caller's identity for downstream services.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil || claims.Kind != "access" {
		return ctx, fmt.Errorf("invalid access token: %w", pkgerr.ErrUnauthorized)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		rd = &requestdata.RequestData{}
		ctx = requestdata.WithRequestData(ctx, rd)
	}
	rd.TokenString = tokenString
	rd.UserID = claims.UserID
	rd.TenantID = claims.TenantID
	return ctx, nil
}

func (s *authService) resolveTenant(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error) {
	if slug != "" {
		return s.tenants.GetBySlug(ctx, tx, slug)
	}
	return s.tenants.GetDefault(ctx, tx)
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	now := time.Now()

	access, err := s.signToken(user, "access", now.Add(s.cfg.AccessTokenTTL))
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, "refresh", now.Add(s.cfg.RefreshTokenTTL))
	if err != nil {
		return nil, err
	}

	// One active session per user: a fresh login rotates the stored token.
	stored, err := s.tokens.GetByUserID(ctx, tx, user.ID)
	if err == nil {
		stored.RefreshToken = refresh
		stored.ExpiresAt = now.Add(s.cfg.RefreshTokenTTL)
		if err := s.tokens.Save(ctx, tx, stored); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.tokens.Create(ctx, tx, &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: refresh,
			ExpiresAt:    now.Add(s.cfg.RefreshTokenTTL),
		}); err != nil {
			return nil, err
		}
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) signToken(user *types.User, kind string, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecretKey))
}

func (s *authService) parseToken(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token validation: %w", pkgerr.ErrUnauthorized)
	}
	return &claims, nil
}
