package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/internal/upstream"
	"github.com/campusgate/gatepass-api/pkg/config"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

// AuthService issues and validates session tokens. The token is a role+id
// marker, not a security boundary: verification only gates which role
// surface a caller may use.
type AuthService struct {
	store     *store.Store
	upstream  *upstream.Client
	validator *validator.Validate
	logger    *zap.Logger
	config    config.AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(st *store.Store, up *upstream.Client, validate *validator.Validate, logger *zap.Logger, cfg config.AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{store: st, upstream: up, validator: validate, logger: logger, config: cfg}
}

// Login authenticates a caller and returns an issued token. When an
// upstream backend is configured the credential check is forwarded there
// first; a transport failure falls back to the seeded credential table.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "please enter credentials")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if s.upstream.Enabled() {
		res, err := s.upstream.Login(ctx, req)
		if err == nil {
			return res, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.logger.Warn("upstream login unavailable, using local credentials", zap.Error(err))
	}

	name, err := s.checkCredentials(req)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	token, err := s.generateToken(req.Role, req.UserID, name, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", req.UserID),
		zap.String("role", string(req.Role)))

	return &models.LoginResponse{
		Token:     token,
		UserID:    req.UserID,
		Role:      req.Role,
		Name:      name,
		ExpiresIn: int64(s.config.Expiration.Seconds()),
		IssuedAt:  issuedAt,
	}, nil
}

// checkCredentials resolves the caller's display name. Seeded credentials
// are matched first; open mode then accepts any non-empty pair, mirroring
// the legacy preview login.
func (s *AuthService) checkCredentials(req models.LoginRequest) (string, error) {
	if cred, ok := s.store.FindCredential(req.Role, req.UserID); ok {
		if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)) == nil {
			return cred.Name, nil
		}
	}

	if s.config.OpenMode {
		return openModeName(req.Role), nil
	}

	return "", appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
}

// ValidateToken parses and validates a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(role models.UserRole, userID, name string, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID: userID,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func openModeName(role models.UserRole) string {
	r := string(role)
	if r == "" {
		return "User"
	}
	return strings.ToUpper(r[:1]) + r[1:] + " User"
}
