package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Strob0t/StayForge/internal/config"
	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/port/database"
	"github.com/Strob0t/StayForge/internal/port/identity"
)

const (
	tokenAudience = "stayforge"
	tokenIssuer   = "stayforge-api"
)

// AuthService handles backoffice authentication and JWT tokens.
// Credentials live in the identity provider; the profile row carries
// role and status.
type AuthService struct {
	store  database.Store
	ids    identity.Provider
	cfg    *config.Auth
	secret []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store, ids identity.Provider, cfg *config.Auth) *AuthService {
	return &AuthService{
		store:  store,
		ids:    ids,
		cfg:    cfg,
		secret: []byte(cfg.JWTSecret),
	}
}

// Login authenticates a backoffice user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req backoffice.LoginRequest) (*backoffice.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	id, err := s.ids.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	u, err := s.store.GetBackofficeUser(ctx, id.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Identity without a profile: half-provisioned account.
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !u.Active() {
		return nil, fmt.Errorf("%w: account is inactive", domain.ErrUnauthorized)
	}

	accessToken, err := s.signJWT(u)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	now := time.Now().UTC()
	if err := s.store.TouchBackofficeLogin(ctx, u.ID, now); err != nil {
		slog.Warn("failed to record last login", "user_id", u.ID, "error", err)
	}
	u.LastLoginAt = &now

	return &backoffice.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.cfg.AccessTokenExpiry.Seconds()),
		User:        *u,
	}, nil
}

// ChangePassword verifies the caller's current password and replaces
// it. The caller comes from the authenticated request context.
func (s *AuthService) ChangePassword(ctx context.Context, caller *backoffice.User, req backoffice.ChangePasswordRequest) error {
	if caller == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if _, err := s.ids.VerifyPassword(ctx, caller.Email, req.CurrentPassword); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("%w: current password is incorrect", domain.ErrUnauthorized)
		}
		return fmt.Errorf("verify password: %w", err)
	}

	if err := s.ids.UpdatePassword(ctx, caller.Email, req.NewPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Me returns the caller's current profile from the store, so role and
// status changes show up before the token expires.
func (s *AuthService) Me(ctx context.Context, caller *backoffice.User) (*backoffice.User, error) {
	if caller == nil {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	u, err := s.store.GetBackofficeUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ValidateAccessToken verifies a JWT and returns the claims.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*backoffice.TokenClaims, error) {
	return s.verifyJWT(tokenStr)
}

// --- JWT implementation (HS256 with stdlib) ---

// jwtHeader is the fixed base64url-encoded header for HS256.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (s *AuthService) signJWT(u *backoffice.User) (string, error) {
	now := time.Now()
	claims := backoffice.TokenClaims{
		UserID:   u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(s.cfg.AccessTokenExpiry).Unix(),
		Audience: tokenAudience,
		Issuer:   tokenIssuer,
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payloadB64 := base64URLEncode(payload)
	signingInput := jwtHeader + "." + payloadB64

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	sig := base64URLEncode(mac.Sum(nil))

	return signingInput + "." + sig, nil
}

func (s *AuthService) verifyJWT(tokenStr string) (*backoffice.TokenClaims, error) {
	parts := strings.SplitN(tokenStr, ".", 3)
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	expectedSig := base64URLEncode(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return nil, errors.New("invalid signature")
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var claims backoffice.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	if time.Now().Unix() > claims.Expiry {
		return nil, errors.New("token expired")
	}

	if claims.Audience != tokenAudience {
		return nil, errors.New("invalid token audience")
	}
	if claims.Issuer != tokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	return &claims, nil
}

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// Add padding back
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
