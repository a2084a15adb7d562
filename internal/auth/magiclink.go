// Package auth implements passwordless sign-in: short-lived magic-link
// tokens delivered by email, exchanged for long-lived database sessions.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// MagicLinkTTL is how long a sign-in link stays valid.
const MagicLinkTTL = 15 * time.Minute

// magicLinkEnv holds raw env values before post-parse validation.
type magicLinkEnv struct {
	Secret   string `env:"FRAME_AUTH_SECRET"`
	Issuer   string `env:"FRAME_AUTH_ISSUER" envDefault:"frame"`
	Audience string `env:"FRAME_AUTH_AUDIENCE" envDefault:"frame-web"`
}

// MagicLinkConfig defines how magic-link tokens are signed and verified.
type MagicLinkConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
	Now      func() time.Time
}

// MagicLinkClaims captures the validated identity inside a sign-in link.
type MagicLinkClaims struct {
	Email     string
	ExpiresAt time.Time
	JWTID     string
}

// magicLinkClaims is the internal claims type used for JWT parsing.
type magicLinkClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// LoadMagicLinkConfigFromEnv reads magic-link signing configuration.
func LoadMagicLinkConfigFromEnv(now func() time.Time) (MagicLinkConfig, error) {
	var raw magicLinkEnv
	if err := env.Parse(&raw); err != nil {
		return MagicLinkConfig{}, fmt.Errorf("parse auth env: %w", err)
	}
	secret := strings.TrimSpace(raw.Secret)
	if secret == "" {
		return MagicLinkConfig{}, fmt.Errorf("FRAME_AUTH_SECRET is required")
	}
	if now == nil {
		now = time.Now
	}
	return MagicLinkConfig{
		Issuer:   raw.Issuer,
		Audience: raw.Audience,
		Secret:   []byte(secret),
		Now:      now,
	}, nil
}

// IssueMagicLink signs a token asserting the given email for MagicLinkTTL.
func IssueMagicLink(email string, cfg MagicLinkConfig) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", errors.New("magic link signer is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	now := cfg.Now().UTC()

	claims := magicLinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(MagicLinkTTL)),
			ID:        uuid.NewString(),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign magic link: %w", err)
	}
	return signed, nil
}

// ValidateMagicLink verifies a sign-in token and returns its claims.
func ValidateMagicLink(token string, cfg MagicLinkConfig) (MagicLinkClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.Secret) == 0 {
		return MagicLinkClaims{}, errors.New("magic link verifier is not configured")
	}

	var parsed magicLinkClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return MagicLinkClaims{}, mapJWTError(err)
	}

	if cfg.Issuer != "" && parsed.Issuer != cfg.Issuer {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token issuer mismatch")
	}
	if cfg.Audience != "" && !audienceContains(parsed.Audience, cfg.Audience) {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token audience mismatch")
	}
	if parsed.ID == "" {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token jti is required")
	}
	if strings.TrimSpace(parsed.Email) == "" {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token email is required")
	}
	if parsed.ExpiresAt == nil {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return MagicLinkClaims{}, apperrors.New(apperrors.CodeAuthTokenExpired, "sign-in token is expired")
	}

	return MagicLinkClaims{
		Email:     parsed.Email,
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token alg is invalid")
	}
	return apperrors.New(apperrors.CodeAuthTokenInvalid, "sign-in token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}
