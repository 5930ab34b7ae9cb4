package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidalink/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrMissingUserID = errors.New("jwt claims missing user id")
)

// userClaims acepta tokens del backend principal (user_id) o estándar (sub).
type userClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

type Config struct {
	Secret string
	Issuer string // opcional: si viene, se exige
}

// Verifier implementa auth.AuthVerifier con HS256.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{secret: []byte(cfg.Secret), issuer: strings.TrimSpace(cfg.Issuer)}
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c userClaims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("jwt verify failed: %w", err)
	}

	uid := strings.TrimSpace(c.UserID)
	if uid == "" {
		uid = strings.TrimSpace(c.Subject)
	}
	if uid == "" {
		return auth.Claims{}, ErrMissingUserID
	}

	return auth.Claims{UserID: uid, Email: c.Email, TenantID: c.TenantID}, nil
}

// Issuer firma tokens de desarrollo (CLI `token`) con el mismo secreto.
type Issuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{secret: []byte(cfg.Secret), issuer: strings.TrimSpace(cfg.Issuer), now: time.Now}
}

func (i *Issuer) Issue(claims auth.Claims, ttl time.Duration) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return "", ErrMissingUserID
	}

	now := i.now()
	c := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   claims.UserID,
		Email:    claims.Email,
		TenantID: claims.TenantID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}
