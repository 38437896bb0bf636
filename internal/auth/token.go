// Package auth issues and verifies the session tokens that gate the trip and
// profile routes, and carries the verified identity through the request
// context. The identity is an explicit per-request value — there is no
// process-global session state.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// Token kinds embedded in the claims so a refresh token can never pass as an
// access token and vice versa.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// TokenPair is the result of a successful login, registration, or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type sessionClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret and
// token lifetimes.
func NewTokenIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue returns a fresh access/refresh pair for the given user.
func (i *TokenIssuer) Issue(userID uuid.UUID) (TokenPair, error) {
	access, err := i.sign(userID, kindAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth.TokenIssuer.Issue: %w", err)
	}
	refresh, err := i.sign(userID, kindRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth.TokenIssuer.Issue: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns the user identity.
// Returns domain.ErrInvalidCredentials for anything not signed here, expired,
// or of the wrong kind.
func (i *TokenIssuer) VerifyAccess(token string) (uuid.UUID, error) {
	return i.verify(token, kindAccess)
}

// VerifyRefresh validates a refresh token and returns the user identity.
func (i *TokenIssuer) VerifyRefresh(token string) (uuid.UUID, error) {
	return i.verify(token, kindRefresh)
}

func (i *TokenIssuer) sign(userID uuid.UUID, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *TokenIssuer) verify(token, kind string) (uuid.UUID, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("auth.TokenIssuer: %w", domain.ErrInvalidCredentials)
	}
	if claims.Kind != kind {
		return uuid.Nil, fmt.Errorf("auth.TokenIssuer: wrong token kind: %w", domain.ErrInvalidCredentials)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenIssuer: bad subject: %w", domain.ErrInvalidCredentials)
	}
	return userID, nil
}
