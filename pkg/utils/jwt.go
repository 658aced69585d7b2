package utils

import (
	"context"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// UserClaimsKey is the fiber Locals key holding *UserClaims.
const UserClaimsKey contextKey = "user_claims"

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// ApiToken is an upstream token for a single remote API, issued at login.
type ApiToken struct {
	KeyName string `json:"key_name"`
	JWT     string `json:"jwt"`
}

type UserClaims struct {
	UserID      string     `json:"user_id"`
	ChurchID    string     `json:"church_id"`
	Permissions []string   `json:"permissions"`
	ApiTokens   []ApiToken `json:"apis,omitempty"`
	jwt.RegisteredClaims

	// Raw is the encoded token the claims were parsed from.
	Raw string `json:"-"`
}

// HasPermission reports whether perm ("Api.ContentType.Action") was granted.
func (c *UserClaims) HasPermission(perm string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Permissions, perm)
}

// TokenFor returns the upstream token issued for the named API.
func (c *UserClaims) TokenFor(keyName string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, t := range c.ApiTokens {
		if t.KeyName == keyName && t.JWT != "" {
			return t.JWT, true
		}
	}
	return "", false
}

func GenerateToken(userID, churchID string, permissions []string, apis []ApiToken) (string, error) {
	claims := UserClaims{
		UserID:      userID,
		ChurchID:    churchID,
		Permissions: permissions,
		ApiTokens:   apis,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		claims.Raw = tokenString
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}

// WithClaims stores claims on ctx for code that runs outside fiber handlers.
func WithClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims, or nil.
func ClaimsFromContext(ctx context.Context) *UserClaims {
	claims, _ := ctx.Value(UserClaimsKey).(*UserClaims)
	return claims
}
