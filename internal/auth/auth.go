// Package auth verifies the HS256 bearer tokens API callers present and carries the
// tenant and user they name through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies the caller of a request.
type Claims struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// Sign issues a token for c that expires after ttl.
func Sign(secret []byte, c Claims, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       c.UserID.String(),
		"tenant_id": c.TenantID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims. Both the
// tenant_id and sub claims must be UUIDs.
func Verify(secret []byte, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mapc["sub"].(string)
	tenant, _ := mapc["tenant_id"].(string)

	userID, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: sub is not a user id", ErrInvalidToken)
	}

	tenantID, err := uuid.Parse(tenant)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: tenant_id is not a tenant id", ErrInvalidToken)
	}

	return Claims{TenantID: tenantID, UserID: userID}, nil
}

type ctxKey struct{}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the claims stored by WithClaims, or zero claims.
func FromContext(ctx context.Context) Claims {
	if c, ok := ctx.Value(ctxKey{}).(Claims); ok {
		return c
	}

	return Claims{}
}

func TenantID(ctx context.Context) uuid.UUID {
	return FromContext(ctx).TenantID
}

func UserID(ctx context.Context) uuid.UUID {
	return FromContext(ctx).UserID
}
