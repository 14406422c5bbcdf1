// Package auth resolves the caller of a request from a signed bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/config"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   string `json:"uid"`
	Role     string `json:"role"`
	MemberID int64  `json:"member_id,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	issuer string
}

func New(cfg config.Auth) *Authenticator {
	return &Authenticator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Issue signs an HS256 token for caller. The service itself only verifies
// tokens; Issue exists for operators and tests.
func (a *Authenticator) Issue(caller domain.Caller, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:   caller.UserID,
		Role:     string(caller.Role),
		MemberID: caller.MemberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   caller.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("internal.auth.Issue: failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies token and converts its claims into a Caller. Every failure
// is reported as ErrUnauthorized.
func (a *Authenticator) Parse(token string) (domain.Caller, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return a.secret, nil
	}, jwt.WithIssuer(a.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	if !parsed.Valid {
		return domain.Caller{}, apperrors.ErrUnauthorized
	}

	caller := domain.Caller{
		UserID:   claims.UserID,
		Role:     domain.Role(claims.Role),
		MemberID: claims.MemberID,
	}

	if err := checkCaller(caller); err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	return caller, nil
}

func checkCaller(c domain.Caller) error {
	if c.UserID == "" {
		return errors.New("token has no uid")
	}

	switch c.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleMember:
		if c.MemberID <= 0 {
			return errors.New("member token has no member_id")
		}

		return nil
	default:
		return fmt.Errorf("unknown role %q", c.Role)
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func CallerFrom(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(domain.Caller)
	return caller, ok
}
