package http

import (
	"errors"
	"net/http"
	"strings"

	"fooddispatch/internal/generated/servers"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const identityKey = "dispatch.identity"

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Identity is the authenticated caller. Tokens are issued by the users
// service; this service only verifies them.
type Identity struct {
	UserID  string
	IsAdmin bool
}

type identityClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// ParseToken validates an HS256 token and returns its identity. The subject
// claim carries the user id.
func ParseToken(tokenStr string, secret []byte) (Identity, error) {
	if len(secret) == 0 {
		return Identity{}, errors.New("jwt secret is empty")
	}

	claims := &identityClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, err
	}
	if !tok.Valid {
		return Identity{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidClaims
	}

	return Identity{UserID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's Identity on the echo context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return unauthorized(ctx, ErrMissingToken)
			}

			identity, err := ParseToken(strings.TrimSpace(token), secret)
			if err != nil {
				return unauthorized(ctx, err)
			}

			ctx.Set(identityKey, identity)
			return next(ctx)
		}
	}
}

// IdentityFrom returns the caller stored by JWTAuth.
func IdentityFrom(ctx echo.Context) (Identity, bool) {
	identity, ok := ctx.Get(identityKey).(Identity)
	return identity, ok
}

func unauthorized(ctx echo.Context, err error) error {
	ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="fooddispatch"`)
	return ctx.JSON(http.StatusUnauthorized, servers.Error{
		Code:    http.StatusUnauthorized,
		Message: "Unauthorized: " + err.Error(),
	})
}
