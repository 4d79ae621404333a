// Package token contains utilities for http tokens.
package token

import (
	"context"
	"errors"
	"net/http"

	"github.com/avelichko/foodgram/internal/config"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/jwt"
)

const (
	accessTokenLifetime = 60 * 60 // 1 hour
)

var ErrNoUserID = errors.New("no user id in context")

type userIDKeyType struct{}

var userIDKey userIDKeyType

// UserIDWithCtx injects the authenticated user's id into a context.
func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx extracts the authenticated user's id from a context.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v, nil
	}
	return 0, ErrNoUserID
}

func AccessTokenName(e *env.Env) string {
	if e.Config.Env == config.EnvProd {
		return "__Host-access"
	}
	return "access"
}

func NewAccessToken(params jwt.JWTParams, e *env.Env) (string, error) {
	if e.Config.AppSecret.Value == nil {
		return "", errors.New("app secret not configured")
	}
	version := e.Config.AppSecret.Version
	if version == "" {
		version = jwt.DefaultKID
	}
	return jwt.GenerateJWT(params, []byte(*e.Config.AppSecret.Value), version)
}

func NewAccessTokenCookie(token string, e *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(e),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   accessTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   e.Config.Env == config.EnvProd,
	}
}
