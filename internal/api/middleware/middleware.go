// Package middleware contains middleware functions for the API.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/requestid"
	"github.com/avelichko/foodgram/internal/api/token"
	"github.com/avelichko/foodgram/internal/config"
	"github.com/avelichko/foodgram/internal/env"
	fgJwt "github.com/avelichko/foodgram/internal/jwt"
	"github.com/avelichko/foodgram/internal/log"
	"github.com/avelichko/foodgram/internal/role"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")

		// In dev mode, allow whatever origin asked; in prod only the
		// configured host origin.
		allowedOrigin := e.Config.HostOrigin
		if e.Config.Env != config.EnvProd && origin != "" {
			allowedOrigin = origin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validateAccessToken parses and validates the access token cookie and
// returns the caller's user id and role.
func validateAccessToken(r *http.Request, e *env.Env) (int64, role.Role, *apiError.Error) {
	ctx := r.Context()
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	newError := func(code apiError.ErrorCode, message string) *apiError.Error {
		return &apiError.Error{
			Code:    code,
			Status:  code.StatusCode(),
			Message: message,
			ErrorID: requestID,
		}
	}

	accessToken, err := r.Cookie(token.AccessTokenName(e))
	if err != nil {
		return 0, role.RoleUnknown, newError(apiError.InvalidAccessToken, "invalid access token")
	}

	if e.Config.AppSecret.Value == nil {
		e.Logger.ErrorContext(ctx, "app secret not configured")
		return 0, role.RoleUnknown, newError(apiError.InternalServerError, "internal server error")
	}
	secretVersion := e.Config.AppSecret.Version
	if secretVersion == "" {
		secretVersion = fgJwt.DefaultKID
	}

	accessJwt, err := fgJwt.ValidateJWT(accessToken.Value, secretVersion, []byte(*e.Config.AppSecret.Value))
	if errors.Is(err, jwt.ErrTokenExpired) {
		e.Logger.ErrorContext(ctx, "access token expired", slog.Any("error", err))
		return 0, role.RoleUnknown, newError(apiError.ExpiredAccessToken, "access token expired")
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "invalid access token", slog.Any("error", err))
		return 0, role.RoleUnknown, newError(apiError.InvalidAccessToken, "invalid access token")
	}

	sub, err := accessJwt.Claims.GetSubject()
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract subject from jwt", slog.Any("error", err))
		return 0, role.RoleUnknown, newError(apiError.InternalServerError, "internal server error")
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		return 0, role.RoleUnknown, newError(apiError.InternalServerError, "internal server error")
	}

	claims, ok := accessJwt.Claims.(jwt.MapClaims)
	if !ok {
		return 0, role.RoleUnknown, newError(apiError.InvalidAccessToken, "invalid access token")
	}
	roleClaim, ok := claims["role"].(string)
	if !ok {
		return 0, role.RoleUnknown, newError(apiError.InvalidAccessToken, "invalid access token")
	}

	return userID, role.ToRole(roleClaim), nil
}

// AuthorizeRequest creates a middleware that validates the access token and
// checks the caller's role. Authorization runs before any request validation.
func AuthorizeRequest(requiredRole role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			e := env.EnvFromCtx(r.Context())

			userID, userRole, authErr := validateAccessToken(r, e)
			if authErr != nil {
				_ = apiError.EncodeError(w, authErr.Code, authErr.Message, authErr.ErrorID)
				return
			}
			if userRole < requiredRole {
				requestID := strconv.FormatUint(requestid.ExtractRequestID(r.Context()), 10)
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}

			r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
			r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))

			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth injects the caller's identity when a valid access token is
// present and lets the request through anonymously otherwise. Read endpoints
// use this so caller-relative fields default to false instead of erroring.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())

		if userID, _, authErr := validateAccessToken(r, e); authErr == nil {
			r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
			r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))
		}

		next.ServeHTTP(w, r)
	})
}
