// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/avelichko/foodgram/internal/config"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/filestore"
	"github.com/avelichko/foodgram/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  *database.Database
	FileStore filestore.FileStore
	Config    config.Config
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into a context.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx extracts the environment from a context. A null environment is
// returned if none was injected.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok {
		return env
	}
	return Null()
}

func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}
