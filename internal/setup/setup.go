// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelichko/foodgram/internal/argon2id"
	"github.com/avelichko/foodgram/internal/config"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/filestore"
	"github.com/avelichko/foodgram/internal/password"
)

// Database creates the connection pool and applies the embedded schema when
// the database is empty.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		conf.Database.User, conf.Database.Password,
		conf.Database.Host, conf.Database.Port, conf.Database.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

// FileStore selects the image store backend from the config.
func FileStore(conf config.Config) (filestore.FileStore, error) {
	switch conf.Filestore.Backend {
	case config.StoreS3:
		return filestore.NewS3(filestore.S3Config{
			Endpoint:  conf.Filestore.S3.Endpoint,
			Bucket:    conf.Filestore.S3.Bucket,
			AccessKey: conf.Filestore.S3.AccessKey,
			SecretKey: conf.Filestore.S3.SecretKey,
			UseSSL:    conf.Filestore.S3.UseSSL,
			KeyPrefix: conf.Filestore.URLPrefix,
			Host:      conf.HostOrigin,
		})
	case config.StoreLocal:
		return filestore.New(conf.Filestore.Volume, conf.Filestore.URLPrefix, conf.HostOrigin), nil
	default:
		return nil, fmt.Errorf("unknown filestore backend %q", conf.Filestore.Backend)
	}
}

// Admin creates or promotes an admin user from ADMIN_EMAIL and
// ADMIN_PASSWORD. Skipped when either is unset.
func Admin(ctx context.Context, e *env.Env) error {
	adminEmail, adminPassword := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		e.Logger.Info("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin setup")
		return nil
	}

	if _, err := mail.ParseAddress(adminEmail); err != nil {
		return fmt.Errorf("parsing admin email: %w", err)
	}

	user, err := e.Database.GetUserByEmail(ctx, adminEmail)
	if err == nil {
		if user.Role == database.RoleAdmin {
			return nil
		}
		e.Logger.InfoContext(ctx, "promoting existing admin user")
		return e.Database.SetUserRole(ctx, database.SetUserRoleParams{
			ID:   user.ID,
			Role: database.RoleAdmin,
		})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("retrieving admin user: %w", err)
	}

	if err := password.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("validating admin password: %w", err)
	}
	passwordHash, err := argon2id.EncodeHash(adminPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	e.Logger.InfoContext(ctx, "creating admin user")
	userID, err := e.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        adminEmail,
		Username:     "admin",
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: passwordHash,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	return e.Database.SetUserRole(ctx, database.SetUserRoleParams{
		ID:   userID,
		Role: database.RoleAdmin,
	})
}
