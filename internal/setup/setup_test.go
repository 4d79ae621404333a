package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	"github.com/avelichko/foodgram/internal/config"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/dbmock"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/log"
)

const validAdminPassword = "SecureP@ssw0rd123!"

func TestAdmin(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, mockDB *dbmock.MockQuerier)
		wantError bool
	}{
		{
			name: "ADMIN_EMAIL not set - skip setup",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)
			},
		},
		{
			name: "ADMIN_PASSWORD not set - skip setup",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
			},
		},
		{
			name: "invalid admin email",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "not-an-email")
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)
			},
			wantError: true,
		},
		{
			name: "admin already exists with admin role - noop",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)

				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "admin@example.com").
					Return(database.User{ID: 1, Role: database.RoleAdmin}, nil)
			},
		},
		{
			name: "existing user is promoted",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)

				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "admin@example.com").
					Return(database.User{ID: 5, Role: database.RoleUser}, nil)
				mockDB.EXPECT().
					SetUserRole(gomock.Any(), database.SetUserRoleParams{ID: 5, Role: database.RoleAdmin}).
					Return(nil)
			},
		},
		{
			name: "weak admin password",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", "weak")

				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "admin@example.com").
					Return(database.User{}, pgx.ErrNoRows)
			},
			wantError: true,
		},
		{
			name: "database error on lookup",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)

				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "admin@example.com").
					Return(database.User{}, errors.New("database error"))
			},
			wantError: true,
		},
		{
			name: "successful admin creation",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)

				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "admin@example.com").
					Return(database.User{}, pgx.ErrNoRows)
				mockDB.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params database.CreateUserParams) (int64, error) {
						if params.Email != "admin@example.com" {
							t.Errorf("expected Email 'admin@example.com', got %q", params.Email)
						}
						if params.Username != "admin" {
							t.Errorf("expected Username 'admin', got %q", params.Username)
						}
						if params.PasswordHash == "" {
							t.Error("password hash should not be empty")
						}
						return int64(9), nil
					})
				mockDB.EXPECT().
					SetUserRole(gomock.Any(), database.SetUserRoleParams{ID: 9, Role: database.RoleAdmin}).
					Return(nil)
			},
		},
		{
			name: "database error on create",
			setup: func(t *testing.T, mockDB *dbmock.MockQuerier) {
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_PASSWORD", validAdminPassword)

				mockDB.EXPECT().
					GetUserByEmail(gomock.Any(), "admin@example.com").
					Return(database.User{}, pgx.ErrNoRows)
				mockDB.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("create user error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := dbmock.NewMockQuerier(ctrl)
			tt.setup(t, mockDB)

			e := &env.Env{
				Logger:   log.NullLogger(),
				Database: &database.Database{Querier: mockDB},
			}

			err := Admin(context.Background(), e)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func configWithBackend(backend string) config.Config {
	return config.Config{
		HostOrigin: "http://localhost:8080",
		Filestore: config.Filestore{
			Backend:   backend,
			Volume:    "/data/files",
			URLPrefix: "/files",
		},
	}
}

func TestFileStore_UnknownBackend(t *testing.T) {
	_, err := FileStore(configWithBackend("ftp"))
	if err == nil {
		t.Fatal("expected error for unknown backend, got nil")
	}
}

func TestFileStore_Local(t *testing.T) {
	fs, err := FileStore(configWithBackend("local"))
	if err != nil {
		t.Fatalf("FileStore() error = %v", err)
	}
	if fs == nil {
		t.Fatal("FileStore() returned nil store")
	}
}
