package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/token"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/dbmock"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/log"
)

func testEnv(mockDB *dbmock.MockQuerier) *env.Env {
	return &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: mockDB},
	}
}

func newRequest(t *testing.T, method, target string, body []byte, e *env.Env, userID int64, params map[string]string) *http.Request {
	t.Helper()

	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}

	ctx := env.WithCtx(r.Context(), e)
	if userID != 0 {
		ctx = token.UserIDWithCtx(ctx, userID)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return r.WithContext(ctx)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError.Error {
	t.Helper()
	var e apiError.Error
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return e
}

func authorRow() database.User {
	return database.User{
		ID:        42,
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Anna",
		LastName:  "Ivanova",
	}
}

func authorRecipes(n int) []database.Recipe {
	rows := make([]database.Recipe, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, database.Recipe{ID: int64(i + 1), AuthorID: 42, Name: "dish", CookingTime: 10})
	}
	return rows
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		callerID    int64
		setup       func(mockDB *dbmock.MockQuerier)
		wantStatus  int
		wantMessage string
		wantRecipes int
		wantCount   int64
	}{
		{
			name:     "author missing",
			target:   "/api/users/42/subscribe",
			callerID: 9,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(database.User{}, pgx.ErrNoRows)
			},
			wantStatus:  http.StatusNotFound,
			wantMessage: "user not found",
		},
		{
			name:     "self subscription",
			target:   "/api/users/42/subscribe",
			callerID: 42,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "cannot subscribe to yourself",
		},
		{
			name:     "duplicate subscription",
			target:   "/api/users/42/subscribe",
			callerID: 9,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
				mockDB.EXPECT().
					SubscriptionExists(gomock.Any(), database.SubscriptionExistsParams{UserID: 9, AuthorID: 42}).
					Return(true, nil)
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "already subscribed",
		},
		{
			name:     "successful subscription pages recipes",
			target:   "/api/users/42/subscribe?recipes_limit=3",
			callerID: 9,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
				mockDB.EXPECT().
					SubscriptionExists(gomock.Any(), database.SubscriptionExistsParams{UserID: 9, AuthorID: 42}).
					Return(false, nil)
				mockDB.EXPECT().
					CreateSubscription(gomock.Any(), database.CreateSubscriptionParams{UserID: 9, AuthorID: 42}).
					Return(nil)
				mockDB.EXPECT().
					SubscriptionExists(gomock.Any(), database.SubscriptionExistsParams{UserID: 9, AuthorID: 42}).
					Return(true, nil)
				mockDB.EXPECT().
					ListAuthorRecipes(gomock.Any(), int64(42)).
					Return(authorRecipes(8), nil)
				mockDB.EXPECT().
					CountAuthorRecipes(gomock.Any(), int64(42)).
					Return(int64(8), nil)
			},
			wantStatus:  http.StatusCreated,
			wantRecipes: 3,
			wantCount:   8,
		},
		{
			name:     "recipes_limit below one falls back to default",
			target:   "/api/users/42/subscribe?recipes_limit=0",
			callerID: 9,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
				mockDB.EXPECT().
					SubscriptionExists(gomock.Any(), database.SubscriptionExistsParams{UserID: 9, AuthorID: 42}).
					Return(false, nil)
				mockDB.EXPECT().
					CreateSubscription(gomock.Any(), database.CreateSubscriptionParams{UserID: 9, AuthorID: 42}).
					Return(nil)
				mockDB.EXPECT().
					SubscriptionExists(gomock.Any(), database.SubscriptionExistsParams{UserID: 9, AuthorID: 42}).
					Return(true, nil)
				mockDB.EXPECT().
					ListAuthorRecipes(gomock.Any(), int64(42)).
					Return(authorRecipes(8), nil)
				mockDB.EXPECT().
					CountAuthorRecipes(gomock.Any(), int64(42)).
					Return(int64(8), nil)
			},
			wantStatus:  http.StatusCreated,
			wantRecipes: 6,
			wantCount:   8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := dbmock.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			w := httptest.NewRecorder()
			r := newRequest(t, http.MethodPost, tt.target, nil,
				testEnv(mockDB), tt.callerID, map[string]string{"id": "42"})
			Subscribe(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusCreated {
				if envelope := decodeError(t, w); envelope.Message != tt.wantMessage {
					t.Errorf("message = %q, want %q", envelope.Message, tt.wantMessage)
				}
				return
			}

			var resp SubscriptionResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if !resp.IsSubscribed {
				t.Error("is_subscribed = false, want true")
			}
			if len(resp.Recipes) != tt.wantRecipes {
				t.Errorf("recipes page = %d items, want %d", len(resp.Recipes), tt.wantRecipes)
			}
			if resp.RecipesCount != tt.wantCount {
				t.Errorf("recipes_count = %d, want %d", resp.RecipesCount, tt.wantCount)
			}
		})
	}
}

func TestUnsubscribe_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		DeleteSubscription(gomock.Any(), database.DeleteSubscriptionParams{UserID: 9, AuthorID: 42}).
		Return(int64(0), nil)

	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodDelete, "/api/users/42/subscribe", nil,
		testEnv(mockDB), 9, map[string]string{"id": "42"})
	Unsubscribe(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if envelope := decodeError(t, w); envelope.Code != apiError.SubscriptionNotFound {
		t.Errorf("code = %q, want %q", envelope.Code, apiError.SubscriptionNotFound)
	}
}

func TestGetUser_CallerRelativeSubscription(t *testing.T) {
	tests := []struct {
		name           string
		callerID       int64
		setup          func(mockDB *dbmock.MockQuerier)
		wantSubscribed bool
	}{
		{
			name:     "anonymous caller",
			callerID: 0,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
			},
			wantSubscribed: false,
		},
		{
			name:     "subscribed caller",
			callerID: 9,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
				mockDB.EXPECT().
					SubscriptionExists(gomock.Any(), database.SubscriptionExistsParams{UserID: 9, AuthorID: 42}).
					Return(true, nil)
			},
			wantSubscribed: true,
		},
		{
			name:     "self read skips the relation check",
			callerID: 42,
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetUserByID(gomock.Any(), int64(42)).
					Return(authorRow(), nil)
			},
			wantSubscribed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := dbmock.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			w := httptest.NewRecorder()
			r := newRequest(t, http.MethodGet, "/api/users/42", nil,
				testEnv(mockDB), tt.callerID, map[string]string{"id": "42"})
			GetUser(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var resp ProfileResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.IsSubscribed != tt.wantSubscribed {
				t.Errorf("is_subscribed = %v, want %v", resp.IsSubscribed, tt.wantSubscribed)
			}
		})
	}
}

func TestCreateUser_WeakPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: weak passwords never reach the database.
	mockDB := dbmock.NewMockQuerier(ctrl)

	body, _ := json.Marshal(CreateUserRequest{
		Email:     "user@example.com",
		Username:  "user",
		FirstName: "First",
		LastName:  "Last",
		Password:  "short",
	})
	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodPost, "/api/users", body, testEnv(mockDB), 0, nil)
	CreateUser(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	if envelope := decodeError(t, w); envelope.Code != apiError.WeakPassword {
		t.Errorf("code = %q, want %q", envelope.Code, apiError.WeakPassword)
	}
}
