package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/mock/gomock"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/token"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/dbmock"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/log"
	"github.com/avelichko/foodgram/internal/recipe"
)

func testEnv(mockDB *dbmock.MockQuerier) *env.Env {
	return &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: mockDB},
	}
}

// newRequest builds a request carrying the env, an optional authenticated
// user and chi URL params.
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

func recipeRow() database.Recipe {
	return database.Recipe{
		ID:          7,
		AuthorID:    42,
		Name:        "borscht",
		ImageUrl:    pgtype.Text{String: "/files/recipes/abc.jpg", Valid: true},
		Text:        "simmer",
		CookingTime: 90,
	}
}

func TestAddFavorite(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(mockDB *dbmock.MockQuerier)
		wantStatus  int
		wantCode    apiError.ErrorCode
		wantMessage string
	}{
		{
			name: "recipe missing",
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetRecipe(gomock.Any(), int64(7)).
					Return(database.Recipe{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.RecipeNotFound,
		},
		{
			name: "duplicate favorite",
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetRecipe(gomock.Any(), int64(7)).
					Return(recipeRow(), nil)
				mockDB.EXPECT().
					FavoriteExists(gomock.Any(), database.FavoriteExistsParams{UserID: 9, RecipeID: 7}).
					Return(true, nil)
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    apiError.ValidationError,
			wantMessage: "already in favorites",
		},
		{
			name: "successful favorite",
			setup: func(mockDB *dbmock.MockQuerier) {
				mockDB.EXPECT().
					GetRecipe(gomock.Any(), int64(7)).
					Return(recipeRow(), nil)
				mockDB.EXPECT().
					FavoriteExists(gomock.Any(), database.FavoriteExistsParams{UserID: 9, RecipeID: 7}).
					Return(false, nil)
				mockDB.EXPECT().
					CreateFavorite(gomock.Any(), database.CreateFavoriteParams{UserID: 9, RecipeID: 7}).
					Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := dbmock.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			w := httptest.NewRecorder()
			r := newRequest(t, http.MethodPost, "/api/recipes/7/favorite", nil,
				testEnv(mockDB), 9, map[string]string{"id": "7"})
			AddFavorite(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				envelope := decodeError(t, w)
				if envelope.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", envelope.Code, tt.wantCode)
				}
				if tt.wantMessage != "" && envelope.Message != tt.wantMessage {
					t.Errorf("message = %q, want %q", envelope.Message, tt.wantMessage)
				}
				return
			}

			var short recipe.ShortView
			if err := json.Unmarshal(w.Body.Bytes(), &short); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if short.ID != 7 || short.Name != "borscht" || short.CookingTime != 90 {
				t.Errorf("short view = %+v", short)
			}
		})
	}
}

func TestRemoveFavorite_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		DeleteFavorite(gomock.Any(), database.DeleteFavoriteParams{UserID: 9, RecipeID: 7}).
		Return(int64(0), nil)

	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodDelete, "/api/recipes/7/favorite", nil,
		testEnv(mockDB), 9, map[string]string{"id": "7"})
	RemoveFavorite(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if envelope := decodeError(t, w); envelope.Code != apiError.FavoriteNotFound {
		t.Errorf("code = %q, want %q", envelope.Code, apiError.FavoriteNotFound)
	}
}

func TestAddCartEntry_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		GetRecipe(gomock.Any(), int64(7)).
		Return(recipeRow(), nil)
	mockDB.EXPECT().
		CartEntryExists(gomock.Any(), database.CartEntryExistsParams{UserID: 9, RecipeID: 7}).
		Return(true, nil)

	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodPost, "/api/recipes/7/shopping_cart", nil,
		testEnv(mockDB), 9, map[string]string{"id": "7"})
	AddCartEntry(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	envelope := decodeError(t, w)
	if envelope.Message != "already in shopping cart" {
		t.Errorf("message = %q, want %q", envelope.Message, "already in shopping cart")
	}
}

func TestRemoveCartEntry_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		DeleteCartEntry(gomock.Any(), database.DeleteCartEntryParams{UserID: 9, RecipeID: 7}).
		Return(int64(0), nil)

	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodDelete, "/api/recipes/7/shopping_cart", nil,
		testEnv(mockDB), 9, map[string]string{"id": "7"})
	RemoveCartEntry(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if envelope := decodeError(t, w); envelope.Code != apiError.CartEntryNotFound {
		t.Errorf("code = %q, want %q", envelope.Code, apiError.CartEntryNotFound)
	}
}

func TestGetRecipe_AnonymousRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		GetRecipe(gomock.Any(), int64(7)).
		Return(recipeRow(), nil)
	mockDB.EXPECT().
		GetUserByID(gomock.Any(), int64(42)).
		Return(database.User{ID: 42, Email: "chef@example.com", Username: "chef"}, nil)
	mockDB.EXPECT().
		ListRecipeTags(gomock.Any(), int64(7)).
		Return([]database.Tag{}, nil)
	mockDB.EXPECT().
		ListRecipeAmounts(gomock.Any(), int64(7)).
		Return([]database.ListRecipeAmountsRow{}, nil)

	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodGet, "/api/recipes/7", nil,
		testEnv(mockDB), 0, map[string]string{"id": "7"})
	GetRecipe(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var view recipe.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if view.IsFavorited || view.IsInShoppingCart {
		t.Errorf("anonymous flags = (%v, %v), want (false, false)",
			view.IsFavorited, view.IsInShoppingCart)
	}
}

func TestUpdateRecipe_NotOwned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		GetRecipe(gomock.Any(), int64(7)).
		Return(recipeRow(), nil) // author 42, caller 9

	body, _ := json.Marshal(UpdateRecipeRequest{
		Ingredients: []IngredientItem{{ID: 1, Amount: 2}},
		Tags:        []int64{1},
	})
	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodPatch, "/api/recipes/7", body,
		testEnv(mockDB), 9, map[string]string{"id": "7"})
	UpdateRecipe(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if envelope := decodeError(t, w); envelope.Code != apiError.RecipeNotOwned {
		t.Errorf("code = %q, want %q", envelope.Code, apiError.RecipeNotOwned)
	}
}

func TestCreateRecipe_CookingTimeValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: the domain validation must reject the payload
	// before anything is written.
	mockDB := dbmock.NewMockQuerier(ctrl)

	body, _ := json.Marshal(map[string]any{
		"ingredients":  []map[string]any{{"id": 1, "amount": 5}},
		"tags":         []int64{1},
		"name":         "borscht",
		"text":         "simmer",
		"cooking_time": 0,
	})
	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodPost, "/api/recipes", body,
		testEnv(mockDB), 9, nil)
	CreateRecipe(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	envelope := decodeError(t, w)
	if envelope.Message != "cooking time may not be less than 1 minute" {
		t.Errorf("message = %q, want the cooking time rule", envelope.Message)
	}
}

func TestDownloadShoppingCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	mockDB.EXPECT().
		ListCartIngredients(gomock.Any(), int64(9)).
		Return([]database.ListCartIngredientsRow{
			{Name: "beet", MeasurementUnit: "g", Total: 500},
			{Name: "onion", MeasurementUnit: "pcs", Total: 3},
		}, nil)

	w := httptest.NewRecorder()
	r := newRequest(t, http.MethodGet, "/api/recipes/download_shopping_cart", nil,
		testEnv(mockDB), 9, nil)
	DownloadShoppingCart(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := "beet (g) - 500\nonion (pcs) - 3\n"
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="shopping_cart.txt"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
