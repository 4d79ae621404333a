package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/mock/gomock"

	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/dbmock"
)

// fakeTx records transaction outcomes. Statements run through the mocked
// Querier, so the pgx surface below is inert.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return tx, nil }
func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}
func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.rolledBack = true
	return nil
}
func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (tx *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (tx *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (tx *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakePool struct {
	tx *fakeTx
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) { return p.tx, nil }

func strPtr(s string) *string { return &s }
func int32Ptr(i int32) *int32 { return &i }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload WritePayload
		wantErr error
	}{
		{
			name: "valid payload",
			payload: WritePayload{
				CookingTime: int32Ptr(1),
				Ingredients: []LineItem{{IngredientID: 1, Amount: 1}},
			},
			wantErr: nil,
		},
		{
			name:    "no scalars and no items",
			payload: WritePayload{},
			wantErr: nil,
		},
		{
			name: "cooking time below one minute",
			payload: WritePayload{
				CookingTime: int32Ptr(0),
				Ingredients: []LineItem{{IngredientID: 1, Amount: 5}},
			},
			wantErr: ErrCookingTime,
		},
		{
			name: "quantity below one",
			payload: WritePayload{
				CookingTime: int32Ptr(10),
				Ingredients: []LineItem{
					{IngredientID: 1, Amount: 3},
					{IngredientID: 2, Amount: 0},
				},
			},
			wantErr: ErrQuantity,
		},
		{
			name: "cooking time violation reported before quantity",
			payload: WritePayload{
				CookingTime: int32Ptr(-1),
				Ingredients: []LineItem{{IngredientID: 1, Amount: 0}},
			},
			wantErr: ErrCookingTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreate_ValidationFailureWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Pool and no expectations: a validation failure must not touch
	// the database at all.
	mockDB := dbmock.NewMockQuerier(ctrl)
	db := &database.Database{Querier: mockDB}

	_, err := Create(context.Background(), db, 1, WritePayload{
		Name:        strPtr("soup"),
		CookingTime: int32Ptr(0),
	})
	if !errors.Is(err, ErrCookingTime) {
		t.Fatalf("Create() error = %v, want %v", err, ErrCookingTime)
	}
}

func TestCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	tx := &fakeTx{}
	db := &database.Database{Querier: mockDB, Pool: &fakePool{tx: tx}}
	ctx := context.Background()

	mockDB.EXPECT().
		CreateRecipe(gomock.Any(), database.CreateRecipeParams{
			AuthorID:    42,
			Name:        "borscht",
			ImageUrl:    pgtype.Text{String: "/files/recipes/abc.jpg", Valid: true},
			Text:        "simmer",
			CookingTime: 90,
		}).
		Return(int64(7), nil)
	mockDB.EXPECT().
		GetIngredient(gomock.Any(), int64(2)).
		Return(database.Ingredient{ID: 2, Name: "beet", MeasurementUnit: "g"}, nil)
	mockDB.EXPECT().
		CreateAmount(gomock.Any(), database.CreateAmountParams{
			RecipeID:     7,
			IngredientID: 2,
			Amount:       300,
		}).
		Return(nil)
	// Duplicate tag ids collapse to one row.
	mockDB.EXPECT().
		AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 7, TagID: 1}).
		Return(nil)
	mockDB.EXPECT().
		AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 7, TagID: 3}).
		Return(nil)

	recipeID, err := Create(ctx, db, 42, WritePayload{
		Name:        strPtr("borscht"),
		ImageURL:    strPtr("/files/recipes/abc.jpg"),
		Text:        strPtr("simmer"),
		CookingTime: int32Ptr(90),
		Ingredients: []LineItem{{IngredientID: 2, Amount: 300}},
		Tags:        []int64{1, 1, 3},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if recipeID != 7 {
		t.Errorf("Create() id = %d, want 7", recipeID)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}
}

func TestCreate_MissingIngredientRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	tx := &fakeTx{}
	db := &database.Database{Querier: mockDB, Pool: &fakePool{tx: tx}}

	mockDB.EXPECT().
		CreateRecipe(gomock.Any(), gomock.Any()).
		Return(int64(7), nil)
	mockDB.EXPECT().
		GetIngredient(gomock.Any(), int64(99)).
		Return(database.Ingredient{}, pgx.ErrNoRows)

	_, err := Create(context.Background(), db, 42, WritePayload{
		Name:        strPtr("borscht"),
		Text:        strPtr("simmer"),
		CookingTime: int32Ptr(90),
		Ingredients: []LineItem{{IngredientID: 99, Amount: 300}},
	})

	var notFound *IngredientNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Create() error = %v, want IngredientNotFoundError", err)
	}
	if notFound.ID != 99 {
		t.Errorf("missing ingredient id = %d, want 99", notFound.ID)
	}
	if tx.committed {
		t.Error("transaction was committed despite the failure")
	}
	if !tx.rolledBack {
		t.Error("transaction was not rolled back")
	}
}

func TestUpdate_FullReplace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	tx := &fakeTx{}
	db := &database.Database{Querier: mockDB, Pool: &fakePool{tx: tx}}

	// Absent scalars stay null so the partial update keeps prior values.
	update := mockDB.EXPECT().
		UpdateRecipe(gomock.Any(), database.UpdateRecipeParams{
			ID:          7,
			Name:        pgtype.Text{},
			ImageUrl:    pgtype.Text{},
			Text:        pgtype.Text{String: "new text", Valid: true},
			CookingTime: pgtype.Int4{Int32: 45, Valid: true},
		}).
		Return(nil)

	clearAmounts := mockDB.EXPECT().DeleteRecipeAmounts(gomock.Any(), int64(7)).Return(nil)
	getIngredient := mockDB.EXPECT().
		GetIngredient(gomock.Any(), int64(5)).
		Return(database.Ingredient{ID: 5}, nil)
	createAmount := mockDB.EXPECT().
		CreateAmount(gomock.Any(), database.CreateAmountParams{
			RecipeID:     7,
			IngredientID: 5,
			Amount:       2,
		}).
		Return(nil)
	clearTags := mockDB.EXPECT().DeleteRecipeTags(gomock.Any(), int64(7)).Return(nil)
	addTag := mockDB.EXPECT().
		AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 7, TagID: 2}).
		Return(nil)

	// Old collections are cleared before the new set is written.
	gomock.InOrder(update, clearAmounts, getIngredient, createAmount, clearTags, addTag)

	err := Update(context.Background(), db, 7, WritePayload{
		Text:        strPtr("new text"),
		CookingTime: int32Ptr(45),
		Ingredients: []LineItem{{IngredientID: 5, Amount: 2}},
		Tags:        []int64{2},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}
}

func TestUpdate_ValidationFailureWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := dbmock.NewMockQuerier(ctrl)
	db := &database.Database{Querier: mockDB}

	err := Update(context.Background(), db, 7, WritePayload{
		Ingredients: []LineItem{{IngredientID: 5, Amount: 0}},
	})
	if !errors.Is(err, ErrQuantity) {
		t.Fatalf("Update() error = %v, want %v", err, ErrQuantity)
	}
}
