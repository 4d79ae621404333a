// Package recipe implements the recipe aggregate: validation, transactional
// create/update with full line-item replacement, and the read-shape
// projection.
package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/avelichko/foodgram/internal/database"
)

var (
	ErrCookingTime = errors.New("cooking time may not be less than 1 minute")
	ErrQuantity    = errors.New("ingredient quantity may not be less than 1")
)

// IngredientNotFoundError reports a line item referencing a missing
// ingredient.
type IngredientNotFoundError struct {
	ID int64
}

func (e *IngredientNotFoundError) Error() string {
	return fmt.Sprintf("ingredient %d does not exist", e.ID)
}

// LineItem is one (ingredient, quantity) pair of the write shape.
type LineItem struct {
	IngredientID int64
	Amount       int32
}

// WritePayload is the write shape of a recipe. Nil scalar fields are absent
// from the request; on update they keep their prior values.
type WritePayload struct {
	Name        *string
	ImageURL    *string
	Text        *string
	CookingTime *int32
	Ingredients []LineItem
	Tags        []int64
}

// Validate enforces the write invariants, in order: cooking time first, then
// every line item quantity. The first violation aborts.
func (p WritePayload) Validate() error {
	if p.CookingTime != nil && *p.CookingTime < 1 {
		return ErrCookingTime
	}
	for _, item := range p.Ingredients {
		if item.Amount < 1 {
			return ErrQuantity
		}
	}
	return nil
}

// Create persists a recipe with its line items and tags as one atomic unit.
// Validation runs before any row is written; an unresolvable ingredient
// rolls the whole transaction back.
func Create(ctx context.Context, db *database.Database, authorID int64, p WritePayload) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	q := db.Tx(tx)

	recipeID, err := q.CreateRecipe(ctx, database.CreateRecipeParams{
		AuthorID:    authorID,
		Name:        derefString(p.Name),
		ImageUrl:    textOrNull(p.ImageURL),
		Text:        derefString(p.Text),
		CookingTime: derefInt32(p.CookingTime),
	})
	if err != nil {
		return 0, fmt.Errorf("creating recipe: %w", err)
	}

	if err := insertLineItems(ctx, q, recipeID, p.Ingredients); err != nil {
		return 0, err
	}
	if err := assignTags(ctx, q, recipeID, p.Tags); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return recipeID, nil
}

// Update applies the payload to an existing recipe. Scalars are replaced
// only where present; the line-item collection and the tag set are discarded
// and replaced wholesale. Runs inside one transaction so a failure partway
// through leaves the prior state intact.
func Update(ctx context.Context, db *database.Database, recipeID int64, p WritePayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	q := db.Tx(tx)

	err = q.UpdateRecipe(ctx, database.UpdateRecipeParams{
		ID:          recipeID,
		Name:        textOrNull(p.Name),
		ImageUrl:    textOrNull(p.ImageURL),
		Text:        textOrNull(p.Text),
		CookingTime: int4OrNull(p.CookingTime),
	})
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}

	if err := q.DeleteRecipeAmounts(ctx, recipeID); err != nil {
		return fmt.Errorf("clearing line items: %w", err)
	}
	if err := insertLineItems(ctx, q, recipeID, p.Ingredients); err != nil {
		return err
	}

	if err := q.DeleteRecipeTags(ctx, recipeID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	if err := assignTags(ctx, q, recipeID, p.Tags); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// insertLineItems resolves each referenced ingredient and writes one amount
// row per line item.
func insertLineItems(ctx context.Context, q database.Querier, recipeID int64, items []LineItem) error {
	for _, item := range items {
		ingredient, err := q.GetIngredient(ctx, item.IngredientID)
		if errors.Is(err, pgx.ErrNoRows) {
			return &IngredientNotFoundError{ID: item.IngredientID}
		} else if err != nil {
			return fmt.Errorf("resolving ingredient %d: %w", item.IngredientID, err)
		}

		err = q.CreateAmount(ctx, database.CreateAmountParams{
			RecipeID:     recipeID,
			IngredientID: ingredient.ID,
			Amount:       item.Amount,
		})
		if err != nil {
			return fmt.Errorf("creating amount: %w", err)
		}
	}
	return nil
}

// assignTags writes the full tag set. Duplicate ids collapse to one row.
func assignTags(ctx context.Context, q database.Querier, recipeID int64, tags []int64) error {
	seen := make(map[int64]bool, len(tags))
	for _, tagID := range tags {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true

		err := q.AddRecipeTag(ctx, database.AddRecipeTagParams{
			RecipeID: recipeID,
			TagID:    tagID,
		})
		if err != nil {
			return fmt.Errorf("assigning tag %d: %w", tagID, err)
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt32(i *int32) int32 {
	if i == nil {
		return 0
	}
	return *i
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func int4OrNull(i *int32) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *i, Valid: true}
}
