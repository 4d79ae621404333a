package recipe

import (
	"context"
	"fmt"

	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/filestore"
)

// Caller identifies who is reading. Anonymous callers get false for every
// caller-relative field.
type Caller struct {
	ID            int64
	Authenticated bool
}

type TagView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type AuthorView struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type IngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

// View is the full read shape of a recipe.
type View struct {
	ID               int64            `json:"id"`
	Tags             []TagView        `json:"tags"`
	Author           AuthorView       `json:"author"`
	Ingredients      []IngredientView `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int32            `json:"cooking_time"`
}

// ShortView is the compact shape used by favorites, the shopping cart and
// subscription listings.
type ShortView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

// Render projects a recipe row into its full read shape. Caller-relative
// fields are computed against the given caller at render time.
func Render(ctx context.Context, q database.Querier, fs filestore.FileStore, r database.Recipe, caller Caller) (View, error) {
	author, err := q.GetUserByID(ctx, r.AuthorID)
	if err != nil {
		return View{}, fmt.Errorf("resolving author: %w", err)
	}

	tags, err := q.ListRecipeTags(ctx, r.ID)
	if err != nil {
		return View{}, fmt.Errorf("listing tags: %w", err)
	}
	tagViews := make([]TagView, 0, len(tags))
	for _, t := range tags {
		tagViews = append(tagViews, TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}

	amounts, err := q.ListRecipeAmounts(ctx, r.ID)
	if err != nil {
		return View{}, fmt.Errorf("listing line items: %w", err)
	}
	ingredientViews := make([]IngredientView, 0, len(amounts))
	for _, a := range amounts {
		ingredientViews = append(ingredientViews, IngredientView{
			ID:              a.IngredientID,
			Name:            a.Name,
			MeasurementUnit: a.MeasurementUnit,
			Amount:          a.Amount,
		})
	}

	var favorited, inCart, subscribed bool
	if caller.Authenticated {
		favorited, err = q.FavoriteExists(ctx, database.FavoriteExistsParams{
			UserID:   caller.ID,
			RecipeID: r.ID,
		})
		if err != nil {
			return View{}, fmt.Errorf("checking favorite: %w", err)
		}
		inCart, err = q.CartEntryExists(ctx, database.CartEntryExistsParams{
			UserID:   caller.ID,
			RecipeID: r.ID,
		})
		if err != nil {
			return View{}, fmt.Errorf("checking cart: %w", err)
		}
		subscribed, err = q.SubscriptionExists(ctx, database.SubscriptionExistsParams{
			UserID:   caller.ID,
			AuthorID: r.AuthorID,
		})
		if err != nil {
			return View{}, fmt.Errorf("checking subscription: %w", err)
		}
	}

	return View{
		ID:   r.ID,
		Tags: tagViews,
		Author: AuthorView{
			Email:        author.Email,
			ID:           author.ID,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: subscribed,
		},
		Ingredients:      ingredientViews,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            imageURL(fs, r),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}, nil
}

// RenderShort projects a recipe row into the compact shape.
func RenderShort(fs filestore.FileStore, r database.Recipe) ShortView {
	return ShortView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(fs, r),
		CookingTime: r.CookingTime,
	}
}

func imageURL(fs filestore.FileStore, r database.Recipe) string {
	if fs == nil || !r.ImageUrl.Valid {
		return ""
	}
	return fs.FileURL(r.ImageUrl.String)
}
