// Package tags contains handlers for the tags endpoint.
package tags

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/requestid"
	"github.com/avelichko/foodgram/internal/env"
	"github.com/avelichko/foodgram/internal/recipe"
)

// ListTags godoc
//
//	@Summary	List all tags.
//	@Tags		Tags
//	@Produce	json
//
//	@Success	200	{array}		recipe.TagView
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags [get]
func ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "listing tags")
	tags, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	views := make([]recipe.TagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, recipe.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// GetTag godoc
//
//	@Summary	Retrieve a single tag.
//	@Tags		Tags
//	@Produce	json
//
//	@Param		id	path		int	true	"Tag ID"
//
//	@Success	200	{object}	recipe.TagView
//	@Failure	404	{object}	apiError.Error	"Tag not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags/{id} [get]
func GetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	tagID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse tag id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "retrieving tag")
	tag, err := env.Database.GetTag(ctx, tagID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(recipe.TagView{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}
