// Package users contains handlers for the users endpoint.
package users

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apiError "github.com/avelichko/foodgram/internal/api/error"
	"github.com/avelichko/foodgram/internal/api/requestid"
	"github.com/avelichko/foodgram/internal/api/token"
	"github.com/avelichko/foodgram/internal/argon2id"
	"github.com/avelichko/foodgram/internal/database"
	"github.com/avelichko/foodgram/internal/env"
	fgJson "github.com/avelichko/foodgram/internal/json"
	fgJwt "github.com/avelichko/foodgram/internal/jwt"
	"github.com/avelichko/foodgram/internal/pagination"
	"github.com/avelichko/foodgram/internal/password"
	"github.com/avelichko/foodgram/internal/recipe"
	"github.com/avelichko/foodgram/internal/role"
)

const (
	uniqueViolation = "23505"

	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

// CreateUser godoc
//
//	@Summary	Register a user.
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//
//	@Param		request	body		CreateUserRequest	true	"Registration payload"
//
//	@Success	201		{object}	ProfileResponse
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	409		{object}	apiError.Error	"Email or username already taken"
//	@Failure	422		{object}	apiError.Error	"Weak password"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [post]
func CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Read request
	env.Logger.DebugContext(ctx, "decoding request")
	var request CreateUserRequest
	if err := fgJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}

	// Validate password strength
	if err := password.ValidatePassword(request.Password); err != nil {
		env.Logger.ErrorContext(ctx, "weak password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}

	env.Logger.DebugContext(ctx, "hashing password")
	passwordHash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "creating user")
	userID, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case emailConstraint:
				_ = apiError.EncodeError(w, apiError.EmailConflict, "email already taken", requestID)
			case usernameConstraint:
				_ = apiError.EncodeError(w, apiError.UsernameConflict, "username already taken", requestID)
			default:
				_ = apiError.EncodeError(w, apiError.ValidationError, "user already exists", requestID)
			}
			return
		}
		env.Logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ProfileResponse{
		Email:     request.Email,
		ID:        userID,
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// Login godoc
//
//	@Summary	Authenticate and receive the access token cookie.
//	@Tags		Users, Auth
//	@Accept		json
//
//	@Param		request	body	LoginRequest	true	"Credentials"
//
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Validation error"
//	@Failure	401	{object}	apiError.Error	"Invalid credentials"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Read request
	env.Logger.DebugContext(ctx, "decoding request")
	var request LoginRequest
	if err := fgJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ValidationError, "invalid request body", requestID)
		return
	}

	// Retrieve user
	env.Logger.DebugContext(ctx, "retrieving user")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid credentials", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Compare password
	env.Logger.DebugContext(ctx, "comparing password")
	argonParams, argonSalt, trueHash, err := argon2id.DecodeHash(user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	givenHash := argon2id.HashWithSalt(request.Password, *argonParams, argonSalt)
	if subtle.ConstantTimeCompare(givenHash, trueHash) == 0 {
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid credentials", requestID)
		return
	}

	// Issue access token
	env.Logger.DebugContext(ctx, "issuing access token")
	accessToken, err := token.NewAccessToken(fgJwt.JWTParams{
		Role:   role.DBToRole(user.Role).String(),
		UserID: strconv.FormatInt(user.ID, 10),
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))
	w.WriteHeader(http.StatusNoContent)
}

// GetMe godoc
//
//	@Summary	Retrieve the caller's own profile.
//	@Tags		Users
//	@Produce	json
//
//	@Success	200	{object}	ProfileResponse
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/me [get]
func GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "retrieving user")
	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(profile(user, false)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// GetUser godoc
//
//	@Summary	Retrieve a user profile with caller-relative is_subscribed.
//	@Tags		Users
//	@Produce	json
//
//	@Param		id	path		int	true	"User ID"
//
//	@Success	200	{object}	ProfileResponse
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users/{id} [get]
func GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	user, ok := userFromPath(w, r)
	if !ok {
		return
	}

	subscribed := false
	if callerID, err := token.UserIDFromCtx(ctx); err == nil && callerID != user.ID {
		subscribed, err = env.Database.SubscriptionExists(ctx, database.SubscriptionExistsParams{
			UserID:   callerID,
			AuthorID: user.ID,
		})
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(profile(user, subscribed)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// Subscribe godoc
//
//	@Summary	Subscribe to an author.
//	@Description	Responds with the author profile, the first page of their
//	@Description	recipes (size from recipes_limit, default 6) and the total
//	@Description	recipe count.
//	@Tags		Users, Subscriptions
//	@Produce	json
//
//	@Param		id				path		int	true	"Author ID"
//	@Param		recipes_limit	query		int	false	"First page size"
//
//	@Success	201				{object}	SubscriptionResponse
//	@Failure	400				{object}	apiError.Error	"Self-subscription or duplicate"
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Failure	404				{object}	apiError.Error	"User not found"
//	@Failure	500				{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/{id}/subscribe [post]
func Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	author, ok := userFromPath(w, r)
	if !ok {
		return
	}

	if author.ID == userID {
		_ = apiError.EncodeError(w, apiError.ValidationError, "cannot subscribe to yourself", requestID)
		return
	}

	exists, err := env.Database.SubscriptionExists(ctx, database.SubscriptionExistsParams{
		UserID:   userID,
		AuthorID: author.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if exists {
		_ = apiError.EncodeError(w, apiError.ValidationError, "already subscribed", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating subscription")
	err = env.Database.CreateSubscription(ctx, database.CreateSubscriptionParams{
		UserID:   userID,
		AuthorID: author.ID,
	})
	if err != nil {
		// Unique constraint backstop for concurrent duplicates.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			_ = apiError.EncodeError(w, apiError.ValidationError, "already subscribed", requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to create subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Re-derive the flag rather than assuming the write.
	subscribed, err := env.Database.SubscriptionExists(ctx, database.SubscriptionExistsParams{
		UserID:   userID,
		AuthorID: author.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "listing author recipes")
	rows, err := env.Database.ListAuthorRecipes(ctx, author.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list author recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountAuthorRecipes(ctx, author.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count author recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil {
		limit = pagination.DefaultPageSize
	}
	page := pagination.FirstPage(rows, limit)
	shorts := make([]recipe.ShortView, 0, len(page))
	for _, row := range page {
		shorts = append(shorts, recipe.RenderShort(env.FileStore, row))
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SubscriptionResponse{
		ProfileResponse: profile(author, subscribed),
		Recipes:         shorts,
		RecipesCount:    count,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}

// Unsubscribe godoc
//
//	@Summary	Remove a subscription.
//	@Tags		Users, Subscriptions
//
//	@Param		id	path	int	true	"Author ID"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Subscription not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/{id}/subscribe [delete]
func Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	authorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.SubscriptionNotFound, "subscription not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "removing subscription")
	removed, err := env.Database.DeleteSubscription(ctx, database.DeleteSubscriptionParams{
		UserID:   userID,
		AuthorID: authorID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to remove subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if removed == 0 {
		_ = apiError.EncodeError(w, apiError.SubscriptionNotFound, "subscription not found", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// userFromPath resolves the {id} path parameter into a user row, writing the
// 404 envelope when it cannot.
func userFromPath(w http.ResponseWriter, r *http.Request) (database.User, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return database.User{}, false
	}

	user, err := env.Database.GetUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return database.User{}, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return database.User{}, false
	}
	return user, true
}

func profile(user database.User, subscribed bool) ProfileResponse {
	return ProfileResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
