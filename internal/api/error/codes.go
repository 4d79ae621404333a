package error

import "net/http"

type ErrorCode string

const (
	UnknownError            ErrorCode = "unknown_error"
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	ValidationError         ErrorCode = "validation_error"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	WeakPassword            ErrorCode = "weak_password"
	EmailConflict           ErrorCode = "email_conflict"
	UsernameConflict        ErrorCode = "username_conflict"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	TagNotFound             ErrorCode = "tag_not_found"
	UserNotFound            ErrorCode = "user_not_found"
	FavoriteNotFound        ErrorCode = "favorite_not_found"
	CartEntryNotFound       ErrorCode = "cart_entry_not_found"
	SubscriptionNotFound    ErrorCode = "subscription_not_found"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:            0, // No error code - unknown
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	ValidationError:         http.StatusBadRequest,
	InvalidCredentials:      http.StatusUnauthorized,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	WeakPassword:            http.StatusUnprocessableEntity,
	EmailConflict:           http.StatusConflict,
	UsernameConflict:        http.StatusConflict,
	RecipeNotFound:          http.StatusNotFound,
	RecipeNotOwned:          http.StatusForbidden,
	IngredientNotFound:      http.StatusNotFound,
	TagNotFound:             http.StatusNotFound,
	UserNotFound:            http.StatusNotFound,
	FavoriteNotFound:        http.StatusNotFound,
	CartEntryNotFound:       http.StatusNotFound,
	SubscriptionNotFound:    http.StatusNotFound,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
