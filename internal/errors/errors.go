package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrItemNotFound is returned when a pantry item lookup finds nothing.
	ErrItemNotFound = errors.New("pantry item not found")
	// ErrUserNotFound is returned when a user profile lookup finds nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrRecipeNotFound is returned when a catalog recipe lookup finds nothing.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrMealPlanNotFound is returned when a meal plan lookup finds nothing.
	ErrMealPlanNotFound = errors.New("meal plan not found")
	// ErrFavoriteNotFound is returned when a favorite membership lookup finds nothing.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrDocumentNotFound is returned when a remote document lookup finds nothing.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrIDRequired is returned when an operation needs an identifier and none was given.
	ErrIDRequired = errors.New("identifier is required")
	// ErrOwnerRequired is returned when an entity is missing its owning user id.
	ErrOwnerRequired = errors.New("owner user id is required")
	// ErrAuthRequired is returned when no signed-in user is available.
	ErrAuthRequired = errors.New("authentication required")
	// ErrRemoteUnavailable marks transient remote-store failures. Wrapped
	// errors carry the underlying cause; a local-first write never fails
	// because of it.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrStorageFault marks local storage-engine failures. Fatal to the
	// triggering operation only.
	ErrStorageFault = errors.New("local storage fault")
)

// Storage wraps a storage-engine failure so it matches ErrStorageFault
// while keeping the cause in the chain.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFault, err)
}

// Remote wraps a transient remote failure so it matches ErrRemoteUnavailable.
func Remote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteUnavailable, err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Uses errors.Is so
// wrapped faults map the same as their sentinels.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ITEM_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrMealPlanNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MEAL_PLAN_NOT_FOUND")
	case errors.Is(err, ErrFavoriteNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FAVORITE_NOT_FOUND")
	case errors.Is(err, ErrDocumentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "DOCUMENT_NOT_FOUND")
	case errors.Is(err, ErrIDRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ID_REQUIRED")
	case errors.Is(err, ErrOwnerRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OWNER_REQUIRED")
	case errors.Is(err, ErrAuthRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "AUTH_REQUIRED")
	case errors.Is(err, ErrRemoteUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "REMOTE_UNAVAILABLE")
	case errors.Is(err, ErrStorageFault):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "STORAGE_FAULT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
