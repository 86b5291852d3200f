package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ab3d1/moneygrid/internal/model"
)

// APIError represents an API error response. Class is the user-facing
// message class for the outcome (error/info/neutral).
type APIError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Class   model.MessageClass `json:"class"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeEmptyName         = "EMPTY_NAME"
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeSlotsExhausted    = "SLOTS_EXHAUSTED"
	CodeRaceLost          = "RACE_LOST"
	CodeInvalidFormat     = "INVALID_FORMAT"
	CodeDuplicateNumbers  = "DUPLICATE_NUMBERS_IN_IMPORT"
	CodeAuthDenied        = "AUTH_DENIED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeStoreError        = "STORE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{
			CodeEmptyName, "You must enter a name to proceed, Player 1.", model.MessageError}}

	case errors.Is(err, model.ErrAlreadyRegistered):
		msg := "You already have a money number assigned to you."
		var are *model.AlreadyRegisteredError
		if errors.As(err, &are) {
			msg = alreadyRegisteredMessage(are.Existing.Number)
		}
		return &httpError{http.StatusConflict, APIError{CodeAlreadyRegistered, msg, model.MessageInfo}}

	case errors.Is(err, model.ErrSlotsExhausted):
		return &httpError{http.StatusConflict, APIError{
			CodeSlotsExhausted, "All nine slots are taken.", model.MessageError}}

	case errors.Is(err, model.ErrRaceLost):
		msg := "Another player claimed that number first. Try your luck again!"
		var rle *model.RaceLostError
		if errors.As(err, &rle) && rle.TakenBy != "" {
			msg = "User " + rle.TakenBy + " already has this money number. Try your luck again!"
		}
		return &httpError{http.StatusConflict, APIError{CodeRaceLost, msg, model.MessageError}}

	case errors.Is(err, model.ErrInvalidFormat):
		return &httpError{http.StatusBadRequest, APIError{
			CodeInvalidFormat, "Import data is not a valid roster export.", model.MessageError}}

	case errors.Is(err, model.ErrDuplicateNumbers):
		return &httpError{http.StatusBadRequest, APIError{
			CodeDuplicateNumbers, "Import contains duplicate numbers.", model.MessageError}}

	case errors.Is(err, model.ErrAuthDenied):
		return &httpError{http.StatusUnauthorized, APIError{
			CodeAuthDenied, "ACCESS DENIED: INVALID CORE OVERRIDE CODE", model.MessageError}}

	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{
			CodeUnauthorized, "Invalid or expired admin session", model.MessageError}}

	default:
		// Anything else reaching here is a store failure: surfaced, never
		// silently swallowed, no partial state retained
		return &httpError{http.StatusBadGateway, APIError{
			CodeStoreError, "The store is unreachable or rejected the write.", model.MessageError}}
	}
}

func alreadyRegisteredMessage(number int) string {
	return "You already have number " + strconv.Itoa(number) + " assigned to you as your money number."
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message, model.MessageError}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Admin authentication required", model.MessageError}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error", model.MessageError}}
}
