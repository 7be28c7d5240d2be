package apperror

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet Business Logic (WAL) ----

// ErrInvalidAmount signals a top-up input that is not a valid non-negative number.
func ErrInvalidAmount(input string) *AppError {
	return New("WAL_001", fmt.Sprintf("Invalid top-up amount %q: must be a non-negative number", input), http.StatusBadRequest)
}

// ErrNothingSelected signals a purchase attempt with an empty selection.
func ErrNothingSelected() *AppError {
	return New("WAL_002", "No products selected for purchase", http.StatusBadRequest)
}

// ErrInsufficientFunds carries both the required and the available amount,
// so the caller can show the shortfall.
func ErrInsufficientFunds(required, available decimal.Decimal) *AppError {
	return New("WAL_003",
		fmt.Sprintf("Insufficient funds: purchase requires %s but balance is %s", required, available),
		http.StatusPaymentRequired)
}

// ErrConfirmationRequired signals a clear-all request without the explicit confirmation gate.
func ErrConfirmationRequired() *AppError {
	return New("WAL_004", "Clearing wallet data requires explicit confirmation", http.StatusBadRequest)
}

// ---- Catalog (CAT) ----

func ErrShopNotFound(shopID string) *AppError {
	return New("CAT_001", fmt.Sprintf("Shop %q not found", shopID), http.StatusNotFound)
}

func ErrProductNotFound(productID string) *AppError {
	return New("CAT_002", fmt.Sprintf("Product %q not found in the active shop", productID), http.StatusNotFound)
}

// ---- System & Infrastructure (SYS) ----

// ErrStorageError wraps a key-value store write failure.
func ErrStorageError(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-validation error.
func Validation(message string) *AppError {
	return New("WAL_000", message, http.StatusBadRequest)
}
