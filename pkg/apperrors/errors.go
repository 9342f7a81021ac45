package apperrors

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindAuth
	KindNotFound
	KindToken
	KindEmail
)

// Error is the uniform user-facing error shape. Message is safe to return to
// clients; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error with a client-safe message.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error while keeping it for logging.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Status maps a Kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindDuplicate, KindToken:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindEmail, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

const pgUniqueViolation = "23505"

// Normalize rewrites any error into a classified *Error. Already-classified
// errors pass through; store and token library signals are recognized, and
// everything else collapses to an internal error with a generic message so
// no detail leaks to the client.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return Wrap(KindDuplicate, "Duplicate "+duplicateField(pgErr)+" entered", err)
		}
		return Wrap(KindInternal, "Internal server error", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(KindNotFound, "Resource not found", err)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return Wrap(KindToken, "Token has expired, please log in again", err)
	}
	if errors.Is(err, jwt.ErrTokenMalformed) || errors.Is(err, jwt.ErrSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
		return Wrap(KindToken, "Token is invalid, please log in again", err)
	}

	return Wrap(KindInternal, "Internal server error", err)
}

// duplicateField names the column behind a unique violation. Constraint names
// follow the <table>_<column>_key convention from the migrations.
func duplicateField(pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "users_email_key":
		return "email"
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "value"
}
