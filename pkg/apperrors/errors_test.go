package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestNormalizePassthrough(t *testing.T) {
	orig := E(KindAuth, "Invalid email or password")
	require.Same(t, orig, Normalize(orig))

	wrapped := fmt.Errorf("handler: %w", orig)
	require.Same(t, orig, Normalize(wrapped))
}

func TestNormalizeUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	ae := Normalize(err)
	require.Equal(t, KindDuplicate, ae.Kind)
	require.Equal(t, "Duplicate email entered", ae.Message)
	require.Equal(t, http.StatusBadRequest, ae.Kind.Status())
}

func TestNormalizeOtherPgError(t *testing.T) {
	ae := Normalize(&pgconn.PgError{Code: "57014"})
	require.Equal(t, KindInternal, ae.Kind)
	require.Equal(t, "Internal server error", ae.Message)
}

func TestNormalizeNoRows(t *testing.T) {
	ae := Normalize(fmt.Errorf("query user: %w", pgx.ErrNoRows))
	require.Equal(t, KindNotFound, ae.Kind)
	require.Equal(t, http.StatusNotFound, ae.Kind.Status())
}

func TestNormalizeJWTErrors(t *testing.T) {
	ae := Normalize(fmt.Errorf("parse: %w", jwt.ErrTokenExpired))
	require.Equal(t, KindToken, ae.Kind)
	require.Equal(t, "Token has expired, please log in again", ae.Message)

	ae = Normalize(jwt.ErrTokenMalformed)
	require.Equal(t, KindToken, ae.Kind)
	require.Equal(t, "Token is invalid, please log in again", ae.Message)

	ae = Normalize(jwt.ErrSignatureInvalid)
	require.Equal(t, KindToken, ae.Kind)
	require.Equal(t, "Token is invalid, please log in again", ae.Message)
}

func TestNormalizeUnknownDoesNotLeak(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3:5432")
	ae := Normalize(cause)
	require.Equal(t, KindInternal, ae.Kind)
	require.Equal(t, "Internal server error", ae.Message)
	require.ErrorIs(t, ae, cause)
}

func TestNormalizeNil(t *testing.T) {
	require.Nil(t, Normalize(nil))
}

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation: http.StatusBadRequest,
		KindDuplicate:  http.StatusBadRequest,
		KindToken:      http.StatusBadRequest,
		KindAuth:       http.StatusUnauthorized,
		KindNotFound:   http.StatusNotFound,
		KindEmail:      http.StatusInternalServerError,
		KindInternal:   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		require.Equal(t, want, kind.Status())
	}
}
