package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTIssueParseRoundTrip(t *testing.T) {
	m := NewJWTManager("secret-key", time.Hour)

	token, exp, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
}

func TestJWTExpiredToken(t *testing.T) {
	m := NewJWTManager("secret-key", -time.Minute)

	token, _, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Parse(token)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, _, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestJWTMalformedToken(t *testing.T) {
	m := NewJWTManager("secret-key", time.Hour)

	_, err := m.Parse("not-a-token")
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
