package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderResetPassword(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	data := ResetPasswordData("Alice", "http://localhost:8080/api/v1/password/reset/abc123", expires)

	subject, text, err := Render("reset_password", data)
	require.NoError(t, err)
	require.Equal(t, "Ecommerce password recovery", subject)
	require.Contains(t, text, "http://localhost:8080/api/v1/password/reset/abc123")
	require.Contains(t, text, "01 March 2026")
}

func TestRenderWelcome(t *testing.T) {
	subject, text, err := Render("welcome", map[string]any{"Name": "Alice"})
	require.NoError(t, err)
	require.NotEmpty(t, subject)
	require.Contains(t, text, "Hi Alice")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("nope", nil)
	require.Error(t, err)
}
