package templates

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// Plain-text notification bodies keyed by template name. Kept as text mail
// on purpose; the storefront sends transactional mail only.
var bodies = map[string]*template.Template{
	"welcome": template.Must(template.New("welcome").Parse(
		"Hi {{.Name}},\n\nYour account has been created. Happy shopping!\n")),
	"password_changed": template.Must(template.New("password_changed").Parse(
		"Hi {{.Name}},\n\nYour password was changed just now. If this was not you, reset it immediately.\n")),
	"reset_password": template.Must(template.New("reset_password").Parse(
		"Your password reset link is:\n\n{{.ResetURL}}\n\nThe link expires at {{.ExpiresAt}}. If you have not requested this email, you can ignore it.\n")),
}

var subjects = map[string]string{
	"welcome":          "Welcome to the store",
	"password_changed": "Your password was changed",
	"reset_password":   "Ecommerce password recovery",
}

// Render produces the subject and text body for a template name.
func Render(name string, data map[string]any) (subject, text string, err error) {
	tpl, ok := bodies[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subjects[name], buf.String(), nil
}

// ResetPasswordData builds the data map for the reset mail.
func ResetPasswordData(name, resetURL string, expiresAt time.Time) map[string]any {
	return map[string]any{
		"Name":      name,
		"ResetURL":  resetURL,
		"ExpiresAt": expiresAt.UTC().Format("02 January 2006, 15:04 MST"),
	}
}
