package mailer

// Template names understood by the email worker.
const (
	TemplateWelcome         = "welcome"
	TemplatePasswordChanged = "password_changed"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for notification
// emails. The password-reset mail is NOT sent through this path: its failure
// has to roll back the reset token, so it goes out synchronously.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}
