package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radityabs/ecommerce-api/pkg/apperrors"
)

// Envelope is the JSON shape returned by every endpoint. Exactly one of
// User/Users is populated on success; failures carry success=false and a
// message only.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    any    `json:"user,omitempty"`
	Users   any    `json:"users,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Message writes a success envelope carrying only a message.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: true, Message: message})
}

// User writes a success envelope carrying a single user.
func User(c *gin.Context, status int, user any) {
	c.JSON(status, Envelope{Success: true, User: user})
}

// Users writes a success envelope carrying a list of users.
func Users(c *gin.Context, status int, users any) {
	c.JSON(status, Envelope{Success: true, Users: users})
}

// Err normalizes any error into the taxonomy and writes the failure envelope.
func Err(c *gin.Context, err error) {
	ae := apperrors.Normalize(err)
	c.JSON(ae.Kind.Status(), Envelope{Success: false, Message: ae.Message})
}

// ErrWith writes a failure envelope with an explicit status, message and
// optional detail payload (used for validation field maps).
func ErrWith(c *gin.Context, status int, message string, details any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{Success: false, Message: message, Details: details})
}
