package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/radityabs/ecommerce-api/internal/application"
	"github.com/radityabs/ecommerce-api/internal/interface/middleware"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
	"github.com/radityabs/ecommerce-api/pkg/response"
	"github.com/radityabs/ecommerce-api/pkg/validation"
)

// validationDetails is shared by all handlers in this package.
func validationDetails(err error) map[string]string { return validation.ToDetails(err) }

// UserHandler serves the authenticated user's own profile and password.
type UserHandler struct {
	Svc     *userapp.Service
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *userapp.Service, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// GetProfile GET /api/v1/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.User(c, http.StatusOK, u)
}

// UpdatePassword PUT /api/v1/password/update
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "invalid payload", validationDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		response.Err(c, err)
		return
	}
	// A fresh session token replaces the old one after a password change.
	token, exp, err := h.JWT.Issue(u.ID)
	if err != nil {
		response.Err(c, err)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.User(c, http.StatusOK, u)
}

// UpdateProfile PUT /api/v1/me/update
// Applies name/email only; role and password are never touched here.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "invalid payload", validationDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if _, err := h.Svc.UpdateProfile(c.Request.Context(), uid, req.Name, req.Email); err != nil {
		response.Err(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Profile updated")
}
