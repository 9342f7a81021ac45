package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/radityabs/ecommerce-api/internal/application"
	"github.com/radityabs/ecommerce-api/internal/interface/middleware"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
	"github.com/radityabs/ecommerce-api/pkg/response"
)

// AuthHandler serves the credential lifecycle: register, login, logout,
// forgot and reset password.
type AuthHandler struct {
	Svc     *userapp.Service
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *userapp.Service, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// attachSession issues a session token for the user and sets the cookie.
func (h *AuthHandler) attachSession(c *gin.Context, userID string) bool {
	token, exp, err := h.JWT.Issue(userID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", userID).Error("failed to issue session token")
		}
		response.Err(c, err)
		return false
	}
	h.Cookies.SetSession(c, token, exp)
	return true
}

// Register POST /api/v1/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "invalid payload", validationDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.Err(c, err)
		return
	}
	if !h.attachSession(c, u.ID) {
		return
	}
	response.User(c, http.StatusCreated, u)
}

// Login POST /api/v1/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "Enter email and password", validationDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithFields(logrus.Fields{"email": req.Email, "ip": middleware.ClientIP(c)}).Warn("failed login attempt")
		}
		response.Err(c, err)
		return
	}
	if !h.attachSession(c, u.ID) {
		return
	}
	response.User(c, http.StatusOK, u)
}

// Logout GET /api/v1/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "Logged out")
}

// ForgotPassword POST /api/v1/password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "invalid payload", validationDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email, requestBaseURL(c)); err != nil {
		response.Err(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Email is sent to "+req.Email)
}

// ResetPassword PUT /api/v1/password/reset/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "invalid payload", validationDetails(err))
		return
	}
	u, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, req.ConfirmPassword)
	if err != nil {
		response.Err(c, err)
		return
	}
	if !h.attachSession(c, u.ID) {
		return
	}
	response.User(c, http.StatusOK, u)
}

// requestBaseURL rebuilds the reset link origin from the request itself, so
// the emailed link points at whatever host served the forgot request.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
