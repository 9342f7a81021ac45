package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/radityabs/ecommerce-api/internal/application"
	"github.com/radityabs/ecommerce-api/pkg/response"
)

// AdminHandler serves admin-only user administration.
type AdminHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAdminHandler(svc *userapp.Service, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type updateRoleRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=user admin"`
}

// ListUsers GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Users(c, http.StatusOK, users)
}

// GetUser GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.User(c, http.StatusOK, u)
}

// UpdateRole PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWith(c, http.StatusBadRequest, "invalid payload", validationDetails(err))
		return
	}
	if _, err := h.Svc.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Role); err != nil {
		response.Err(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User updated")
}

// DeleteUser DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted successfully")
}

// SearchUsers GET /api/v1/admin/users/search?q=...&size=...
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.ErrWith(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Users(c, http.StatusOK, hits)
}
