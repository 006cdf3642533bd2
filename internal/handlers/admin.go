package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/attendly/attendance-api/internal/dto"
	apierrors "github.com/attendly/attendance-api/internal/errors"
	"github.com/attendly/attendance-api/internal/services"
	"github.com/attendly/attendance-api/internal/utils"
)

// AdminHandler exposes the admin-only user management surface.
type AdminHandler struct {
	authService *services.AuthService
	log         zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		log:         log,
	}
}

// ListUsers returns a page of users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.authService.ListUsers(params.Page, params.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list users")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   dto.ToUserDTOs(users),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// SetUserActive flips a user's active flag.
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		apierrors.NotFound(c, "user not found")
		return
	}

	type SetActiveRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.UnprocessableEntity(c, "is_active is required")
		return
	}

	user, err := h.authService.SetUserActive(userID, *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		h.log.Error().Err(err).Uint64("user_id", userID).Msg("failed to update user")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}
