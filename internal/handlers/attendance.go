package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/attendly/attendance-api/internal/dto"
	apierrors "github.com/attendly/attendance-api/internal/errors"
	"github.com/attendly/attendance-api/internal/middleware"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/services"
	"github.com/attendly/attendance-api/internal/utils"
)

const dateLayout = "2006-01-02"

// AttendanceHandler coordinates attendance HTTP handlers.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
	log               zerolog.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *services.AttendanceService, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		log:               log,
	}
}

// CheckIn creates today's attendance record. The body is optional.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CheckInRequest struct {
		Status models.AttendanceStatus `json:"status"`
		Notes  string                  `json:"notes"`
	}

	var req CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.UnprocessableEntity(c, "Invalid request body")
			return
		}
	}

	record, err := h.attendanceService.CheckIn(userID, services.CheckInInput{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		h.respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"record":  dto.ToAttendanceDTO(*record),
	})
}

// CheckOut closes today's open attendance record.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	record, err := h.attendanceService.CheckOut(userID)
	if err != nil {
		h.respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"record":  dto.ToAttendanceDTO(*record),
	})
}

// Today returns today's record, or null when the user has not checked in.
func (h *AttendanceHandler) Today(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	record, err := h.attendanceService.Today(userID)
	if err != nil {
		h.respondAttendanceError(c, err)
		return
	}

	if record == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"record":  nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"record":  dto.ToAttendanceDTO(*record),
	})
}

// History lists the user's attendance records, newest date first.
// Supports from/to date bounds and pagination.
func (h *AttendanceHandler) History(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	input := services.HistoryInput{UserID: userID}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.ParseInLocation(dateLayout, fromStr, time.UTC)
		if err != nil {
			apierrors.UnprocessableEntity(c, "from must be a YYYY-MM-DD date")
			return
		}
		input.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.ParseInLocation(dateLayout, toStr, time.UTC)
		if err != nil {
			apierrors.UnprocessableEntity(c, "to must be a YYYY-MM-DD date")
			return
		}
		input.To = &to
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	records, total, err := h.attendanceService.History(input)
	if err != nil {
		h.respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"records": dto.ToAttendanceDTOs(records),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func (h *AttendanceHandler) respondAttendanceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.UnprocessableEntity(c, validationErr.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNoOpenRecord):
		apierrors.NotFound(c, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("attendance operation failed")
		apierrors.InternalError(c)
	}
}
