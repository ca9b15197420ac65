package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha53/virtualteacher/internal/services"
	"github.com/alpha53/virtualteacher/internal/utils"
)

// ErrorResponse is the error payload returned by all endpoints
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the pieces every handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	switch {
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: permErr.Reason,
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Course not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrLectureNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Lecture not found",
		})
	case errors.Is(err, services.ErrSolutionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Solution not found",
		})
	case errors.Is(err, services.ErrRoleNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unknown role",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateCourseTitle):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Course title already exists",
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Email already registered",
		})
	case errors.Is(err, services.ErrCourseNotPublished):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Course is not published",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
