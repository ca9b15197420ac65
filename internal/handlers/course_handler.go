package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/services"
	"github.com/alpha53/virtualteacher/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CourseHandler struct {
	BaseHandler
	service services.CourseService
	export  services.ExportService
}

func NewCourseHandler(service services.CourseService, export services.ExportService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// CreateCourse creates a new course
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses lists courses matching the query string filters
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	courses, err := h.service.GetAll(c.Request.Context(), h.parseCourseFilters(c))
	if err != nil {
		h.LogError(c, err, "Failed to list courses")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to list courses",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// ExportCourses streams the filtered catalog as an xlsx workbook
func (h *CourseHandler) ExportCourses(c *gin.Context) {
	h.LogRequest(c, "Exporting course catalog")

	data, err := h.export.ExportCourseCatalog(c.Request.Context(), h.parseCourseFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="courses.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetCourse retrieves a course by ID
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	course, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse replaces a course's details
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	var req services.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and everything hanging off it
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCoursesByCreator lists courses created by a teacher
func (h *CourseHandler) GetCoursesByCreator(c *gin.Context) {
	creatorID, err := strconv.ParseUint(c.Param("creator_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid creator ID",
		})
		return
	}

	courses, err := h.service.GetByCreator(c.Request.Context(), uint(creatorID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetEnrolledStudents lists the students enrolled in a course
func (h *CourseHandler) GetEnrolledStudents(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	students, err := h.service.GetEnrolledStudents(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ExportGradebook streams the course gradebook as an xlsx workbook
func (h *CourseHandler) ExportGradebook(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	data, err := h.export.ExportGradebook(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gradebook.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Enroll enrolls the acting student into a course
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.service.Enroll(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CompleteEnrollment marks a student's enrollment as completed
func (h *CourseHandler) CompleteEnrollment(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid user ID",
		})
		return
	}

	if err := h.service.Complete(c.Request.Context(), id, uint(userID)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveStudent drops a student from a course
func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid user ID",
		})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.service.RemoveStudent(c.Request.Context(), id, uint(userID), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RateCourse records a rating from a student who completed the course
func (h *CourseHandler) RateCourse(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	var req services.RateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.service.Rate(c.Request.Context(), id, &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// GetRatings lists the ratings left on a course
func (h *CourseHandler) GetRatings(c *gin.Context) {
	id, ok := h.courseID(c)
	if !ok {
		return
	}

	ratings, err := h.service.GetRatings(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ratings)
}

// GetOngoingCourses lists the courses a user is currently enrolled in
func (h *CourseHandler) GetOngoingCourses(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid user ID",
		})
		return
	}

	courses, err := h.service.GetOngoingByUser(c.Request.Context(), uint(userID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCompletedCourses lists the courses a user has completed
func (h *CourseHandler) GetCompletedCourses(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid user ID",
		})
		return
	}

	courses, err := h.service.GetCompletedByUser(c.Request.Context(), uint(userID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// ===== HELPER METHODS =====

func (h *CourseHandler) courseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid course ID",
		})
		return 0, false
	}
	return uint(id), true
}

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if title := c.Query("title"); title != "" {
		filters.Title = &title
	}
	if topic := c.Query("topic"); topic != "" {
		filters.Topic = &topic
	}
	if teacher := c.Query("teacher"); teacher != "" {
		filters.Teacher = &teacher
	}
	if ratingStr := c.Query("minRating"); ratingStr != "" {
		if rating, err := strconv.ParseFloat(ratingStr, 64); err == nil {
			filters.MinRating = &rating
		}
	}
	if publishedStr := c.Query("published"); publishedStr != "" {
		if published, err := strconv.ParseBool(publishedStr); err == nil {
			filters.Published = &published
		}
	}

	return filters
}
