package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alpha53/virtualteacher/internal/services"
	"github.com/alpha53/virtualteacher/internal/utils"
)

type LectureHandler struct {
	BaseHandler
	service   services.LectureService
	solutions services.SolutionService
}

func NewLectureHandler(service services.LectureService, solutions services.SolutionService, logger utils.Logger) *LectureHandler {
	return &LectureHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		solutions:   solutions,
	}
}

// CreateLecture adds a lecture to a course
func (h *LectureHandler) CreateLecture(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid course ID",
		})
		return
	}

	var req services.LectureCreateRequest
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

	lecture, err := h.service.Create(c.Request.Context(), uint(courseID), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lecture)
}

// ListLectures lists the lectures of a course
func (h *LectureHandler) ListLectures(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid course ID",
		})
		return
	}

	lectures, err := h.service.GetAllByCourse(c.Request.Context(), uint(courseID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lectures)
}

// GetLecture retrieves a lecture by ID
func (h *LectureHandler) GetLecture(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	lecture, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lecture)
}

// UpdateLecture replaces a lecture's details
func (h *LectureHandler) UpdateLecture(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	var req services.LectureUpdateRequest
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

	lecture, err := h.service.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lecture)
}

// DeleteLecture removes a lecture and its solutions
func (h *LectureHandler) DeleteLecture(c *gin.Context) {
	id, ok := h.lectureID(c)
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

// GetAssignment hands out the lecture's assignment URL
func (h *LectureHandler) GetAssignment(c *gin.Context) {
	id, ok := h.lectureID(c)
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

	url, err := h.service.GetAssignmentURL(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignmentUrl": url})
}

// SubmitSolution stores the acting student's solution for a lecture
func (h *LectureHandler) SubmitSolution(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	var req services.SubmitSolutionRequest
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

	solution, err := h.solutions.Submit(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, solution)
}

// ListSolutions lists the solutions submitted for a lecture
func (h *LectureHandler) ListSolutions(c *gin.Context) {
	id, ok := h.lectureID(c)
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

	solutions, err := h.solutions.GetByLecture(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, solutions)
}

// GradeSolution scores a student's solution for a lecture
func (h *LectureHandler) GradeSolution(c *gin.Context) {
	id, ok := h.lectureID(c)
	if !ok {
		return
	}

	studentID, err := strconv.ParseUint(c.Param("student_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid student ID",
		})
		return
	}

	var req services.GradeSolutionRequest
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

	solution, err := h.solutions.Grade(c.Request.Context(), id, uint(studentID), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, solution)
}

// ListUserSolutions lists a student's submissions across lectures
func (h *LectureHandler) ListUserSolutions(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
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

	solutions, err := h.solutions.GetByUser(c.Request.Context(), uint(userID), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, solutions)
}

// ===== HELPER METHODS =====

func (h *LectureHandler) lectureID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid lecture ID",
		})
		return 0, false
	}
	return uint(id), true
}
