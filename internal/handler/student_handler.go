package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-portal-api/internal/service"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
	"github.com/noah-isme/university-portal-api/pkg/response"
)

// StudentHandler wires the student-facing endpoints. The acting student is
// always the session owner; no student id appears in the routes.
type StudentHandler struct {
	students    *service.StudentService
	enrollments *service.EnrollmentService
	network     *service.NetworkService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(students *service.StudentService, enrollments *service.EnrollmentService, network *service.NetworkService) *StudentHandler {
	return &StudentHandler{students: students, enrollments: enrollments, network: network}
}

// Courses godoc
// @Summary List enrolled courses
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses [get]
func (h *StudentHandler) Courses(c *gin.Context) {
	session := sessionFromContext(c)
	courses, err := h.students.Courses(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// AvailableCourses godoc
// @Summary List courses available for registration
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses/available [get]
func (h *StudentHandler) AvailableCourses(c *gin.Context) {
	session := sessionFromContext(c)
	courses, err := h.enrollments.AvailableCourses(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Student
// @Produce json
// @Param courseID path string true "Course id"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/courses/{courseID}/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	session := sessionFromContext(c)
	if err := h.enrollments.Enroll(c.Request.Context(), session.UserID, c.Param("courseID")); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"course_id": c.Param("courseID")})
}

// CourseDetails godoc
// @Summary View one enrolled course
// @Tags Student
// @Produce json
// @Param courseID path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/courses/{courseID} [get]
func (h *StudentHandler) CourseDetails(c *gin.Context) {
	session := sessionFromContext(c)
	view, err := h.students.CourseDetails(c.Request.Context(), session.UserID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// PendingTasks godoc
// @Summary List unsubmitted assignments across all courses
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/tasks/pending [get]
func (h *StudentHandler) PendingTasks(c *gin.Context) {
	session := sessionFromContext(c)
	tasks, err := h.students.PendingTasks(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}

// SubmitAnswer godoc
// @Summary Submit an assignment answer
// @Description Resubmission replaces the previous answer
// @Tags Student
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment id"
// @Param payload body service.SubmitAnswerRequest true "Answer payload"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/assignments/{assignmentID}/answer [post]
func (h *StudentHandler) SubmitAnswer(c *gin.Context) {
	var req service.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid answer payload"))
		return
	}
	session := sessionFromContext(c)
	if err := h.students.SubmitAnswer(c.Request.Context(), session.UserID, c.Param("assignmentID"), req.Text); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Performance godoc
// @Summary Per-course performance report
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/performance [get]
func (h *StudentHandler) Performance(c *gin.Context) {
	session := sessionFromContext(c)
	report, err := h.students.Performance(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Network godoc
// @Summary Shared-course peer network
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/network [get]
func (h *StudentHandler) Network(c *gin.Context) {
	session := sessionFromContext(c)
	network, err := h.network.StudentNetwork(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, network, nil)
}

// CourseNetwork godoc
// @Summary Single-course neighborhood
// @Tags Student
// @Produce json
// @Param courseID path string true "Course id"
// @Success 200 {object} response.Envelope
// @Router /student/courses/{courseID}/network [get]
func (h *StudentHandler) CourseNetwork(c *gin.Context) {
	session := sessionFromContext(c)
	network, err := h.network.StudentCourseNetwork(c.Request.Context(), session.UserID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, network, nil)
}
