package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-portal-api/internal/service"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
	"github.com/noah-isme/university-portal-api/pkg/response"
)

// InstructorHandler wires the teaching endpoints. The acting instructor is
// the session owner.
type InstructorHandler struct {
	instructors *service.InstructorService
	network     *service.NetworkService
}

// NewInstructorHandler creates a new handler.
func NewInstructorHandler(instructors *service.InstructorService, network *service.NetworkService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors, network: network}
}

// Courses godoc
// @Summary List taught courses
// @Tags Instructor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructor/courses [get]
func (h *InstructorHandler) Courses(c *gin.Context) {
	session := sessionFromContext(c)
	courses, err := h.instructors.Courses(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Assignments godoc
// @Summary List assignments across all taught courses
// @Tags Instructor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructor/assignments [get]
func (h *InstructorHandler) Assignments(c *gin.Context) {
	session := sessionFromContext(c)
	assignments, err := h.instructors.Assignments(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// CourseAssignments godoc
// @Summary List assignments of one taught course
// @Tags Instructor
// @Produce json
// @Param courseID path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /instructor/courses/{courseID}/assignments [get]
func (h *InstructorHandler) CourseAssignments(c *gin.Context) {
	session := sessionFromContext(c)
	assignments, err := h.instructors.CourseAssignments(c.Request.Context(), session.UserID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// CreateAssignment godoc
// @Summary Create an assignment
// @Tags Instructor
// @Accept json
// @Produce json
// @Param courseID path string true "Course id"
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /instructor/courses/{courseID}/assignments [post]
func (h *InstructorHandler) CreateAssignment(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	session := sessionFromContext(c)
	assignment, err := h.instructors.CreateAssignment(c.Request.Context(), session.UserID, c.Param("courseID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Roster godoc
// @Summary List students enrolled in a taught course
// @Tags Instructor
// @Produce json
// @Param courseID path string true "Course id"
// @Success 200 {object} response.Envelope
// @Router /instructor/courses/{courseID}/students [get]
func (h *InstructorHandler) Roster(c *gin.Context) {
	session := sessionFromContext(c)
	students, err := h.instructors.Roster(c.Request.Context(), session.UserID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Grade godoc
// @Summary Grade a student's submission
// @Description Regrading replaces the previous grade entry
// @Tags Instructor
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment id"
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor/assignments/{assignmentID}/grade [post]
func (h *InstructorHandler) Grade(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	session := sessionFromContext(c)
	if err := h.instructors.Grade(c.Request.Context(), session.UserID, c.Param("assignmentID"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Answer godoc
// @Summary View one student's submission
// @Tags Instructor
// @Produce json
// @Param assignmentID path string true "Assignment id"
// @Param studentID path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /instructor/assignments/{assignmentID}/answers/{studentID} [get]
func (h *InstructorHandler) Answer(c *gin.Context) {
	session := sessionFromContext(c)
	view, err := h.instructors.Answer(c.Request.Context(), session.UserID, c.Param("assignmentID"), c.Param("studentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// CourseNetwork godoc
// @Summary Course neighborhood from the graph mirror
// @Tags Instructor
// @Produce json
// @Param courseID path string true "Course id"
// @Success 200 {object} response.Envelope
// @Router /instructor/courses/{courseID}/network [get]
func (h *InstructorHandler) CourseNetwork(c *gin.Context) {
	network, err := h.network.CourseNetwork(c.Request.Context(), c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, network, nil)
}
