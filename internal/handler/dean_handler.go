package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-portal-api/internal/service"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
	"github.com/noah-isme/university-portal-api/pkg/response"
)

// DeanHandler wires the administrative endpoints: catalog management,
// registration, placement helpers, student overviews and engagement
// analytics.
type DeanHandler struct {
	catalog      *service.CatalogService
	registration *service.RegistrationService
	dean         *service.DeanService
	analytics    *service.AnalyticsService
}

// NewDeanHandler creates a new handler.
func NewDeanHandler(catalog *service.CatalogService, registration *service.RegistrationService, dean *service.DeanService, analytics *service.AnalyticsService) *DeanHandler {
	return &DeanHandler{catalog: catalog, registration: registration, dean: dean, analytics: analytics}
}

// CreateMajor godoc
// @Summary Create an academic program
// @Tags Dean
// @Accept json
// @Produce json
// @Param payload body service.CreateMajorRequest true "Major payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dean/majors [post]
func (h *DeanHandler) CreateMajor(c *gin.Context) {
	var req service.CreateMajorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid major payload"))
		return
	}
	major, err := h.catalog.CreateMajor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, major)
}

// ListMajors godoc
// @Summary List academic programs
// @Tags Dean
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dean/majors [get]
func (h *DeanHandler) ListMajors(c *gin.Context) {
	majors, err := h.catalog.ListMajors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, majors, nil)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags Dean
// @Accept json
// @Produce json
// @Param payload body service.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dean/rooms [post]
func (h *DeanHandler) CreateRoom(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.catalog.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// CreateCourse godoc
// @Summary Place a new course
// @Description Runs room and instructor availability checks before committing
// @Tags Dean
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dean/courses [post]
func (h *DeanHandler) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// RegisterStudent godoc
// @Summary Register a student with a login account
// @Tags Dean
// @Accept json
// @Produce json
// @Param payload body service.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dean/students [post]
func (h *DeanHandler) RegisterStudent(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.registration.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// RegisterInstructor godoc
// @Summary Register an instructor with a login account
// @Tags Dean
// @Accept json
// @Produce json
// @Param payload body service.RegisterInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dean/instructors [post]
func (h *DeanHandler) RegisterInstructor(c *gin.Context) {
	var req service.RegisterInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.registration.RegisterInstructor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// AvailableRooms godoc
// @Summary List rooms free during a weekly slot
// @Tags Dean
// @Produce json
// @Param days query string true "Comma separated weekdays"
// @Param start_time query string true "Start time HH:MM"
// @Param end_time query string true "End time HH:MM"
// @Success 200 {object} response.Envelope
// @Router /dean/rooms/available [get]
func (h *DeanHandler) AvailableRooms(c *gin.Context) {
	target := scheduleFromQuery(c)
	if len(target.Days) == 0 || target.StartTime == "" || target.EndTime == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days, start_time and end_time are required"))
		return
	}
	rooms, err := h.catalog.AvailableRooms(c.Request.Context(), target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// AvailableInstructors godoc
// @Summary List instructors free during a weekly slot
// @Tags Dean
// @Produce json
// @Param days query string true "Comma separated weekdays"
// @Param start_time query string true "Start time HH:MM"
// @Param end_time query string true "End time HH:MM"
// @Success 200 {object} response.Envelope
// @Router /dean/instructors/available [get]
func (h *DeanHandler) AvailableInstructors(c *gin.Context) {
	target := scheduleFromQuery(c)
	if len(target.Days) == 0 || target.StartTime == "" || target.EndTime == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days, start_time and end_time are required"))
		return
	}
	instructors, err := h.catalog.AvailableInstructors(c.Request.Context(), target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// StudentOverview godoc
// @Summary Consolidated student view across all stores
// @Tags Dean
// @Produce json
// @Param studentID path string true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dean/students/{studentID}/overview [get]
func (h *DeanHandler) StudentOverview(c *gin.Context) {
	overview, err := h.dean.StudentOverview(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// StudentReportPDF godoc
// @Summary Download a student performance report as PDF
// @Tags Dean
// @Produce application/pdf
// @Param studentID path string true "Student id"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /dean/students/{studentID}/report.pdf [get]
func (h *DeanHandler) StudentReportPDF(c *gin.Context) {
	studentID := c.Param("studentID")
	data, err := h.dean.StudentReportPDF(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=student_report_%s.pdf", studentID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// StudentReportCSV godoc
// @Summary Download a student performance report as CSV
// @Tags Dean
// @Produce text/csv
// @Param studentID path string true "Student id"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /dean/students/{studentID}/report.csv [get]
func (h *DeanHandler) StudentReportCSV(c *gin.Context) {
	studentID := c.Param("studentID")
	data, err := h.dean.StudentReportCSV(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=student_report_%s.csv", studentID))
	c.Data(http.StatusOK, "text/csv", data)
}

// TopCourses godoc
// @Summary Rank courses by engagement, highest first
// @Tags Analytics
// @Produce json
// @Param major_id query string false "Restrict to one major"
// @Param limit query int false "Result limit (default 5)"
// @Success 200 {object} response.Envelope
// @Router /dean/analytics/courses/top [get]
func (h *DeanHandler) TopCourses(c *gin.Context) {
	scores, err := h.analytics.TopCourses(c.Request.Context(), c.Query("major_id"), queryLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// WorstCourses godoc
// @Summary Rank courses by engagement, lowest first
// @Tags Analytics
// @Produce json
// @Param major_id query string false "Restrict to one major"
// @Param limit query int false "Result limit (default 5)"
// @Success 200 {object} response.Envelope
// @Router /dean/analytics/courses/worst [get]
func (h *DeanHandler) WorstCourses(c *gin.Context) {
	scores, err := h.analytics.WorstCourses(c.Request.Context(), c.Query("major_id"), queryLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// StudentActivity godoc
// @Summary Behavioural summary of one student
// @Tags Analytics
// @Produce json
// @Param studentID path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /dean/analytics/students/{studentID} [get]
func (h *DeanHandler) StudentActivity(c *gin.Context) {
	activity, err := h.analytics.StudentActivity(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// StudentCourseActivity godoc
// @Summary Behavioural summary of one student within one course
// @Tags Analytics
// @Produce json
// @Param studentID path string true "Student id"
// @Param courseID path string true "Course id"
// @Success 200 {object} response.Envelope
// @Router /dean/analytics/students/{studentID}/courses/{courseID} [get]
func (h *DeanHandler) StudentCourseActivity(c *gin.Context) {
	activity, err := h.analytics.StudentCourseActivity(c.Request.Context(), c.Param("studentID"), c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		return 5
	}
	return limit
}
