package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type studentProfileRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

type studentCourseRepository interface {
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Course, error)
}

type studentEnrollmentRepository interface {
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	CourseIDsByStudent(ctx context.Context, studentID string) ([]string, error)
}

type studentAssignmentRepository interface {
	FindByAssignmentID(ctx context.Context, assignmentID string) (*models.Assignment, error)
	FindByCourseID(ctx context.Context, courseID string) ([]models.Assignment, error)
	FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Assignment, error)
	ReplaceAnswer(ctx context.Context, assignmentID string, answer models.Answer) error
}

type submissionLinker interface {
	LinkSubmission(ctx context.Context, studentID, assignmentID string) error
}

type studentActivityRecorder interface {
	RecordCourseActivity(ctx context.Context, studentID, courseID, activityType, assignmentID string, at time.Time) error
	RecordSubmission(ctx context.Context, courseID, assignmentID, studentID string, at time.Time) error
}

// SubmitAnswerRequest is the student's submission payload.
type SubmitAnswerRequest struct {
	Text string `json:"text" validate:"required"`
}

// StudentService serves the student-facing reads and the answer submission
// flow. Reads go through the cache coordinator; the submission mutation runs
// the full pipeline.
type StudentService struct {
	students    studentProfileRepository
	courses     studentCourseRepository
	enrollments studentEnrollmentRepository
	assignments studentAssignmentRepository
	graph       submissionLinker
	activity    studentActivityRecorder
	cache       *CacheService
	pipeline    *Pipeline
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(
	students studentProfileRepository,
	courses studentCourseRepository,
	enrollments studentEnrollmentRepository,
	assignments studentAssignmentRepository,
	graph submissionLinker,
	activity studentActivityRecorder,
	cache *CacheService,
	pipeline *Pipeline,
	logger *zap.Logger,
) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		assignments: assignments,
		graph:       graph,
		activity:    activity,
		cache:       cache,
		pipeline:    pipeline,
		logger:      logger,
	}
}

// Courses returns the student's enrolled courses through the read-through
// cache.
func (s *StudentService) Courses(ctx context.Context, studentID string) ([]models.Course, error) {
	key := KeyStudentCourses(studentID)
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	courseIDs, err := s.enrollments.CourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	courses, err := s.courses.FindByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	if err := s.cache.Set(ctx, key, courses, 0); err != nil {
		s.logger.Warn("student courses not cached", zap.String("student_id", studentID), zap.Error(err))
	}
	return courses, nil
}

// CourseDetails returns the per-student view of one enrolled course: the
// course header plus the student's completed and pending assignments. Every
// view records a view_course event, cached or not.
func (s *StudentService) CourseDetails(ctx context.Context, studentID, courseID string) (*models.CourseDetailsView, error) {
	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found among enrollments")
	}

	defer func() {
		if err := s.activity.RecordCourseActivity(ctx, studentID, courseID, models.ActivityViewCourse, "", time.Now().UTC()); err != nil {
			s.logger.Warn("view event not recorded", zap.String("student_id", studentID), zap.String("course_id", courseID), zap.Error(err))
		}
	}()

	key := KeyStudentCourseDetails(studentID, courseID)
	var cached models.CourseDetailsView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	assignments, err := s.assignments.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	view := &models.CourseDetailsView{
		Course:         *course,
		CompletedTasks: []models.CompletedTask{},
		PendingTasks:   []models.TaskInfo{},
	}
	for _, a := range assignments {
		info := taskInfo(a)
		answer := answerOf(a, studentID)
		if answer == nil {
			view.PendingTasks = append(view.PendingTasks, info)
			continue
		}
		view.CompletedTasks = append(view.CompletedTasks, models.CompletedTask{
			TaskInfo: info,
			Grade:    gradeOf(a, studentID),
			Answer:   answer,
		})
	}

	if err := s.cache.Set(ctx, key, view, 0); err != nil {
		s.logger.Warn("course details not cached", zap.String("key", key), zap.Error(err))
	}
	return view, nil
}

// PendingTasks returns the student's unsubmitted assignments across every
// enrolled course, through the read-through cache.
func (s *StudentService) PendingTasks(ctx context.Context, studentID string) ([]models.PendingTask, error) {
	key := KeyPendingTasks(studentID)
	var cached []models.PendingTask
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	courseIDs, err := s.enrollments.CourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	courses, err := s.courses.FindByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	courseNames := make(map[string]string, len(courses))
	for _, c := range courses {
		courseNames[c.CourseID] = c.Details.CourseName
	}
	assignments, err := s.assignments.FindByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	tasks := []models.PendingTask{}
	for _, a := range assignments {
		if answerOf(a, studentID) != nil {
			continue
		}
		tasks = append(tasks, models.PendingTask{
			CourseName: courseNames[a.CourseID],
			TaskInfo:   taskInfo(a),
		})
	}

	if err := s.cache.Set(ctx, key, tasks, 0); err != nil {
		s.logger.Warn("pending tasks not cached", zap.String("student_id", studentID), zap.Error(err))
	}
	return tasks, nil
}

// SubmitAnswer stores the student's answer for an assignment. Resubmission
// replaces the previous answer; the stored state always holds at most one
// answer row per student.
func (s *StudentService) SubmitAnswer(ctx context.Context, studentID, assignmentID, text string) error {
	assignment, err := s.assignments.FindByAssignmentID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}
	enrolled, err := s.enrollments.Exists(ctx, studentID, assignment.CourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrForbidden, "not enrolled in the assignment's course")
	}

	courseID := assignment.CourseID
	return s.pipeline.Execute(ctx, "submit_answer",
		PipelineStep{Name: "upsert_answer", Run: func(ctx context.Context) error {
			return s.assignments.ReplaceAnswer(ctx, assignmentID, models.Answer{StudentID: studentID, Text: text})
		}},
		PipelineStep{Name: "mirror_submitted", Run: func(ctx context.Context) error {
			return s.graph.LinkSubmission(ctx, studentID, assignmentID)
		}},
		PipelineStep{Name: "invalidate_cache", Run: func(ctx context.Context) error {
			return s.cache.Invalidate(ctx, InvalidateSubmission(studentID, courseID))
		}},
		PipelineStep{Name: "record_submit", Run: func(ctx context.Context) error {
			now := time.Now().UTC()
			if err := s.activity.RecordCourseActivity(ctx, studentID, courseID, models.ActivitySubmit, assignmentID, now); err != nil {
				return err
			}
			return s.activity.RecordSubmission(ctx, courseID, assignmentID, studentID, now)
		}},
	)
}

// Performance reports, per enrolled course, the assignment breakdown, the
// grade summary and the derived status.
func (s *StudentService) Performance(ctx context.Context, studentID string) ([]models.CoursePerformance, error) {
	if _, err := s.students.FindByStudentID(ctx, studentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	courseIDs, err := s.enrollments.CourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	courses, err := s.courses.FindByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	report := make([]models.CoursePerformance, 0, len(courses))
	for _, course := range courses {
		assignments, err := s.assignments.FindByCourseID(ctx, course.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
		}
		report = append(report, coursePerformance(course, assignments, studentID))
	}
	return report, nil
}

func taskInfo(a models.Assignment) models.TaskInfo {
	return models.TaskInfo{
		AssignmentID: a.AssignmentID,
		Title:        a.Title,
		Description:  a.Description,
		Deadline:     a.Deadline,
		MaxGrade:     a.MaxGrade,
	}
}

func answerOf(a models.Assignment, studentID string) *string {
	for _, ans := range a.Answers {
		if ans.StudentID == studentID {
			text := ans.Text
			return &text
		}
	}
	return nil
}

func gradeOf(a models.Assignment, studentID string) *float64 {
	for _, g := range a.Grades {
		if g.StudentID == studentID {
			grade := g.Grade
			return &grade
		}
	}
	return nil
}

// ComputeGradeSummary sums the student's graded assignments, capping each
// grade at the assignment's max grade. Zero graded assignments yield the
// all-nil summary, which is distinct from a graded total of zero.
func ComputeGradeSummary(assignments []models.Assignment, studentID string) models.GradeSummary {
	var total, maxTotal float64
	graded := 0
	for _, a := range assignments {
		grade := gradeOf(a, studentID)
		if grade == nil {
			continue
		}
		graded++
		g := *grade
		if g > a.MaxGrade {
			g = a.MaxGrade
		}
		total += g
		maxTotal += a.MaxGrade
	}
	if graded == 0 {
		return models.GradeSummary{}
	}
	var percentage float64
	if maxTotal > 0 {
		percentage = math.Round(total/maxTotal*100*100) / 100
	}
	return models.GradeSummary{Total: &total, MaxTotal: &maxTotal, Percentage: &percentage}
}

func coursePerformance(course models.Course, assignments []models.Assignment, studentID string) models.CoursePerformance {
	breakdown := models.AssignmentBreakdown{
		Graded:             []models.AssignmentStatusRow{},
		SubmittedNotGraded: []models.AssignmentStatusRow{},
		Missing:            []models.AssignmentStatusRow{},
		Total:              len(assignments),
	}
	for _, a := range assignments {
		row := models.AssignmentStatusRow{Title: a.Title, MaxGrade: a.MaxGrade}
		grade := gradeOf(a, studentID)
		switch {
		case grade != nil:
			row.Grade = grade
			row.Display = "Graded"
			breakdown.Graded = append(breakdown.Graded, row)
		case answerOf(a, studentID) != nil:
			row.Display = "Submitted, awaiting grading"
			breakdown.SubmittedNotGraded = append(breakdown.SubmittedNotGraded, row)
		default:
			row.Display = "Not submitted"
			breakdown.Missing = append(breakdown.Missing, row)
		}
	}

	summary := ComputeGradeSummary(assignments, studentID)

	status := models.CourseStatusInProgress
	switch {
	case len(assignments) == 0 || len(breakdown.Missing) > 0:
		status = models.CourseStatusInProgress
	case len(breakdown.SubmittedNotGraded) > 0:
		status = models.CourseStatusAwaitingGrading
	case summary.Percentage != nil && *summary.Percentage < models.PassingPercentage:
		status = models.CourseStatusAtRisk
	default:
		status = models.CourseStatusPassed
	}

	return models.CoursePerformance{
		CourseID:    course.CourseID,
		CourseName:  course.Details.CourseName,
		Status:      status,
		Grade:       summary,
		Assignments: breakdown,
	}
}
