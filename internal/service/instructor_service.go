package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type instructorProfileRepository interface {
	FindByInstructorID(ctx context.Context, instructorID string) (*models.Instructor, error)
}

type instructorCourseRepository interface {
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Course, error)
}

type instructorAssignmentRepository interface {
	Insert(ctx context.Context, assignment *models.Assignment) error
	FindByAssignmentID(ctx context.Context, assignmentID string) (*models.Assignment, error)
	FindByCourseID(ctx context.Context, courseID string) ([]models.Assignment, error)
	FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Assignment, error)
	ReplaceGrade(ctx context.Context, assignmentID string, grade models.GradeEntry) error
}

type instructorEnrollmentRepository interface {
	StudentIDsByCourse(ctx context.Context, courseID string) ([]string, error)
}

type instructorGraphRepository interface {
	LinkAssignment(ctx context.Context, assignmentID, title, courseID string) error
	InstructorCourseIDs(ctx context.Context, instructorID string) ([]string, error)
	CourseStudents(ctx context.Context, courseID string) ([]models.PersonRef, error)
}

// CreateAssignmentRequest is the instructor's assignment creation payload.
type CreateAssignmentRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Deadline    string  `json:"deadline" validate:"required"`
	MaxGrade    float64 `json:"max_grade" validate:"required,gt=0"`
}

// GradeRequest is the instructor's grading payload.
type GradeRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Grade     float64 `json:"grade" validate:"gte=0"`
}

// InstructorService serves the teaching side: taught courses, assignment
// management, rosters and grading. Course membership reads come from the
// graph mirror; ownership checks go back to the authoritative store.
type InstructorService struct {
	instructors instructorProfileRepository
	courses     instructorCourseRepository
	assignments instructorAssignmentRepository
	enrollments instructorEnrollmentRepository
	graph       instructorGraphRepository
	cache       *CacheService
	pipeline    *Pipeline
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewInstructorService constructs an InstructorService.
func NewInstructorService(
	instructors instructorProfileRepository,
	courses instructorCourseRepository,
	assignments instructorAssignmentRepository,
	enrollments instructorEnrollmentRepository,
	graph instructorGraphRepository,
	cache *CacheService,
	pipeline *Pipeline,
	validate *validator.Validate,
	logger *zap.Logger,
) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{
		instructors: instructors,
		courses:     courses,
		assignments: assignments,
		enrollments: enrollments,
		graph:       graph,
		cache:       cache,
		pipeline:    pipeline,
		validator:   validate,
		logger:      logger,
	}
}

// Courses returns the instructor's taught courses. Membership comes from the
// graph mirror, details from the authoritative store, through the
// read-through cache.
func (s *InstructorService) Courses(ctx context.Context, instructorID string) ([]models.Course, error) {
	key := KeyInstructorCourses(instructorID)
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	courseIDs, err := s.graph.InstructorCourseIDs(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "graph mirror unavailable")
	}
	courses, err := s.courses.FindByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	if err := s.cache.Set(ctx, key, courses, 0); err != nil {
		s.logger.Warn("instructor courses not cached", zap.String("instructor_id", instructorID), zap.Error(err))
	}
	return courses, nil
}

// CourseAssignments returns the assignments of one taught course through the
// read-through cache.
func (s *InstructorService) CourseAssignments(ctx context.Context, instructorID, courseID string) ([]models.Assignment, error) {
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	key := KeyAssignmentList(courseID)
	var cached []models.Assignment
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	assignments, err := s.assignments.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	if err := s.cache.Set(ctx, key, assignments, 0); err != nil {
		s.logger.Warn("assignment list not cached", zap.String("course_id", courseID), zap.Error(err))
	}
	return assignments, nil
}

// Assignments returns every assignment across the instructor's taught
// courses through the read-through cache.
func (s *InstructorService) Assignments(ctx context.Context, instructorID string) ([]models.Assignment, error) {
	key := KeyInstructorCourseAssignments(instructorID)
	var cached []models.Assignment
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	courseIDs, err := s.graph.InstructorCourseIDs(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "graph mirror unavailable")
	}
	assignments, err := s.assignments.FindByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	if err := s.cache.Set(ctx, key, assignments, 0); err != nil {
		s.logger.Warn("instructor assignments not cached", zap.String("instructor_id", instructorID), zap.Error(err))
	}
	return assignments, nil
}

// Roster returns the students enrolled in one taught course, from the graph
// mirror through the read-through cache.
func (s *InstructorService) Roster(ctx context.Context, instructorID, courseID string) ([]models.PersonRef, error) {
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	key := KeyEnrolledStudents(courseID)
	var cached []models.PersonRef
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	students, err := s.graph.CourseStudents(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "graph mirror unavailable")
	}

	if err := s.cache.Set(ctx, key, students, 0); err != nil {
		s.logger.Warn("roster not cached", zap.String("course_id", courseID), zap.Error(err))
	}
	return students, nil
}

// CreateAssignment attaches a new assignment to a taught course, mirrors the
// BELONGS_TO edge and invalidates the assignment and task views of the
// course's roster.
func (s *InstructorService) CreateAssignment(ctx context.Context, instructorID, courseID string, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		AssignmentID: uuid.NewString(),
		CourseID:     courseID,
		Title:        req.Title,
		Description:  req.Description,
		Deadline:     req.Deadline,
		MaxGrade:     req.MaxGrade,
		Answers:      []models.Answer{},
		Grades:       []models.GradeEntry{},
	}

	err := s.pipeline.Execute(ctx, "create_assignment",
		PipelineStep{Name: "insert_assignment", Run: func(ctx context.Context) error {
			return s.assignments.Insert(ctx, assignment)
		}},
		PipelineStep{Name: "mirror_belongs_to", Run: func(ctx context.Context) error {
			return s.graph.LinkAssignment(ctx, assignment.AssignmentID, assignment.Title, courseID)
		}},
		PipelineStep{Name: "invalidate_cache", Run: func(ctx context.Context) error {
			roster, err := s.enrollments.StudentIDsByCourse(ctx, courseID)
			if err != nil {
				return err
			}
			return s.cache.Invalidate(ctx, InvalidateAssignmentCreation(courseID, instructorID, roster))
		}},
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Grade records a grade for one student's submission. Regrading replaces the
// previous entry.
func (s *InstructorService) Grade(ctx context.Context, instructorID, assignmentID string, req GradeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	assignment, err := s.ownedAssignment(ctx, instructorID, assignmentID)
	if err != nil {
		return err
	}
	if answerOf(*assignment, req.StudentID) == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "no submission from this student")
	}

	courseID := assignment.CourseID
	return s.pipeline.Execute(ctx, "grade",
		PipelineStep{Name: "upsert_grade", Run: func(ctx context.Context) error {
			return s.assignments.ReplaceGrade(ctx, assignmentID, models.GradeEntry{StudentID: req.StudentID, Grade: req.Grade})
		}},
		PipelineStep{Name: "invalidate_cache", Run: func(ctx context.Context) error {
			return s.cache.Invalidate(ctx, InvalidateGrade(req.StudentID, courseID))
		}},
	)
}

// Answer returns one student's submission state for an assignment.
func (s *InstructorService) Answer(ctx context.Context, instructorID, assignmentID, studentID string) (*models.AnswerView, error) {
	assignment, err := s.ownedAssignment(ctx, instructorID, assignmentID)
	if err != nil {
		return nil, err
	}
	return &models.AnswerView{
		Answer:   answerOf(*assignment, studentID),
		Grade:    gradeOf(*assignment, studentID),
		MaxGrade: assignment.MaxGrade,
	}, nil
}

func (s *InstructorService) ownedCourse(ctx context.Context, instructorID, courseID string) (*models.Course, error) {
	instructor, err := s.instructors.FindByInstructorID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch instructor")
	}
	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	if course.Details.InstructorName != instructor.FullName {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is taught by another instructor")
	}
	return course, nil
}

func (s *InstructorService) ownedAssignment(ctx context.Context, instructorID, assignmentID string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByAssignmentID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}
	if _, err := s.ownedCourse(ctx, instructorID, assignment.CourseID); err != nil {
		return nil, err
	}
	return assignment, nil
}
