package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	"github.com/noah-isme/university-portal-api/internal/scheduler"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type enrollmentStudentRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

type enrollmentCourseRepository interface {
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Course, error)
	FindAvailableForRegistration(ctx context.Context, majorID string, excludeCourseIDs []string) ([]models.Course, error)
	IncrementRegisteredCountIf(ctx context.Context, courseID string, limit int) (bool, error)
	IncrementRegisteredCount(ctx context.Context, courseID string) error
}

type enrollmentRepository interface {
	Insert(ctx context.Context, enrollment *models.Enrollment) error
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	CourseIDsByStudent(ctx context.Context, studentID string) ([]string, error)
}

type enrollmentRoomRepository interface {
	FindByRoom(ctx context.Context, room string) (*models.Room, error)
}

type enrollmentLinker interface {
	LinkEnrollment(ctx context.Context, studentID, studentName, courseID, courseName string) error
}

type courseActivityRecorder interface {
	RecordCourseActivity(ctx context.Context, studentID, courseID, activityType, assignmentID string, at time.Time) error
}

// EnrollmentService coordinates the enroll flow across all four stores: the
// conflict checks run against an authoritative-store snapshot, the seat
// counter is claimed with a guarded increment, and the graph edge, cache
// invalidation and behavioral event follow as advisory pipeline steps.
type EnrollmentService struct {
	students    enrollmentStudentRepository
	courses     enrollmentCourseRepository
	enrollments enrollmentRepository
	rooms       enrollmentRoomRepository
	graph       enrollmentLinker
	activity    courseActivityRecorder
	cache       *CacheService
	pipeline    *Pipeline
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(
	students enrollmentStudentRepository,
	courses enrollmentCourseRepository,
	enrollments enrollmentRepository,
	rooms enrollmentRoomRepository,
	graph enrollmentLinker,
	activity courseActivityRecorder,
	cache *CacheService,
	pipeline *Pipeline,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		rooms:       rooms,
		graph:       graph,
		activity:    activity,
		cache:       cache,
		pipeline:    pipeline,
		logger:      logger,
	}
}

// Enroll registers the student in the course after the ordered conflict
// checks pass. The seat is claimed with a conditional increment so two
// concurrent enrollments cannot overshoot the room capacity.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) error {
	snap, student, err := s.loadSnapshot(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if err := scheduler.CheckEnrollment(*snap); err != nil {
		return err
	}

	course := snap.Course
	return s.pipeline.Execute(ctx, "enroll",
		PipelineStep{Name: "insert_enrollment", Run: func(ctx context.Context) error {
			if snap.Room != nil {
				claimed, err := s.courses.IncrementRegisteredCountIf(ctx, courseID, snap.Room.EffectiveCapacity())
				if err != nil {
					return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim seat")
				}
				if !claimed {
					return appErrors.ErrCourseFull
				}
			} else {
				if err := s.courses.IncrementRegisteredCount(ctx, courseID); err != nil {
					return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update seat counter")
				}
			}
			enrollment := &models.Enrollment{
				EID:       uuid.NewString(),
				StudentID: studentID,
				CourseID:  courseID,
			}
			if err := s.enrollments.Insert(ctx, enrollment); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert enrollment")
			}
			return nil
		}},
		PipelineStep{Name: "mirror_enrolled_in", Run: func(ctx context.Context) error {
			return s.graph.LinkEnrollment(ctx, studentID, student.FullName, courseID, course.Details.CourseName)
		}},
		PipelineStep{Name: "invalidate_cache", Run: func(ctx context.Context) error {
			return s.cache.Invalidate(ctx, InvalidateEnrollment(studentID, courseID))
		}},
		PipelineStep{Name: "record_add_course", Run: func(ctx context.Context) error {
			return s.activity.RecordCourseActivity(ctx, studentID, courseID, models.ActivityAddCourse, "", time.Now().UTC())
		}},
	)
}

// AvailableCourses returns the courses the student's major offers that the
// student has not joined yet, through the read-through cache.
func (s *EnrollmentService) AvailableCourses(ctx context.Context, studentID string) ([]models.Course, error) {
	key := KeyAvailableCourses(studentID)
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	enrolledIDs, err := s.enrollments.CourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	courses, err := s.courses.FindAvailableForRegistration(ctx, student.MajorID, enrolledIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load available courses")
	}

	if err := s.cache.Set(ctx, key, courses, 0); err != nil {
		s.logger.Warn("available courses not cached", zap.String("student_id", studentID), zap.Error(err))
	}
	return courses, nil
}

func (s *EnrollmentService) loadSnapshot(ctx context.Context, studentID, courseID string) (*scheduler.EnrollmentSnapshot, *models.Student, error) {
	snap := &scheduler.EnrollmentSnapshot{}

	student, err := s.students.FindByStudentID(ctx, studentID)
	switch {
	case err == nil:
		snap.StudentExists = true
	case errors.Is(err, mongo.ErrNoDocuments):
		return snap, nil, scheduler.CheckEnrollment(*snap)
	default:
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	snap.Course = course
	if course == nil {
		return snap, student, nil
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	snap.AlreadyEnrolled = enrolled

	room, err := s.rooms.FindByRoom(ctx, course.Details.Room)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch room")
	}
	snap.Room = room

	enrolledIDs, err := s.enrollments.CourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	enrolledCourses, err := s.courses.FindByCourseIDs(ctx, enrolledIDs)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled courses")
	}
	snap.EnrolledCourses = enrolledCourses

	return snap, student, nil
}
