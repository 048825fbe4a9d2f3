package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	"github.com/noah-isme/university-portal-api/internal/scheduler"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type catalogMajorRepository interface {
	Insert(ctx context.Context, major *models.Major) error
	Exists(ctx context.Context, majorID string) (bool, error)
	List(ctx context.Context) ([]models.Major, error)
}

type catalogRoomRepository interface {
	Insert(ctx context.Context, room *models.Room) error
	FindByRoom(ctx context.Context, room string) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
}

type catalogCourseRepository interface {
	Insert(ctx context.Context, course *models.Course) error
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	ListScheduledOnDays(ctx context.Context, days []string) ([]models.Course, error)
}

type catalogInstructorRepository interface {
	FindByInstructorID(ctx context.Context, instructorID string) (*models.Instructor, error)
	List(ctx context.Context) ([]models.Instructor, error)
}

type teachingLinker interface {
	LinkTeaching(ctx context.Context, instructorID, instructorName, courseID, courseName string) error
}

// CreateMajorRequest is the dean's major creation payload.
type CreateMajorRequest struct {
	MajorID   string `json:"major_id" validate:"required"`
	MajorName string `json:"major_name" validate:"required"`
}

// CreateRoomRequest is the dean's room creation payload.
type CreateRoomRequest struct {
	Room     string `json:"room" validate:"required"`
	Capacity int    `json:"capacity" validate:"omitempty,min=1"`
}

// CreateCourseRequest is the dean's course creation payload.
type CreateCourseRequest struct {
	CourseID     string          `json:"course_id" validate:"required"`
	CourseName   string          `json:"course_name" validate:"required"`
	MajorIDs     []string        `json:"major_ids" validate:"required,min=1"`
	InstructorID string          `json:"instructor_id" validate:"required"`
	Room         string          `json:"room" validate:"required"`
	Schedule     models.Schedule `json:"schedule" validate:"required"`
}

// CatalogService owns the dean's catalog mutations: majors, rooms and course
// placement. Course creation runs the room and instructor availability checks
// before committing, then mirrors the teaching edge and invalidates the
// affected course lists through the mutation pipeline.
type CatalogService struct {
	majors      catalogMajorRepository
	rooms       catalogRoomRepository
	courses     catalogCourseRepository
	instructors catalogInstructorRepository
	graph       teachingLinker
	cache       *CacheService
	pipeline    *Pipeline
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(
	majors catalogMajorRepository,
	rooms catalogRoomRepository,
	courses catalogCourseRepository,
	instructors catalogInstructorRepository,
	graph teachingLinker,
	cache *CacheService,
	pipeline *Pipeline,
	validate *validator.Validate,
	logger *zap.Logger,
) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		majors:      majors,
		rooms:       rooms,
		courses:     courses,
		instructors: instructors,
		graph:       graph,
		cache:       cache,
		pipeline:    pipeline,
		validator:   validate,
		logger:      logger,
	}
}

// CreateMajor registers a new academic program.
func (s *CatalogService) CreateMajor(ctx context.Context, req CreateMajorRequest) (*models.Major, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid major payload")
	}
	exists, err := s.majors.Exists(ctx, req.MajorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check major")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "major already exists")
	}
	major := &models.Major{MajorID: req.MajorID, MajorName: req.MajorName}
	if err := s.majors.Insert(ctx, major); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create major")
	}
	return major, nil
}

// ListMajors returns every registered program.
func (s *CatalogService) ListMajors(ctx context.Context) ([]models.Major, error) {
	majors, err := s.majors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list majors")
	}
	return majors, nil
}

// CreateRoom registers a new room.
func (s *CatalogService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	if _, err := s.rooms.FindByRoom(ctx, req.Room); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "room already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room")
	}
	room := &models.Room{Room: req.Room, Capacity: req.Capacity}
	if err := s.rooms.Insert(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// CreateCourse places a new course. Ordered checks: payload validation,
// schedule sanity, instructor existence, duplicate course id, room
// availability, instructor availability. On commit the teaching edge is
// mirrored and the instructor's and students' course lists are invalidated.
func (s *CatalogService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if len(req.Schedule.Days) == 0 || req.Schedule.StartTime == "" || req.Schedule.EndTime == "" || req.Schedule.StartTime >= req.Schedule.EndTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule must name at least one day and a non-empty time interval")
	}

	for _, majorID := range req.MajorIDs {
		exists, err := s.majors.Exists(ctx, majorID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check major")
		}
		if !exists {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "major not found: "+majorID)
		}
	}

	instructor, err := s.instructors.FindByInstructorID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch instructor")
	}

	if _, err := s.courses.FindByCourseID(ctx, req.CourseID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "course already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
	}

	scheduled, err := s.courses.ListScheduledOnDays(ctx, req.Schedule.Days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduled courses")
	}
	if _, busy := scheduler.BusyRooms(req.Schedule, scheduled)[req.Room]; busy {
		return nil, appErrors.ErrInvalidSchedule
	}
	if _, busy := scheduler.BusyInstructors(req.Schedule, scheduled)[instructor.FullName]; busy {
		return nil, appErrors.ErrInstructorBusy
	}

	course := &models.Course{
		CID:      uuid.NewString(),
		CourseID: req.CourseID,
		MajorIDs: req.MajorIDs,
		Details: models.CourseDetails{
			CourseName:     req.CourseName,
			Schedule:       req.Schedule,
			Room:           req.Room,
			InstructorName: instructor.FullName,
		},
	}

	err = s.pipeline.Execute(ctx, "create_course",
		PipelineStep{Name: "insert_course", Run: func(ctx context.Context) error {
			return s.courses.Insert(ctx, course)
		}},
		PipelineStep{Name: "mirror_teaches", Run: func(ctx context.Context) error {
			return s.graph.LinkTeaching(ctx, instructor.InstructorID, instructor.FullName, course.CourseID, course.Details.CourseName)
		}},
		PipelineStep{Name: "invalidate_cache", Run: func(ctx context.Context) error {
			return s.cache.Invalidate(ctx, InvalidateCourseCreation(instructor.InstructorID))
		}},
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// AvailableRooms returns the rooms free during the given schedule.
func (s *CatalogService) AvailableRooms(ctx context.Context, target models.Schedule) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	scheduled, err := s.courses.ListScheduledOnDays(ctx, target.Days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduled courses")
	}
	return scheduler.AvailableRooms(target, rooms, scheduled), nil
}

// AvailableInstructors returns the instructors free during the given schedule.
func (s *CatalogService) AvailableInstructors(ctx context.Context, target models.Schedule) ([]models.Instructor, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	scheduled, err := s.courses.ListScheduledOnDays(ctx, target.Days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduled courses")
	}
	return scheduler.AvailableInstructors(target, instructors, scheduled), nil
}
