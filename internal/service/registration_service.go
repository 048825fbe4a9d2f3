package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type registrationStudentRepository interface {
	Insert(ctx context.Context, student *models.Student) error
	Exists(ctx context.Context, studentID string) (bool, error)
	DeleteBySID(ctx context.Context, sid string) error
}

type registrationInstructorRepository interface {
	Insert(ctx context.Context, instructor *models.Instructor) error
	Exists(ctx context.Context, instructorID string) (bool, error)
	DeleteByIID(ctx context.Context, iid string) error
}

type registrationUserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, userID string) (bool, error)
}

type registrationMajorRepository interface {
	Exists(ctx context.Context, majorID string) (bool, error)
}

// CredentialsWriter appends issued credentials to the role-specific export
// file. The export is an explicit plaintext side channel.
type CredentialsWriter interface {
	Append(role, id, fullName, password string) error
}

// RegisterStudentRequest is the dean's student registration payload.
type RegisterStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
	MajorID   string `json:"major_id" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// RegisterInstructorRequest is the dean's instructor registration payload.
type RegisterInstructorRequest struct {
	InstructorID string `json:"instructor_id" validate:"required"`
	FullName     string `json:"full_name" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
}

// RegistrationService creates profiles with their login accounts. The profile
// insert and the account insert are two writes with no transaction; a failed
// account insert compensates by deleting the just-created profile.
type RegistrationService struct {
	students    registrationStudentRepository
	instructors registrationInstructorRepository
	users       registrationUserRepository
	majors      registrationMajorRepository
	credentials CredentialsWriter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	students registrationStudentRepository,
	instructors registrationInstructorRepository,
	users registrationUserRepository,
	majors registrationMajorRepository,
	credentials CredentialsWriter,
	validate *validator.Validate,
	logger *zap.Logger,
) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		students:    students,
		instructors: instructors,
		users:       users,
		majors:      majors,
		credentials: credentials,
		validator:   validate,
		logger:      logger,
	}
}

// RegisterStudent creates a student profile and its login account.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration payload")
	}

	majorExists, err := s.majors.Exists(ctx, req.MajorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check major")
	}
	if !majorExists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "major not found")
	}

	exists, err := s.students.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "student id already registered")
	}

	student := &models.Student{
		SID:       uuid.NewString(),
		StudentID: req.StudentID,
		FullName:  req.FullName,
		MajorID:   req.MajorID,
	}
	if err := s.students.Insert(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student profile")
	}

	if err := s.createAccount(ctx, req.StudentID, req.Password, models.RoleStudent); err != nil {
		if delErr := s.students.DeleteBySID(ctx, student.SID); delErr != nil {
			s.logger.Error("orphaned student profile after failed account creation",
				zap.String("student_id", req.StudentID), zap.Error(delErr))
		}
		return nil, err
	}

	s.exportCredentials(string(models.RoleStudent), req.StudentID, req.FullName, req.Password)
	return student, nil
}

// RegisterInstructor creates an instructor profile and its login account.
func (s *RegistrationService) RegisterInstructor(ctx context.Context, req RegisterInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor registration payload")
	}

	exists, err := s.instructors.Exists(ctx, req.InstructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "instructor id already registered")
	}

	instructor := &models.Instructor{
		IID:          uuid.NewString(),
		InstructorID: req.InstructorID,
		FullName:     req.FullName,
	}
	if err := s.instructors.Insert(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor profile")
	}

	if err := s.createAccount(ctx, req.InstructorID, req.Password, models.RoleInstructor); err != nil {
		if delErr := s.instructors.DeleteByIID(ctx, instructor.IID); delErr != nil {
			s.logger.Error("orphaned instructor profile after failed account creation",
				zap.String("instructor_id", req.InstructorID), zap.Error(delErr))
		}
		return nil, err
	}

	s.exportCredentials(string(models.RoleInstructor), req.InstructorID, req.FullName, req.Password)
	return instructor, nil
}

func (s *RegistrationService) createAccount(ctx context.Context, userID, password string, role models.Role) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check account")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateEntity, "account already exists for this id")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		UID:          uuid.NewString(),
		UserID:       userID,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}
	return nil
}

func (s *RegistrationService) exportCredentials(role, id, fullName, password string) {
	if s.credentials == nil {
		return
	}
	s.logger.Warn("writing plaintext credentials export", zap.String("role", role), zap.String("id", id))
	if err := s.credentials.Append(role, id, fullName, password); err != nil {
		s.logger.Error("credentials export failed", zap.String("role", role), zap.String("id", id), zap.Error(err))
	}
}
