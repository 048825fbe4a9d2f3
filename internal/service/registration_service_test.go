package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type fakeRegStudentRepo struct {
	exists      bool
	inserted    []*models.Student
	deletedSIDs []string
}

func (f *fakeRegStudentRepo) Insert(ctx context.Context, student *models.Student) error {
	f.inserted = append(f.inserted, student)
	return nil
}

func (f *fakeRegStudentRepo) Exists(ctx context.Context, studentID string) (bool, error) {
	return f.exists, nil
}

func (f *fakeRegStudentRepo) DeleteBySID(ctx context.Context, sid string) error {
	f.deletedSIDs = append(f.deletedSIDs, sid)
	return nil
}

type fakeRegInstructorRepo struct {
	exists      bool
	inserted    []*models.Instructor
	deletedIIDs []string
}

func (f *fakeRegInstructorRepo) Insert(ctx context.Context, instructor *models.Instructor) error {
	f.inserted = append(f.inserted, instructor)
	return nil
}

func (f *fakeRegInstructorRepo) Exists(ctx context.Context, instructorID string) (bool, error) {
	return f.exists, nil
}

func (f *fakeRegInstructorRepo) DeleteByIID(ctx context.Context, iid string) error {
	f.deletedIIDs = append(f.deletedIIDs, iid)
	return nil
}

type fakeRegUserRepo struct {
	exists    bool
	insertErr error
	inserted  []*models.User
}

func (f *fakeRegUserRepo) Insert(ctx context.Context, user *models.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, user)
	return nil
}

func (f *fakeRegUserRepo) Exists(ctx context.Context, userID string) (bool, error) {
	return f.exists, nil
}

type fakeRegMajorRepo struct {
	exists bool
}

func (f *fakeRegMajorRepo) Exists(ctx context.Context, majorID string) (bool, error) {
	return f.exists, nil
}

type fakeCredentialsWriter struct {
	lines     [][4]string
	appendErr error
}

func (f *fakeCredentialsWriter) Append(role, id, fullName, password string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.lines = append(f.lines, [4]string{role, id, fullName, password})
	return nil
}

type registrationFixture struct {
	svc         *RegistrationService
	students    *fakeRegStudentRepo
	instructors *fakeRegInstructorRepo
	users       *fakeRegUserRepo
	majors      *fakeRegMajorRepo
	credentials *fakeCredentialsWriter
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		students:    &fakeRegStudentRepo{},
		instructors: &fakeRegInstructorRepo{},
		users:       &fakeRegUserRepo{},
		majors:      &fakeRegMajorRepo{exists: true},
		credentials: &fakeCredentialsWriter{},
	}
	f.svc = NewRegistrationService(f.students, f.instructors, f.users, f.majors, f.credentials, validator.New(), zap.NewNop())
	return f
}

func studentRequest() RegisterStudentRequest {
	return RegisterStudentRequest{
		StudentID: "S1",
		FullName:  "Ada Park",
		MajorID:   "M1",
		Password:  "secret-pass",
	}
}

func TestRegistrationServiceRegisterStudentSuccess(t *testing.T) {
	f := newRegistrationFixture()

	student, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, student.SID)
	assert.Equal(t, "S1", student.StudentID)

	require.Len(t, f.users.inserted, 1)
	account := f.users.inserted[0]
	assert.Equal(t, "S1", account.UserID)
	assert.Equal(t, models.RoleStudent, account.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret-pass")),
		"stored password must be the bcrypt hash of the plaintext")

	require.Len(t, f.credentials.lines, 1)
	assert.Equal(t, [4]string{"student", "S1", "Ada Park", "secret-pass"}, f.credentials.lines[0])
}

func TestRegistrationServiceRegisterStudentCompensatesOnAccountFailure(t *testing.T) {
	f := newRegistrationFixture()
	f.users.insertErr = assert.AnError

	_, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	require.Error(t, err)

	require.Len(t, f.students.inserted, 1)
	require.Len(t, f.students.deletedSIDs, 1)
	assert.Equal(t, f.students.inserted[0].SID, f.students.deletedSIDs[0],
		"the orphaned profile must be deleted when the account insert fails")
	assert.Empty(t, f.credentials.lines)
}

func TestRegistrationServiceRegisterStudentDuplicate(t *testing.T) {
	f := newRegistrationFixture()
	f.students.exists = true

	_, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEntity)
	assert.Empty(t, f.students.inserted)
}

func TestRegistrationServiceRegisterStudentDuplicateAccount(t *testing.T) {
	f := newRegistrationFixture()
	f.users.exists = true

	_, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEntity)
	assert.Len(t, f.students.deletedSIDs, 1, "profile must be rolled back")
}

func TestRegistrationServiceRegisterStudentUnknownMajor(t *testing.T) {
	f := newRegistrationFixture()
	f.majors.exists = false

	_, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestRegistrationServiceRegisterStudentShortPassword(t *testing.T) {
	f := newRegistrationFixture()
	req := studentRequest()
	req.Password = "abc"

	_, err := f.svc.RegisterStudent(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRegistrationServiceRegisterInstructorSuccess(t *testing.T) {
	f := newRegistrationFixture()

	instructor, err := f.svc.RegisterInstructor(context.Background(), RegisterInstructorRequest{
		InstructorID: "I1",
		FullName:     "Dr. Reed",
		Password:     "secret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, instructor.IID)
	require.Len(t, f.users.inserted, 1)
	assert.Equal(t, models.RoleInstructor, f.users.inserted[0].Role)
}

func TestRegistrationServiceRegisterInstructorCompensatesOnAccountFailure(t *testing.T) {
	f := newRegistrationFixture()
	f.users.insertErr = assert.AnError

	_, err := f.svc.RegisterInstructor(context.Background(), RegisterInstructorRequest{
		InstructorID: "I1",
		FullName:     "Dr. Reed",
		Password:     "secret-pass",
	})
	require.Error(t, err)
	assert.Len(t, f.instructors.deletedIIDs, 1)
}

func TestRegistrationServiceNilCredentialsWriterIsSkipped(t *testing.T) {
	f := newRegistrationFixture()
	f.svc = NewRegistrationService(f.students, f.instructors, f.users, f.majors, nil, validator.New(), zap.NewNop())

	_, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	assert.NoError(t, err)
}

func TestRegistrationServiceCredentialsFailureDoesNotFailRegistration(t *testing.T) {
	f := newRegistrationFixture()
	f.credentials.appendErr = assert.AnError

	_, err := f.svc.RegisterStudent(context.Background(), studentRequest())
	assert.NoError(t, err)
}
