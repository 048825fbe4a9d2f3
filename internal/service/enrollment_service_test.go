package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

// fakeGraph counts mirror writes and serves canned graph reads.
type fakeGraph struct {
	enrollmentLinks int
	teachingLinks   int
	assignmentLinks int
	submissionLinks int
	linkErr         error

	instructorCourseIDs []string
	courseStudents      []models.PersonRef
}

func (f *fakeGraph) LinkEnrollment(ctx context.Context, studentID, studentName, courseID, courseName string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.enrollmentLinks++
	return nil
}

func (f *fakeGraph) LinkTeaching(ctx context.Context, instructorID, instructorName, courseID, courseName string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.teachingLinks++
	return nil
}

func (f *fakeGraph) LinkAssignment(ctx context.Context, assignmentID, title, courseID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.assignmentLinks++
	return nil
}

func (f *fakeGraph) LinkSubmission(ctx context.Context, studentID, assignmentID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.submissionLinks++
	return nil
}

func (f *fakeGraph) InstructorCourseIDs(ctx context.Context, instructorID string) ([]string, error) {
	return f.instructorCourseIDs, nil
}

func (f *fakeGraph) CourseStudents(ctx context.Context, courseID string) ([]models.PersonRef, error) {
	return f.courseStudents, nil
}

// fakeActivityRecorder counts behavioural events by activity type.
type fakeActivityRecorder struct {
	logins         int
	weeklySummary  int
	weeklyCount    int
	loginCount     int
	courseEvents   map[string]int
	submissions    int
	recordLoginErr error
	recordErr      error
}

func newFakeActivityRecorder() *fakeActivityRecorder {
	return &fakeActivityRecorder{courseEvents: make(map[string]int)}
}

func (f *fakeActivityRecorder) RecordLogin(ctx context.Context, studentID, loginEvent string, at time.Time) error {
	if f.recordLoginErr != nil {
		return f.recordLoginErr
	}
	f.logins++
	return nil
}

func (f *fakeActivityRecorder) LoginCount(ctx context.Context, studentID string, window time.Duration) (int, error) {
	return f.loginCount, nil
}

func (f *fakeActivityRecorder) RecordWeeklyLoginSummary(ctx context.Context, studentID string, count int, at time.Time) error {
	f.weeklySummary++
	f.weeklyCount = count
	return nil
}

func (f *fakeActivityRecorder) RecordCourseActivity(ctx context.Context, studentID, courseID, activityType, assignmentID string, at time.Time) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.courseEvents[activityType]++
	return nil
}

func (f *fakeActivityRecorder) RecordSubmission(ctx context.Context, courseID, assignmentID, studentID string, at time.Time) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.submissions++
	return nil
}

type fakeEnrollmentStudentRepo struct {
	student *models.Student
}

func (f *fakeEnrollmentStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	if f.student == nil || f.student.StudentID != studentID {
		return nil, mongo.ErrNoDocuments
	}
	return f.student, nil
}

type fakeEnrollmentCourseRepo struct {
	courses    map[string]*models.Course
	available  []models.Course
	claimOK    bool
	claimCalls int
	plainCalls int
	listCalls  int
}

func (f *fakeEnrollmentCourseRepo) FindByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return course, nil
}

func (f *fakeEnrollmentCourseRepo) FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Course, error) {
	out := []models.Course{}
	for _, id := range courseIDs {
		if course, ok := f.courses[id]; ok {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentCourseRepo) FindAvailableForRegistration(ctx context.Context, majorID string, excludeCourseIDs []string) ([]models.Course, error) {
	f.listCalls++
	return f.available, nil
}

func (f *fakeEnrollmentCourseRepo) IncrementRegisteredCountIf(ctx context.Context, courseID string, limit int) (bool, error) {
	f.claimCalls++
	return f.claimOK, nil
}

func (f *fakeEnrollmentCourseRepo) IncrementRegisteredCount(ctx context.Context, courseID string) error {
	f.plainCalls++
	return nil
}

type fakeEnrollmentRepo struct {
	rows      []models.Enrollment
	courseIDs []string
	enrolled  map[string]bool
}

func (f *fakeEnrollmentRepo) Insert(ctx context.Context, enrollment *models.Enrollment) error {
	f.rows = append(f.rows, *enrollment)
	return nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	return f.enrolled[studentID+"|"+courseID], nil
}

func (f *fakeEnrollmentRepo) CourseIDsByStudent(ctx context.Context, studentID string) ([]string, error) {
	return f.courseIDs, nil
}

type fakeEnrollmentRoomRepo struct {
	room *models.Room
}

func (f *fakeEnrollmentRoomRepo) FindByRoom(ctx context.Context, room string) (*models.Room, error) {
	if f.room == nil {
		return nil, mongo.ErrNoDocuments
	}
	return f.room, nil
}

func testCourse(courseID, room string, schedule models.Schedule, registered int) *models.Course {
	return &models.Course{
		CID:      "cid-" + courseID,
		CourseID: courseID,
		MajorIDs: []string{"M1"},
		Details: models.CourseDetails{
			CourseName:              "Course " + courseID,
			Schedule:                schedule,
			Room:                    room,
			InstructorName:          "Dr. Reed",
			RegisteredStudentsCount: registered,
		},
	}
}

func mondaySlot(start, end string) models.Schedule {
	return models.Schedule{Days: []string{"monday"}, StartTime: start, EndTime: end}
}

type enrollmentFixture struct {
	svc      *EnrollmentService
	students *fakeEnrollmentStudentRepo
	courses  *fakeEnrollmentCourseRepo
	rows     *fakeEnrollmentRepo
	rooms    *fakeEnrollmentRoomRepo
	graph    *fakeGraph
	activity *fakeActivityRecorder
	cache    *memoryCacheRepo
}

func newEnrollmentFixture() *enrollmentFixture {
	f := &enrollmentFixture{
		students: &fakeEnrollmentStudentRepo{student: &models.Student{SID: "sid-1", StudentID: "S1", FullName: "Ada Park", MajorID: "M1"}},
		courses:  &fakeEnrollmentCourseRepo{courses: map[string]*models.Course{}, claimOK: true},
		rows:     &fakeEnrollmentRepo{enrolled: map[string]bool{}},
		rooms:    &fakeEnrollmentRoomRepo{room: &models.Room{Room: "R101", Capacity: 30}},
		graph:    &fakeGraph{},
		activity: newFakeActivityRecorder(),
		cache:    newMemoryCacheRepo(),
	}
	f.svc = NewEnrollmentService(
		f.students, f.courses, f.rows, f.rooms, f.graph, f.activity,
		newTestCache(f.cache), NewPipeline(zap.NewNop(), nil), zap.NewNop(),
	)
	return f
}

func TestEnrollmentServiceEnrollSuccess(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.cache.prime(t, "student_courses:S1", []string{})

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	require.NoError(t, err)

	require.Len(t, f.rows.rows, 1)
	assert.Equal(t, "S1", f.rows.rows[0].StudentID)
	assert.Equal(t, "C1", f.rows.rows[0].CourseID)
	assert.NotEmpty(t, f.rows.rows[0].EID)
	assert.Equal(t, 1, f.courses.claimCalls)
	assert.Equal(t, 1, f.graph.enrollmentLinks)
	assert.Equal(t, 1, f.activity.courseEvents[models.ActivityAddCourse])
	assert.NotContains(t, f.cache.entries, "student_courses:S1")
}

func TestEnrollmentServiceEnrollAlreadyEnrolled(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.rows.enrolled["S1|C1"] = true

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)
	assert.Zero(t, f.courses.claimCalls, "seat counter must be untouched")
	assert.Empty(t, f.rows.rows)
}

func TestEnrollmentServiceEnrollCourseFull(t *testing.T) {
	f := newEnrollmentFixture()
	f.rooms.room = &models.Room{Room: "R101", Capacity: 2}
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 2)

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	assert.ErrorIs(t, err, appErrors.ErrCourseFull)
	assert.Zero(t, f.courses.claimCalls)
}

func TestEnrollmentServiceEnrollLosesSeatRace(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.courses.claimOK = false

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	assert.ErrorIs(t, err, appErrors.ErrCourseFull)
	assert.Empty(t, f.rows.rows, "losing the seat race must not insert an enrollment")
	assert.Zero(t, f.graph.enrollmentLinks)
}

func TestEnrollmentServiceEnrollScheduleConflict(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.courses.courses["C2"] = testCourse("C2", "R102", mondaySlot("10:00", "12:00"), 0)
	f.rows.courseIDs = []string{"C2"}

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	assert.ErrorIs(t, err, appErrors.ErrScheduleConflict)
}

func TestEnrollmentServiceEnrollBackToBackSlotsDoNotConflict(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.courses.courses["C2"] = testCourse("C2", "R102", mondaySlot("11:00", "13:00"), 0)
	f.rows.courseIDs = []string{"C2"}

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	assert.NoError(t, err)
}

func TestEnrollmentServiceEnrollUnknownStudent(t *testing.T) {
	f := newEnrollmentFixture()
	f.students.student = nil
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEnrollmentServiceEnrollUnknownCourse(t *testing.T) {
	f := newEnrollmentFixture()

	err := f.svc.Enroll(context.Background(), "S1", "C404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEnrollmentServiceEnrollWithoutRoomDocumentSkipsCapacity(t *testing.T) {
	f := newEnrollmentFixture()
	f.rooms.room = nil
	f.courses.courses["C1"] = testCourse("C1", "R9", mondaySlot("09:00", "11:00"), 500)

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	require.NoError(t, err)
	assert.Zero(t, f.courses.claimCalls)
	assert.Equal(t, 1, f.courses.plainCalls)
	assert.Len(t, f.rows.rows, 1)
}

func TestEnrollmentServiceEnrollAdvisoryFailuresStillCommit(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.graph.linkErr = assert.AnError
	f.activity.recordErr = assert.AnError

	err := f.svc.Enroll(context.Background(), "S1", "C1")
	require.NoError(t, err)
	assert.Len(t, f.rows.rows, 1)
}

func TestEnrollmentServiceAvailableCoursesReadThrough(t *testing.T) {
	f := newEnrollmentFixture()
	f.courses.available = []models.Course{*testCourse("C3", "R101", mondaySlot("09:00", "11:00"), 0)}

	first, err := f.svc.AvailableCourses(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, f.courses.listCalls)

	second, err := f.svc.AvailableCourses(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.courses.listCalls, "second read must come from cache")
}
