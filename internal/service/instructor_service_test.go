package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type fakeInstructorEnrollmentRepo struct {
	studentIDs []string
}

func (f *fakeInstructorEnrollmentRepo) StudentIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	return f.studentIDs, nil
}

type instructorFixture struct {
	svc         *InstructorService
	instructors *fakeCatalogInstructorRepo
	courses     *fakeEnrollmentCourseRepo
	assignments *fakeAssignmentStore
	enrollments *fakeInstructorEnrollmentRepo
	graph       *fakeGraph
	cache       *memoryCacheRepo
}

func newInstructorFixture(assignments ...*models.Assignment) *instructorFixture {
	f := &instructorFixture{
		instructors: &fakeCatalogInstructorRepo{instructors: map[string]models.Instructor{
			"I1": {IID: "iid-1", InstructorID: "I1", FullName: "Dr. Reed"},
			"I2": {IID: "iid-2", InstructorID: "I2", FullName: "Dr. Okafor"},
		}},
		courses:     &fakeEnrollmentCourseRepo{courses: map[string]*models.Course{}},
		assignments: newFakeAssignmentStore(assignments...),
		enrollments: &fakeInstructorEnrollmentRepo{},
		graph:       &fakeGraph{},
		cache:       newMemoryCacheRepo(),
	}
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 0)
	f.svc = NewInstructorService(
		f.instructors, f.courses, f.assignments, f.enrollments, f.graph,
		newTestCache(f.cache), NewPipeline(zap.NewNop(), nil), validator.New(), zap.NewNop(),
	)
	return f
}

func TestInstructorServiceCoursesFromGraphMirror(t *testing.T) {
	f := newInstructorFixture()
	f.graph.instructorCourseIDs = []string{"C1"}

	courses, err := f.svc.Courses(context.Background(), "I1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "C1", courses[0].CourseID)

	assert.Contains(t, f.cache.entries, "instructor_courses:I1")
}

func TestInstructorServiceCreateAssignmentSuccess(t *testing.T) {
	f := newInstructorFixture()
	f.enrollments.studentIDs = []string{"S1", "S2"}
	f.cache.prime(t, "pending_tasks:S1", []string{})
	f.cache.prime(t, "assignment_list:C1", []string{})
	f.cache.prime(t, "student_course_details:S2:C1", "view")

	assignment, err := f.svc.CreateAssignment(context.Background(), "I1", "C1", CreateAssignmentRequest{
		Title:    "Problem set 1",
		Deadline: "2026-06-30",
		MaxGrade: 100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, assignment.AssignmentID)
	assert.Equal(t, "C1", assignment.CourseID)
	assert.Equal(t, 1, f.graph.assignmentLinks)

	assert.NotContains(t, f.cache.entries, "pending_tasks:S1")
	assert.NotContains(t, f.cache.entries, "assignment_list:C1")
	assert.NotContains(t, f.cache.entries, "student_course_details:S2:C1")
}

func TestInstructorServiceCreateAssignmentForeignCourse(t *testing.T) {
	f := newInstructorFixture()

	_, err := f.svc.CreateAssignment(context.Background(), "I2", "C1", CreateAssignmentRequest{
		Title:    "Problem set 1",
		Deadline: "2026-06-30",
		MaxGrade: 100,
	})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Empty(t, f.assignments.assignments)
}

func TestInstructorServiceGradeReplacesPreviousEntry(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
	a.Grades = []models.GradeEntry{{StudentID: "S1", Grade: 50}}
	f := newInstructorFixture(a)

	err := f.svc.Grade(context.Background(), "I1", "A1", GradeRequest{StudentID: "S1", Grade: 85})
	require.NoError(t, err)

	stored := f.assignments.assignments["A1"]
	require.Len(t, stored.Grades, 1, "regrading must leave exactly one grade entry")
	assert.Equal(t, 85.0, stored.Grades[0].Grade)
}

func TestInstructorServiceGradeWithoutSubmission(t *testing.T) {
	f := newInstructorFixture(testAssignment("A1", "C1", 100))

	err := f.svc.Grade(context.Background(), "I1", "A1", GradeRequest{StudentID: "S1", Grade: 85})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, f.assignments.assignments["A1"].Grades)
}

func TestInstructorServiceGradeForeignAssignment(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
	f := newInstructorFixture(a)

	err := f.svc.Grade(context.Background(), "I2", "A1", GradeRequest{StudentID: "S1", Grade: 85})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestInstructorServiceGradeInvalidatesStudentView(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
	f := newInstructorFixture(a)
	f.cache.prime(t, "student_course_details:S1:C1", "view")

	require.NoError(t, f.svc.Grade(context.Background(), "I1", "A1", GradeRequest{StudentID: "S1", Grade: 85}))
	assert.NotContains(t, f.cache.entries, "student_course_details:S1:C1")
}

func TestInstructorServiceAnswerView(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Answers = []models.Answer{{StudentID: "S1", Text: "my answer"}}
	a.Grades = []models.GradeEntry{{StudentID: "S1", Grade: 90}}
	f := newInstructorFixture(a)

	view, err := f.svc.Answer(context.Background(), "I1", "A1", "S1")
	require.NoError(t, err)
	require.NotNil(t, view.Answer)
	assert.Equal(t, "my answer", *view.Answer)
	require.NotNil(t, view.Grade)
	assert.Equal(t, 90.0, *view.Grade)
	assert.Equal(t, 100.0, view.MaxGrade)
}

func TestInstructorServiceAnswerViewNoSubmission(t *testing.T) {
	f := newInstructorFixture(testAssignment("A1", "C1", 100))

	view, err := f.svc.Answer(context.Background(), "I1", "A1", "S1")
	require.NoError(t, err)
	assert.Nil(t, view.Answer)
	assert.Nil(t, view.Grade)
}

func TestInstructorServiceRosterRequiresOwnership(t *testing.T) {
	f := newInstructorFixture()

	_, err := f.svc.Roster(context.Background(), "I2", "C1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}
