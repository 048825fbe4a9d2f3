package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

// fakeAssignmentStore mimics the pull-then-push replace semantics of the
// authoritative assignment collection.
type fakeAssignmentStore struct {
	assignments map[string]*models.Assignment
}

func newFakeAssignmentStore(assignments ...*models.Assignment) *fakeAssignmentStore {
	store := &fakeAssignmentStore{assignments: make(map[string]*models.Assignment)}
	for _, a := range assignments {
		store.assignments[a.AssignmentID] = a
	}
	return store
}

func (f *fakeAssignmentStore) Insert(ctx context.Context, assignment *models.Assignment) error {
	f.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (f *fakeAssignmentStore) FindByAssignmentID(ctx context.Context, assignmentID string) (*models.Assignment, error) {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return a, nil
}

func (f *fakeAssignmentStore) FindByCourseID(ctx context.Context, courseID string) ([]models.Assignment, error) {
	out := []models.Assignment{}
	for _, a := range f.assignments {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Assignment, error) {
	out := []models.Assignment{}
	for _, id := range courseIDs {
		byCourse, _ := f.FindByCourseID(ctx, id)
		out = append(out, byCourse...)
	}
	return out, nil
}

func (f *fakeAssignmentStore) ReplaceAnswer(ctx context.Context, assignmentID string, answer models.Answer) error {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := a.Answers[:0]
	for _, existing := range a.Answers {
		if existing.StudentID != answer.StudentID {
			kept = append(kept, existing)
		}
	}
	a.Answers = append(kept, answer)
	return nil
}

func (f *fakeAssignmentStore) ReplaceGrade(ctx context.Context, assignmentID string, grade models.GradeEntry) error {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := a.Grades[:0]
	for _, existing := range a.Grades {
		if existing.StudentID != grade.StudentID {
			kept = append(kept, existing)
		}
	}
	a.Grades = append(kept, grade)
	return nil
}

type studentFixture struct {
	svc         *StudentService
	students    *fakeEnrollmentStudentRepo
	courses     *fakeEnrollmentCourseRepo
	enrollments *fakeEnrollmentRepo
	assignments *fakeAssignmentStore
	graph       *fakeGraph
	activity    *fakeActivityRecorder
	cache       *memoryCacheRepo
}

func newStudentFixture(assignments ...*models.Assignment) *studentFixture {
	f := &studentFixture{
		students:    &fakeEnrollmentStudentRepo{student: &models.Student{SID: "sid-1", StudentID: "S1", FullName: "Ada Park", MajorID: "M1"}},
		courses:     &fakeEnrollmentCourseRepo{courses: map[string]*models.Course{}},
		enrollments: &fakeEnrollmentRepo{enrolled: map[string]bool{}},
		assignments: newFakeAssignmentStore(assignments...),
		graph:       &fakeGraph{},
		activity:    newFakeActivityRecorder(),
		cache:       newMemoryCacheRepo(),
	}
	f.svc = NewStudentService(
		f.students, f.courses, f.enrollments, f.assignments, f.graph, f.activity,
		newTestCache(f.cache), NewPipeline(zap.NewNop(), nil), zap.NewNop(),
	)
	return f
}

func testAssignment(assignmentID, courseID string, maxGrade float64) *models.Assignment {
	return &models.Assignment{
		AssignmentID: assignmentID,
		CourseID:     courseID,
		Title:        "Assignment " + assignmentID,
		Deadline:     "2026-06-30",
		MaxGrade:     maxGrade,
	}
}

func TestStudentServiceSubmitAnswerReplacesPreviousAnswer(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Answers = []models.Answer{{StudentID: "S1", Text: "first draft"}}
	f := newStudentFixture(a)
	f.enrollments.enrolled["S1|C1"] = true

	err := f.svc.SubmitAnswer(context.Background(), "S1", "A1", "final version")
	require.NoError(t, err)

	stored := f.assignments.assignments["A1"]
	require.Len(t, stored.Answers, 1, "resubmission must leave exactly one answer")
	assert.Equal(t, "final version", stored.Answers[0].Text)
	assert.Equal(t, 1, f.graph.submissionLinks)
	assert.Equal(t, 1, f.activity.courseEvents[models.ActivitySubmit])
	assert.Equal(t, 1, f.activity.submissions)
}

func TestStudentServiceSubmitAnswerKeepsOtherStudents(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Answers = []models.Answer{{StudentID: "S2", Text: "peer answer"}}
	f := newStudentFixture(a)
	f.enrollments.enrolled["S1|C1"] = true

	require.NoError(t, f.svc.SubmitAnswer(context.Background(), "S1", "A1", "mine"))

	stored := f.assignments.assignments["A1"]
	assert.Len(t, stored.Answers, 2)
}

func TestStudentServiceSubmitAnswerRequiresEnrollment(t *testing.T) {
	f := newStudentFixture(testAssignment("A1", "C1", 100))

	err := f.svc.SubmitAnswer(context.Background(), "S1", "A1", "text")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Empty(t, f.assignments.assignments["A1"].Answers)
}

func TestStudentServiceSubmitAnswerUnknownAssignment(t *testing.T) {
	f := newStudentFixture()

	err := f.svc.SubmitAnswer(context.Background(), "S1", "A404", "text")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceSubmitAnswerInvalidatesCaches(t *testing.T) {
	f := newStudentFixture(testAssignment("A1", "C1", 100))
	f.enrollments.enrolled["S1|C1"] = true
	f.cache.prime(t, "pending_tasks:S1", []string{"A1"})
	f.cache.prime(t, "student_course_details:S1:C1", "view")

	require.NoError(t, f.svc.SubmitAnswer(context.Background(), "S1", "A1", "text"))

	assert.NotContains(t, f.cache.entries, "pending_tasks:S1")
	assert.NotContains(t, f.cache.entries, "student_course_details:S1:C1")
}

func TestStudentServiceCourseDetailsRecordsViewEvenOnCacheHit(t *testing.T) {
	f := newStudentFixture()
	f.enrollments.enrolled["S1|C1"] = true
	f.cache.prime(t, "student_course_details:S1:C1", models.CourseDetailsView{
		Course:         *testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 1),
		CompletedTasks: []models.CompletedTask{},
		PendingTasks:   []models.TaskInfo{},
	})

	view, err := f.svc.CourseDetails(context.Background(), "S1", "C1")
	require.NoError(t, err)
	assert.Equal(t, "C1", view.Course.CourseID)
	assert.Equal(t, 1, f.activity.courseEvents[models.ActivityViewCourse])
}

func TestStudentServiceCourseDetailsPartitionsTasks(t *testing.T) {
	done := testAssignment("A1", "C1", 100)
	done.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
	done.Grades = []models.GradeEntry{{StudentID: "S1", Grade: 90}}
	open := testAssignment("A2", "C1", 50)

	f := newStudentFixture(done, open)
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 1)
	f.enrollments.enrolled["S1|C1"] = true

	view, err := f.svc.CourseDetails(context.Background(), "S1", "C1")
	require.NoError(t, err)
	require.Len(t, view.CompletedTasks, 1)
	require.Len(t, view.PendingTasks, 1)
	assert.Equal(t, "A1", view.CompletedTasks[0].AssignmentID)
	require.NotNil(t, view.CompletedTasks[0].Grade)
	assert.Equal(t, 90.0, *view.CompletedTasks[0].Grade)
	assert.Equal(t, "A2", view.PendingTasks[0].AssignmentID)
}

func TestStudentServiceCourseDetailsRequiresEnrollment(t *testing.T) {
	f := newStudentFixture()

	_, err := f.svc.CourseDetails(context.Background(), "S1", "C1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServicePendingTasksSkipsSubmitted(t *testing.T) {
	done := testAssignment("A1", "C1", 100)
	done.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
	open := testAssignment("A2", "C1", 50)

	f := newStudentFixture(done, open)
	f.courses.courses["C1"] = testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 1)
	f.enrollments.courseIDs = []string{"C1"}

	tasks, err := f.svc.PendingTasks(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A2", tasks[0].AssignmentID)
	assert.Equal(t, "Course C1", tasks[0].CourseName)
}

func TestComputeGradeSummaryNoGradedAssignments(t *testing.T) {
	submitted := testAssignment("A1", "C1", 100)
	submitted.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}

	summary := ComputeGradeSummary([]models.Assignment{*submitted}, "S1")

	assert.Nil(t, summary.Total)
	assert.Nil(t, summary.MaxTotal)
	assert.Nil(t, summary.Percentage)
}

func TestComputeGradeSummaryTotalsAndPercentage(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Grades = []models.GradeEntry{{StudentID: "S1", Grade: 80}}

	summary := ComputeGradeSummary([]models.Assignment{*a}, "S1")

	require.NotNil(t, summary.Total)
	assert.Equal(t, 80.0, *summary.Total)
	assert.Equal(t, 100.0, *summary.MaxTotal)
	assert.Equal(t, 80.0, *summary.Percentage)
}

func TestComputeGradeSummaryCapsGradeAtMax(t *testing.T) {
	a := testAssignment("A1", "C1", 100)
	a.Grades = []models.GradeEntry{{StudentID: "S1", Grade: 120}}

	summary := ComputeGradeSummary([]models.Assignment{*a}, "S1")

	require.NotNil(t, summary.Total)
	assert.Equal(t, 100.0, *summary.Total)
	assert.Equal(t, 100.0, *summary.Percentage)
}

func TestComputeGradeSummaryRoundsPercentage(t *testing.T) {
	a := testAssignment("A1", "C1", 90)
	a.Grades = []models.GradeEntry{{StudentID: "S1", Grade: 55}}

	summary := ComputeGradeSummary([]models.Assignment{*a}, "S1")

	require.NotNil(t, summary.Percentage)
	// 55/90 = 61.111..., reported to two decimals
	assert.Equal(t, 61.11, *summary.Percentage)
}

func TestCoursePerformanceStatuses(t *testing.T) {
	course := *testCourse("C1", "R101", mondaySlot("09:00", "11:00"), 1)

	graded := func(grade float64) models.Assignment {
		a := testAssignment("A1", "C1", 100)
		a.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
		a.Grades = []models.GradeEntry{{StudentID: "S1", Grade: grade}}
		return *a
	}
	submitted := func() models.Assignment {
		a := testAssignment("A2", "C1", 100)
		a.Answers = []models.Answer{{StudentID: "S1", Text: "answer"}}
		return *a
	}
	missing := func() models.Assignment {
		return *testAssignment("A3", "C1", 100)
	}

	tests := []struct {
		name        string
		assignments []models.Assignment
		want        string
	}{
		{"no assignments", nil, models.CourseStatusInProgress},
		{"unsubmitted work remains", []models.Assignment{graded(90), missing()}, models.CourseStatusInProgress},
		{"awaiting grading", []models.Assignment{graded(90), submitted()}, models.CourseStatusAwaitingGrading},
		{"below passing threshold", []models.Assignment{graded(59)}, models.CourseStatusAtRisk},
		{"passed", []models.Assignment{graded(60)}, models.CourseStatusPassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := coursePerformance(course, tt.assignments, "S1")
			assert.Equal(t, tt.want, perf.Status)
		})
	}
}

func TestStudentServicePerformanceUnknownStudent(t *testing.T) {
	f := newStudentFixture()
	f.students.student = nil

	_, err := f.svc.Performance(context.Background(), "S1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
