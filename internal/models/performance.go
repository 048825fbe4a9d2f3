package models

// Course completion statuses derived from assignment state.
const (
	CourseStatusInProgress      = "In Progress"
	CourseStatusAwaitingGrading = "Awaiting Grading"
	CourseStatusAtRisk          = "At Risk"
	CourseStatusPassed          = "Passed"
)

// PassingPercentage separates At Risk from Passed once everything is graded.
const PassingPercentage = 60.0

// GradeSummary is the aggregate grade for one student in one course. All
// three pointers are nil when the student has zero graded assignments, which
// is distinct from a graded total of zero.
type GradeSummary struct {
	Total      *float64 `json:"total_grade"`
	MaxTotal   *float64 `json:"max_total"`
	Percentage *float64 `json:"percentage"`
}

// TaskInfo is the assignment header shown to students.
type TaskInfo struct {
	AssignmentID string  `json:"assignment_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Deadline     string  `json:"deadline"`
	MaxGrade     float64 `json:"max_grade"`
}

// CompletedTask is a submitted assignment, enriched with the grade when one
// has been recorded.
type CompletedTask struct {
	TaskInfo
	Grade  *float64 `json:"grade"`
	Answer *string  `json:"answer"`
}

// PendingTask is an unsubmitted assignment across any enrolled course.
type PendingTask struct {
	CourseName string `json:"course_name"`
	TaskInfo
}

// CourseDetailsView partitions a course's assignments for one student.
type CourseDetailsView struct {
	Course         Course          `json:"course"`
	CompletedTasks []CompletedTask `json:"completed_tasks"`
	PendingTasks   []TaskInfo      `json:"pending_tasks"`
}

// AssignmentStatusRow is one assignment inside a performance breakdown.
type AssignmentStatusRow struct {
	Title    string   `json:"title"`
	Grade    *float64 `json:"grade,omitempty"`
	MaxGrade float64  `json:"max_grade"`
	Display  string   `json:"display"`
}

// AssignmentBreakdown buckets a course's assignments by submission state.
type AssignmentBreakdown struct {
	Graded             []AssignmentStatusRow `json:"graded"`
	SubmittedNotGraded []AssignmentStatusRow `json:"submitted_not_graded"`
	Missing            []AssignmentStatusRow `json:"missing"`
	Total              int                   `json:"total"`
}

// CoursePerformance is one course inside a student performance report.
type CoursePerformance struct {
	CourseID    string              `json:"course_id"`
	CourseName  string              `json:"course_name"`
	Status      string              `json:"status"`
	Grade       GradeSummary        `json:"grade"`
	Assignments AssignmentBreakdown `json:"assignments"`
}
