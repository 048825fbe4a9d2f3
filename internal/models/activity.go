package models

import "time"

// Time-series measurement names. These are a wire contract shared with the
// original deployment's bucket; do not rename.
const (
	MeasurementLoginEvents        = "student_login_events"
	MeasurementLoginWeeklySummary = "student_login_weekly_summary"
	MeasurementCourseActivity     = "student_course_activity"
	MeasurementSubmissionActivity = "course_submission_activity"
)

// Time-series field names, part of the same wire contract. Login events
// carry a required event=1 field and an optional label; course activity and
// submission points carry value=1 and submitted=1 respectively.
const (
	FieldLoginEvent      = "event"
	FieldLoginEventLabel = "login_event"
	FieldLoginCount      = "login_count"
	FieldActivityValue   = "value"
	FieldSubmitted       = "submitted"
)

// Course activity types recorded as tags on MeasurementCourseActivity.
const (
	ActivityAddCourse  = "add_course"
	ActivityViewCourse = "view_course"
	ActivitySubmit     = "submit"
)

// CourseScore is one row of the course engagement ranking:
// score = visits + 2*submissions over a trailing window.
type CourseScore struct {
	CourseID    string `json:"course_id"`
	Visits      int    `json:"visits"`
	Submissions int    `json:"submissions"`
	Score       int    `json:"score"`
}

// CourseActivitySummary aggregates one course inside a student activity view.
type CourseActivitySummary struct {
	VisitCount           int `json:"visit_count"`
	SubmittedAssignments int `json:"submitted_assignments"`
}

// StudentActivity summarises a student's behaviour over a trailing window.
type StudentActivity struct {
	StudentID  string                           `json:"student_id"`
	LoginCount int                              `json:"login_count"`
	Courses    map[string]CourseActivitySummary `json:"courses"`
}

// SubmissionRecord is one submit event inside a course activity view.
type SubmissionRecord struct {
	AssignmentID string    `json:"assignment_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// StudentCourseActivity is a student's behaviour within a single course.
type StudentCourseActivity struct {
	StudentID            string             `json:"student_id"`
	CourseID             string             `json:"course_id"`
	VisitCount           int                `json:"visit_count"`
	SubmittedAssignments []SubmissionRecord `json:"submitted_assignments"`
}
