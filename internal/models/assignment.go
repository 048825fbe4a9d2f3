package models

// Answer is a student submission. At most one per student per assignment;
// resubmission replaces the previous answer.
type Answer struct {
	StudentID string `bson:"student_id" json:"student_id"`
	Text      string `bson:"text" json:"text"`
}

// GradeEntry records one student's grade for an assignment. At most one per
// student; regrading replaces the previous entry.
type GradeEntry struct {
	StudentID string  `bson:"student_id" json:"student_id"`
	Grade     float64 `bson:"grade" json:"grade"`
}

// Assignment is coursework attached to a course.
type Assignment struct {
	AssignmentID string       `bson:"assignment_id" json:"assignment_id"`
	CourseID     string       `bson:"course_id" json:"course_id"`
	Title        string       `bson:"title" json:"title"`
	Description  string       `bson:"description" json:"description"`
	Deadline     string       `bson:"deadline" json:"deadline"`
	MaxGrade     float64      `bson:"max_grade" json:"max_grade"`
	Answers      []Answer     `bson:"answer_text" json:"answer_text"`
	Grades       []GradeEntry `bson:"grades" json:"grades"`
}

// AnswerView is a single student's submission state for one assignment.
type AnswerView struct {
	Answer   *string  `json:"answer"`
	Grade    *float64 `json:"grade"`
	MaxGrade float64  `json:"max_grade"`
}
