package models

// Enrollment links a student to a course. Unique on (student_id, course_id).
type Enrollment struct {
	EID       string `bson:"e_id" json:"e_id"`
	StudentID string `bson:"student_id" json:"student_id"`
	CourseID  string `bson:"course_id" json:"course_id"`
}
