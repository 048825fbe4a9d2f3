package models

// Schedule is a weekly recurring time slot. Times are "HH:MM" strings and
// compare lexicographically; intervals are half-open [start, end).
type Schedule struct {
	Days      []string `bson:"days" json:"days"`
	StartTime string   `bson:"start_time" json:"start_time"`
	EndTime   string   `bson:"end_time" json:"end_time"`
}

// CourseDetails carries the denormalized presentation block of a course.
// RegisteredStudentsCount is mutated only by enrollment creation and must
// equal the number of enrollment rows referencing the course.
type CourseDetails struct {
	CourseName              string   `bson:"course_name" json:"course_name"`
	Schedule                Schedule `bson:"schedule" json:"schedule"`
	Room                    string   `bson:"room" json:"room"`
	InstructorName          string   `bson:"instructor_name" json:"instructor_name"`
	RegisteredStudentsCount int      `bson:"registered_students_count" json:"registered_students_count"`
}

// Course is the authoritative course record.
type Course struct {
	CID      string        `bson:"c_id" json:"c_id"`
	CourseID string        `bson:"course_id" json:"course_id"`
	MajorIDs []string      `bson:"major_ids" json:"major_ids"`
	Details  CourseDetails `bson:"details" json:"details"`
}
