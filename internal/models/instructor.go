package models

// Instructor is a teaching profile owned by the authoritative store.
type Instructor struct {
	IID          string `bson:"i_id" json:"i_id"`
	InstructorID string `bson:"instructor_id" json:"instructor_id"`
	FullName     string `bson:"full_name" json:"full_name"`
}
