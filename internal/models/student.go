package models

// Student is an academic profile owned by the authoritative store.
type Student struct {
	SID       string `bson:"s_id" json:"s_id"`
	StudentID string `bson:"student_id" json:"student_id"`
	FullName  string `bson:"full_name" json:"full_name"`
	MajorID   string `bson:"major_id" json:"major_id"`
}

// StudentBasicInfo is the header block shown on dean overviews.
type StudentBasicInfo struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	MajorID   string `json:"major_id"`
	MajorName string `json:"major_name"`
}
