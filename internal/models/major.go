package models

// Major groups courses and students into an academic program.
type Major struct {
	MajorID   string `bson:"major_id" json:"major_id"`
	MajorName string `bson:"major_name" json:"major_name"`
}
