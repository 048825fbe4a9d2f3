package models

// StudentOverview is the dean's consolidated view of one student, assembled
// from all four stores.
type StudentOverview struct {
	Info        StudentBasicInfo    `json:"info"`
	Performance []CoursePerformance `json:"performance"`
	Network     StudentNetwork      `json:"network"`
	Activity    StudentActivity     `json:"activity"`
}
