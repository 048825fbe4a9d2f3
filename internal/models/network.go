package models

// PersonRef is a minimal node reference returned by graph queries.
type PersonRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// NetworkPeer is one shared-course relationship. A peer sharing two courses
// with the subject appears twice, once per course; peer counts therefore
// count relationships, not distinct students.
type NetworkPeer struct {
	CourseID    string `json:"course_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
}

// StudentNetwork is the subject's full peer network across all courses.
type StudentNetwork struct {
	StudentID string        `json:"student_id"`
	Peers     []NetworkPeer `json:"peers"`
	PeerCount int           `json:"peer_count"`
}

// CourseNetwork is the single-course neighborhood of a student: the teaching
// instructor(s) and the distinct co-enrolled peers.
type CourseNetwork struct {
	CourseID      string      `json:"course_id"`
	CenterStudent *PersonRef  `json:"center_student"`
	Instructors   []PersonRef `json:"instructors"`
	Students      []PersonRef `json:"students"`
}

// CourseAssignmentRef is a mirrored assignment node reference.
type CourseAssignmentRef struct {
	AssignmentID string `json:"assignment_id"`
	Title        string `json:"title"`
}
