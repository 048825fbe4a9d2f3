package service

import "fmt"

// Cache key builders. The key namespace is a wire contract shared with the
// original deployment's Redis instance; do not rename.
func KeyInstructorCourses(instructorID string) string {
	return fmt.Sprintf("instructor_courses:%s", instructorID)
}

func KeyInstructorCourseAssignments(instructorID string) string {
	return fmt.Sprintf("instructor_course_assignments:%s", instructorID)
}

func KeyAvailableCourses(studentID string) string {
	return fmt.Sprintf("available_courses:%s", studentID)
}

func KeyAssignmentList(courseID string) string {
	return fmt.Sprintf("assignment_list:%s", courseID)
}

func KeyEnrolledStudents(courseID string) string {
	return fmt.Sprintf("enrolled_students:%s", courseID)
}

func KeyStudentCourses(studentID string) string {
	return fmt.Sprintf("student_courses:%s", studentID)
}

func KeyStudentCourseDetails(studentID, courseID string) string {
	return fmt.Sprintf("student_course_details:%s:%s", studentID, courseID)
}

func KeyPendingTasks(studentID string) string {
	return fmt.Sprintf("pending_tasks:%s", studentID)
}

// Invalidation is the set of cache entries a committed mutation makes stale.
type Invalidation struct {
	Keys     []string
	Patterns []string
}

// InvalidateEnrollment covers a new enrollment: the student's course lists
// and the course roster.
func InvalidateEnrollment(studentID, courseID string) Invalidation {
	return Invalidation{Keys: []string{
		KeyStudentCourses(studentID),
		KeyAvailableCourses(studentID),
		KeyEnrolledStudents(courseID),
		KeyPendingTasks(studentID),
	}}
}

// InvalidateCourseCreation covers a new course: the instructor's course list
// and every student's available-course list, since offering is major-wide.
func InvalidateCourseCreation(instructorID string) Invalidation {
	return Invalidation{
		Keys:     []string{KeyInstructorCourses(instructorID)},
		Patterns: []string{"available_courses:*"},
	}
}

// InvalidateAssignmentCreation covers a new assignment: the course's
// assignment list, the instructor's assignment view, each enrolled student's
// pending tasks, and every cached per-student details view of the course.
func InvalidateAssignmentCreation(courseID, instructorID string, rosterStudentIDs []string) Invalidation {
	keys := []string{
		KeyAssignmentList(courseID),
		KeyInstructorCourseAssignments(instructorID),
	}
	for _, studentID := range rosterStudentIDs {
		keys = append(keys, KeyPendingTasks(studentID))
	}
	return Invalidation{
		Keys:     keys,
		Patterns: []string{fmt.Sprintf("student_course_details:*:%s", courseID)},
	}
}

// InvalidateSubmission covers an answer submission by one student.
func InvalidateSubmission(studentID, courseID string) Invalidation {
	return Invalidation{Keys: []string{
		KeyPendingTasks(studentID),
		KeyStudentCourseDetails(studentID, courseID),
	}}
}

// InvalidateGrade covers a grade entry for one student.
func InvalidateGrade(studentID, courseID string) Invalidation {
	return Invalidation{Keys: []string{
		KeyStudentCourseDetails(studentID, courseID),
	}}
}
