package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidateEnrollmentKeySet(t *testing.T) {
	inv := InvalidateEnrollment("S1", "C1")

	assert.ElementsMatch(t, []string{
		"student_courses:S1",
		"available_courses:S1",
		"enrolled_students:C1",
		"pending_tasks:S1",
	}, inv.Keys)
	assert.Empty(t, inv.Patterns)
}

func TestInvalidateCourseCreationSweepsAllAvailableLists(t *testing.T) {
	inv := InvalidateCourseCreation("I1")

	assert.Equal(t, []string{"instructor_courses:I1"}, inv.Keys)
	assert.Equal(t, []string{"available_courses:*"}, inv.Patterns)
}

func TestInvalidateAssignmentCreationCoversRoster(t *testing.T) {
	inv := InvalidateAssignmentCreation("C1", "I1", []string{"S1", "S2"})

	assert.ElementsMatch(t, []string{
		"assignment_list:C1",
		"instructor_course_assignments:I1",
		"pending_tasks:S1",
		"pending_tasks:S2",
	}, inv.Keys)
	assert.Equal(t, []string{"student_course_details:*:C1"}, inv.Patterns)
}

func TestInvalidateSubmissionKeySet(t *testing.T) {
	inv := InvalidateSubmission("S1", "C1")

	assert.ElementsMatch(t, []string{
		"pending_tasks:S1",
		"student_course_details:S1:C1",
	}, inv.Keys)
}

func TestInvalidateGradeKeySet(t *testing.T) {
	inv := InvalidateGrade("S1", "C1")

	assert.Equal(t, []string{"student_course_details:S1:C1"}, inv.Keys)
}
