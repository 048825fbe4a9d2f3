// Package scheduler holds the pure conflict-detection logic for course
// enrollment and course placement. It operates on snapshots loaded from the
// authoritative store and performs no I/O of its own.
package scheduler

import (
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// SharesDay reports whether two schedules meet on at least one weekday.
func SharesDay(a, b models.Schedule) bool {
	days := make(map[string]struct{}, len(a.Days))
	for _, d := range a.Days {
		days[d] = struct{}{}
	}
	for _, d := range b.Days {
		if _, ok := days[d]; ok {
			return true
		}
	}
	return false
}

// Overlaps reports whether two schedules collide: they share a day and their
// half-open time intervals intersect (a.start < b.end && b.start < a.end).
// Times are "HH:MM" strings, so lexicographic comparison is chronological.
func Overlaps(a, b models.Schedule) bool {
	if !SharesDay(a, b) {
		return false
	}
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// EnrollmentSnapshot is the authoritative-store state an enrollment decision
// is made against. It is assembled by the caller in one read pass; the checks
// here never go back to the store.
type EnrollmentSnapshot struct {
	StudentExists   bool
	Course          *models.Course
	AlreadyEnrolled bool
	// Room is nil when the course's room has no room document, which means
	// no capacity limit is enforced.
	Room *models.Room
	// EnrolledCourses are the courses the student is already enrolled in.
	EnrolledCourses []models.Course
}

// CheckEnrollment runs the ordered enrollment checks. The first failing check
// wins: NotFound, AlreadyEnrolled, CourseFull, ScheduleConflict.
func CheckEnrollment(snap EnrollmentSnapshot) error {
	if !snap.StudentExists {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if snap.Course == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if snap.AlreadyEnrolled {
		return appErrors.ErrAlreadyEnrolled
	}
	if snap.Room != nil && snap.Course.Details.RegisteredStudentsCount >= snap.Room.EffectiveCapacity() {
		return appErrors.ErrCourseFull
	}
	for _, enrolled := range snap.EnrolledCourses {
		if Overlaps(enrolled.Details.Schedule, snap.Course.Details.Schedule) {
			return appErrors.ErrScheduleConflict
		}
	}
	return nil
}

// BusyRooms returns the set of room names occupied by any of the given
// courses during the target schedule.
func BusyRooms(target models.Schedule, courses []models.Course) map[string]struct{} {
	busy := make(map[string]struct{})
	for _, c := range courses {
		if Overlaps(c.Details.Schedule, target) {
			busy[c.Details.Room] = struct{}{}
		}
	}
	return busy
}

// BusyInstructors returns the set of instructor names teaching any of the
// given courses during the target schedule.
func BusyInstructors(target models.Schedule, courses []models.Course) map[string]struct{} {
	busy := make(map[string]struct{})
	for _, c := range courses {
		if Overlaps(c.Details.Schedule, target) {
			busy[c.Details.InstructorName] = struct{}{}
		}
	}
	return busy
}

// AvailableRooms filters rooms to those not busy during the target schedule.
func AvailableRooms(target models.Schedule, rooms []models.Room, courses []models.Course) []models.Room {
	busy := BusyRooms(target, courses)
	available := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if _, ok := busy[r.Room]; !ok {
			available = append(available, r)
		}
	}
	return available
}

// AvailableInstructors filters instructors to those not teaching during the
// target schedule. Matching is by full name, mirroring the denormalized
// instructor_name field on course details.
func AvailableInstructors(target models.Schedule, instructors []models.Instructor, courses []models.Course) []models.Instructor {
	busy := BusyInstructors(target, courses)
	available := make([]models.Instructor, 0, len(instructors))
	for _, i := range instructors {
		if _, ok := busy[i.FullName]; !ok {
			available = append(available, i)
		}
	}
	return available
}
