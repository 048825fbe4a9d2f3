package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// CourseRepository owns the courses collection.
type CourseRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *mongo.Database, timeout time.Duration) *CourseRepository {
	return &CourseRepository{col: db.Collection("courses"), timeout: timeout}
}

// Insert stores a new course.
func (r *CourseRepository) Insert(ctx context.Context, course *models.Course) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, course); err != nil {
		return fmt.Errorf("insert course %s: %w", course.CourseID, err)
	}
	return nil
}

// FindByCourseID returns the course, or mongo.ErrNoDocuments.
func (r *CourseRepository) FindByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var course models.Course
	if err := r.col.FindOne(ctx, bson.M{"course_id": courseID}).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByCourseIDs returns the courses matching the ids, in no particular order.
func (r *CourseRepository) FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Course, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"course_id": bson.M{"$in": courseIDs}})
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

// FindAvailableForRegistration returns courses offered to the major, excluding
// the ones the student is already enrolled in.
func (r *CourseRepository) FindAvailableForRegistration(ctx context.Context, majorID string, excludeCourseIDs []string) ([]models.Course, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"major_ids": majorID}
	if len(excludeCourseIDs) > 0 {
		filter["course_id"] = bson.M{"$nin": excludeCourseIDs}
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find available courses: %w", err)
	}
	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

// ListScheduledOnDays returns courses whose schedule touches any of the days.
// Used to compute room and instructor occupancy for a proposed slot.
func (r *CourseRepository) ListScheduledOnDays(ctx context.Context, days []string) ([]models.Course, error) {
	if len(days) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"details.schedule.days": bson.M{"$in": days}})
	if err != nil {
		return nil, fmt.Errorf("find scheduled courses: %w", err)
	}
	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

// CourseIDsByMajor returns the ids of every course offered to the major.
func (r *CourseRepository) CourseIDsByMajor(ctx context.Context, majorID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"major_ids": majorID})
	if err != nil {
		return nil, fmt.Errorf("find courses by major: %w", err)
	}
	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
	}
	return ids, nil
}

// IncrementRegisteredCountIf bumps the registered counter by one, but only
// when the counter is still below the limit at the moment of the update.
// Returns false without error when the guard did not match.
func (r *CourseRepository) IncrementRegisteredCountIf(ctx context.Context, courseID string, limit int) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{
		"course_id":                         courseID,
		"details.registered_students_count": bson.M{"$lt": limit},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"details.registered_students_count": 1}})
	if err != nil {
		return false, fmt.Errorf("increment registered count %s: %w", courseID, err)
	}
	return res.ModifiedCount == 1, nil
}

// IncrementRegisteredCount bumps the registered counter unconditionally.
// Used when the course has no room document and therefore no seat limit.
func (r *CourseRepository) IncrementRegisteredCount(ctx context.Context, courseID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.UpdateOne(ctx, bson.M{"course_id": courseID}, bson.M{"$inc": bson.M{"details.registered_students_count": 1}}); err != nil {
		return fmt.Errorf("increment registered count %s: %w", courseID, err)
	}
	return nil
}
