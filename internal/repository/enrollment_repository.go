package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// EnrollmentRepository owns the enrollments collection.
type EnrollmentRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *mongo.Database, timeout time.Duration) *EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection("enrollments"), timeout: timeout}
}

// Insert stores a new enrollment row.
func (r *EnrollmentRepository) Insert(ctx context.Context, enrollment *models.Enrollment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, enrollment); err != nil {
		return fmt.Errorf("insert enrollment %s/%s: %w", enrollment.StudentID, enrollment.CourseID, err)
	}
	return nil
}

// Exists reports whether the student is enrolled in the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return false, fmt.Errorf("count enrollments %s/%s: %w", studentID, courseID, err)
	}
	return count > 0, nil
}

// CourseIDsByStudent returns the ids of every course the student is enrolled in.
func (r *EnrollmentRepository) CourseIDsByStudent(ctx context.Context, studentID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("find enrollments %s: %w", studentID, err)
	}
	var enrollments []models.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	return ids, nil
}

// StudentIDsByCourse returns the ids of every student enrolled in the course.
func (r *EnrollmentRepository) StudentIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("find enrollments for %s: %w", courseID, err)
	}
	var enrollments []models.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	return ids, nil
}
