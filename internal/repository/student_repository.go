package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// StudentRepository owns the students collection.
type StudentRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *mongo.Database, timeout time.Duration) *StudentRepository {
	return &StudentRepository{col: db.Collection("students"), timeout: timeout}
}

// Insert stores a new student profile.
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, student); err != nil {
		return fmt.Errorf("insert student %s: %w", student.StudentID, err)
	}
	return nil
}

// FindByStudentID returns the profile, or mongo.ErrNoDocuments.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var student models.Student
	if err := r.col.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Exists reports whether a profile exists for the id.
func (r *StudentRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return false, fmt.Errorf("count students %s: %w", studentID, err)
	}
	return count > 0, nil
}

// DeleteBySID removes a profile by its internal id. Used only by the
// registration compensation path.
func (r *StudentRepository) DeleteBySID(ctx context.Context, sid string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"s_id": sid}); err != nil {
		return fmt.Errorf("delete student %s: %w", sid, err)
	}
	return nil
}
