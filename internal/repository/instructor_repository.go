package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// InstructorRepository owns the instructors collection.
type InstructorRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *mongo.Database, timeout time.Duration) *InstructorRepository {
	return &InstructorRepository{col: db.Collection("instructors"), timeout: timeout}
}

// Insert stores a new instructor profile.
func (r *InstructorRepository) Insert(ctx context.Context, instructor *models.Instructor) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, instructor); err != nil {
		return fmt.Errorf("insert instructor %s: %w", instructor.InstructorID, err)
	}
	return nil
}

// FindByInstructorID returns the profile, or mongo.ErrNoDocuments.
func (r *InstructorRepository) FindByInstructorID(ctx context.Context, instructorID string) (*models.Instructor, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var instructor models.Instructor
	if err := r.col.FindOne(ctx, bson.M{"instructor_id": instructorID}).Decode(&instructor); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// Exists reports whether a profile exists for the id.
func (r *InstructorRepository) Exists(ctx context.Context, instructorID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{"instructor_id": instructorID})
	if err != nil {
		return false, fmt.Errorf("count instructors %s: %w", instructorID, err)
	}
	return count > 0, nil
}

// List returns every instructor profile.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	var instructors []models.Instructor
	if err := cursor.All(ctx, &instructors); err != nil {
		return nil, fmt.Errorf("decode instructors: %w", err)
	}
	return instructors, nil
}

// DeleteByIID removes a profile by its internal id. Used only by the
// registration compensation path.
func (r *InstructorRepository) DeleteByIID(ctx context.Context, iid string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"i_id": iid}); err != nil {
		return fmt.Errorf("delete instructor %s: %w", iid, err)
	}
	return nil
}
