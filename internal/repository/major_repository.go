package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// MajorRepository owns the majors collection.
type MajorRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewMajorRepository constructs a MajorRepository.
func NewMajorRepository(db *mongo.Database, timeout time.Duration) *MajorRepository {
	return &MajorRepository{col: db.Collection("majors"), timeout: timeout}
}

// Insert stores a new major.
func (r *MajorRepository) Insert(ctx context.Context, major *models.Major) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, major); err != nil {
		return fmt.Errorf("insert major %s: %w", major.MajorID, err)
	}
	return nil
}

// FindByMajorID returns the major, or mongo.ErrNoDocuments.
func (r *MajorRepository) FindByMajorID(ctx context.Context, majorID string) (*models.Major, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var major models.Major
	if err := r.col.FindOne(ctx, bson.M{"major_id": majorID}).Decode(&major); err != nil {
		return nil, err
	}
	return &major, nil
}

// Exists reports whether a major exists for the id.
func (r *MajorRepository) Exists(ctx context.Context, majorID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{"major_id": majorID})
	if err != nil {
		return false, fmt.Errorf("count majors %s: %w", majorID, err)
	}
	return count > 0, nil
}

// List returns every major.
func (r *MajorRepository) List(ctx context.Context) ([]models.Major, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}
	var majors []models.Major
	if err := cursor.All(ctx, &majors); err != nil {
		return nil, fmt.Errorf("decode majors: %w", err)
	}
	return majors, nil
}
