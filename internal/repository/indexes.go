package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes backing the duplicate-rejection
// contract of every creation operation. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		"majors": {
			{Keys: bson.D{{Key: "major_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "major_name", Value: 1}}, Options: unique},
		},
		"users": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
		},
		"students": {
			{Keys: bson.D{{Key: "student_id", Value: 1}}, Options: unique},
		},
		"instructors": {
			{Keys: bson.D{{Key: "instructor_id", Value: 1}}, Options: unique},
		},
		"courses": {
			{Keys: bson.D{{Key: "course_id", Value: 1}}, Options: unique},
		},
		"rooms": {
			{Keys: bson.D{{Key: "room", Value: 1}}, Options: unique},
		},
		"assignments": {
			{Keys: bson.D{{Key: "assignment_id", Value: 1}}, Options: unique},
		},
		"enrollments": {
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "course_id", Value: 1}}, Options: unique},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", collection, err)
		}
	}
	return nil
}
