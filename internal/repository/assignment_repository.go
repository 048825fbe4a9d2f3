package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// AssignmentRepository owns the assignments collection.
type AssignmentRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *mongo.Database, timeout time.Duration) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection("assignments"), timeout: timeout}
}

// Insert stores a new assignment.
func (r *AssignmentRepository) Insert(ctx context.Context, assignment *models.Assignment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, assignment); err != nil {
		return fmt.Errorf("insert assignment %s: %w", assignment.AssignmentID, err)
	}
	return nil
}

// FindByAssignmentID returns the assignment, or mongo.ErrNoDocuments.
func (r *AssignmentRepository) FindByAssignmentID(ctx context.Context, assignmentID string) (*models.Assignment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var assignment models.Assignment
	if err := r.col.FindOne(ctx, bson.M{"assignment_id": assignmentID}).Decode(&assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByCourseID returns every assignment attached to the course.
func (r *AssignmentRepository) FindByCourseID(ctx context.Context, courseID string) ([]models.Assignment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("find assignments for %s: %w", courseID, err)
	}
	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return assignments, nil
}

// FindByCourseIDs returns every assignment attached to any of the courses.
func (r *AssignmentRepository) FindByCourseIDs(ctx context.Context, courseIDs []string) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"course_id": bson.M{"$in": courseIDs}})
	if err != nil {
		return nil, fmt.Errorf("find assignments: %w", err)
	}
	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return assignments, nil
}

// ReplaceAnswer removes the student's previous answer and appends the new one.
// Two updates, so a resubmission ends with exactly one entry for the student.
func (r *AssignmentRepository) ReplaceAnswer(ctx context.Context, assignmentID string, answer models.Answer) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"assignment_id": assignmentID}
	if _, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"answer_text": bson.M{"student_id": answer.StudentID}},
	}); err != nil {
		return fmt.Errorf("pull answer %s: %w", assignmentID, err)
	}
	if _, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"answer_text": answer},
	}); err != nil {
		return fmt.Errorf("push answer %s: %w", assignmentID, err)
	}
	return nil
}

// ReplaceGrade removes the student's previous grade and appends the new one.
func (r *AssignmentRepository) ReplaceGrade(ctx context.Context, assignmentID string, grade models.GradeEntry) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"assignment_id": assignmentID}
	if _, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"grades": bson.M{"student_id": grade.StudentID}},
	}); err != nil {
		return fmt.Errorf("pull grade %s: %w", assignmentID, err)
	}
	if _, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"grades": grade},
	}); err != nil {
		return fmt.Errorf("push grade %s: %w", assignmentID, err)
	}
	return nil
}
