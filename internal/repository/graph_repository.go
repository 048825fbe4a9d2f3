package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/noah-isme/university-portal-api/internal/models"
)

// GraphRepository mirrors relationship data into Neo4j and serves the
// traversal queries. Every statement is parameterized; no values are ever
// spliced into Cypher text. Writes upsert with MERGE so replaying a mutation
// never duplicates a node or an edge.
type GraphRepository struct {
	driver  neo4j.DriverWithContext
	timeout time.Duration
}

// NewGraphRepository constructs a GraphRepository.
func NewGraphRepository(driver neo4j.DriverWithContext, timeout time.Duration) *GraphRepository {
	return &GraphRepository{driver: driver, timeout: timeout}
}

func (r *GraphRepository) write(ctx context.Context, cypher string, params map[string]any) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, cypher, params)
	})
	return err
}

func (r *GraphRepository) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records.([]*neo4j.Record), nil
}

// LinkEnrollment upserts the student and course nodes and the ENROLLED_IN
// edge between them.
func (r *GraphRepository) LinkEnrollment(ctx context.Context, studentID, studentName, courseID, courseName string) error {
	const cypher = `
		MERGE (s:Student {student_id: $student_id})
		SET s.name = $student_name
		MERGE (c:Course {course_id: $course_id})
		SET c.name = $course_name
		MERGE (s)-[:ENROLLED_IN]->(c)`
	err := r.write(ctx, cypher, map[string]any{
		"student_id":   studentID,
		"student_name": studentName,
		"course_id":    courseID,
		"course_name":  courseName,
	})
	if err != nil {
		return fmt.Errorf("link enrollment %s/%s: %w", studentID, courseID, err)
	}
	return nil
}

// LinkTeaching upserts the instructor and course nodes and the TEACHES edge.
func (r *GraphRepository) LinkTeaching(ctx context.Context, instructorID, instructorName, courseID, courseName string) error {
	const cypher = `
		MERGE (i:Instructor {instructor_id: $instructor_id})
		SET i.name = $instructor_name
		MERGE (c:Course {course_id: $course_id})
		SET c.name = $course_name
		MERGE (i)-[:TEACHES]->(c)`
	err := r.write(ctx, cypher, map[string]any{
		"instructor_id":   instructorID,
		"instructor_name": instructorName,
		"course_id":       courseID,
		"course_name":     courseName,
	})
	if err != nil {
		return fmt.Errorf("link teaching %s/%s: %w", instructorID, courseID, err)
	}
	return nil
}

// LinkAssignment upserts the assignment node and its BELONGS_TO edge to the
// course.
func (r *GraphRepository) LinkAssignment(ctx context.Context, assignmentID, title, courseID string) error {
	const cypher = `
		MERGE (a:Assignment {assignment_id: $assignment_id})
		SET a.title = $title
		MERGE (c:Course {course_id: $course_id})
		MERGE (a)-[:BELONGS_TO]->(c)`
	err := r.write(ctx, cypher, map[string]any{
		"assignment_id": assignmentID,
		"title":         title,
		"course_id":     courseID,
	})
	if err != nil {
		return fmt.Errorf("link assignment %s/%s: %w", assignmentID, courseID, err)
	}
	return nil
}

// LinkSubmission upserts the SUBMITTED edge from a student to an assignment.
func (r *GraphRepository) LinkSubmission(ctx context.Context, studentID, assignmentID string) error {
	const cypher = `
		MERGE (s:Student {student_id: $student_id})
		MERGE (a:Assignment {assignment_id: $assignment_id})
		MERGE (s)-[:SUBMITTED]->(a)`
	err := r.write(ctx, cypher, map[string]any{
		"student_id":    studentID,
		"assignment_id": assignmentID,
	})
	if err != nil {
		return fmt.Errorf("link submission %s/%s: %w", studentID, assignmentID, err)
	}
	return nil
}

// InstructorCourseIDs returns the ids of the courses the instructor teaches.
func (r *GraphRepository) InstructorCourseIDs(ctx context.Context, instructorID string) ([]string, error) {
	const cypher = `
		MATCH (:Instructor {instructor_id: $instructor_id})-[:TEACHES]->(c:Course)
		RETURN c.course_id AS course_id`
	records, err := r.read(ctx, cypher, map[string]any{"instructor_id": instructorID})
	if err != nil {
		return nil, fmt.Errorf("instructor courses %s: %w", instructorID, err)
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id, ok := stringValue(rec, "course_id"); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// StudentCourseIDs returns the ids of the courses the student is enrolled in.
func (r *GraphRepository) StudentCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	const cypher = `
		MATCH (:Student {student_id: $student_id})-[:ENROLLED_IN]->(c:Course)
		RETURN c.course_id AS course_id`
	records, err := r.read(ctx, cypher, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("student courses %s: %w", studentID, err)
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id, ok := stringValue(rec, "course_id"); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CourseStudents returns the students enrolled in the course.
func (r *GraphRepository) CourseStudents(ctx context.Context, courseID string) ([]models.PersonRef, error) {
	const cypher = `
		MATCH (s:Student)-[:ENROLLED_IN]->(:Course {course_id: $course_id})
		RETURN s.student_id AS id, s.name AS name`
	records, err := r.read(ctx, cypher, map[string]any{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("course students %s: %w", courseID, err)
	}
	return personRefs(records), nil
}

// CourseAssignments returns the assignments mirrored under the course.
func (r *GraphRepository) CourseAssignments(ctx context.Context, courseID string) ([]models.CourseAssignmentRef, error) {
	const cypher = `
		MATCH (a:Assignment)-[:BELONGS_TO]->(:Course {course_id: $course_id})
		RETURN a.assignment_id AS assignment_id, a.title AS title`
	records, err := r.read(ctx, cypher, map[string]any{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("course assignments %s: %w", courseID, err)
	}
	refs := make([]models.CourseAssignmentRef, 0, len(records))
	for _, rec := range records {
		id, _ := stringValue(rec, "assignment_id")
		title, _ := stringValue(rec, "title")
		refs = append(refs, models.CourseAssignmentRef{AssignmentID: id, Title: title})
	}
	return refs, nil
}

// StudentNetworkPeers returns one row per (course, peer) pair for every course
// the student shares with another student. A peer sharing two courses shows up
// twice.
func (r *GraphRepository) StudentNetworkPeers(ctx context.Context, studentID string) ([]models.NetworkPeer, error) {
	const cypher = `
		MATCH (:Student {student_id: $student_id})-[:ENROLLED_IN]->(c:Course)<-[:ENROLLED_IN]-(peer:Student)
		WHERE peer.student_id <> $student_id
		RETURN c.course_id AS course_id, peer.student_id AS student_id, peer.name AS student_name`
	records, err := r.read(ctx, cypher, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("student network %s: %w", studentID, err)
	}
	peers := make([]models.NetworkPeer, 0, len(records))
	for _, rec := range records {
		courseID, _ := stringValue(rec, "course_id")
		peerID, _ := stringValue(rec, "student_id")
		peerName, _ := stringValue(rec, "student_name")
		peers = append(peers, models.NetworkPeer{CourseID: courseID, StudentID: peerID, StudentName: peerName})
	}
	return peers, nil
}

// StudentCourseNetwork returns the single-course neighborhood of a student:
// the teaching instructors and the distinct co-enrolled peers.
func (r *GraphRepository) StudentCourseNetwork(ctx context.Context, studentID, courseID string) (*models.CourseNetwork, error) {
	const instructorsCypher = `
		MATCH (i:Instructor)-[:TEACHES]->(:Course {course_id: $course_id})
		RETURN i.instructor_id AS id, i.name AS name`
	instructorRecords, err := r.read(ctx, instructorsCypher, map[string]any{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("course instructors %s: %w", courseID, err)
	}

	const peersCypher = `
		MATCH (peer:Student)-[:ENROLLED_IN]->(:Course {course_id: $course_id})
		WHERE peer.student_id <> $student_id
		RETURN DISTINCT peer.student_id AS id, peer.name AS name`
	peerRecords, err := r.read(ctx, peersCypher, map[string]any{
		"course_id":  courseID,
		"student_id": studentID,
	})
	if err != nil {
		return nil, fmt.Errorf("course peers %s: %w", courseID, err)
	}

	return &models.CourseNetwork{
		CourseID:    courseID,
		Instructors: personRefs(instructorRecords),
		Students:    personRefs(peerRecords),
	}, nil
}

func personRefs(records []*neo4j.Record) []models.PersonRef {
	refs := make([]models.PersonRef, 0, len(records))
	for _, rec := range records {
		id, _ := stringValue(rec, "id")
		name, _ := stringValue(rec, "name")
		refs = append(refs, models.PersonRef{ID: id, Name: name})
	}
	return refs
}

func stringValue(rec *neo4j.Record, key string) (string, bool) {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
