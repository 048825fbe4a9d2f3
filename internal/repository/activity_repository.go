package repository

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/noah-isme/university-portal-api/internal/models"
	"github.com/noah-isme/university-portal-api/pkg/config"
)

// ActivityRepository records behavioral events in InfluxDB and serves the
// windowed aggregates built on them. The store is advisory; callers treat
// write failures as non-fatal.
type ActivityRepository struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	bucket   string
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(client influxdb2.Client, cfg config.InfluxConfig) *ActivityRepository {
	return &ActivityRepository{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		queryAPI: client.QueryAPI(cfg.Org),
		bucket:   cfg.Bucket,
	}
}

// RecordLogin writes one login event for the student. loginEvent is an
// optional label stored next to the event field; empty means unlabeled.
func (r *ActivityRepository) RecordLogin(ctx context.Context, studentID, loginEvent string, at time.Time) error {
	fields := map[string]interface{}{models.FieldLoginEvent: 1}
	if loginEvent != "" {
		fields[models.FieldLoginEventLabel] = loginEvent
	}
	p := influxdb2.NewPoint(models.MeasurementLoginEvents,
		map[string]string{"student_id": studentID},
		fields,
		at)
	if err := r.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("write login event %s: %w", studentID, err)
	}
	return nil
}

// RecordWeeklyLoginSummary writes the student's trailing 7-day login count as
// a summary point.
func (r *ActivityRepository) RecordWeeklyLoginSummary(ctx context.Context, studentID string, count int, at time.Time) error {
	p := influxdb2.NewPoint(models.MeasurementLoginWeeklySummary,
		map[string]string{"student_id": studentID},
		map[string]interface{}{models.FieldLoginCount: count},
		at)
	if err := r.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("write weekly login summary %s: %w", studentID, err)
	}
	return nil
}

// RecordCourseActivity writes one course activity event. For submit events
// assignmentID tags the submitted assignment; it is empty otherwise.
func (r *ActivityRepository) RecordCourseActivity(ctx context.Context, studentID, courseID, activityType, assignmentID string, at time.Time) error {
	tags := map[string]string{
		"student_id":    studentID,
		"course_id":     courseID,
		"activity_type": activityType,
	}
	if assignmentID != "" {
		tags["assignment_id"] = assignmentID
	}
	p := influxdb2.NewPoint(models.MeasurementCourseActivity,
		tags,
		map[string]interface{}{models.FieldActivityValue: 1},
		at)
	if err := r.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("write course activity %s/%s: %w", studentID, courseID, err)
	}
	return nil
}

// RecordSubmission writes one course-level submission event.
func (r *ActivityRepository) RecordSubmission(ctx context.Context, courseID, assignmentID, studentID string, at time.Time) error {
	p := influxdb2.NewPoint(models.MeasurementSubmissionActivity,
		map[string]string{
			"course_id":     courseID,
			"assignment_id": assignmentID,
			"student_id":    studentID,
		},
		map[string]interface{}{models.FieldSubmitted: 1},
		at)
	if err := r.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("write submission activity %s/%s: %w", courseID, assignmentID, err)
	}
	return nil
}

// LoginCount returns the number of login events for the student inside the
// trailing window.
func (r *ActivityRepository) LoginCount(ctx context.Context, studentID string, window time.Duration) (int, error) {
	query := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%ds)
		  |> filter(fn: (r) => r._measurement == %q)
		  |> filter(fn: (r) => r.student_id == %q)
		  |> filter(fn: (r) => r._field == %q)
		  |> group()
		  |> count()`,
		r.bucket, int(window.Seconds()), models.MeasurementLoginEvents, studentID,
		models.FieldLoginEvent)

	result, err := r.queryAPI.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query login count %s: %w", studentID, err)
	}
	count := 0
	if result.Next() {
		if v, ok := result.Record().Value().(int64); ok {
			count = int(v)
		}
	}
	return count, result.Err()
}

// CourseActivitySummaries returns, per course, the student's visit and submit
// counts inside the trailing window.
func (r *ActivityRepository) CourseActivitySummaries(ctx context.Context, studentID string, window time.Duration) (map[string]models.CourseActivitySummary, error) {
	query := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%ds)
		  |> filter(fn: (r) => r._measurement == %q)
		  |> filter(fn: (r) => r.student_id == %q)
		  |> filter(fn: (r) => r._field == %q)
		  |> group(columns: ["course_id", "activity_type"])
		  |> count()`,
		r.bucket, int(window.Seconds()), models.MeasurementCourseActivity, studentID,
		models.FieldActivityValue)

	result, err := r.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query course activity %s: %w", studentID, err)
	}
	summaries := make(map[string]models.CourseActivitySummary)
	for result.Next() {
		record := result.Record()
		courseID, _ := record.ValueByKey("course_id").(string)
		activityType, _ := record.ValueByKey("activity_type").(string)
		count, _ := record.Value().(int64)
		if courseID == "" {
			continue
		}
		summary := summaries[courseID]
		switch activityType {
		case models.ActivityViewCourse:
			summary.VisitCount += int(count)
		case models.ActivitySubmit:
			summary.SubmittedAssignments += int(count)
		}
		summaries[courseID] = summary
	}
	return summaries, result.Err()
}

// CourseVisitCount returns the student's view events for one course inside
// the trailing window.
func (r *ActivityRepository) CourseVisitCount(ctx context.Context, studentID, courseID string, window time.Duration) (int, error) {
	query := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%ds)
		  |> filter(fn: (r) => r._measurement == %q)
		  |> filter(fn: (r) => r.student_id == %q)
		  |> filter(fn: (r) => r.course_id == %q)
		  |> filter(fn: (r) => r.activity_type == %q)
		  |> filter(fn: (r) => r._field == %q)
		  |> group()
		  |> count()`,
		r.bucket, int(window.Seconds()), models.MeasurementCourseActivity,
		studentID, courseID, models.ActivityViewCourse, models.FieldActivityValue)

	result, err := r.queryAPI.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query course visits %s/%s: %w", studentID, courseID, err)
	}
	count := 0
	if result.Next() {
		if v, ok := result.Record().Value().(int64); ok {
			count = int(v)
		}
	}
	return count, result.Err()
}

// SubmissionRecords returns the student's submit events for one course inside
// the trailing window, newest last.
func (r *ActivityRepository) SubmissionRecords(ctx context.Context, studentID, courseID string, window time.Duration) ([]models.SubmissionRecord, error) {
	query := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%ds)
		  |> filter(fn: (r) => r._measurement == %q)
		  |> filter(fn: (r) => r.student_id == %q)
		  |> filter(fn: (r) => r.course_id == %q)
		  |> filter(fn: (r) => r.activity_type == %q)
		  |> filter(fn: (r) => r._field == %q)
		  |> sort(columns: ["_time"])`,
		r.bucket, int(window.Seconds()), models.MeasurementCourseActivity,
		studentID, courseID, models.ActivitySubmit, models.FieldActivityValue)

	result, err := r.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query submissions %s/%s: %w", studentID, courseID, err)
	}
	var records []models.SubmissionRecord
	for result.Next() {
		record := result.Record()
		assignmentID, _ := record.ValueByKey("assignment_id").(string)
		records = append(records, models.SubmissionRecord{
			AssignmentID: assignmentID,
			SubmittedAt:  record.Time(),
		})
	}
	return records, result.Err()
}

// CourseEngagement returns, per course, the visit and submit counts across
// all students inside the trailing window. Scoring and ranking happen in the
// service layer.
func (r *ActivityRepository) CourseEngagement(ctx context.Context, window time.Duration) (map[string]models.CourseScore, error) {
	query := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%ds)
		  |> filter(fn: (r) => r._measurement == %q)
		  |> filter(fn: (r) => r._field == %q)
		  |> group(columns: ["course_id", "activity_type"])
		  |> count()`,
		r.bucket, int(window.Seconds()), models.MeasurementCourseActivity,
		models.FieldActivityValue)

	result, err := r.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query course engagement: %w", err)
	}
	scores := make(map[string]models.CourseScore)
	for result.Next() {
		record := result.Record()
		courseID, _ := record.ValueByKey("course_id").(string)
		activityType, _ := record.ValueByKey("activity_type").(string)
		count, _ := record.Value().(int64)
		if courseID == "" {
			continue
		}
		score := scores[courseID]
		score.CourseID = courseID
		switch activityType {
		case models.ActivityViewCourse:
			score.Visits += int(count)
		case models.ActivitySubmit:
			score.Submissions += int(count)
		}
		scores[courseID] = score
	}
	return scores, result.Err()
}
