package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type analyticsActivityRepository interface {
	LoginCount(ctx context.Context, studentID string, window time.Duration) (int, error)
	CourseActivitySummaries(ctx context.Context, studentID string, window time.Duration) (map[string]models.CourseActivitySummary, error)
	CourseVisitCount(ctx context.Context, studentID, courseID string, window time.Duration) (int, error)
	SubmissionRecords(ctx context.Context, studentID, courseID string, window time.Duration) ([]models.SubmissionRecord, error)
	CourseEngagement(ctx context.Context, window time.Duration) (map[string]models.CourseScore, error)
}

type analyticsCourseRepository interface {
	CourseIDsByMajor(ctx context.Context, majorID string) ([]string, error)
}

// submissionWeight values submit events double against visits when ranking
// course engagement.
const submissionWeight = 2

// AnalyticsService builds the behavioural views on the event store. Rankings
// use score = visits + 2*submissions over a trailing window.
type AnalyticsService struct {
	activity       analyticsActivityRepository
	courses        analyticsCourseRepository
	activityWindow time.Duration
	rankingWindow  time.Duration
	logger         *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(activity analyticsActivityRepository, courses analyticsCourseRepository, activityWindow, rankingWindow time.Duration, logger *zap.Logger) *AnalyticsService {
	if activityWindow <= 0 {
		activityWindow = 7 * 24 * time.Hour
	}
	if rankingWindow <= 0 {
		rankingWindow = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		activity:       activity,
		courses:        courses,
		activityWindow: activityWindow,
		rankingWindow:  rankingWindow,
		logger:         logger,
	}
}

// TopCourses ranks courses by engagement score, highest first. When majorID
// is non-empty the ranking is restricted to that major's courses.
func (s *AnalyticsService) TopCourses(ctx context.Context, majorID string, limit int) ([]models.CourseScore, error) {
	return s.rankCourses(ctx, majorID, limit, true)
}

// WorstCourses ranks courses by engagement score, lowest first.
func (s *AnalyticsService) WorstCourses(ctx context.Context, majorID string, limit int) ([]models.CourseScore, error) {
	return s.rankCourses(ctx, majorID, limit, false)
}

// StudentActivity summarises one student's behaviour over the trailing
// activity window.
func (s *AnalyticsService) StudentActivity(ctx context.Context, studentID string) (*models.StudentActivity, error) {
	logins, err := s.activity.LoginCount(ctx, studentID, s.activityWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "event store unavailable")
	}
	courses, err := s.activity.CourseActivitySummaries(ctx, studentID, s.activityWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "event store unavailable")
	}
	return &models.StudentActivity{
		StudentID:  studentID,
		LoginCount: logins,
		Courses:    courses,
	}, nil
}

// StudentCourseActivity summarises one student's behaviour within one course.
func (s *AnalyticsService) StudentCourseActivity(ctx context.Context, studentID, courseID string) (*models.StudentCourseActivity, error) {
	visits, err := s.activity.CourseVisitCount(ctx, studentID, courseID, s.activityWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "event store unavailable")
	}
	submissions, err := s.activity.SubmissionRecords(ctx, studentID, courseID, s.activityWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "event store unavailable")
	}
	if submissions == nil {
		submissions = []models.SubmissionRecord{}
	}
	return &models.StudentCourseActivity{
		StudentID:            studentID,
		CourseID:             courseID,
		VisitCount:           visits,
		SubmittedAssignments: submissions,
	}, nil
}

func (s *AnalyticsService) rankCourses(ctx context.Context, majorID string, limit int, descending bool) ([]models.CourseScore, error) {
	if limit <= 0 {
		limit = 5
	}

	engagement, err := s.activity.CourseEngagement(ctx, s.rankingWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "event store unavailable")
	}

	var allowed map[string]struct{}
	if majorID != "" {
		courseIDs, err := s.courses.CourseIDsByMajor(ctx, majorID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve major courses")
		}
		allowed = make(map[string]struct{}, len(courseIDs))
		for _, id := range courseIDs {
			allowed[id] = struct{}{}
		}
	}

	scores := make([]models.CourseScore, 0, len(engagement))
	for courseID, score := range engagement {
		if allowed != nil {
			if _, ok := allowed[courseID]; !ok {
				continue
			}
		}
		score.Score = score.Visits + submissionWeight*score.Submissions
		scores = append(scores, score)
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			if descending {
				return scores[i].Score > scores[j].Score
			}
			return scores[i].Score < scores[j].Score
		}
		return scores[i].CourseID < scores[j].CourseID
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}
