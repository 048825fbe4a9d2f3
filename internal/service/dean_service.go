package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
	"github.com/noah-isme/university-portal-api/pkg/export"
)

type deanStudentRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

type deanMajorRepository interface {
	FindByMajorID(ctx context.Context, majorID string) (*models.Major, error)
}

// DeanService assembles the dean's cross-store student views and renders the
// downloadable reports.
type DeanService struct {
	students  deanStudentRepository
	majors    deanMajorRepository
	portal    *StudentService
	network   *NetworkService
	analytics *AnalyticsService
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	logger    *zap.Logger
}

// NewDeanService constructs a DeanService.
func NewDeanService(
	students deanStudentRepository,
	majors deanMajorRepository,
	portal *StudentService,
	network *NetworkService,
	analytics *AnalyticsService,
	logger *zap.Logger,
) *DeanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeanService{
		students:  students,
		majors:    majors,
		portal:    portal,
		network:   network,
		analytics: analytics,
		pdf:       export.NewPDFExporter(),
		csv:       export.NewCSVExporter(),
		logger:    logger,
	}
}

// StudentOverview returns the consolidated view of one student: profile
// header, per-course performance, peer network and behavioural summary. The
// advisory blocks degrade to empty values when their store is unreachable.
func (s *DeanService) StudentOverview(ctx context.Context, studentID string) (*models.StudentOverview, error) {
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	info := models.StudentBasicInfo{
		StudentID: student.StudentID,
		FullName:  student.FullName,
		MajorID:   student.MajorID,
	}
	if major, err := s.majors.FindByMajorID(ctx, student.MajorID); err == nil {
		info.MajorName = major.MajorName
	}

	performance, err := s.portal.Performance(ctx, studentID)
	if err != nil {
		return nil, err
	}

	overview := &models.StudentOverview{
		Info:        info,
		Performance: performance,
		Network:     models.StudentNetwork{StudentID: studentID, Peers: []models.NetworkPeer{}},
		Activity:    models.StudentActivity{StudentID: studentID, Courses: map[string]models.CourseActivitySummary{}},
	}

	if network, err := s.network.StudentNetwork(ctx, studentID); err == nil {
		overview.Network = *network
	} else {
		s.logger.Warn("student network unavailable for overview", zap.String("student_id", studentID), zap.Error(err))
	}
	if activity, err := s.analytics.StudentActivity(ctx, studentID); err == nil {
		overview.Activity = *activity
	} else {
		s.logger.Warn("student activity unavailable for overview", zap.String("student_id", studentID), zap.Error(err))
	}

	return overview, nil
}

// StudentReportPDF renders the student's performance report as a PDF.
func (s *DeanService) StudentReportPDF(ctx context.Context, studentID string) ([]byte, error) {
	overview, err := s.StudentOverview(ctx, studentID)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(reportDataset(overview), fmt.Sprintf("Student Report %s", overview.Info.StudentID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return data, nil
}

// StudentReportCSV renders the student's performance report as CSV.
func (s *DeanService) StudentReportCSV(ctx context.Context, studentID string) ([]byte, error) {
	overview, err := s.StudentOverview(ctx, studentID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(reportDataset(overview))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return data, nil
}

func reportDataset(overview *models.StudentOverview) export.Dataset {
	headers := []string{"Course", "Status", "Grade", "Max Grade", "Percentage"}
	rows := make([]map[string]string, 0, len(overview.Performance))
	for _, course := range overview.Performance {
		row := map[string]string{
			"Course":     course.CourseName,
			"Status":     course.Status,
			"Grade":      "-",
			"Max Grade":  "-",
			"Percentage": "-",
		}
		if course.Grade.Total != nil {
			row["Grade"] = fmt.Sprintf("%.2f", *course.Grade.Total)
		}
		if course.Grade.MaxTotal != nil {
			row["Max Grade"] = fmt.Sprintf("%.2f", *course.Grade.MaxTotal)
		}
		if course.Grade.Percentage != nil {
			row["Percentage"] = fmt.Sprintf("%.1f%%", *course.Grade.Percentage)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
