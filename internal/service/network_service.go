package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type networkGraphRepository interface {
	StudentNetworkPeers(ctx context.Context, studentID string) ([]models.NetworkPeer, error)
	StudentCourseNetwork(ctx context.Context, studentID, courseID string) (*models.CourseNetwork, error)
}

type networkStudentRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

// NetworkService serves the relationship views backed by the graph mirror.
type NetworkService struct {
	graph    networkGraphRepository
	students networkStudentRepository
}

// NewNetworkService constructs a NetworkService.
func NewNetworkService(graph networkGraphRepository, students networkStudentRepository) *NetworkService {
	return &NetworkService{graph: graph, students: students}
}

// StudentNetwork returns the student's shared-course peers across all
// enrolled courses. A peer sharing several courses appears once per shared
// course, so the peer count counts relationships, not distinct students.
func (s *NetworkService) StudentNetwork(ctx context.Context, studentID string) (*models.StudentNetwork, error) {
	if _, err := s.students.FindByStudentID(ctx, studentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	peers, err := s.graph.StudentNetworkPeers(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "graph mirror unavailable")
	}
	return &models.StudentNetwork{
		StudentID: studentID,
		Peers:     peers,
		PeerCount: len(peers),
	}, nil
}

// StudentCourseNetwork returns the student's single-course neighborhood: the
// teaching instructors and the distinct co-enrolled peers.
func (s *NetworkService) StudentCourseNetwork(ctx context.Context, studentID, courseID string) (*models.CourseNetwork, error) {
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	network, err := s.graph.StudentCourseNetwork(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "graph mirror unavailable")
	}
	network.CenterStudent = &models.PersonRef{ID: student.StudentID, Name: student.FullName}
	return network, nil
}

// CourseNetwork returns a whole course's neighborhood with no center
// student: the teaching instructors and the full enrolled roster.
func (s *NetworkService) CourseNetwork(ctx context.Context, courseID string) (*models.CourseNetwork, error) {
	network, err := s.graph.StudentCourseNetwork(ctx, "", courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "graph mirror unavailable")
	}
	return network, nil
}
