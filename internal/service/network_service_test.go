package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type fakeNetworkGraphRepo struct {
	peers   []models.NetworkPeer
	network *models.CourseNetwork
	err     error
}

func (f *fakeNetworkGraphRepo) StudentNetworkPeers(ctx context.Context, studentID string) ([]models.NetworkPeer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.peers, nil
}

func (f *fakeNetworkGraphRepo) StudentCourseNetwork(ctx context.Context, studentID, courseID string) (*models.CourseNetwork, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.network, nil
}

func TestNetworkServicePeerCountCountsRelationships(t *testing.T) {
	graph := &fakeNetworkGraphRepo{peers: []models.NetworkPeer{
		{CourseID: "C1", StudentID: "S2", StudentName: "Ben Cho"},
		{CourseID: "C2", StudentID: "S2", StudentName: "Ben Cho"},
		{CourseID: "C1", StudentID: "S3", StudentName: "Mia Tan"},
	}}
	students := &fakeEnrollmentStudentRepo{student: &models.Student{SID: "sid-1", StudentID: "S1", FullName: "Ada Park"}}
	svc := NewNetworkService(graph, students)

	network, err := svc.StudentNetwork(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 3, network.PeerCount, "a peer sharing two courses counts twice")
	assert.Len(t, network.Peers, 3)
}

func TestNetworkServiceStudentNetworkUnknownStudent(t *testing.T) {
	svc := NewNetworkService(&fakeNetworkGraphRepo{}, &fakeEnrollmentStudentRepo{})

	_, err := svc.StudentNetwork(context.Background(), "S404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestNetworkServiceStudentCourseNetworkSetsCenter(t *testing.T) {
	graph := &fakeNetworkGraphRepo{network: &models.CourseNetwork{
		CourseID:    "C1",
		Instructors: []models.PersonRef{{ID: "I1", Name: "Dr. Reed"}},
		Students:    []models.PersonRef{{ID: "S2", Name: "Ben Cho"}},
	}}
	students := &fakeEnrollmentStudentRepo{student: &models.Student{SID: "sid-1", StudentID: "S1", FullName: "Ada Park"}}
	svc := NewNetworkService(graph, students)

	network, err := svc.StudentCourseNetwork(context.Background(), "S1", "C1")
	require.NoError(t, err)
	require.NotNil(t, network.CenterStudent)
	assert.Equal(t, "S1", network.CenterStudent.ID)
	assert.Equal(t, "Ada Park", network.CenterStudent.Name)
}

func TestNetworkServiceCourseNetworkHasNoCenter(t *testing.T) {
	graph := &fakeNetworkGraphRepo{network: &models.CourseNetwork{CourseID: "C1"}}
	svc := NewNetworkService(graph, &fakeEnrollmentStudentRepo{})

	network, err := svc.CourseNetwork(context.Background(), "C1")
	require.NoError(t, err)
	assert.Nil(t, network.CenterStudent)
}

func TestNetworkServiceGraphOutage(t *testing.T) {
	graph := &fakeNetworkGraphRepo{err: assert.AnError}
	students := &fakeEnrollmentStudentRepo{student: &models.Student{SID: "sid-1", StudentID: "S1"}}
	svc := NewNetworkService(graph, students)

	_, err := svc.StudentNetwork(context.Background(), "S1")
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
}
