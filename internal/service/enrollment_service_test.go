package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollErr error
	details   []models.EnrollmentDetail
	lastCall  struct {
		profileID  string
		workshopID string
	}
}

func (m *mockEnrollmentRepo) Enroll(_ context.Context, profileID, workshopID string) (*models.Enrollment, error) {
	m.lastCall.profileID = profileID
	m.lastCall.workshopID = workshopID
	if m.enrollErr != nil {
		return nil, m.enrollErr
	}
	return &models.Enrollment{ID: "enroll-1", ProfileID: profileID, WorkshopID: workshopID}, nil
}

func (m *mockEnrollmentRepo) ListDetailsByProfile(context.Context, string) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveEnrollment(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func newEnrollmentService(repo *mockEnrollmentRepo, observer *recordingObserver) *EnrollmentService {
	profiles := &mockProfileReader{profiles: map[string]*models.Profile{
		"profile-1": {ID: "profile-1", Role: models.RoleStudent},
	}}
	return NewEnrollmentService(repo, profiles, observer, nil)
}

func TestEnrollmentServiceEnrollSuccess(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	observer := &recordingObserver{}
	svc := newEnrollmentService(repo, observer)

	enrollment, err := svc.Enroll(context.Background(), "profile-1", "ws-1")
	require.NoError(t, err)
	assert.Equal(t, "enroll-1", enrollment.ID)
	assert.Equal(t, "profile-1", repo.lastCall.profileID)
	assert.Equal(t, []string{"success"}, observer.outcomes)
}

func TestEnrollmentServiceEnrollUnknownProfile(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, &mockProfileReader{}, nil, nil)

	_, err := svc.Enroll(context.Background(), "profile-missing", "ws-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.lastCall.profileID)
}

func TestEnrollmentServiceEnrollOutcomeObservation(t *testing.T) {
	cases := map[string]struct {
		err     error
		outcome string
	}{
		"already enrolled":  {appErrors.ErrAlreadyEnrolled, "already_enrolled"},
		"capacity exceeded": {appErrors.ErrCapacityExceeded, "capacity_exceeded"},
		"not published":     {appErrors.ErrWorkshopNotPublished, "not_published"},
		"workshop missing":  {appErrors.Clone(appErrors.ErrNotFound, "workshop not found"), "not_found"},
		"store outage":      {appErrors.ErrStoreUnavailable, "error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			observer := &recordingObserver{}
			svc := newEnrollmentService(&mockEnrollmentRepo{enrollErr: tc.err}, observer)

			_, err := svc.Enroll(context.Background(), "profile-1", "ws-1")
			require.Error(t, err)
			assert.Equal(t, []string{tc.outcome}, observer.outcomes)
		})
	}
}

func TestEnrollmentServiceEnrollPassesErrorThrough(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{enrollErr: appErrors.ErrAlreadyEnrolled}, &recordingObserver{})

	_, err := svc.Enroll(context.Background(), "profile-1", "ws-1")
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)
}
