package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	"github.com/impulsa-uc/impulsa-api/internal/repository"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

type mockInstructorWorkshops struct {
	details []models.WorkshopDetail
	count   int
}

func (m *mockInstructorWorkshops) ListDetailsByInstructor(context.Context, string) ([]models.WorkshopDetail, error) {
	return m.details, nil
}

func (m *mockInstructorWorkshops) CountByInstructor(context.Context, string) (int, error) {
	return m.count, nil
}

type mockRatingAggregator struct {
	byWorkshop map[string]repository.WorkshopAggregate
	average    float64
	total      int
	requested  []string
}

func (m *mockRatingAggregator) AggregateByWorkshops(_ context.Context, workshopIDs []string) (map[string]repository.WorkshopAggregate, error) {
	m.requested = workshopIDs
	return m.byWorkshop, nil
}

func (m *mockRatingAggregator) InstructorAggregate(context.Context, string) (float64, int, error) {
	return m.average, m.total, nil
}

func detailWithDate(id string, date *time.Time) models.EnrollmentDetail {
	return models.EnrollmentDetail{
		Enrollment: models.Enrollment{ID: id, ProfileID: "profile-1", WorkshopID: "ws-" + id},
		Date:       date,
	}
}

func newProfileService(enrollments *mockEnrollmentRepo, workshops *mockInstructorWorkshops, ratings *mockRatingAggregator) *ProfileService {
	profiles := &mockProfileReader{profiles: map[string]*models.Profile{
		"profile-1": {ID: "profile-1", FullName: "Ana Soto", Role: models.RoleInstructor},
	}}
	if enrollments == nil {
		enrollments = &mockEnrollmentRepo{}
	}
	if workshops == nil {
		workshops = &mockInstructorWorkshops{}
	}
	if ratings == nil {
		ratings = &mockRatingAggregator{}
	}
	return NewProfileService(profiles, enrollments, workshops, ratings, nil)
}

func TestProfileServiceGetNotFound(t *testing.T) {
	svc := newProfileService(nil, nil, nil)

	_, err := svc.Get(context.Background(), "profile-missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceEnrollmentsSplit(t *testing.T) {
	past := time.Now().UTC().AddDate(0, 0, -7)
	future := time.Now().UTC().AddDate(0, 0, 7)
	enrollments := &mockEnrollmentRepo{details: []models.EnrollmentDetail{
		detailWithDate("past", &past),
		detailWithDate("future", &future),
		detailWithDate("undated", nil),
	}}
	svc := newProfileService(enrollments, nil, nil)

	result, err := svc.Enrollments(context.Background(), "profile-1")
	require.NoError(t, err)
	require.Len(t, result.Past, 1)
	assert.Equal(t, "past", result.Past[0].ID)
	require.Len(t, result.Upcoming, 2)
}

func TestProfileServiceEnrollmentsTodayIsUpcoming(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	enrollments := &mockEnrollmentRepo{details: []models.EnrollmentDetail{
		detailWithDate("today", &today),
	}}
	svc := newProfileService(enrollments, nil, nil)

	result, err := svc.Enrollments(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Empty(t, result.Past)
	require.Len(t, result.Upcoming, 1)
}

func TestProfileServiceProposalsAggregates(t *testing.T) {
	workshops := &mockInstructorWorkshops{details: []models.WorkshopDetail{
		{Workshop: models.Workshop{ID: "ws-1"}},
		{Workshop: models.Workshop{ID: "ws-2"}},
	}}
	ratings := &mockRatingAggregator{byWorkshop: map[string]repository.WorkshopAggregate{
		"ws-1": {WorkshopID: "ws-1", Average: 4.25, Count: 8},
	}}
	svc := newProfileService(nil, workshops, ratings)

	proposals, err := svc.Proposals(context.Background(), "profile-1")
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, []string{"ws-1", "ws-2"}, ratings.requested)

	require.NotNil(t, proposals[0].AvgRating)
	assert.Equal(t, 4.3, *proposals[0].AvgRating)
	assert.Equal(t, 8, proposals[0].RatingsCount)

	assert.Nil(t, proposals[1].AvgRating)
	assert.Zero(t, proposals[1].RatingsCount)
}

func TestProfileServiceReputationNoWorkshops(t *testing.T) {
	svc := newProfileService(nil, &mockInstructorWorkshops{count: 0}, nil)

	reputation, err := svc.Reputation(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Zero(t, reputation.Average)
	assert.Zero(t, reputation.TotalRatings)
	assert.Zero(t, reputation.WorkshopCount)
}

func TestProfileServiceReputationUnratedWorkshops(t *testing.T) {
	svc := newProfileService(nil, &mockInstructorWorkshops{count: 3}, &mockRatingAggregator{})

	reputation, err := svc.Reputation(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Zero(t, reputation.Average)
	assert.Zero(t, reputation.TotalRatings)
	assert.Equal(t, 3, reputation.WorkshopCount)
}

func TestProfileServiceReputationRounding(t *testing.T) {
	ratings := &mockRatingAggregator{average: 4.3333333, total: 9}
	svc := newProfileService(nil, &mockInstructorWorkshops{count: 2}, ratings)

	reputation, err := svc.Reputation(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Equal(t, 4.3, reputation.Average)
	assert.Equal(t, 9, reputation.TotalRatings)
	assert.Equal(t, 2, reputation.WorkshopCount)
}
