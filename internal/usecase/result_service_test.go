package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	fixturemock "github.com/riskibarqy/prediction-league/internal/mocks/domain/fixture"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	changes []fixture.Change
	err     error
}

func (p *capturePublisher) PublishFixtureChange(_ context.Context, change fixture.Change) error {
	p.changes = append(p.changes, change)
	return p.err
}

func TestResultService_RecordResultPublishesChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixtureRepo := fixturemock.NewRepository(t)
	publisher := &capturePublisher{}
	svc := NewResultService(fixtureRepo, publisher, nil)
	svc.now = fixedClock

	before := upcomingFixture(1, "ARS", "CHE", testNow.Add(-2*time.Hour))
	before.Status = fixture.StatusLive
	after := finishedFixture(1, "ARS", "CHE", 2, 1)

	fixtureRepo.On("UpdateResult", mock.Anything, after.ID, 2, 1, testNow).
		Return(fixture.Change{Before: &before, After: after}, nil).
		Once()

	got, err := svc.RecordResult(ctx, RecordResultInput{FixtureID: " " + after.ID + " ", HomeScore: 2, AwayScore: 1})
	require.NoError(t, err)
	if got.ID != after.ID || *got.HomeScore != 2 {
		t.Fatalf("unexpected fixture: %s", got)
	}
	require.Len(t, publisher.changes, 1)
	if triggered, _ := IsFinalization(publisher.changes[0]); !triggered {
		t.Fatalf("published change should finalize the fixture")
	}
}

func TestResultService_RecordResultValidation(t *testing.T) {
	t.Parallel()

	svc := NewResultService(fixturemock.NewRepository(t), nil, nil)
	tests := []RecordResultInput{
		{FixtureID: "", HomeScore: 1, AwayScore: 0},
		{FixtureID: "GW1-ARS-CHE", HomeScore: -1, AwayScore: 0},
		{FixtureID: "GW1-ARS-CHE", HomeScore: 0, AwayScore: -2},
	}
	for _, input := range tests {
		if _, err := svc.RecordResult(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestResultService_MapsRepositoryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{name: "not found", repoErr: fmt.Errorf("fixture GW9-ARS-CHE: %w", fixture.ErrNotFound), want: ErrNotFound},
		{name: "different final score", repoErr: fixture.ErrAlreadyFinished, want: ErrConflict},
		{name: "invalid", repoErr: fixture.ErrInvalidFixture, want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixtureRepo := fixturemock.NewRepository(t)
			publisher := &capturePublisher{}
			svc := NewResultService(fixtureRepo, publisher, nil)

			fixtureRepo.On("UpdateResult", mock.Anything, "GW9-ARS-CHE", 1, 1, mock.Anything).
				Return(fixture.Change{}, tt.repoErr).
				Once()

			_, err := svc.RecordResult(context.Background(), RecordResultInput{FixtureID: "GW9-ARS-CHE", HomeScore: 1, AwayScore: 1})
			if !errors.Is(err, tt.want) {
				t.Fatalf("got=%v want=%v", err, tt.want)
			}
			if len(publisher.changes) != 0 {
				t.Fatalf("failed write must not publish")
			}
		})
	}
}

func TestResultService_PublishFailureKeepsResult(t *testing.T) {
	t.Parallel()

	fixtureRepo := fixturemock.NewRepository(t)
	publisher := &capturePublisher{err: errors.New("feed closed")}
	svc := NewResultService(fixtureRepo, publisher, nil)

	before := upcomingFixture(1, "ARS", "CHE", testNow)
	after := finishedFixture(1, "ARS", "CHE", 0, 0)
	fixtureRepo.On("UpdateResult", mock.Anything, after.ID, 0, 0, mock.Anything).
		Return(fixture.Change{Before: &before, After: after}, nil).
		Once()

	got, err := svc.RecordResult(context.Background(), RecordResultInput{FixtureID: after.ID})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if got.ID != after.ID || !fixture.IsFinishedStatus(got.Status) {
		t.Fatalf("saved fixture must still be returned, got %s", got)
	}
}

func TestResultService_UpdateSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kickoff := testNow.Add(72 * time.Hour)
	f := upcomingFixture(5, "LIV", "TOT", kickoff)
	repos := newMemoryRepos(t, []fixture.Fixture{f, finishedFixture(1, "ARS", "CHE", 1, 0)})
	publisher := &capturePublisher{}
	svc := NewResultService(repos.Fixtures, publisher, nil)
	svc.now = fixedClock

	moved := kickoff.Add(24 * time.Hour)
	got, err := svc.UpdateSchedule(ctx, UpdateScheduleInput{FixtureID: f.ID, NewKickoffAt: moved})
	require.NoError(t, err)
	if !got.KickoffAt.Equal(moved) || !got.PredictionDeadline.Equal(moved.Add(-time.Hour)) {
		t.Fatalf("unexpected schedule: kickoff=%s deadline=%s", got.KickoffAt, got.PredictionDeadline)
	}
	require.Len(t, got.ScheduleHistory, 1)
	if !got.ScheduleHistory[0].PreviousKickoffAt.Equal(kickoff) || !got.ScheduleHistory[0].ChangedAt.Equal(testNow) {
		t.Fatalf("unexpected history: %+v", got.ScheduleHistory[0])
	}
	require.Len(t, publisher.changes, 1)
	if triggered, decision := IsFinalization(publisher.changes[0]); triggered || decision != decisionNotFinished {
		t.Fatalf("schedule change must be ignored, got decision=%s", decision)
	}

	_, err = svc.UpdateSchedule(ctx, UpdateScheduleInput{FixtureID: "GW1-ARS-CHE", NewKickoffAt: moved})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for finished fixture, got %v", err)
	}
	_, err = svc.UpdateSchedule(ctx, UpdateScheduleInput{FixtureID: f.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResultService_SameScoreResaveIsAccepted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := upcomingFixture(1, "ARS", "CHE", testNow.Add(-2*time.Hour))
	repos := newMemoryRepos(t, []fixture.Fixture{f})
	publisher := &capturePublisher{}
	svc := NewResultService(repos.Fixtures, publisher, nil)

	_, err := svc.RecordResult(ctx, RecordResultInput{FixtureID: f.ID, HomeScore: 2, AwayScore: 2})
	require.NoError(t, err)
	_, err = svc.RecordResult(ctx, RecordResultInput{FixtureID: f.ID, HomeScore: 2, AwayScore: 2})
	require.NoError(t, err)
	_, err = svc.RecordResult(ctx, RecordResultInput{FixtureID: f.ID, HomeScore: 3, AwayScore: 2})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a different final score, got %v", err)
	}

	require.Len(t, publisher.changes, 2)
	first, _ := IsFinalization(publisher.changes[0])
	second, decision := IsFinalization(publisher.changes[1])
	if !first || second || decision != decisionAlreadyFinished {
		t.Fatalf("got=(%v,%v,%s) want=(true,false,%s)", first, second, decision, decisionAlreadyFinished)
	}
}
