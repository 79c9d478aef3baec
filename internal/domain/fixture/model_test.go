package fixture

import (
	"errors"
	"testing"
	"time"
)

func TestBuildID(t *testing.T) {
	t.Parallel()

	if got := BuildID(7, " ars ", "liv"); got != "GW7-ARS-LIV" {
		t.Fatalf("unexpected id: %s", got)
	}
}

func TestDeadlineFor(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)
	if got := DeadlineFor(kickoff); !got.Equal(kickoff.Add(-time.Hour)) {
		t.Fatalf("unexpected deadline: %s", got)
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":          StatusUpcoming,
		" Finished": StatusFinished,
		"FT":        StatusFinished,
		"LIVE":      StatusLive,
		"in_play":   StatusLive,
		"upcoming":  StatusUpcoming,
	}
	for in, want := range tests {
		if got := NormalizeStatus(in); got != want {
			t.Fatalf("NormalizeStatus(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestFixture_ValidateScoreInvariant(t *testing.T) {
	t.Parallel()

	home, away := 2, 1
	base := Fixture{ID: "GW1-ARS-LIV", Gameweek: 1, HomeTeam: "ARS", AwayTeam: "LIV"}

	tests := []struct {
		name    string
		mutate  func(f *Fixture)
		wantErr bool
	}{
		{name: "upcoming without score", mutate: func(f *Fixture) { f.Status = StatusUpcoming }},
		{name: "finished with score", mutate: func(f *Fixture) {
			f.Status = StatusFinished
			f.HomeScore, f.AwayScore = &home, &away
		}},
		{name: "finished without score", mutate: func(f *Fixture) { f.Status = StatusFinished }, wantErr: true},
		{name: "live with partial score", mutate: func(f *Fixture) {
			f.Status = StatusLive
			f.HomeScore = &home
		}, wantErr: true},
		{name: "unknown status", mutate: func(f *Fixture) { f.Status = "postponed" }, wantErr: true},
		{name: "same team", mutate: func(f *Fixture) {
			f.Status = StatusUpcoming
			f.AwayTeam = "ars"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base.Clone()
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidFixture) {
				t.Fatalf("expected ErrInvalidFixture, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFixture_CloneDoesNotSharePointers(t *testing.T) {
	t.Parallel()

	home, away := 1, 0
	f := Fixture{ID: "GW1-ARS-LIV", HomeScore: &home, AwayScore: &away}
	clone := f.Clone()
	*clone.HomeScore = 5
	if *f.HomeScore != 1 {
		t.Fatalf("clone mutated original score")
	}
}
