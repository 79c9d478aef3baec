package memory

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

// SeedTeams is a small Premier League subset for local runs.
func SeedTeams() []team.Team {
	return []team.Team{
		{Code: "ARS", Name: "Arsenal", ShortName: "Arsenal"},
		{Code: "CHE", Name: "Chelsea", ShortName: "Chelsea"},
		{Code: "LIV", Name: "Liverpool", ShortName: "Liverpool"},
		{Code: "MCI", Name: "Manchester City", ShortName: "Man City"},
		{Code: "MUN", Name: "Manchester United", ShortName: "Man Utd"},
		{Code: "TOT", Name: "Tottenham Hotspur", ShortName: "Spurs"},
	}
}

// SeedFixtures schedules gameweeks 1 and 2 relative to now so local runs
// always have open fixtures.
func SeedFixtures(now time.Time) []fixture.Fixture {
	base := now.UTC().Truncate(time.Hour).Add(48 * time.Hour)
	pairs := []struct {
		gameweek   int
		home, away string
		offset     time.Duration
	}{
		{1, "ARS", "CHE", 0},
		{1, "LIV", "MCI", 2 * time.Hour},
		{1, "MUN", "TOT", 26 * time.Hour},
		{2, "CHE", "LIV", 7 * 24 * time.Hour},
		{2, "MCI", "MUN", 7*24*time.Hour + 2*time.Hour},
		{2, "TOT", "ARS", 8 * 24 * time.Hour},
	}

	out := make([]fixture.Fixture, 0, len(pairs))
	for _, p := range pairs {
		kickoff := base.Add(p.offset)
		out = append(out, fixture.Fixture{
			ID:                 fixture.BuildID(p.gameweek, p.home, p.away),
			Gameweek:           p.gameweek,
			HomeTeam:           p.home,
			AwayTeam:           p.away,
			KickoffAt:          kickoff,
			PredictionDeadline: fixture.DeadlineFor(kickoff),
			Status:             fixture.StatusUpcoming,
			UpdatedAt:          now.UTC(),
		})
	}
	return out
}

// NewSeededStore returns a store preloaded with SeedTeams and SeedFixtures.
func NewSeededStore(now time.Time) *Store {
	s := NewStore()
	for _, item := range SeedTeams() {
		s.teams[item.Code] = item
	}
	for _, item := range SeedFixtures(now) {
		s.fixtures[item.ID] = item
	}
	return s
}
