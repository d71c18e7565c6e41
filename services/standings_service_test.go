package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/trip-system/models"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// A small trip: Red (team 1) against Blue (team 2), a singles session worth
// one point per match and a four-ball session worth two.
func standingsFixture() ([]models.Team, []models.Member, []models.Session, []*models.Match, map[int][]models.MatchPlayer) {
	teams := []models.Team{
		{ID: 1, TripID: 5, Name: "Red"},
		{ID: 2, TripID: 5, Name: "Blue"},
	}
	members := []models.Member{
		{ID: 1, TripID: 5, UserID: 11, TeamID: intPtr(1)},
		{ID: 2, TripID: 5, UserID: 12, TeamID: intPtr(1)},
		{ID: 3, TripID: 5, UserID: 21, TeamID: intPtr(2)},
		{ID: 4, TripID: 5, UserID: 22, TeamID: intPtr(2)},
	}
	sessions := []models.Session{
		{ID: 1, TripID: 5, RoundNo: 1, Format: models.FormatSingles, PointsPerMatch: 1, Status: models.SessionStatusCompleted},
		{ID: 2, TripID: 5, RoundNo: 2, Format: models.FormatFourBall, PointsPerMatch: 2, Status: models.SessionStatusInProgress},
	}
	matches := []*models.Match{
		{ID: 1, SessionID: 1, Status: models.MatchStatusCompleted, Winner: strPtr("A")},
		{ID: 2, SessionID: 1, Status: models.MatchStatusCompleted, Winner: nil},
		{ID: 3, SessionID: 2, Status: models.MatchStatusInProgress},
		{ID: 4, SessionID: 2, Status: models.MatchStatusCanceled},
	}
	playersByMatch := map[int][]models.MatchPlayer{
		1: {
			{MatchID: 1, UserID: 11, Side: "A", DisplayName: "Arnold"},
			{MatchID: 1, UserID: 21, Side: "B", DisplayName: "Ben"},
		},
		2: {
			{MatchID: 2, UserID: 12, Side: "A", DisplayName: "Curtis"},
			{MatchID: 2, UserID: 22, Side: "B", DisplayName: "Dustin"},
		},
	}
	return teams, members, sessions, matches, playersByMatch
}

func TestBuildStandings(t *testing.T) {
	teams, members, sessions, matches, playersByMatch := standingsFixture()
	standings := buildStandings(5, teams, members, sessions, matches, playersByMatch)

	// One singles win, one halved singles; the four-ball match still running.
	assert.Equal(t, 3, standings.MatchesTotal, "canceled matches do not count")
	assert.Equal(t, 2, standings.MatchesDone)
	assert.Equal(t, 4.0, standings.TotalPoints, "1+1 singles plus 2 four-ball")
	assert.Equal(t, 2.5, standings.PointsToWin)

	require.Len(t, standings.Teams, 2)
	red, blue := standings.Teams[0], standings.Teams[1]
	assert.Equal(t, "Red", red.TeamName)
	assert.Equal(t, 1.5, red.Points)
	assert.Equal(t, 1, red.Wins)
	assert.Equal(t, 1, red.Halves)
	assert.Equal(t, 0, red.Losses)
	assert.Equal(t, 0.5, blue.Points)
	assert.Equal(t, 0, blue.Wins)
	assert.Equal(t, 1, blue.Halves)
	assert.Equal(t, 1, blue.Losses)

	require.Len(t, standings.Sessions, 2)
	assert.Equal(t, 1.5, standings.Sessions[0].PointsA, "Red anchors side A of the scoreboard")
	assert.Equal(t, 0.5, standings.Sessions[0].PointsB)
	assert.Zero(t, standings.Sessions[1].PointsA)
	assert.Zero(t, standings.Sessions[1].PointsB)

	require.Len(t, standings.Players, 4)
	assert.Equal(t, []int{11, 12, 22, 21}, []int{
		standings.Players[0].UserID,
		standings.Players[1].UserID,
		standings.Players[2].UserID,
		standings.Players[3].UserID,
	}, "sorted by points, ties broken by user id")

	arnold := standings.Players[0]
	assert.Equal(t, "Arnold", arnold.DisplayName)
	assert.Equal(t, 1, arnold.Played)
	assert.Equal(t, 1, arnold.Wins)
	assert.Equal(t, 1.0, arnold.Points)

	ben := standings.Players[3]
	assert.Equal(t, 1, ben.Losses)
	assert.Zero(t, ben.Points)
}

func TestBuildStandingsEmptyTrip(t *testing.T) {
	standings := buildStandings(5, nil, nil, nil, nil, nil)
	assert.Zero(t, standings.MatchesTotal)
	assert.Zero(t, standings.TotalPoints)
	assert.Equal(t, 0.5, standings.PointsToWin)
	assert.Empty(t, standings.Teams)
	assert.Empty(t, standings.Players)
}

func TestGetTripStandings(t *testing.T) {
	t.Run("unknown trip", func(t *testing.T) {
		svc := NewStandingsService(&stubTripRepo{}, &stubTeamRepo{}, &stubMemberRepo{}, &stubSessionRepo{}, &stubMatchRepo{})
		_, err := svc.GetTripStandings(context.Background(), 5)
		assert.ErrorIs(t, err, ErrTripNotFound)
	})

	t.Run("assembles the scoreboard through the repositories", func(t *testing.T) {
		teams, members, sessions, matches, playersByMatch := standingsFixture()

		tripRepo := &stubTripRepo{
			getByIDFn: func(ctx context.Context, id int) (*models.Trip, error) {
				return &models.Trip{ID: id, Name: "Pinehurst 2026"}, nil
			},
		}
		teamRepo := &stubTeamRepo{
			listByTripIDFn: func(ctx context.Context, tripID int) ([]models.Team, error) {
				return teams, nil
			},
		}
		memberRepo := &stubMemberRepo{
			listByTripIDFn: func(ctx context.Context, tripID int) ([]models.Member, error) {
				return members, nil
			},
		}
		sessionRepo := &stubSessionRepo{
			listByTripIDFn: func(ctx context.Context, tripID int) ([]models.Session, error) {
				return sessions, nil
			},
		}
		matchRepo := &stubMatchRepo{
			listByTripIDFn: func(ctx context.Context, tripID int) ([]*models.Match, error) {
				return matches, nil
			},
			listPlayersBySessionIDFn: func(ctx context.Context, sessionID int) ([]models.MatchPlayer, error) {
				var players []models.MatchPlayer
				for _, m := range matches {
					if m.SessionID != sessionID {
						continue
					}
					players = append(players, playersByMatch[m.ID]...)
				}
				return players, nil
			},
		}

		svc := NewStandingsService(tripRepo, teamRepo, memberRepo, sessionRepo, matchRepo)
		standings, err := svc.GetTripStandings(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, 5, standings.TripID)
		assert.Equal(t, 1.5, standings.Teams[0].Points)
	})
}
