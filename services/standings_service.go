package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

type StandingsService interface {
	GetTripStandings(ctx context.Context, tripID int) (*models.TripStandings, error)
}

type standingsService struct {
	tripRepo    repositories.TripRepository
	teamRepo    repositories.TeamRepository
	memberRepo  repositories.MemberRepository
	sessionRepo repositories.SessionRepository
	matchRepo   repositories.MatchRepository
}

func NewStandingsService(
	tripRepo repositories.TripRepository,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MemberRepository,
	sessionRepo repositories.SessionRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tripRepo:    tripRepo,
		teamRepo:    teamRepo,
		memberRepo:  memberRepo,
		sessionRepo: sessionRepo,
		matchRepo:   matchRepo,
	}
}

// GetTripStandings builds the trip scoreboard from completed matches. A win
// is worth the session's points per match, a halved match half of them, and
// the same credit lands on every player of the side.
func (s *standingsService) GetTripStandings(ctx context.Context, tripID int) (*models.TripStandings, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}

	var (
		teams    []models.Team
		members  []models.Member
		sessions []models.Session
		matches  []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTripID(gCtx, tripID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = s.memberRepo.ListByTripID(gCtx, tripID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.ListByTripID(gCtx, tripID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTripID(gCtx, tripID)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	playersByMatch := make(map[int][]models.MatchPlayer)
	for _, sess := range sessions {
		players, err := s.matchRepo.ListPlayersBySessionID(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list match players for session %d: %w", sess.ID, err)
		}
		for _, p := range players {
			playersByMatch[p.MatchID] = append(playersByMatch[p.MatchID], p)
		}
	}

	return buildStandings(tripID, teams, members, sessions, matches, playersByMatch), nil
}

func buildStandings(tripID int, teams []models.Team, members []models.Member, sessions []models.Session, matches []*models.Match, playersByMatch map[int][]models.MatchPlayer) *models.TripStandings {
	standings := &models.TripStandings{TripID: tripID}

	teamByUser := make(map[int]*int, len(members))
	memberByUser := make(map[int]models.Member, len(members))
	for _, m := range members {
		teamByUser[m.UserID] = m.TeamID
		memberByUser[m.UserID] = m
	}

	sessionByID := make(map[int]models.Session, len(sessions))
	for _, sess := range sessions {
		sessionByID[sess.ID] = sess
	}

	teamLines := make(map[int]*models.TeamPoints, len(teams))
	for _, t := range teams {
		teamLines[t.ID] = &models.TeamPoints{TeamID: t.ID, TeamName: t.Name}
	}
	sessionLines := make(map[int]*models.SessionLine, len(sessions))
	for _, sess := range sessions {
		sessionLines[sess.ID] = &models.SessionLine{
			SessionID: sess.ID,
			RoundNo:   sess.RoundNo,
			Format:    sess.Format,
			Status:    sess.Status,
		}
	}
	playerLines := make(map[int]*models.PlayerRecord)

	// points_a and points_b anchor to the trip's teams in listing order, the
	// way a cup scoreboard keeps the home team on a fixed side.
	addTeamPoints := func(sessionID, teamID int, points float64) {
		if line, ok := teamLines[teamID]; ok {
			line.Points += points
		}
		sessLine, ok := sessionLines[sessionID]
		if !ok || len(teams) != 2 {
			return
		}
		switch teamID {
		case teams[0].ID:
			sessLine.PointsA += points
		case teams[1].ID:
			sessLine.PointsB += points
		}
	}

	totalPoints := 0.0
	for _, match := range matches {
		sess, ok := sessionByID[match.SessionID]
		if !ok {
			continue
		}
		if match.Status != models.MatchStatusCanceled {
			standings.MatchesTotal++
			totalPoints += sess.PointsPerMatch
		}
		if match.Status != models.MatchStatusCompleted {
			continue
		}
		standings.MatchesDone++

		players := playersByMatch[match.ID]
		sideTeam := map[string]int{}
		for _, p := range players {
			if _, ok := sideTeam[p.Side]; ok {
				continue
			}
			if teamID := teamByUser[p.UserID]; teamID != nil {
				sideTeam[p.Side] = *teamID
			}
		}

		winner := ""
		if match.Winner != nil {
			winner = *match.Winner
		}
		for side, teamID := range sideTeam {
			line := teamLines[teamID]
			switch {
			case winner == "":
				addTeamPoints(match.SessionID, teamID, sess.PointsPerMatch/2)
				if line != nil {
					line.Halves++
				}
			case winner == side:
				addTeamPoints(match.SessionID, teamID, sess.PointsPerMatch)
				if line != nil {
					line.Wins++
				}
			default:
				if line != nil {
					line.Losses++
				}
			}
		}

		for _, p := range players {
			record, ok := playerLines[p.UserID]
			if !ok {
				record = &models.PlayerRecord{UserID: p.UserID, TeamID: teamByUser[p.UserID]}
				if m, found := memberByUser[p.UserID]; found && m.User != nil {
					record.DisplayName = m.User.DisplayName()
				} else if p.DisplayName != "" {
					record.DisplayName = p.DisplayName
				}
				playerLines[p.UserID] = record
			}
			record.Played++
			switch {
			case winner == "":
				record.Halves++
				record.Points += sess.PointsPerMatch / 2
			case winner == p.Side:
				record.Wins++
				record.Points += sess.PointsPerMatch
			default:
				record.Losses++
			}
		}
	}

	standings.TotalPoints = totalPoints
	standings.PointsToWin = totalPoints/2 + 0.5

	for _, t := range teams {
		standings.Teams = append(standings.Teams, *teamLines[t.ID])
	}
	for _, sess := range sessions {
		standings.Sessions = append(standings.Sessions, *sessionLines[sess.ID])
	}
	for _, record := range playerLines {
		standings.Players = append(standings.Players, *record)
	}
	sort.SliceStable(standings.Players, func(i, j int) bool {
		if standings.Players[i].Points != standings.Players[j].Points {
			return standings.Players[i].Points > standings.Players[j].Points
		}
		return standings.Players[i].UserID < standings.Players[j].UserID
	})

	return standings
}
