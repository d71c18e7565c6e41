package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/pairing"
	"github.com/fairwaylabs/trip-system/repositories"
)

type PairingService interface {
	Suggest(ctx context.Context, sessionID, limit int) ([]pairing.Suggestion, error)
	AnalyzeSession(ctx context.Context, sessionID int) (*pairing.Analysis, error)
}

type pairingService struct {
	sessionRepo repositories.SessionRepository
	tripRepo    repositories.TripRepository
	teamRepo    repositories.TeamRepository
	memberRepo  repositories.MemberRepository
	matchRepo   repositories.MatchRepository
}

func NewPairingService(
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.TripRepository,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MemberRepository,
	matchRepo repositories.MatchRepository,
) PairingService {
	return &pairingService{
		sessionRepo: sessionRepo,
		tripRepo:    tripRepo,
		teamRepo:    teamRepo,
		memberRepo:  memberRepo,
		matchRepo:   matchRepo,
	}
}

// Suggest proposes pairings for a session from the two team rosters and the
// matchups already played earlier in the trip.
func (s *pairingService) Suggest(ctx context.Context, sessionID, limit int) ([]pairing.Suggestion, error) {
	session, trip, err := s.loadSessionTrip(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	teamA, teamB, err := s.loadTeamPlayers(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, trip.ID, session)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 3
	}
	suggestions, err := pairing.Suggest(teamA, teamB, history, session.Format.SideSize(), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return suggestions, nil
}

// AnalyzeSession grades the pairings already committed for a session against
// the same fairness metric the suggestions use.
func (s *pairingService) AnalyzeSession(ctx context.Context, sessionID int) (*pairing.Analysis, error) {
	session, trip, err := s.loadSessionTrip(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	matchups, err := s.loadMatchups(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(matchups) == 0 {
		return nil, fmt.Errorf("%w: session has no matches yet", ErrValidationFailed)
	}

	members, err := s.memberRepo.ListByTripID(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for trip %d: %w", trip.ID, err)
	}
	index := make(map[int]pairing.Player, len(members))
	for _, m := range members {
		index[m.UserID] = toPairingPlayer(m)
	}

	history, err := s.loadHistory(ctx, trip.ID, session)
	if err != nil {
		return nil, err
	}

	analysis := pairing.Analyze(matchups, index, history)
	return &analysis, nil
}

func (s *pairingService) loadSessionTrip(ctx context.Context, sessionID int) (*models.Session, *models.Trip, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to get session %d: %w", sessionID, err)
	}
	trip, err := s.tripRepo.GetByID(ctx, session.TripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, nil, ErrTripNotFound
		}
		return nil, nil, fmt.Errorf("failed to get trip %d: %w", session.TripID, err)
	}
	return session, trip, nil
}

// loadTeamPlayers splits the roster along the trip's two teams. Members
// without a team sit out of the pairing math.
func (s *pairingService) loadTeamPlayers(ctx context.Context, tripID int) ([]pairing.Player, []pairing.Player, error) {
	teams, err := s.teamRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list teams for trip %d: %w", tripID, err)
	}
	if len(teams) != 2 {
		return nil, nil, fmt.Errorf("%w: pairing needs exactly two teams, trip has %d", ErrValidationFailed, len(teams))
	}

	members, err := s.memberRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members for trip %d: %w", tripID, err)
	}

	var teamA, teamB []pairing.Player
	for _, m := range members {
		if m.TeamID == nil {
			continue
		}
		switch *m.TeamID {
		case teams[0].ID:
			teamA = append(teamA, toPairingPlayer(m))
		case teams[1].ID:
			teamB = append(teamB, toPairingPlayer(m))
		}
	}
	return teamA, teamB, nil
}

// loadHistory builds the pairing history from the trip's earlier sessions,
// most recent round first.
func (s *pairingService) loadHistory(ctx context.Context, tripID int, current *models.Session) (pairing.History, error) {
	sessions, err := s.sessionRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for trip %d: %w", tripID, err)
	}

	prior := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.RoundNo < current.RoundNo {
			prior = append(prior, sess)
		}
	}
	sort.SliceStable(prior, func(i, j int) bool {
		return prior[i].RoundNo > prior[j].RoundNo
	})

	history := make(pairing.History, 0, len(prior))
	for _, sess := range prior {
		matchups, err := s.loadMatchups(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		if len(matchups) > 0 {
			history = append(history, matchups)
		}
	}
	return history, nil
}

// loadMatchups reconstructs who faced whom in a session from the seated
// match players.
func (s *pairingService) loadMatchups(ctx context.Context, sessionID int) ([]pairing.Matchup, error) {
	players, err := s.matchRepo.ListPlayersBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match players for session %d: %w", sessionID, err)
	}

	byMatch := make(map[int]*pairing.Matchup)
	order := make([]int, 0)
	for _, p := range players {
		mu, ok := byMatch[p.MatchID]
		if !ok {
			mu = &pairing.Matchup{}
			byMatch[p.MatchID] = mu
			order = append(order, p.MatchID)
		}
		if p.Side == "A" {
			mu.A = append(mu.A, p.UserID)
		} else {
			mu.B = append(mu.B, p.UserID)
		}
	}

	matchups := make([]pairing.Matchup, 0, len(order))
	for _, matchID := range order {
		matchups = append(matchups, *byMatch[matchID])
	}
	return matchups, nil
}

func toPairingPlayer(m models.Member) pairing.Player {
	player := pairing.Player{ID: m.UserID}
	if m.TeamID != nil {
		player.TeamID = *m.TeamID
	}
	if m.User != nil {
		player.Name = m.User.DisplayName()
		player.HandicapIndex = m.User.HandicapIndex
	}
	return player
}
