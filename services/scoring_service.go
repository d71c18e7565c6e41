package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/fairwaylabs/trip-system/live"
	"github.com/fairwaylabs/trip-system/matchplay"
	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

type MatchSeedInput struct {
	SideA []int `json:"side_a"`
	SideB []int `json:"side_b"`
}

type SeedMatchesInput struct {
	Matches []MatchSeedInput `json:"matches"`
}

type HoleScoreInput struct {
	UserID int `json:"user_id"`
	Gross  int `json:"gross"`
}

// RecordHoleInput records one hole. Either Scores carries gross scores and
// the engine decides the winner, or Winner names the outcome directly for
// groups that only keep the match score.
type RecordHoleInput struct {
	Hole   int              `json:"hole"`
	Winner string           `json:"winner,omitempty"`
	Scores []HoleScoreInput `json:"scores,omitempty"`
}

type ScoringService interface {
	SeedMatches(ctx context.Context, sessionID, actorID int, input SeedMatchesInput) ([]models.Match, error)
	GetMatchDetail(ctx context.Context, matchID int) (*models.Match, error)
	RecordHole(ctx context.Context, matchID, actorID int, input RecordHoleInput) (*models.Match, error)
	UndoHole(ctx context.Context, matchID, actorID int) (*models.Match, error)
	RefreshStrokes(ctx context.Context, matchID, actorID int) ([]models.MatchPlayer, error)
}

type scoringService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	sessionRepo    repositories.SessionRepository
	tripRepo       repositories.TripRepository
	memberRepo     repositories.MemberRepository
	courseRepo     repositories.CourseRepository
	holeResultRepo repositories.HoleResultRepository
	pressRepo      repositories.PressRepository
	hub            *live.Hub
}

func NewScoringService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.TripRepository,
	memberRepo repositories.MemberRepository,
	courseRepo repositories.CourseRepository,
	holeResultRepo repositories.HoleResultRepository,
	pressRepo repositories.PressRepository,
	hub *live.Hub,
) ScoringService {
	return &scoringService{
		db:             db,
		matchRepo:      matchRepo,
		sessionRepo:    sessionRepo,
		tripRepo:       tripRepo,
		memberRepo:     memberRepo,
		courseRepo:     courseRepo,
		holeResultRepo: holeResultRepo,
		pressRepo:      pressRepo,
		hub:            hub,
	}
}

// SeedMatches turns the organizer's pairings into persisted matches with
// course handicaps and stroke allocations computed against the session's tee
// set. All matches of a session are created in one transaction.
func (s *scoringService) SeedMatches(ctx context.Context, sessionID, actorID int, input SeedMatchesInput) ([]models.Match, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	trip, err := s.getTrip(ctx, session.TripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if session.Status != models.SessionStatusScheduled {
		return nil, ErrSessionNotEditable
	}

	existing, err := s.matchRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for session %d: %w", sessionID, err)
	}
	if len(existing) > 0 {
		return nil, ErrSessionAlreadySeeded
	}
	if len(input.Matches) == 0 {
		return nil, fmt.Errorf("%w: at least one match is required", ErrValidationFailed)
	}

	teeSet, err := s.getTeeSet(ctx, session.TeeSetID)
	if err != nil {
		return nil, err
	}
	rankings := teeSet.Rankings()
	if err := matchplay.ValidateRankings(rankings); err != nil {
		return nil, err
	}
	pars := teeSet.Pars()
	if err := matchplay.ValidatePars(pars, teeSet.Holes); err != nil {
		return nil, err
	}
	parTotal := 0
	for _, p := range pars {
		parTotal += p
	}

	members, err := s.memberRepo.ListByTripID(ctx, session.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for trip %d: %w", session.TripID, err)
	}
	byUser := make(map[int]*models.Member, len(members))
	for i := range members {
		byUser[members[i].UserID] = &members[i]
	}

	sideSize := session.Format.SideSize()
	seated := make(map[int]bool)
	matches := make([]models.Match, 0, len(input.Matches))
	playersByMatch := make([][]*models.MatchPlayer, 0, len(input.Matches))

	for i, seed := range input.Matches {
		matchNo := i + 1
		if len(seed.SideA) != sideSize || len(seed.SideB) != sideSize {
			return nil, fmt.Errorf("%w: match %d needs %d players per side", ErrSidesUneven, matchNo, sideSize)
		}

		sideAPlayers, teamA, err := s.buildSide(seed.SideA, byUser, seated, matchNo, matchplay.SideA)
		if err != nil {
			return nil, err
		}
		sideBPlayers, teamB, err := s.buildSide(seed.SideB, byUser, seated, matchNo, matchplay.SideB)
		if err != nil {
			return nil, err
		}
		if teamA == teamB {
			return nil, fmt.Errorf("%w: match %d pits team %d against itself", ErrValidationFailed, matchNo, teamA)
		}

		players := append(sideAPlayers, sideBPlayers...)
		for _, p := range players {
			p.CourseHandicap = matchplay.CourseHandicap(p.HandicapAtDraft, teeSet.Slope, teeSet.Rating, parTotal)
		}
		allocateMatchStrokes(session.Format, sideAPlayers, sideBPlayers, rankings)

		matches = append(matches, models.Match{
			SessionID:  sessionID,
			MatchNo:    matchNo,
			TotalHoles: teeSet.Holes,
			Status:     models.MatchStatusScheduled,
			Display:    "AS",
		})
		playersByMatch = append(playersByMatch, players)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for i := range matches {
			if err := s.matchRepo.Create(ctx, tx, &matches[i]); err != nil {
				return fmt.Errorf("failed to create match %d: %w", matches[i].MatchNo, err)
			}
			for _, p := range playersByMatch[i] {
				p.MatchID = matches[i].ID
			}
			if err := s.matchRepo.CreatePlayers(ctx, tx, playersByMatch[i]); err != nil {
				return fmt.Errorf("failed to seat players of match %d: %w", matches[i].MatchNo, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range matches {
		for _, p := range playersByMatch[i] {
			matches[i].Players = append(matches[i].Players, *p)
		}
	}
	return matches, nil
}

// buildSide validates one side of a pairing and returns its players plus
// their common team.
func (s *scoringService) buildSide(userIDs []int, byUser map[int]*models.Member, seated map[int]bool, matchNo int, side matchplay.Side) ([]*models.MatchPlayer, int, error) {
	players := make([]*models.MatchPlayer, 0, len(userIDs))
	teamID := 0
	for _, userID := range userIDs {
		member, ok := byUser[userID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: user %d is not on the trip roster", ErrValidationFailed, userID)
		}
		if member.TeamID == nil {
			return nil, 0, fmt.Errorf("%w: user %d has no team", ErrValidationFailed, userID)
		}
		if seated[userID] {
			return nil, 0, fmt.Errorf("%w: user %d is seated twice in this session", ErrValidationFailed, userID)
		}
		seated[userID] = true

		if teamID == 0 {
			teamID = *member.TeamID
		} else if teamID != *member.TeamID {
			return nil, 0, fmt.Errorf("%w: match %d side %s mixes teams", ErrValidationFailed, matchNo, side)
		}

		index := 0.0
		displayName := ""
		if member.User != nil {
			index = member.User.HandicapIndex
			displayName = member.User.DisplayName()
		}
		players = append(players, &models.MatchPlayer{
			UserID:          userID,
			Side:            string(side),
			HandicapAtDraft: index,
			DisplayName:     displayName,
		})
	}
	return players, teamID, nil
}

// allocateMatchStrokes fills in the cached per-hole strokes for every player.
// Singles and foursomes play off the difference between side allowances, four
// ball gives each player strokes relative to the lowest course handicap in
// the match.
func allocateMatchStrokes(format models.SessionFormat, sideA, sideB []*models.MatchPlayer, rankings []int) {
	switch format {
	case models.FormatSingles:
		strokesA, strokesB := matchplay.MatchDifferentials(sideA[0].CourseHandicap, sideB[0].CourseHandicap, rankings)
		sideA[0].Strokes = models.ToInt64s(strokesA)
		sideB[0].Strokes = models.ToInt64s(strokesB)

	case models.FormatFourBall:
		all := make([]*models.MatchPlayer, 0, len(sideA)+len(sideB))
		all = append(all, sideA...)
		all = append(all, sideB...)
		low := all[0].CourseHandicap
		for _, p := range all {
			if p.CourseHandicap < low {
				low = p.CourseHandicap
			}
		}
		for _, p := range all {
			p.Strokes = models.ToInt64s(matchplay.AllocateStrokes(p.CourseHandicap-low, rankings))
		}

	case models.FormatFoursomes:
		// One ball per side: the side allowance is half the combined course
		// handicap, and the whole allocation rides on the first player.
		strokesA, strokesB := matchplay.MatchDifferentials(halfCombined(sideA), halfCombined(sideB), rankings)
		sideA[0].Strokes = models.ToInt64s(strokesA)
		sideB[0].Strokes = models.ToInt64s(strokesB)
		for _, p := range sideA[1:] {
			p.Strokes = models.ToInt64s(make([]int, len(rankings)))
		}
		for _, p := range sideB[1:] {
			p.Strokes = models.ToInt64s(make([]int, len(rankings)))
		}
	}
}

func halfCombined(side []*models.MatchPlayer) int {
	combined := 0
	for _, p := range side {
		combined += p.CourseHandicap
	}
	return int(math.Round(float64(combined) / 2.0))
}

// GetMatchDetail returns the match with players, the full hole ledger with
// per-player scores, and every press with its recomputed standing.
func (s *scoringService) GetMatchDetail(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	players, err := s.matchRepo.ListPlayersByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for match %d: %w", matchID, err)
	}
	match.Players = players

	holes, err := s.holeResultRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole results for match %d: %w", matchID, err)
	}
	scores, err := s.holeResultRepo.ListScoresByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole scores for match %d: %w", matchID, err)
	}
	byResult := make(map[int][]models.HoleScore)
	for _, sc := range scores {
		byResult[sc.HoleResultID] = append(byResult[sc.HoleResultID], sc)
	}
	for i := range holes {
		holes[i].Scores = byResult[holes[i].ID]
	}
	match.Holes = holes

	presses, err := s.pressRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list presses for match %d: %w", matchID, err)
	}
	results := toResults(holes)
	for i := range presses {
		if err := applyPressState(&presses[i], match.TotalHoles, results); err != nil {
			log.Printf("Failed to compute state of press %d on match %d: %v", presses[i].ID, matchID, err)
		}
	}
	match.Presses = presses

	return match, nil
}

// RecordHole writes one hole result and refreshes the match snapshot in a
// single transaction. The hole ledger stays the source of truth: the snapshot
// is always a full replay, never an increment.
func (s *scoringService) RecordHole(ctx context.Context, matchID, actorID int, input RecordHoleInput) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, match.SessionID)
	if err != nil {
		return nil, err
	}
	players, err := s.matchRepo.ListPlayersByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for match %d: %w", matchID, err)
	}
	if err := s.requireScorer(ctx, session.TripID, actorID, players); err != nil {
		return nil, err
	}

	if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusCanceled {
		return nil, ErrMatchNotScoreable
	}
	if input.Hole < 1 || input.Hole > match.TotalHoles {
		return nil, fmt.Errorf("%w: hole %d out of range 1..%d", ErrValidationFailed, input.Hole, match.TotalHoles)
	}

	holes, err := s.holeResultRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole results for match %d: %w", matchID, err)
	}
	for _, h := range holes {
		if h.Hole == input.Hole {
			return nil, ErrHoleAlreadyRecorded
		}
	}

	outcome, scoreRows, err := s.resolveHole(session.Format, players, input)
	if err != nil {
		return nil, err
	}

	// Replay with the proposed hole before touching the database, so an
	// entry the state machine rejects never lands in the ledger.
	results := append(toResults(holes), matchplay.Result{Hole: input.Hole, Outcome: outcome})
	state, err := matchplay.ComputeState(match.TotalHoles, results)
	if err != nil {
		return nil, err
	}

	holeResult := &models.HoleResult{
		MatchID: matchID,
		Hole:    input.Hole,
		Winner:  string(outcome),
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.holeResultRepo.Create(ctx, tx, holeResult); err != nil {
			if errors.Is(err, repositories.ErrHoleResultConflict) {
				return ErrHoleAlreadyRecorded
			}
			return fmt.Errorf("failed to record hole %d: %w", input.Hole, err)
		}
		for _, row := range scoreRows {
			row.HoleResultID = holeResult.ID
		}
		if err := s.holeResultRepo.CreateScores(ctx, tx, scoreRows); err != nil {
			return fmt.Errorf("failed to record hole scores: %w", err)
		}

		applyStateToMatch(match, state)
		if err := s.matchRepo.UpdateSnapshot(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to update match snapshot: %w", err)
		}

		if session.Status == models.SessionStatusScheduled {
			if err := s.sessionRepo.UpdateStatus(ctx, tx, session.ID, models.SessionStatusInProgress); err != nil {
				return fmt.Errorf("failed to move session %d in progress: %w", session.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if state.Closed {
		s.completeSessionIfDone(ctx, session.ID)
	}

	detail, err := s.GetMatchDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}

	s.broadcastMatch(live.EventHoleRecorded, session.ID, detail)
	return detail, nil
}

// UndoHole removes the most recent hole result and replays what is left. A
// decided match reopens; this is the only sanctioned backward step.
func (s *scoringService) UndoHole(ctx context.Context, matchID, actorID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, match.SessionID)
	if err != nil {
		return nil, err
	}
	players, err := s.matchRepo.ListPlayersByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for match %d: %w", matchID, err)
	}
	if err := s.requireScorer(ctx, session.TripID, actorID, players); err != nil {
		return nil, err
	}

	latest, err := s.holeResultRepo.GetLatestByMatchID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrHoleResultNotFound) {
			return nil, fmt.Errorf("%w: no holes recorded yet", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to find latest hole of match %d: %w", matchID, err)
	}

	holes, err := s.holeResultRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole results for match %d: %w", matchID, err)
	}
	remaining := make([]matchplay.Result, 0, len(holes))
	for _, h := range holes {
		if h.ID == latest.ID {
			continue
		}
		remaining = append(remaining, matchplay.Result{Hole: h.Hole, Outcome: matchplay.HoleOutcome(h.Winner)})
	}
	state, err := matchplay.ComputeState(match.TotalHoles, remaining)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.holeResultRepo.DeleteByID(ctx, tx, latest.ID); err != nil {
			return fmt.Errorf("failed to delete hole result %d: %w", latest.ID, err)
		}

		applyStateToMatch(match, state)
		if state.Thru == 0 {
			match.Status = models.MatchStatusScheduled
		}
		if err := s.matchRepo.UpdateSnapshot(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to update match snapshot: %w", err)
		}

		// Undoing a hole of a wrapped-up session reopens it.
		if session.Status == models.SessionStatusCompleted {
			if err := s.sessionRepo.UpdateStatus(ctx, tx, session.ID, models.SessionStatusInProgress); err != nil {
				return fmt.Errorf("failed to reopen session %d: %w", session.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.GetMatchDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}

	s.broadcastMatch(live.EventHoleUndone, session.ID, detail)
	return detail, nil
}

// RefreshStrokes recomputes course handicaps and allocations from the
// players' current handicap indexes. Only allowed before the first hole is
// recorded; after that the card is settled.
func (s *scoringService) RefreshStrokes(ctx context.Context, matchID, actorID int) ([]models.MatchPlayer, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, match.SessionID)
	if err != nil {
		return nil, err
	}
	trip, err := s.getTrip(ctx, session.TripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, ErrMatchNotScoreable
	}

	teeSet, err := s.getTeeSet(ctx, session.TeeSetID)
	if err != nil {
		return nil, err
	}
	rankings := teeSet.Rankings()
	pars := teeSet.Pars()
	parTotal := 0
	for _, p := range pars {
		parTotal += p
	}

	players, err := s.matchRepo.ListPlayersByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for match %d: %w", matchID, err)
	}

	sideA := make([]*models.MatchPlayer, 0, len(players))
	sideB := make([]*models.MatchPlayer, 0, len(players))
	for i := range players {
		p := &players[i]
		if p.User != nil {
			p.HandicapAtDraft = p.User.HandicapIndex
		}
		p.CourseHandicap = matchplay.CourseHandicap(p.HandicapAtDraft, teeSet.Slope, teeSet.Rating, parTotal)
		if p.Side == string(matchplay.SideA) {
			sideA = append(sideA, p)
		} else {
			sideB = append(sideB, p)
		}
	}
	allocateMatchStrokes(session.Format, sideA, sideB, rankings)

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for i := range players {
			p := &players[i]
			if err := s.matchRepo.UpdatePlayerStrokes(ctx, tx, p.ID, p.CourseHandicap, p.Strokes); err != nil {
				return fmt.Errorf("failed to update strokes of player %d: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

// resolveHole turns the input into an outcome plus the score rows to persist.
func (s *scoringService) resolveHole(format models.SessionFormat, players []models.MatchPlayer, input RecordHoleInput) (matchplay.HoleOutcome, []*models.HoleScore, error) {
	if len(input.Scores) == 0 {
		outcome := matchplay.HoleOutcome(input.Winner)
		switch outcome {
		case matchplay.HoleWonA, matchplay.HoleWonB, matchplay.HoleHalved:
			return outcome, nil, nil
		}
		return "", nil, fmt.Errorf("%w: winner or gross scores required", ErrValidationFailed)
	}

	byUser := make(map[int]*models.MatchPlayer, len(players))
	sideA := make([]*models.MatchPlayer, 0, len(players))
	sideB := make([]*models.MatchPlayer, 0, len(players))
	for i := range players {
		p := &players[i]
		byUser[p.UserID] = p
		if p.Side == string(matchplay.SideA) {
			sideA = append(sideA, p)
		} else {
			sideB = append(sideB, p)
		}
	}

	grossByUser := make(map[int]int, len(input.Scores))
	for _, sc := range input.Scores {
		p, ok := byUser[sc.UserID]
		if !ok {
			return "", nil, fmt.Errorf("%w: user %d is not in this match", ErrValidationFailed, sc.UserID)
		}
		if _, dup := grossByUser[sc.UserID]; dup {
			return "", nil, fmt.Errorf("%w: duplicate score for user %d", ErrValidationFailed, sc.UserID)
		}
		if sc.Gross < 1 || sc.Gross > 20 {
			return "", nil, fmt.Errorf("%w: gross %d for user %d", ErrValidationFailed, sc.Gross, sc.UserID)
		}
		grossByUser[p.UserID] = sc.Gross
	}

	holeIdx := input.Hole - 1
	strokesOn := func(p *models.MatchPlayer) int {
		strokes := p.StrokesInts()
		if holeIdx < len(strokes) {
			return strokes[holeIdx]
		}
		return 0
	}

	switch format {
	case models.FormatSingles:
		scoreA, okA := grossByUser[sideA[0].UserID]
		scoreB, okB := grossByUser[sideB[0].UserID]
		if !okA || !okB {
			return "", nil, fmt.Errorf("%w: both players need a gross score", ErrValidationFailed)
		}
		a := matchplay.PlayerScore{Gross: scoreA, Strokes: strokesOn(sideA[0])}
		b := matchplay.PlayerScore{Gross: scoreB, Strokes: strokesOn(sideB[0])}
		outcome := matchplay.ResolveHole(a, b)
		rows := []*models.HoleScore{
			{UserID: sideA[0].UserID, Gross: scoreA, Strokes: a.Strokes, CountedBest: true},
			{UserID: sideB[0].UserID, Gross: scoreB, Strokes: b.Strokes, CountedBest: true},
		}
		return outcome, rows, nil

	case models.FormatFoursomes:
		// One ball per side: the score may be entered under either player,
		// the side's strokes are whatever its players carry combined.
		scoreA, userA, err := sideGross(sideA, grossByUser)
		if err != nil {
			return "", nil, err
		}
		scoreB, userB, err := sideGross(sideB, grossByUser)
		if err != nil {
			return "", nil, err
		}
		a := matchplay.PlayerScore{Gross: scoreA, Strokes: sideStrokes(sideA, holeIdx)}
		b := matchplay.PlayerScore{Gross: scoreB, Strokes: sideStrokes(sideB, holeIdx)}
		outcome := matchplay.ResolveHole(a, b)
		rows := []*models.HoleScore{
			{UserID: userA, Gross: scoreA, Strokes: a.Strokes, CountedBest: true},
			{UserID: userB, Gross: scoreB, Strokes: b.Strokes, CountedBest: true},
		}
		return outcome, rows, nil

	case models.FormatFourBall:
		scoresA, rowsA, err := sideScores(sideA, grossByUser, strokesOn)
		if err != nil {
			return "", nil, err
		}
		scoresB, rowsB, err := sideScores(sideB, grossByUser, strokesOn)
		if err != nil {
			return "", nil, err
		}
		outcome, bestA, bestB := matchplay.ResolveBestBall(scoresA, scoresB)
		if bestA.PlayerIndex >= 0 {
			rowsA[bestA.PlayerIndex].CountedBest = true
		}
		if bestB.PlayerIndex >= 0 {
			rowsB[bestB.PlayerIndex].CountedBest = true
		}
		return outcome, append(rowsA, rowsB...), nil
	}

	return "", nil, fmt.Errorf("%w: unknown session format %q", ErrValidationFailed, format)
}

func sideGross(side []*models.MatchPlayer, grossByUser map[int]int) (int, int, error) {
	for _, p := range side {
		if gross, ok := grossByUser[p.UserID]; ok {
			return gross, p.UserID, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: side %s needs a gross score", ErrValidationFailed, side[0].Side)
}

func sideStrokes(side []*models.MatchPlayer, holeIdx int) int {
	total := 0
	for _, p := range side {
		strokes := p.StrokesInts()
		if holeIdx < len(strokes) {
			total += strokes[holeIdx]
		}
	}
	return total
}

func sideScores(side []*models.MatchPlayer, grossByUser map[int]int, strokesOn func(*models.MatchPlayer) int) ([]matchplay.PlayerScore, []*models.HoleScore, error) {
	scores := make([]matchplay.PlayerScore, 0, len(side))
	rows := make([]*models.HoleScore, 0, len(side))
	for _, p := range side {
		gross, ok := grossByUser[p.UserID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: four ball needs a gross score for every player", ErrValidationFailed)
		}
		ps := matchplay.PlayerScore{Gross: gross, Strokes: strokesOn(p)}
		scores = append(scores, ps)
		rows = append(rows, &models.HoleScore{UserID: p.UserID, Gross: gross, Strokes: ps.Strokes})
	}
	return scores, rows, nil
}

func toResults(holes []models.HoleResult) []matchplay.Result {
	results := make([]matchplay.Result, 0, len(holes))
	for _, h := range holes {
		results = append(results, matchplay.Result{Hole: h.Hole, Outcome: matchplay.HoleOutcome(h.Winner)})
	}
	return results
}

func applyStateToMatch(match *models.Match, state matchplay.State) {
	match.Score = state.Score
	match.Thru = state.Thru
	match.Dormie = state.Dormie
	match.Display = state.Display
	match.Winner = nil
	if state.Winner != matchplay.SideNone {
		winner := string(state.Winner)
		match.Winner = &winner
	}
	switch {
	case state.Closed:
		match.Status = models.MatchStatusCompleted
	case state.Thru > 0:
		match.Status = models.MatchStatusInProgress
	default:
		match.Status = models.MatchStatusScheduled
	}
}

// applyPressState recomputes a press's standing from the parent ledger. A
// press is forced shut when its parent match is over even if its own window
// still has holes.
func applyPressState(press *models.Press, totalHoles int, results []matchplay.Result) error {
	state, err := matchplay.PressState(totalHoles, press.StartHole, results)
	if err != nil {
		return err
	}
	press.Score = state.Score
	press.Thru = state.Thru
	press.Closed = state.Closed
	press.Display = state.Display
	press.Winner = nil
	if state.Winner != matchplay.SideNone {
		winner := string(state.Winner)
		press.Winner = &winner
	}

	if !press.Closed {
		matchState, err := matchplay.ComputeState(totalHoles, results)
		if err != nil {
			return err
		}
		if matchState.Closed {
			press.Closed = true
			if press.Winner == nil && press.Score != 0 {
				winner := string(matchplay.SideA)
				if press.Score < 0 {
					winner = string(matchplay.SideB)
				}
				press.Winner = &winner
			}
		}
	}
	return nil
}

// completeSessionIfDone flips the session to completed once every match is
// decided. Best effort after the scoring transaction.
func (s *scoringService) completeSessionIfDone(ctx context.Context, sessionID int) {
	matches, err := s.matchRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		log.Printf("Failed to check session %d completion: %v", sessionID, err)
		return
	}
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCanceled {
			return
		}
	}
	if err := s.sessionRepo.UpdateStatus(ctx, nil, sessionID, models.SessionStatusCompleted); err != nil {
		log.Printf("Failed to complete session %d: %v", sessionID, err)
	}
}

func (s *scoringService) broadcastMatch(event string, sessionID int, match *models.Match) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.MatchRoom(match.ID), live.EventMessage{
		Type:    event,
		Payload: match,
		Room:    live.MatchRoom(match.ID),
	})
	s.hub.BroadcastToRoom(live.SessionRoom(sessionID), live.EventMessage{
		Type:    live.EventMatchUpdated,
		Payload: match,
		Room:    live.SessionRoom(sessionID),
	})
}

// requireScorer allows the trip organizer and anyone seated in the match.
func (s *scoringService) requireScorer(ctx context.Context, tripID, actorID int, players []models.MatchPlayer) error {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.OrganizerID == actorID {
		return nil
	}
	for _, p := range players {
		if p.UserID == actorID {
			return nil
		}
	}
	return ErrForbiddenOperation
}

func (s *scoringService) getMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *scoringService) getSession(ctx context.Context, sessionID int) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d: %w", sessionID, err)
	}
	return session, nil
}

func (s *scoringService) getTrip(ctx context.Context, tripID int) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}
	return trip, nil
}

func (s *scoringService) getTeeSet(ctx context.Context, teeSetID int) (*models.TeeSet, error) {
	teeSet, err := s.courseRepo.GetTeeSetByID(ctx, teeSetID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeeSetNotFound) {
			return nil, ErrTeeSetNotFound
		}
		return nil, fmt.Errorf("failed to get tee set %d: %w", teeSetID, err)
	}
	return teeSet, nil
}
