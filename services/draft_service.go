package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fairwaylabs/trip-system/draft"
	"github.com/fairwaylabs/trip-system/live"
	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

type StartDraftInput struct {
	Mode      string `json:"mode"`
	TeamOrder []int  `json:"team_order,omitempty"`
	Budget    int    `json:"budget,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

type MakePickInput struct {
	TeamID int `json:"team_id"`
	UserID int `json:"user_id"`
	Bid    int `json:"bid,omitempty"`
}

// DraftBoard is the live view of a draft: the pick ledger plus everything a
// draft room needs to render the clock.
type DraftBoard struct {
	Draft            *models.Draft   `json:"draft"`
	OnClockTeamID    int             `json:"on_clock_team_id,omitempty"`
	Available        []models.Member `json:"available,omitempty"`
	RemainingBudgets map[int]int     `json:"remaining_budgets,omitempty"`
}

type DraftService interface {
	Start(ctx context.Context, tripID, actorID int, input StartDraftInput) (*DraftBoard, error)
	GetBoard(ctx context.Context, tripID int) (*DraftBoard, error)
	MakePick(ctx context.Context, draftID, actorID int, input MakePickInput) (*DraftBoard, error)
	AutoPick(ctx context.Context, draftID, actorID int) (*DraftBoard, error)
	Complete(ctx context.Context, draftID, actorID int) (*DraftBoard, error)
	Cancel(ctx context.Context, draftID, actorID int) error
}

type draftService struct {
	db         *sql.DB
	draftRepo  repositories.DraftRepository
	tripRepo   repositories.TripRepository
	teamRepo   repositories.TeamRepository
	memberRepo repositories.MemberRepository
	hub        *live.Hub
}

func NewDraftService(
	db *sql.DB,
	draftRepo repositories.DraftRepository,
	tripRepo repositories.TripRepository,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MemberRepository,
	hub *live.Hub,
) DraftService {
	return &draftService{
		db:         db,
		draftRepo:  draftRepo,
		tripRepo:   tripRepo,
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		hub:        hub,
	}
}

// Start opens a draft over the trip's unassigned members. Random and balanced
// modes run to completion immediately; snake and auction wait for picks.
func (s *draftService) Start(ctx context.Context, tripID, actorID int, input StartDraftInput) (*DraftBoard, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if trip.Status != models.TripStatusPlanning {
		return nil, ErrTripNotInPlanning
	}

	mode := draft.Mode(input.Mode)
	switch mode {
	case draft.ModeSnake, draft.ModeAuction, draft.ModeRandom, draft.ModeBalanced:
	default:
		return nil, fmt.Errorf("%w: unknown draft mode %q", ErrValidationFailed, input.Mode)
	}

	if latest, err := s.draftRepo.GetLatestByTripID(ctx, tripID); err == nil {
		if latest.Status == models.DraftStatusOpen {
			return nil, ErrDraftAlreadyOpen
		}
	} else if !errors.Is(err, repositories.ErrDraftNotFound) {
		return nil, fmt.Errorf("failed to check for an open draft: %w", err)
	}

	teams, err := s.teamRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for trip %d: %w", tripID, err)
	}
	order, err := resolveTeamOrder(input.TeamOrder, teams)
	if err != nil {
		return nil, err
	}

	pool, members, err := s.loadPool(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(pool) < len(order) {
		return nil, fmt.Errorf("%w: %d unassigned players for %d teams", ErrRosterTooSmall, len(pool), len(order))
	}

	budget := 0
	if mode == draft.ModeAuction {
		if input.Budget < 1 {
			return nil, fmt.Errorf("%w: auction budget must be positive", ErrValidationFailed)
		}
		budget = input.Budget
	}

	record := &models.Draft{
		TripID:    tripID,
		Mode:      models.DraftMode(mode),
		TeamOrder: models.ToInt64s(order),
		Budget:    budget,
		Status:    models.DraftStatusOpen,
	}

	switch mode {
	case draft.ModeRandom, draft.ModeBalanced:
		return s.runAssignment(ctx, record, mode, input.Seed, order, pool, members)
	}

	if err := s.draftRepo.Create(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return s.buildBoard(record, members), nil
}

// runAssignment deals the whole pool in one transaction for the
// non-interactive modes. The seed is stored so a random deal can be replayed.
func (s *draftService) runAssignment(ctx context.Context, record *models.Draft, mode draft.Mode, seed *int64, order []int, pool []draft.Player, members []models.Member) (*DraftBoard, error) {
	var assigner draft.Assigner
	switch mode {
	case draft.ModeRandom:
		value := time.Now().UnixNano()
		if seed != nil {
			value = *seed
		}
		record.Seed = &value
		assigner = draft.NewRandomAssigner(rand.New(rand.NewSource(value)))
	case draft.ModeBalanced:
		assigner = draft.NewBalancedAssigner()
	}

	picks, err := assigner.Assign(draft.AssignParams{Players: pool, TeamIDs: order})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	record.Status = models.DraftStatusComplete
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.draftRepo.Create(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to create draft: %w", err)
		}
		for _, pick := range picks {
			row := &models.DraftPick{
				DraftID: record.ID,
				Round:   pick.Round,
				Overall: pick.Overall,
				TeamID:  pick.TeamID,
				UserID:  pick.PlayerID,
				Bid:     pick.Bid,
			}
			if err := s.draftRepo.CreatePick(ctx, tx, row); err != nil {
				return fmt.Errorf("failed to record pick %d: %w", pick.Overall, err)
			}
			record.Picks = append(record.Picks, *row)
		}
		return s.assignPickedTeams(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastDraft(live.EventDraftCompleted, record)
	return s.buildBoard(record, members), nil
}

// GetBoard returns the trip's draft of record with the clock derived from the
// current pick ledger.
func (s *draftService) GetBoard(ctx context.Context, tripID int) (*DraftBoard, error) {
	record, err := s.draftRepo.GetLatestByTripID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft for trip %d: %w", tripID, err)
	}
	if err := s.loadPicks(ctx, record); err != nil {
		return nil, err
	}
	_, members, err := s.loadPool(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return s.buildBoard(record, members), nil
}

// MakePick applies one manual pick. The trip organizer may pick for anyone;
// a team captain may pick for their own team.
func (s *draftService) MakePick(ctx context.Context, draftID, actorID int, input MakePickInput) (*DraftBoard, error) {
	record, err := s.getDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.DraftStatusOpen {
		return nil, ErrDraftNotOpen
	}
	if err := s.requirePicker(ctx, record.TripID, actorID, input.TeamID); err != nil {
		return nil, err
	}
	if err := s.loadPicks(ctx, record); err != nil {
		return nil, err
	}
	pool, members, err := s.loadPool(ctx, record.TripID)
	if err != nil {
		return nil, err
	}

	engine := toEngineDraft(record)
	pick, err := engine.MakePick(input.TeamID, input.UserID, input.Bid, pool)
	if err != nil {
		return nil, err
	}

	row := &models.DraftPick{
		DraftID: record.ID,
		Round:   pick.Round,
		Overall: pick.Overall,
		TeamID:  pick.TeamID,
		UserID:  pick.PlayerID,
		Bid:     pick.Bid,
	}
	if err := s.draftRepo.CreatePick(ctx, nil, row); err != nil {
		if errors.Is(err, repositories.ErrDraftPickUserConflict) {
			return nil, fmt.Errorf("%w: user %d already drafted", draft.ErrPlayerUnavailable, input.UserID)
		}
		if errors.Is(err, repositories.ErrDraftPickSlotConflict) {
			return nil, fmt.Errorf("%w: another pick landed first, reload the board", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to record pick: %w", err)
	}
	record.Picks = append(record.Picks, *row)

	if engine.Complete(pool) {
		return s.finalize(ctx, record, members)
	}

	s.broadcastDraft(live.EventDraftPickMade, record)
	return s.buildBoard(record, members), nil
}

// AutoPick drafts for an absent captain: the strongest player still on the
// board goes to the team on the clock.
func (s *draftService) AutoPick(ctx context.Context, draftID, actorID int) (*DraftBoard, error) {
	record, err := s.getDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.DraftStatusOpen {
		return nil, ErrDraftNotOpen
	}
	trip, err := s.getTrip(ctx, record.TripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if err := s.loadPicks(ctx, record); err != nil {
		return nil, err
	}
	pool, _, err := s.loadPool(ctx, record.TripID)
	if err != nil {
		return nil, err
	}

	engine := toEngineDraft(record)
	playerID, err := draft.AutoPick(engine.Available(pool))
	if err != nil {
		return nil, err
	}
	teamID := draft.TeamOnClock(engine.Order, len(engine.Picks))
	bid := 0
	if engine.Mode == draft.ModeAuction {
		bid = 1
	}
	return s.MakePick(ctx, draftID, actorID, MakePickInput{TeamID: teamID, UserID: playerID, Bid: bid})
}

// Complete finalizes an open draft even when the pick ledger is short, for
// pools that shrank mid-draft. Picked players land on their teams.
func (s *draftService) Complete(ctx context.Context, draftID, actorID int) (*DraftBoard, error) {
	record, err := s.getDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.DraftStatusOpen {
		return nil, ErrDraftNotOpen
	}
	trip, err := s.getTrip(ctx, record.TripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if err := s.loadPicks(ctx, record); err != nil {
		return nil, err
	}
	_, members, err := s.loadPool(ctx, record.TripID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, record, members)
}

// Cancel throws away an open draft and its picks. No team assignments have
// happened yet, so nothing else needs unwinding.
func (s *draftService) Cancel(ctx context.Context, draftID, actorID int) error {
	record, err := s.getDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if record.Status != models.DraftStatusOpen {
		return ErrDraftNotOpen
	}
	trip, err := s.getTrip(ctx, record.TripID)
	if err != nil {
		return err
	}
	if trip.OrganizerID != actorID {
		return ErrOrganizerOnly
	}
	if err := s.draftRepo.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("failed to delete draft %d: %w", draftID, err)
	}
	return nil
}

// finalize writes the player to team assignments and closes the draft in one
// transaction.
func (s *draftService) finalize(ctx context.Context, record *models.Draft, members []models.Member) (*DraftBoard, error) {
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.assignPickedTeams(ctx, tx, record); err != nil {
			return err
		}
		if err := s.draftRepo.UpdateStatus(ctx, tx, record.ID, models.DraftStatusComplete); err != nil {
			return fmt.Errorf("failed to complete draft %d: %w", record.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	record.Status = models.DraftStatusComplete

	s.broadcastDraft(live.EventDraftCompleted, record)
	return s.buildBoard(record, members), nil
}

// assignPickedTeams lands every pick on its team. A pick whose player has
// left the trip is skipped rather than failing the whole draft.
func (s *draftService) assignPickedTeams(ctx context.Context, tx *sql.Tx, record *models.Draft) error {
	for _, pick := range record.Picks {
		member, err := s.memberRepo.GetByTripAndUser(ctx, record.TripID, pick.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrMemberNotFound) {
				log.Printf("Draft %d pick %d: user %d left the trip, skipping assignment", record.ID, pick.Overall, pick.UserID)
				continue
			}
			return fmt.Errorf("failed to look up drafted user %d: %w", pick.UserID, err)
		}
		teamID := pick.TeamID
		if err := s.memberRepo.SetTeam(ctx, tx, member.ID, &teamID); err != nil {
			return fmt.Errorf("failed to assign user %d to team %d: %w", pick.UserID, pick.TeamID, err)
		}
	}
	return nil
}

// loadPool returns the draftable players, trip members without a team, both
// as engine entries and as the member rows for display.
func (s *draftService) loadPool(ctx context.Context, tripID int) ([]draft.Player, []models.Member, error) {
	members, err := s.memberRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members for trip %d: %w", tripID, err)
	}
	pool := make([]draft.Player, 0, len(members))
	unassigned := make([]models.Member, 0, len(members))
	for _, m := range members {
		if m.TeamID != nil {
			continue
		}
		index := 0.0
		if m.User != nil {
			index = m.User.HandicapIndex
		}
		pool = append(pool, draft.Player{ID: m.UserID, HandicapIndex: index})
		unassigned = append(unassigned, m)
	}
	return pool, unassigned, nil
}

func (s *draftService) loadPicks(ctx context.Context, record *models.Draft) error {
	picks, err := s.draftRepo.ListPicksByDraftID(ctx, record.ID)
	if err != nil {
		return fmt.Errorf("failed to list picks for draft %d: %w", record.ID, err)
	}
	record.Picks = picks
	return nil
}

// buildBoard derives the clock view. Picked players are filtered out of the
// available list here so callers can pass the full unassigned set.
func (s *draftService) buildBoard(record *models.Draft, unassigned []models.Member) *DraftBoard {
	board := &DraftBoard{Draft: record}

	picked := make(map[int]bool, len(record.Picks))
	for _, p := range record.Picks {
		picked[p.UserID] = true
	}
	for _, m := range unassigned {
		if !picked[m.UserID] {
			board.Available = append(board.Available, m)
		}
	}

	if record.Status != models.DraftStatusOpen {
		return board
	}

	engine := toEngineDraft(record)
	board.OnClockTeamID = draft.TeamOnClock(engine.Order, len(engine.Picks))
	if engine.Mode == draft.ModeAuction {
		board.RemainingBudgets = make(map[int]int, len(engine.Order))
		for _, teamID := range engine.Order {
			board.RemainingBudgets[teamID] = engine.RemainingBudget(teamID)
		}
	}
	return board
}

func (s *draftService) broadcastDraft(event string, record *models.Draft) {
	if s.hub == nil {
		return
	}
	room := live.TripRoom(record.TripID)
	s.hub.BroadcastToRoom(room, live.EventMessage{
		Type:    event,
		Payload: record,
		Room:    room,
	})
}

// requirePicker allows the organizer and the captain of the picking team.
func (s *draftService) requirePicker(ctx context.Context, tripID, actorID, teamID int) error {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.OrganizerID == actorID {
		return nil
	}
	member, err := s.memberRepo.GetByTripAndUser(ctx, tripID, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrForbiddenOperation
		}
		return fmt.Errorf("failed to look up member: %w", err)
	}
	if member.Role == models.MemberRoleCaptain && member.TeamID != nil && *member.TeamID == teamID {
		return nil
	}
	return ErrCaptainActionForbidden
}

func resolveTeamOrder(requested []int, teams []models.Team) ([]int, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: a draft needs at least two teams", ErrValidationFailed)
	}
	valid := make(map[int]bool, len(teams))
	for _, t := range teams {
		valid[t.ID] = true
	}

	if len(requested) == 0 {
		order := make([]int, 0, len(teams))
		for _, t := range teams {
			order = append(order, t.ID)
		}
		return order, nil
	}

	if len(requested) != len(teams) {
		return nil, fmt.Errorf("%w: draft order must list every team exactly once", ErrValidationFailed)
	}
	seen := make(map[int]bool, len(requested))
	for _, id := range requested {
		if !valid[id] {
			return nil, fmt.Errorf("%w: team %d is not on this trip", ErrValidationFailed, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: team %d appears twice in the draft order", ErrValidationFailed, id)
		}
		seen[id] = true
	}
	return requested, nil
}

func toEngineDraft(record *models.Draft) *draft.Draft {
	engine := &draft.Draft{
		Mode:   draft.Mode(record.Mode),
		Order:  record.TeamOrderInts(),
		Budget: record.Budget,
		Picks:  make([]draft.Pick, 0, len(record.Picks)),
	}
	for _, p := range record.Picks {
		engine.Picks = append(engine.Picks, draft.Pick{
			Round:    p.Round,
			Overall:  p.Overall,
			TeamID:   p.TeamID,
			PlayerID: p.UserID,
			Bid:      p.Bid,
		})
	}
	return engine
}

func (s *draftService) getDraft(ctx context.Context, draftID int) (*models.Draft, error) {
	record, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft %d: %w", draftID, err)
	}
	return record, nil
}

func (s *draftService) getTrip(ctx context.Context, tripID int) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}
	return trip, nil
}
