package services

import (
	"context"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

// Stub repositories with function fields. An unset getter answers the repo's
// not-found sentinel, an unset mutation succeeds, so each test only wires the
// calls it cares about.

type stubUserRepo struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByIDFn    func(ctx context.Context, id int) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	updateFn     func(ctx context.Context, user *models.User) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, repositories.ErrUserNotFound
}

func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) ListByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) UpdateHandicap(ctx context.Context, id int, handicapIndex float64) error {
	return nil
}

func (s *stubUserRepo) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id int) error { return nil }

func (s *stubUserRepo) Count(ctx context.Context) (int, error) { return 0, nil }

type stubTripRepo struct {
	getByIDFn func(ctx context.Context, id int) (*models.Trip, error)
}

func (s *stubTripRepo) Create(ctx context.Context, exec repositories.SQLExecutor, trip *models.Trip) error {
	return nil
}

func (s *stubTripRepo) GetByID(ctx context.Context, id int) (*models.Trip, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrTripNotFound
}

func (s *stubTripRepo) List(ctx context.Context, filter repositories.ListTripsFilter) ([]models.Trip, error) {
	return nil, nil
}

func (s *stubTripRepo) Update(ctx context.Context, trip *models.Trip) error { return nil }

func (s *stubTripRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TripStatus) error {
	return nil
}

func (s *stubTripRepo) Delete(ctx context.Context, id int) error { return nil }

func (s *stubTripRepo) GetTripsForAutoStatusUpdate(ctx context.Context, exec repositories.SQLExecutor, currentTime time.Time) ([]*models.Trip, error) {
	return nil, nil
}

func (s *stubTripRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (s *stubTripRepo) CountByStatus(ctx context.Context, status models.TripStatus) (int, error) {
	return 0, nil
}

type stubTeamRepo struct {
	listByTripIDFn func(ctx context.Context, tripID int) ([]models.Team, error)
}

func (s *stubTeamRepo) Create(ctx context.Context, team *models.Team) error { return nil }

func (s *stubTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return nil, repositories.ErrTeamNotFound
}

func (s *stubTeamRepo) ListByTripID(ctx context.Context, tripID int) ([]models.Team, error) {
	if s.listByTripIDFn != nil {
		return s.listByTripIDFn(ctx, tripID)
	}
	return nil, nil
}

func (s *stubTeamRepo) Update(ctx context.Context, team *models.Team) error { return nil }

func (s *stubTeamRepo) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	return nil
}

func (s *stubTeamRepo) Delete(ctx context.Context, id int) error { return nil }

type stubMemberRepo struct {
	listByTripIDFn func(ctx context.Context, tripID int) ([]models.Member, error)
}

func (s *stubMemberRepo) Create(ctx context.Context, exec repositories.SQLExecutor, member *models.Member) error {
	return nil
}

func (s *stubMemberRepo) GetByID(ctx context.Context, id int) (*models.Member, error) {
	return nil, repositories.ErrMemberNotFound
}

func (s *stubMemberRepo) GetByTripAndUser(ctx context.Context, tripID, userID int) (*models.Member, error) {
	return nil, repositories.ErrMemberNotFound
}

func (s *stubMemberRepo) ListByTripID(ctx context.Context, tripID int) ([]models.Member, error) {
	if s.listByTripIDFn != nil {
		return s.listByTripIDFn(ctx, tripID)
	}
	return nil, nil
}

func (s *stubMemberRepo) ListByTeamID(ctx context.Context, teamID int) ([]models.Member, error) {
	return nil, nil
}

func (s *stubMemberRepo) SetTeam(ctx context.Context, exec repositories.SQLExecutor, memberID int, teamID *int) error {
	return nil
}

func (s *stubMemberRepo) UpdateRole(ctx context.Context, memberID int, role models.MemberRole) error {
	return nil
}

func (s *stubMemberRepo) Delete(ctx context.Context, id int) error { return nil }

type stubCourseRepo struct {
	createFn              func(ctx context.Context, course *models.Course) error
	getByIDFn             func(ctx context.Context, id int) (*models.Course, error)
	deleteFn              func(ctx context.Context, id int) error
	createTeeSetFn        func(ctx context.Context, teeSet *models.TeeSet) error
	getTeeSetByIDFn       func(ctx context.Context, id int) (*models.TeeSet, error)
	listTeeSetsByCourseFn func(ctx context.Context, courseID int) ([]models.TeeSet, error)
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if s.createFn != nil {
		return s.createFn(ctx, course)
	}
	return nil
}

func (s *stubCourseRepo) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrCourseNotFound
}

func (s *stubCourseRepo) List(ctx context.Context) ([]models.Course, error) { return nil, nil }

func (s *stubCourseRepo) Update(ctx context.Context, course *models.Course) error { return nil }

func (s *stubCourseRepo) Delete(ctx context.Context, id int) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubCourseRepo) CreateTeeSet(ctx context.Context, teeSet *models.TeeSet) error {
	if s.createTeeSetFn != nil {
		return s.createTeeSetFn(ctx, teeSet)
	}
	return nil
}

func (s *stubCourseRepo) GetTeeSetByID(ctx context.Context, id int) (*models.TeeSet, error) {
	if s.getTeeSetByIDFn != nil {
		return s.getTeeSetByIDFn(ctx, id)
	}
	return nil, repositories.ErrTeeSetNotFound
}

func (s *stubCourseRepo) ListTeeSetsByCourseID(ctx context.Context, courseID int) ([]models.TeeSet, error) {
	if s.listTeeSetsByCourseFn != nil {
		return s.listTeeSetsByCourseFn(ctx, courseID)
	}
	return nil, nil
}

func (s *stubCourseRepo) UpdateTeeSet(ctx context.Context, teeSet *models.TeeSet) error { return nil }

func (s *stubCourseRepo) DeleteTeeSet(ctx context.Context, id int) error { return nil }

type stubSessionRepo struct {
	createFn       func(ctx context.Context, session *models.Session) error
	getByIDFn      func(ctx context.Context, id int) (*models.Session, error)
	listByTripIDFn func(ctx context.Context, tripID int) ([]models.Session, error)
	updateStatusFn func(ctx context.Context, exec repositories.SQLExecutor, id int, status models.SessionStatus) error
	deleteFn       func(ctx context.Context, id int) error
}

func (s *stubSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if s.createFn != nil {
		return s.createFn(ctx, session)
	}
	return nil
}

func (s *stubSessionRepo) GetByID(ctx context.Context, id int) (*models.Session, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrSessionNotFound
}

func (s *stubSessionRepo) ListByTripID(ctx context.Context, tripID int) ([]models.Session, error) {
	if s.listByTripIDFn != nil {
		return s.listByTripIDFn(ctx, tripID)
	}
	return nil, nil
}

func (s *stubSessionRepo) Update(ctx context.Context, session *models.Session) error { return nil }

func (s *stubSessionRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.SessionStatus) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, exec, id, status)
	}
	return nil
}

func (s *stubSessionRepo) Delete(ctx context.Context, id int) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubSessionRepo) Count(ctx context.Context) (int, error) { return 0, nil }

type stubMatchRepo struct {
	listBySessionIDFn        func(ctx context.Context, sessionID int) ([]*models.Match, error)
	listByTripIDFn           func(ctx context.Context, tripID int) ([]*models.Match, error)
	listPlayersBySessionIDFn func(ctx context.Context, sessionID int) ([]models.MatchPlayer, error)
}

func (s *stubMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return nil
}

func (s *stubMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return nil, repositories.ErrMatchNotFound
}

func (s *stubMatchRepo) ListBySessionID(ctx context.Context, sessionID int) ([]*models.Match, error) {
	if s.listBySessionIDFn != nil {
		return s.listBySessionIDFn(ctx, sessionID)
	}
	return nil, nil
}

func (s *stubMatchRepo) ListByTripID(ctx context.Context, tripID int) ([]*models.Match, error) {
	if s.listByTripIDFn != nil {
		return s.listByTripIDFn(ctx, tripID)
	}
	return nil, nil
}

func (s *stubMatchRepo) UpdateSnapshot(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return nil
}

func (s *stubMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	return nil
}

func (s *stubMatchRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (s *stubMatchRepo) CreatePlayers(ctx context.Context, exec repositories.SQLExecutor, players []*models.MatchPlayer) error {
	return nil
}

func (s *stubMatchRepo) ListPlayersByMatchID(ctx context.Context, matchID int) ([]models.MatchPlayer, error) {
	return nil, nil
}

func (s *stubMatchRepo) ListPlayersBySessionID(ctx context.Context, sessionID int) ([]models.MatchPlayer, error) {
	if s.listPlayersBySessionIDFn != nil {
		return s.listPlayersBySessionIDFn(ctx, sessionID)
	}
	return nil, nil
}

func (s *stubMatchRepo) UpdatePlayerStrokes(ctx context.Context, exec repositories.SQLExecutor, playerID, courseHandicap int, strokes []int64) error {
	return nil
}

type stubTeeSlotRepo struct {
	listBySessionIDFn func(ctx context.Context, sessionID int) ([]models.TeeSlot, error)
}

func (s *stubTeeSlotRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, slots []*models.TeeSlot) error {
	return nil
}

func (s *stubTeeSlotRepo) ListBySessionID(ctx context.Context, sessionID int) ([]models.TeeSlot, error) {
	if s.listBySessionIDFn != nil {
		return s.listBySessionIDFn(ctx, sessionID)
	}
	return nil, nil
}

func (s *stubTeeSlotRepo) DeleteBySessionID(ctx context.Context, exec repositories.SQLExecutor, sessionID int) error {
	return nil
}
