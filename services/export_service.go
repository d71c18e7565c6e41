package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportService interface {
	ExportTripWorkbook(ctx context.Context, tripID, actorID int) (*storage.UploadResult, error)
}

type exportService struct {
	standings   StandingsService
	tripRepo    repositories.TripRepository
	sessionRepo repositories.SessionRepository
	matchRepo   repositories.MatchRepository
	uploader    storage.FileUploader
}

func NewExportService(
	standings StandingsService,
	tripRepo repositories.TripRepository,
	sessionRepo repositories.SessionRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
) ExportService {
	return &exportService{
		standings:   standings,
		tripRepo:    tripRepo,
		sessionRepo: sessionRepo,
		matchRepo:   matchRepo,
		uploader:    uploader,
	}
}

// ExportTripWorkbook renders the trip's scoreboard, player records and match
// results into a spreadsheet and uploads it, returning the download link.
func (s *exportService) ExportTripWorkbook(ctx context.Context, tripID, actorID int) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}

	standings, err := s.standings.GetTripStandings(ctx, tripID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for trip %d: %w", tripID, err)
	}
	matches, err := s.matchRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for trip %d: %w", tripID, err)
	}
	sidesByMatch := make(map[int]map[string][]string)
	for _, sess := range sessions {
		players, err := s.matchRepo.ListPlayersBySessionID(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list match players for session %d: %w", sess.ID, err)
		}
		for _, p := range players {
			sides, ok := sidesByMatch[p.MatchID]
			if !ok {
				sides = make(map[string][]string)
				sidesByMatch[p.MatchID] = sides
			}
			sides[p.Side] = append(sides[p.Side], p.DisplayName)
		}
	}

	workbook, err := buildTripWorkbook(trip, standings, sessions, matches, sidesByMatch)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	key := fmt.Sprintf("exports/trips/%d/%s.xlsx", tripID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, xlsxContentType, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to upload trip export: %w", err)
	}
	return result, nil
}

func buildTripWorkbook(trip *models.Trip, standings *models.TripStandings, sessions []models.Session, matches []*models.Match, sidesByMatch map[int]map[string][]string) (*excelize.File, error) {
	f := excelize.NewFile()

	const scoreboard = "Scoreboard"
	if err := f.SetSheetName("Sheet1", scoreboard); err != nil {
		return nil, fmt.Errorf("failed to set up workbook: %w", err)
	}

	setRow := func(sheet string, row int, values ...interface{}) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	row := 1
	if err := setRow(scoreboard, row, trip.Name); err != nil {
		return nil, fmt.Errorf("failed to write scoreboard: %w", err)
	}
	row += 2
	if err := setRow(scoreboard, row, "Team", "Points", "Wins", "Halves", "Losses"); err != nil {
		return nil, fmt.Errorf("failed to write scoreboard: %w", err)
	}
	for _, team := range standings.Teams {
		row++
		if err := setRow(scoreboard, row, team.TeamName, team.Points, team.Wins, team.Halves, team.Losses); err != nil {
			return nil, fmt.Errorf("failed to write scoreboard: %w", err)
		}
	}
	row += 2
	if err := setRow(scoreboard, row, "Points to win", standings.PointsToWin, "Total points", standings.TotalPoints); err != nil {
		return nil, fmt.Errorf("failed to write scoreboard: %w", err)
	}

	const playersSheet = "Players"
	if _, err := f.NewSheet(playersSheet); err != nil {
		return nil, fmt.Errorf("failed to add players sheet: %w", err)
	}
	if err := setRow(playersSheet, 1, "Player", "Played", "Wins", "Halves", "Losses", "Points"); err != nil {
		return nil, fmt.Errorf("failed to write players sheet: %w", err)
	}
	for i, p := range standings.Players {
		if err := setRow(playersSheet, i+2, p.DisplayName, p.Played, p.Wins, p.Halves, p.Losses, p.Points); err != nil {
			return nil, fmt.Errorf("failed to write players sheet: %w", err)
		}
	}

	const matchesSheet = "Matches"
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return nil, fmt.Errorf("failed to add matches sheet: %w", err)
	}
	if err := setRow(matchesSheet, 1, "Round", "Match", "Side A", "Side B", "Result", "Status"); err != nil {
		return nil, fmt.Errorf("failed to write matches sheet: %w", err)
	}
	roundBySession := make(map[int]int, len(sessions))
	for _, sess := range sessions {
		roundBySession[sess.ID] = sess.RoundNo
	}
	for i, match := range matches {
		sides := sidesByMatch[match.ID]
		if err := setRow(matchesSheet, i+2,
			roundBySession[match.SessionID],
			match.MatchNo,
			strings.Join(sides["A"], " & "),
			strings.Join(sides["B"], " & "),
			matchResultLabel(match),
			string(match.Status),
		); err != nil {
			return nil, fmt.Errorf("failed to write matches sheet: %w", err)
		}
	}

	return f, nil
}

// matchResultLabel is the printed score line: "3 & 2 (A)" for a decided
// match, the running display otherwise.
func matchResultLabel(match *models.Match) string {
	if match.Winner != nil {
		return fmt.Sprintf("%s (%s)", match.Display, *match.Winner)
	}
	return match.Display
}
