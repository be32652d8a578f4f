package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arenadraw/bracket-engine/brackets"
	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
)

type AssignMedalsInput struct {
	GoldTeamID   *int
	SilverTeamID *int
	BronzeTeamID *int
}

type PointPlacementInput struct {
	TeamID    int
	Placement int
}

type AwardService interface {
	// AssignMedals replaces the medal assignment of a head-to-head event.
	// Resubmission overwrites the previous assignment.
	AssignMedals(ctx context.Context, eventID int, input AssignMedalsInput) (*models.MedalAward, error)
	GetMedals(ctx context.Context, eventID int) (*models.MedalAward, error)
	// AssignPoints replaces the full placement set of a placement event.
	AssignPoints(ctx context.Context, eventID int, placements []PointPlacementInput) ([]*models.PointAward, error)
	GetPoints(ctx context.Context, eventID int) ([]*models.PointAward, error)
}

type awardService struct {
	db             *sql.DB
	eventRepo      repositories.EventRepository
	tournamentRepo repositories.TournamentRepository
	medalRepo      repositories.MedalRepository
	pointRepo      repositories.PointRepository
	hub            *brackets.Hub
	logger         *slog.Logger
	// announceAwards gates award broadcasts without touching persistence,
	// so ceremonies can be staged before results go public.
	announceAwards bool
}

func NewAwardService(
	db *sql.DB,
	eventRepo repositories.EventRepository,
	tournamentRepo repositories.TournamentRepository,
	medalRepo repositories.MedalRepository,
	pointRepo repositories.PointRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
	announceAwards bool,
) AwardService {
	return &awardService{
		db:             db,
		eventRepo:      eventRepo,
		tournamentRepo: tournamentRepo,
		medalRepo:      medalRepo,
		pointRepo:      pointRepo,
		hub:            hub,
		logger:         logger,
		announceAwards: announceAwards,
	}
}

func (s *awardService) AssignMedals(ctx context.Context, eventID int, input AssignMedalsInput) (*models.MedalAward, error) {
	event, tournament, err := s.resolveEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if tournament.Category != models.CategoryHeadToHead {
		return nil, fmt.Errorf("%w: medals apply to head-to-head tournaments only", ErrCategoryMismatch)
	}
	if err := validateMedalSet(input); err != nil {
		return nil, err
	}

	award := &models.MedalAward{
		EventID:      eventID,
		GoldTeamID:   input.GoldTeamID,
		SilverTeamID: input.SilverTeamID,
		BronzeTeamID: input.BronzeTeamID,
	}
	if err := s.medalRepo.Upsert(ctx, nil, award); err != nil {
		return nil, fmt.Errorf("failed to save medal assignment for event %d: %w", eventID, err)
	}

	s.logger.Info("medals assigned",
		slog.Int("event_id", eventID),
		slog.Int("tournament_id", event.TournamentID))
	s.announce(event.TournamentID, brackets.EventMedalsAssigned, map[string]interface{}{
		"tournament_id": event.TournamentID,
		"event_id":      eventID,
		"medals":        award,
	})
	return award, nil
}

func (s *awardService) GetMedals(ctx context.Context, eventID int) (*models.MedalAward, error) {
	if _, _, err := s.resolveEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.medalRepo.GetByEvent(ctx, eventID)
}

func (s *awardService) AssignPoints(ctx context.Context, eventID int, placements []PointPlacementInput) ([]*models.PointAward, error) {
	event, tournament, err := s.resolveEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if tournament.Category != models.CategoryPlacement {
		return nil, fmt.Errorf("%w: points apply to placement tournaments only", ErrCategoryMismatch)
	}
	awards, err := buildPointAwards(eventID, placements)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := s.pointRepo.ReplaceForEvent(ctx, tx, eventID, awards); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to save point placements for event %d: %w", eventID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit point placements: %w", err)
	}

	s.logger.Info("points assigned",
		slog.Int("event_id", eventID),
		slog.Int("tournament_id", event.TournamentID),
		slog.Int("placements", len(awards)))
	s.announce(event.TournamentID, brackets.EventPointsAssigned, map[string]interface{}{
		"tournament_id": event.TournamentID,
		"event_id":      eventID,
		"points":        awards,
	})
	return awards, nil
}

func (s *awardService) GetPoints(ctx context.Context, eventID int) ([]*models.PointAward, error) {
	if _, _, err := s.resolveEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.pointRepo.ListByEvent(ctx, eventID)
}

func (s *awardService) resolveEvent(ctx context.Context, eventID int) (*models.Event, *models.Tournament, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, event.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, err
	}
	return event, tournament, nil
}

func (s *awardService) announce(tournamentID int, eventType string, payload interface{}) {
	if !s.announceAwards {
		return
	}
	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.Event{
		Type:    eventType,
		Payload: payload,
	})
}

func validateMedalSet(input AssignMedalsInput) error {
	if input.GoldTeamID == nil && input.SilverTeamID == nil && input.BronzeTeamID == nil {
		return ErrNoMedalsGiven
	}
	seen := make(map[int]struct{}, 3)
	for _, teamID := range []*int{input.GoldTeamID, input.SilverTeamID, input.BronzeTeamID} {
		if teamID == nil {
			continue
		}
		if *teamID <= 0 {
			return fmt.Errorf("%w: team id must be positive", ErrValidationFailed)
		}
		if _, dup := seen[*teamID]; dup {
			return fmt.Errorf("%w: team %d holds more than one medal", ErrDuplicateTeam, *teamID)
		}
		seen[*teamID] = struct{}{}
	}
	return nil
}

func buildPointAwards(eventID int, placements []PointPlacementInput) ([]*models.PointAward, error) {
	if len(placements) == 0 {
		return nil, fmt.Errorf("%w: at least one placement is required", ErrValidationFailed)
	}
	seenPlacement := make(map[int]struct{}, len(placements))
	seenTeam := make(map[int]struct{}, len(placements))
	awards := make([]*models.PointAward, 0, len(placements))
	for _, p := range placements {
		if p.TeamID <= 0 {
			return nil, fmt.Errorf("%w: team id must be positive", ErrValidationFailed)
		}
		if p.Placement < 1 || p.Placement > models.MaxPlacement {
			return nil, fmt.Errorf("%w: placement %d is outside 1..%d", ErrInvalidPlacement, p.Placement, models.MaxPlacement)
		}
		if _, dup := seenPlacement[p.Placement]; dup {
			return nil, fmt.Errorf("%w: placement %d assigned twice", ErrDuplicatePlacement, p.Placement)
		}
		if _, dup := seenTeam[p.TeamID]; dup {
			return nil, fmt.Errorf("%w: team %d placed twice", ErrDuplicateTeam, p.TeamID)
		}
		seenPlacement[p.Placement] = struct{}{}
		seenTeam[p.TeamID] = struct{}{}
		awards = append(awards, &models.PointAward{
			EventID:   eventID,
			TeamID:    p.TeamID,
			Placement: p.Placement,
			Points:    models.PlacementPoints[p.Placement],
		})
	}
	return awards, nil
}
