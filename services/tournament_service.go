package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
	"github.com/arenadraw/bracket-engine/storage"
)

type CreateTournamentInput struct {
	Name     string
	Category models.TournamentCategory
	FormatID int
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	// GetTournament returns the tournament with its format, matches and the
	// teams currently seated in the bracket.
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreateEvent(ctx context.Context, tournamentID int, name string) (*models.Event, error)
	ListEvents(ctx context.Context, tournamentID int) ([]*models.Event, error)
	UploadLogo(ctx context.Context, tournamentID int, contentType string, reader io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	formatRepo     repositories.FormatRepository
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.EventRepository
	teamRepo       repositories.TeamRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	formatRepo repositories.FormatRepository,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		formatRepo:     formatRepo,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
		teamRepo:       teamRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, input.Category)
	}
	format, err := s.formatRepo.GetByID(ctx, input.FormatID)
	if err != nil {
		if errors.Is(err, repositories.ErrFormatNotFound) {
			return nil, ErrFormatNotFound
		}
		return nil, err
	}

	tournament := &models.Tournament{
		Name:     name,
		Category: input.Category,
		FormatID: format.ID,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	tournament.Format = format

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("category", string(tournament.Category)),
		slog.String("bracket_type", string(format.BracketType)))
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var (
		format  *models.Format
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.formatRepo.GetByID(gCtx, tournament.FormatID)
		if err != nil {
			return fmt.Errorf("failed to load format %d: %w", tournament.FormatID, err)
		}
		format = f
		return nil
	})
	g.Go(func() error {
		m, err := s.matchRepo.ListByTournament(gCtx, nil, id, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		matches = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teams, err := s.loadSeatedTeams(ctx, matches)
	if err != nil {
		return nil, err
	}

	tournament.Format = format
	tournament.Matches = dereferenceMatches(matches)
	tournament.Teams = dereferenceTeams(teams)
	populateTournamentLogoURL(tournament, s.uploader)
	populateTeamLogoURLs(teams, s.uploader)
	return tournament, nil
}

// loadSeatedTeams collects the distinct teams referenced by any match slot.
func (s *tournamentService) loadSeatedTeams(ctx context.Context, matches []*models.Match) ([]*models.Team, error) {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, m := range matches {
		for _, teamID := range []*int{m.Team1ID, m.Team2ID} {
			if teamID == nil {
				continue
			}
			if _, ok := seen[*teamID]; ok {
				continue
			}
			seen[*teamID] = struct{}{}
			ids = append(ids, *teamID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load seated teams: %w", err)
	}
	return teams, nil
}

func (s *tournamentService) CreateEvent(ctx context.Context, tournamentID int, name string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidationFailed)
	}
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	event := &models.Event{
		TournamentID: tournamentID,
		Name:         name,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.Info("event created",
		slog.Int("event_id", event.ID),
		slog.Int("tournament_id", tournamentID))
	return event, nil
}

func (s *tournamentService) ListEvents(ctx context.Context, tournamentID int) ([]*models.Event, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.eventRepo.ListByTournament(ctx, tournamentID)
}

func (s *tournamentService) UploadLogo(ctx context.Context, tournamentID int, contentType string, reader io.Reader) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	ext := extensionForContentType(contentType)
	if ext == "" {
		return nil, fmt.Errorf("%w: unsupported logo content type %q", ErrValidationFailed, contentType)
	}
	key := fmt.Sprintf("tournaments/%d/logo%s", tournamentID, ext)

	oldKey := tournament.LogoKey
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}
	if err := s.tournamentRepo.UpdateLogoKey(ctx, tournamentID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to save logo key: %w", err)
	}
	if oldKey != nil && *oldKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.Int("tournament_id", tournamentID), slog.Any("error", delErr))
		}
	}

	tournament.LogoKey = &result.Key
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}
