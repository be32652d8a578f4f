package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
	"github.com/arenadraw/bracket-engine/storage"
)

type StandingsService interface {
	// GetStandings ranks every awarded team of a tournament under the
	// tournament category's model: medal counts for head-to-head,
	// accumulated points for placement.
	GetStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error)
	// Champions returns the teams sharing rank 1, or an empty slice when
	// nothing has been awarded yet.
	Champions(ctx context.Context, tournamentID int) ([]*models.Standing, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	medalRepo      repositories.MedalRepository
	pointRepo      repositories.PointRepository
	teamRepo       repositories.TeamRepository
	uploader       storage.FileUploader
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	medalRepo repositories.MedalRepository,
	pointRepo repositories.PointRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		medalRepo:      medalRepo,
		pointRepo:      pointRepo,
		teamRepo:       teamRepo,
		uploader:       uploader,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var standings []*models.Standing
	switch tournament.Category {
	case models.CategoryHeadToHead:
		tallies, err := s.medalRepo.TallyByTournament(ctx, nil, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to tally medals for tournament %d: %w", tournamentID, err)
		}
		standings = rankByMedals(tallies)
	case models.CategoryPlacement:
		totals, err := s.pointRepo.TotalsByTournament(ctx, nil, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to total points for tournament %d: %w", tournamentID, err)
		}
		standings = rankByPoints(totals)
	default:
		return nil, fmt.Errorf("%w: unknown tournament category %q", ErrValidationFailed, tournament.Category)
	}

	if err := s.attachTeams(ctx, standings); err != nil {
		return nil, err
	}
	return standings, nil
}

func (s *standingsService) Champions(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	standings, err := s.GetStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	champions := make([]*models.Standing, 0, 1)
	for _, row := range standings {
		if row.Rank != 1 {
			break
		}
		champions = append(champions, row)
	}
	return champions, nil
}

// rankByMedals orders teams by gold, then silver, then bronze, tying teams
// with identical counts on the same rank. The rank after a tie resumes at
// the 1-indexed position, so two shared golds are followed by rank 3.
func rankByMedals(tallies []*repositories.MedalTally) []*models.Standing {
	standings := make([]*models.Standing, 0, len(tallies))
	for _, t := range tallies {
		standings = append(standings, &models.Standing{
			TeamID:      t.TeamID,
			Gold:        t.Gold,
			Silver:      t.Silver,
			Bronze:      t.Bronze,
			TotalMedals: t.Gold + t.Silver + t.Bronze,
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.TeamID < b.TeamID
	})
	assignRanks(standings, func(a, b *models.Standing) bool {
		return a.Gold == b.Gold && a.Silver == b.Silver && a.Bronze == b.Bronze
	})
	return standings
}

func rankByPoints(totals []*repositories.PointTotal) []*models.Standing {
	standings := make([]*models.Standing, 0, len(totals))
	for _, t := range totals {
		standings = append(standings, &models.Standing{
			TeamID:      t.TeamID,
			TotalPoints: t.Points,
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		return a.TeamID < b.TeamID
	})
	assignRanks(standings, func(a, b *models.Standing) bool {
		return a.TotalPoints == b.TotalPoints
	})
	return standings
}

// assignRanks applies competition ranking over an already-sorted slice:
// equal neighbours share a rank, the next distinct row takes its position.
func assignRanks(standings []*models.Standing, equal func(a, b *models.Standing) bool) {
	for i, row := range standings {
		if i > 0 && equal(standings[i-1], row) {
			row.Rank = standings[i-1].Rank
			continue
		}
		row.Rank = i + 1
	}
}

func (s *standingsService) attachTeams(ctx context.Context, standings []*models.Standing) error {
	if len(standings) == 0 {
		return nil
	}
	ids := make([]int, 0, len(standings))
	for _, row := range standings {
		ids = append(ids, row.TeamID)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load standing teams: %w", err)
	}
	populateTeamLogoURLs(teams, s.uploader)
	byID := make(map[int]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	for _, row := range standings {
		row.Team = byID[row.TeamID]
	}
	return nil
}
