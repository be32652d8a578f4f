package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/repositories"
)

type CreateFormatInput struct {
	Name         string
	BracketType  models.BracketType
	SettingsJSON *string
}

type FormatService interface {
	CreateFormat(ctx context.Context, input CreateFormatInput) (*models.Format, error)
	GetFormat(ctx context.Context, id int) (*models.Format, error)
	ListFormats(ctx context.Context) ([]*models.Format, error)
}

type formatService struct {
	formatRepo repositories.FormatRepository
}

func NewFormatService(formatRepo repositories.FormatRepository) FormatService {
	return &formatService{formatRepo: formatRepo}
}

func (s *formatService) CreateFormat(ctx context.Context, input CreateFormatInput) (*models.Format, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: format name is required", ErrValidationFailed)
	}
	if !input.BracketType.Valid() {
		return nil, fmt.Errorf("%w: unknown bracket type %q", ErrUnsupportedBracketType, input.BracketType)
	}

	format := &models.Format{
		Name:         name,
		BracketType:  input.BracketType,
		SettingsJSON: input.SettingsJSON,
	}
	// Reject malformed settings up front instead of at generation time.
	if _, err := format.DoubleEliminationSettings(); err != nil {
		return nil, fmt.Errorf("%w: invalid format settings: %v", ErrValidationFailed, err)
	}
	if err := s.formatRepo.Create(ctx, format); err != nil {
		return nil, fmt.Errorf("failed to create format: %w", err)
	}
	return format, nil
}

func (s *formatService) GetFormat(ctx context.Context, id int) (*models.Format, error) {
	format, err := s.formatRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFormatNotFound) {
			return nil, ErrFormatNotFound
		}
		return nil, err
	}
	return format, nil
}

func (s *formatService) ListFormats(ctx context.Context) ([]*models.Format, error) {
	return s.formatRepo.List(ctx)
}
