package services

import (
	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/storage"
)

func populateTournamentLogoURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament == nil || tournament.LogoKey == nil || *tournament.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*tournament.LogoKey); url != "" {
		tournament.LogoURL = &url
	}
}

func populateTeamLogoURLs(teams []*models.Team, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for _, team := range teams {
		if team == nil || team.LogoKey == nil || *team.LogoKey == "" {
			continue
		}
		if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
}

func dereferenceMatches(slice []*models.Match) []models.Match {
	result := make([]models.Match, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}

func dereferenceTeams(slice []*models.Team) []models.Team {
	result := make([]models.Team, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}
