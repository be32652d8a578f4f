package handlers

import (
	"net/http"

	"github.com/arenadraw/bracket-engine/services"
)

type AwardHandler struct {
	awardService services.AwardService
}

func NewAwardHandler(as services.AwardService) *AwardHandler {
	return &AwardHandler{awardService: as}
}

// AssignMedalsHandler handles PUT /events/{eventID}/medals. PUT because the
// assignment is a full replacement, not an append.
func (h *AwardHandler) AssignMedalsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		GoldTeamID   *int `json:"gold_team_id"`
		SilverTeamID *int `json:"silver_team_id"`
		BronzeTeamID *int `json:"bronze_team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.AssignMedals(r.Context(), eventID, services.AssignMedalsInput{
		GoldTeamID:   input.GoldTeamID,
		SilverTeamID: input.SilverTeamID,
		BronzeTeamID: input.BronzeTeamID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"medals": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMedalsHandler handles GET /events/{eventID}/medals.
func (h *AwardHandler) GetMedalsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.GetMedals(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"medals": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignPointsHandler handles PUT /events/{eventID}/points.
func (h *AwardHandler) AssignPointsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Placements []struct {
			TeamID    int `json:"team_id"`
			Placement int `json:"placement"`
		} `json:"placements"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	placements := make([]services.PointPlacementInput, 0, len(input.Placements))
	for _, p := range input.Placements {
		placements = append(placements, services.PointPlacementInput{
			TeamID:    p.TeamID,
			Placement: p.Placement,
		})
	}

	awards, err := h.awardService.AssignPoints(r.Context(), eventID, placements)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"points": awards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPointsHandler handles GET /events/{eventID}/points.
func (h *AwardHandler) GetPointsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	awards, err := h.awardService.GetPoints(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"points": awards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
