package handlers

import (
	"net/http"

	"github.com/arenadraw/bracket-engine/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

// GenerateHandler handles POST /tournaments/{tournamentID}/bracket.
func (h *BracketHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamIDs     []int  `json:"team_ids"`
		Randomize   bool   `json:"randomize"`
		Seed        *int64 `json:"seed"`
		MaxAttempts int    `json:"max_attempts"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.GenerateBracket(r.Context(), tournamentID, services.GenerateBracketInput{
		TeamIDs:     input.TeamIDs,
		Randomize:   input.Randomize,
		Seed:        input.Seed,
		MaxAttempts: input.MaxAttempts,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LockHandler handles POST /tournaments/{tournamentID}/lock.
func (h *BracketHandler) LockHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.LockBracket(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"locked": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
