package handlers

import (
	"net/http"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/services"
)

type FormatHandler struct {
	formatService services.FormatService
}

func NewFormatHandler(fs services.FormatService) *FormatHandler {
	return &FormatHandler{formatService: fs}
}

// CreateHandler handles POST /formats.
func (h *FormatHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string  `json:"name"`
		BracketType  string  `json:"bracket_type"`
		SettingsJSON *string `json:"settings_json"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	format, err := h.formatService.CreateFormat(r.Context(), services.CreateFormatInput{
		Name:         input.Name,
		BracketType:  models.BracketType(input.BracketType),
		SettingsJSON: input.SettingsJSON,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"format": format}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /formats/{formatID}.
func (h *FormatHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	formatID, err := urlParamInt(r, "formatID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	format, err := h.formatService.GetFormat(r.Context(), formatID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"format": format}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /formats.
func (h *FormatHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	formats, err := h.formatService.ListFormats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"formats": formats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
