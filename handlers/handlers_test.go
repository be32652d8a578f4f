package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenadraw/bracket-engine/models"
	"github.com/arenadraw/bracket-engine/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: services.ErrTournamentNotFound, wantStatus: http.StatusNotFound},
		{err: services.ErrMatchNotFound, wantStatus: http.StatusNotFound},
		{err: services.ErrNotEnoughTeams, wantStatus: http.StatusBadRequest},
		{err: services.ErrDuplicatePlacement, wantStatus: http.StatusBadRequest},
		{err: services.ErrTournamentLocked, wantStatus: http.StatusConflict},
		{err: services.ErrTournamentNotLocked, wantStatus: http.StatusConflict},
		{err: services.ErrGenerationExhausted, wantStatus: http.StatusConflict},
		{err: services.ErrInvalidWinner, wantStatus: http.StatusUnprocessableEntity},
		{err: services.ErrCategoryMismatch, wantStatus: http.StatusUnprocessableEntity},
		{err: services.ErrPropagationFailed, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		mapServiceErrorToHTTP(w, r, tt.err)
		assert.Equal(t, tt.wantStatus, w.Code, "error %v", tt.err)
	}
}

type stubMatchService struct {
	match *models.Match
	err   error
}

func (s *stubMatchService) SubmitResult(ctx context.Context, matchID int, input services.SubmitResultInput) (*models.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Match{s.match}, nil
}

func newMatchRouter(svc services.MatchService) *chi.Mux {
	router := chi.NewRouter()
	handler := NewMatchHandler(svc)
	router.Post("/matches/{matchID}/result", handler.SubmitResultHandler)
	router.Get("/tournaments/{tournamentID}/matches", handler.ListByTournamentHandler)
	return router
}

func TestSubmitResultHandler(t *testing.T) {
	winner := 10
	svc := &stubMatchService{match: &models.Match{ID: 3, WinnerID: &winner, Status: models.MatchStatusCompleted}}
	router := newMatchRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"winner_id": 10, "score1": 2, "score2": 1})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches/3/result", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Match models.Match `json:"match"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Match.ID)
	assert.Equal(t, models.MatchStatusCompleted, resp.Match.Status)
}

func TestSubmitResultHandlerBadRequests(t *testing.T) {
	router := newMatchRouter(&stubMatchService{})

	// Non-numeric match ID.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches/abc/result", bytes.NewReader([]byte(`{"winner_id":10}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown body field.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches/3/result", bytes.NewReader([]byte(`{"champion":10}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Empty body.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches/3/result", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitResultHandlerServiceErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: services.ErrTournamentNotLocked, wantStatus: http.StatusConflict},
		{err: services.ErrInvalidWinner, wantStatus: http.StatusUnprocessableEntity},
		{err: services.ErrMatchNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		router := newMatchRouter(&stubMatchService{err: tt.err})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches/3/result", bytes.NewReader([]byte(`{"winner_id":10}`))))
		assert.Equal(t, tt.wantStatus, w.Code, "error %v", tt.err)
	}
}

func TestListMatchesHandlerFilterValidation(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: &models.Match{ID: 1}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tournaments/1/matches?round=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tournaments/1/matches?status=unknown", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tournaments/1/matches?round=2&status=completed", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
