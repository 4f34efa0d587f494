package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fantasyedge/internal/recommend"
)

const defaultProjectionHorizon = 8

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

// captainRequest is the wire shape for POST /api/recommendations/captains.
// Factors selects which adjustments feed the confidence score; an absent or
// empty list applies all of them.
type captainRequest struct {
	Round     int               `json:"round"`
	PlayerIDs []string          `json:"player_ids"`
	Venues    map[string]string `json:"venues"`
	Opponents map[string]string `json:"opponents"`
	Factors   []string          `json:"factors"`
}

func (s *Server) handleCaptains(w http.ResponseWriter, r *http.Request) {
	var req captainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.PlayerIDs) == 0 {
		s.writeError(w, http.StatusBadRequest, "player_ids is required")
		return
	}

	suggestions := s.engine.SuggestCaptains(recommend.CaptainRequest{
		Round:       req.Round,
		PlayerIDs:   req.PlayerIDs,
		Venues:      req.Venues,
		Opponents:   req.Opponents,
		Adjustments: parseFactors(req.Factors),
	})

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"round":       req.Round,
		"suggestions": suggestions,
	})
}

// parseFactors maps the wire factor names onto the adjustment flag set.
// Unknown names are ignored; an empty list means all factors.
func parseFactors(factors []string) recommend.Adjustment {
	if len(factors) == 0 {
		return recommend.AllAdjustments
	}
	var adj recommend.Adjustment
	for _, f := range factors {
		switch f {
		case "form":
			adj |= recommend.AdjustForm
		case "venue":
			adj |= recommend.AdjustVenue
		case "opponent":
			adj |= recommend.AdjustOpponent
		case "weather":
			adj |= recommend.AdjustWeather
		}
	}
	if adj == 0 {
		return recommend.AllAdjustments
	}
	return adj
}

func (s *Server) handleCashCows(w http.ResponseWriter, r *http.Request) {
	round, _ := strconv.Atoi(r.URL.Query().Get("round"))
	minConfidence, _ := strconv.Atoi(r.URL.Query().Get("min_confidence"))
	horizon, _ := strconv.Atoi(r.URL.Query().Get("horizon"))

	results := s.engine.AnalyzeCashCows(recommend.CashCowRequest{
		Round:         round,
		MinConfidence: minConfidence,
		Horizon:       horizon,
	})

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"round":     round,
		"cash_cows": results,
		"count":     len(results),
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	assessment, err := s.engine.AssessRisk(playerID)
	if err != nil {
		s.log.Error().Err(err).Str("player", playerID).Msg("Risk assessment failed")
		s.writeError(w, http.StatusInternalServerError, "risk assessment failed")
		return
	}
	if assessment == nil {
		s.writeError(w, http.StatusNotFound, "player not found")
		return
	}

	s.writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	horizon := defaultProjectionHorizon
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "horizon must be a positive integer")
			return
		}
		horizon = parsed
	}

	outlook, err := s.engine.ProjectPrice(playerID, horizon)
	if err != nil {
		s.log.Error().Err(err).Str("player", playerID).Msg("Price projection failed")
		s.writeError(w, http.StatusInternalServerError, "price projection failed")
		return
	}
	if outlook == nil {
		s.writeError(w, http.StatusNotFound, "player not found")
		return
	}

	s.writeJSON(w, http.StatusOK, outlook)
}

// rosterRequest is the wire shape for the team analysis endpoints.
type rosterRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

func (s *Server) handleTeamStructure(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	roster, err := s.players.ListByIDs(req.PlayerIDs)
	if err != nil {
		s.log.Error().Err(err).Msg("Roster lookup failed")
		s.writeError(w, http.StatusInternalServerError, "roster lookup failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"structure":  s.engine.AnalyzeStructure(roster),
		"weaknesses": s.engine.DetectWeaknesses(roster),
	})
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	roster, err := s.players.ListByIDs(req.PlayerIDs)
	if err != nil {
		s.log.Error().Err(err).Msg("Roster lookup failed")
		s.writeError(w, http.StatusInternalServerError, "roster lookup failed")
		return
	}

	weaknesses := s.engine.DetectWeaknesses(roster)
	pathways := s.engine.FindUpgradePathways(roster, weaknesses)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"weaknesses": weaknesses,
		"pathways":   pathways,
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.hub.Recent()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
