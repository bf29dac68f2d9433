package http

import (
	"net/http"
	"strconv"

	"cashout/internal/core"
	"cashout/internal/services"
)

type weekResponse struct {
	Week  core.Week `json:"week"`
	Label string    `json:"label"`
	Names []string  `json:"names"`
}

type weekListResponse struct {
	Weeks []services.WeekListEntry `json:"weeks"`
}

type rosterPayload struct {
	Names []string `json:"names"`
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	entries, err := s.ledger.ListWeeks(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weekListResponse{Weeks: entries})
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := core.WeekID(r.PathValue("weekID"))
	if !id.Valid() {
		writeError(w, http.StatusBadRequest, "malformed week identifier")
		return
	}

	week, err := s.ledger.OpenWeek(r.Context(), sess, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	names, err := s.ledger.WeekNames(r.Context(), sess, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, weekResponse{
		Week:  week,
		Label: core.RangeLabel(string(id)),
		Names: names,
	})
}

func (s *Server) handleSaveWeek(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := core.WeekID(r.PathValue("weekID"))
	if !id.Valid() {
		writeError(w, http.StatusBadRequest, "malformed week identifier")
		return
	}

	var week core.Week
	if err := decodeJSON(r, &week); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	// The path is authoritative for the document key.
	week.WeekID = id

	if err := s.ledger.SaveWeek(r.Context(), sess, week); err != nil {
		writeServiceError(w, err)
		return
	}

	// Re-read so the response carries the stamped LastUpdated.
	saved, err := s.ledger.OpenWeek(r.Context(), sess, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse{
		Week:  saved,
		Label: core.RangeLabel(string(id)),
	})
}

func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	names, err := s.ledger.Roster(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterPayload{Names: names})
}

func (s *Server) handleSaveRoster(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req rosterPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.ledger.SaveRoster(r.Context(), sess, req.Names); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterPayload{Names: req.Names})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	cfg, err := s.ledger.Config(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var cfg map[string]any
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.ledger.SaveConfig(r.Context(), sess, cfg); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeJSON(w, http.StatusOK, map[string]any{"notifications": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.hub.Active()})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed notification id")
		return
	}
	if s.hub != nil {
		s.hub.Dismiss(id)
	}
	w.WriteHeader(http.StatusNoContent)
}
