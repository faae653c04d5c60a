package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"webdojo/internal/app"
	"webdojo/internal/catalog"
	"webdojo/internal/progress"
	"webdojo/internal/sandbox"

	"github.com/go-chi/chi/v5"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: status >= 200 && status < 300, Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Error: &apiError{Code: code, Message: message, Details: details}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = s.index.Execute(w, struct{ Token string }{Token: s.previews.last()})
}

// handlePreview serves a composed document. The CSP sandbox directive puts
// it in an opaque origin even when opened directly, so user script cannot
// reach this server's cookies, storage or API as same-origin.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.previews.get(chi.URLParam(r, "token"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", "sandbox allow-scripts")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc.HTML))
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	cards := s.backend.Cards()
	out := make([]cardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardView{
			ID:         c.Challenge.ID,
			Title:      c.Challenge.Title,
			Difficulty: c.Challenge.Difficulty,
			Languages:  c.Challenge.Languages,
			Points:     c.Challenge.Points,
			Status:     c.Status,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"challenges": out, "total": len(out)})
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	id, ok := challengeID(w, r)
	if !ok {
		return
	}
	ch, err := s.backend.Challenge(id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	status, err := s.backend.Status(id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	view := challengeView{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		Difficulty:  ch.Difficulty,
		Languages:   ch.Languages,
		Points:      ch.Points,
		Skills:      ch.Skills,
		TheoryHTML:  s.policy.Sanitize(ch.TheoryHTML),
		Example:     ch.Example,
		Status:      status,
	}
	if status == progress.StatusCompleted {
		view.Solution = ch.Solution
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, progressView{Progress: s.backend.Progress(), Stats: s.backend.Stats()})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	run := s.backend.Run(r.Context(), in)
	token := s.previews.put(run.Document)
	respondJSON(w, http.StatusOK, runView{
		PreviewURL: "/preview/" + token,
		Lines:      run.Output.Lines,
		Error:      run.Output.Err,
		Silent:     run.Output.Silent,
		ElapsedMS:  run.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := challengeID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	res, err := s.backend.Submit(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, app.ErrValidation) {
			respondError(w, http.StatusUnprocessableEntity, "validation_failed", res.Validation.Message(), res.Validation.Checks)
			return
		}
		s.respondDomainError(w, err)
		return
	}
	view := submitView{
		ChallengeID:      id,
		AlreadyCompleted: res.AlreadyCompleted,
		PointsAwarded:    res.PointsAwarded,
		NewAchievements:  res.NewAchievements,
		Progress:         res.Progress,
		Checks:           res.Validation.Checks,
	}
	if res.Next != nil {
		view.NextChallengeID = res.Next.ID
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, progress.ErrLocked):
		respondError(w, http.StatusForbidden, "locked", "complete the previous challenge first", nil)
	case errors.Is(err, app.ErrSignedOut):
		respondError(w, http.StatusUnauthorized, "signed_out", err.Error(), nil)
	default:
		s.logger.Error("http.internal_error", map[string]any{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func challengeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "challenge id must be a number", nil)
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (sandbox.Input, bool) {
	var in sandbox.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid body: "+err.Error(), nil)
		return sandbox.Input{}, false
	}
	return in, true
}
