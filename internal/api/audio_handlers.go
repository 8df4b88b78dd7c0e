package api

import (
	"net/http"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
)

// handleAudioBackfill queues one audio backfill run. Admin only; the work
// itself happens on the worker pool.
func (s *Server) handleAudioBackfill(w http.ResponseWriter, r *http.Request) {
	actor, err := s.Users.Get(r.Context(), actorID(r))
	if err != nil || !actor.IsAdmin {
		handleError(w, r, apperr.Unauthorized("admin access required"))
		return
	}

	if s.AudioPool == nil || s.AudioJob == nil {
		handleError(w, r, apperr.BadRequest("audio generation is not configured"))
		return
	}
	if !s.AudioPool.TrySubmit(s.AudioJob) {
		handleError(w, r, apperr.Conflict("audio backfill already queued"))
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]bool{"queued": true})
}
