package api

import (
	"net/http"

	"github.com/mirzamitdinovs/vocab-master/internal/models"
)

func (s *Server) handleSessionWords(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	chapterIDs, err := queryInt64List(r, "chapter_ids")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	words, err := s.Study.SessionWords(r.Context(), userID, chapterIDs, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

type recordAnswerRequest struct {
	UserID  int64 `json:"user_id"`
	WordID  int64 `json:"word_id"`
	Correct bool  `json:"correct"`
}

func (s *Server) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req recordAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	stat, err := s.Study.RecordAnswer(r.Context(), req.UserID, req.WordID, req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stat)
}

type recordAnswersRequest struct {
	UserID  int64           `json:"user_id"`
	Answers []models.Answer `json:"answers"`
}

func (s *Server) handleRecordAnswers(w http.ResponseWriter, r *http.Request) {
	var req recordAnswersRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Study.RecordAnswers(r.Context(), req.UserID, req.Answers); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"recorded": len(req.Answers)})
}

type userIDRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.Study.CompleteSession(r.Context(), req.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.Study.Stats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleClearProgress(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Study.ClearProgress(r.Context(), req.UserID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
