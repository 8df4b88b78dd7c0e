package api

import (
	"context"
	"net/http"

	"github.com/mirzamitdinovs/vocab-master/internal/models"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	tree, err := s.Catalog.Catalog(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.Catalog.Languages(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, langs)
}

func (s *Server) handleCreateLanguage(w http.ResponseWriter, r *http.Request) {
	var lang models.Language
	if err := decodeJSON(r, &lang); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.Catalog.CreateLanguage(r.Context(), actorID(r), lang)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var lang models.Language
	if err := decodeJSON(r, &lang); err != nil {
		handleError(w, r, err)
		return
	}
	lang.ID = id

	updated, err := s.Catalog.UpdateLanguage(r.Context(), actorID(r), lang)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLanguage(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.Catalog.DeleteLanguage)
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	levels, err := s.Catalog.Levels(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, levels)
}

func (s *Server) handleCreateLevel(w http.ResponseWriter, r *http.Request) {
	var level models.Level
	if err := decodeJSON(r, &level); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.Catalog.CreateLevel(r.Context(), actorID(r), level)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var level models.Level
	if err := decodeJSON(r, &level); err != nil {
		handleError(w, r, err)
		return
	}
	level.ID = id

	updated, err := s.Catalog.UpdateLevel(r.Context(), actorID(r), level)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLevel(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.Catalog.DeleteLevel)
}

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	chapters, err := s.Catalog.Chapters(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, chapters)
}

func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	var chapter models.Chapter
	if err := decodeJSON(r, &chapter); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.Catalog.CreateChapter(r.Context(), actorID(r), chapter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var chapter models.Chapter
	if err := decodeJSON(r, &chapter); err != nil {
		handleError(w, r, err)
		return
	}
	chapter.ID = id

	updated, err := s.Catalog.UpdateChapter(r.Context(), actorID(r), chapter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.Catalog.DeleteChapter)
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	words, err := s.Catalog.Words(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

func (s *Server) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	var word models.Word
	if err := decodeJSON(r, &word); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.Catalog.CreateWord(r.Context(), actorID(r), word)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var word models.Word
	if err := decodeJSON(r, &word); err != nil {
		handleError(w, r, err)
		return
	}
	word.ID = id

	updated, err := s.Catalog.UpdateWord(r.Context(), actorID(r), word)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.Catalog.DeleteWord)
}

// deleteByID factors the shared shape of the delete endpoints.
func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, actorID, id int64) error) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := del(r.Context(), actorID(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
