package api

import (
	"context"
	"io"
	"net/http"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
)

// Uploads are buffered up to this size in memory before spilling to disk.
const maxUploadMemory = 10 << 20

func (s *Server) handleImportChapter(w http.ResponseWriter, r *http.Request) {
	s.handleImport(w, r, s.Imports.ImportChapterWords)
}

func (s *Server) handleImportLevel(w http.ResponseWriter, r *http.Request) {
	s.handleImport(w, r, s.Imports.ImportLevelWords)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request, run importFunc) {
	log := logger.FromContext(r.Context())

	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		handleError(w, r, apperr.BadRequest("expected a multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, apperr.BadRequest("missing file field"))
		return
	}
	defer file.Close()

	log.Info("import upload: target_id=%d filename=%s size=%d", id, header.Filename, header.Size)

	result, err := run(r.Context(), actorID(r), id, header.Filename, file)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type importFunc func(ctx context.Context, actorID, targetID int64, filename string, r io.Reader) (*models.ImportResult, error)
