package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
	"github.com/mirzamitdinovs/vocab-master/internal/wordlist"
)

// ImportService handles bulk vocabulary uploads. Both entry points accept
// CSV or XLSX, chosen by the uploaded filename's extension.
type ImportService interface {
	// ImportChapterWords loads words into one chapter from a file in the
	// three-column format (order, korean, translation).
	ImportChapterWords(ctx context.Context, actorID, chapterID int64, filename string, r io.Reader) (*models.ImportResult, error)
	// ImportLevelWords loads words across a level from the flat four-column
	// format, where each row names its chapter. Chapters that don't exist
	// yet are created.
	ImportLevelWords(ctx context.Context, actorID, levelID int64, filename string, r io.Reader) (*models.ImportResult, error)
}

type importService struct {
	catalog repository.CatalogRepository
	users   repository.UserRepository
}

// NewImportService creates a new ImportService.
func NewImportService(catalog repository.CatalogRepository, users repository.UserRepository) ImportService {
	return &importService{catalog: catalog, users: users}
}

func (s *importService) ImportChapterWords(ctx context.Context, actorID, chapterID int64, filename string, r io.Reader) (*models.ImportResult, error) {
	log := logger.FromContext(ctx)

	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetChapter(ctx, chapterID); errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("chapter", chapterID)
	} else if err != nil {
		return nil, apperr.Internal(err)
	}

	rows, skipped, err := parseUpload(filename, r, false)
	if err != nil {
		log.Warn("chapter import rejected: %v", err)
		return &models.ImportResult{Errors: []string{err.Error()}}, nil
	}

	words := make([]models.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, models.Word{
			ChapterID:   chapterID,
			Korean:      row.Korean,
			Translation: row.Translation,
			Order:       row.Order,
		})
	}

	return s.insert(ctx, words, skipped)
}

func (s *importService) ImportLevelWords(ctx context.Context, actorID, levelID int64, filename string, r io.Reader) (*models.ImportResult, error) {
	log := logger.FromContext(ctx)

	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetLevel(ctx, levelID); errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("level", levelID)
	} else if err != nil {
		return nil, apperr.Internal(err)
	}

	rows, skipped, err := parseUpload(filename, r, true)
	if err != nil {
		log.Warn("level import rejected: %v", err)
		return &models.ImportResult{Errors: []string{err.Error()}}, nil
	}

	chapterIDs, err := s.resolveChapters(ctx, levelID, rows)
	if err != nil {
		return nil, err
	}

	words := make([]models.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, models.Word{
			ChapterID:   chapterIDs[row.Chapter],
			Korean:      row.Korean,
			Translation: row.Translation,
			Order:       row.Order,
		})
	}

	return s.insert(ctx, words, skipped)
}

// resolveChapters maps each chapter title in the upload to a chapter id
// within the level, creating missing chapters in the order they first appear.
func (s *importService) resolveChapters(ctx context.Context, levelID int64, rows []wordlist.Row) (map[string]int64, error) {
	log := logger.FromContext(ctx)

	existing, err := s.catalog.Chapters(ctx, levelID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	nextOrder := 0
	for _, c := range existing {
		if c.Order >= nextOrder {
			nextOrder = c.Order + 1
		}
	}

	ids := make(map[string]int64)
	for _, row := range rows {
		if _, ok := ids[row.Chapter]; ok {
			continue
		}
		chapter, err := s.catalog.GetChapterByTitle(ctx, levelID, row.Chapter)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if chapter != nil {
			ids[row.Chapter] = chapter.ID
			continue
		}

		id, err := s.catalog.InsertChapter(ctx, models.Chapter{
			LevelID: levelID,
			Title:   row.Chapter,
			Order:   nextOrder,
		})
		if err != nil {
			return nil, apperr.Internal(err)
		}
		log.Info("chapter created during import: id=%d title=%s", id, row.Chapter)
		ids[row.Chapter] = id
		nextOrder++
	}
	return ids, nil
}

func (s *importService) insert(ctx context.Context, words []models.Word, skipped int) (*models.ImportResult, error) {
	log := logger.FromContext(ctx)

	inserted := 0
	if len(words) > 0 {
		var err error
		inserted, err = s.catalog.InsertWordsSkipDuplicates(ctx, words)
		if err != nil {
			log.Error("import insert failed: %v", err)
			return nil, apperr.Internal(err)
		}
	}

	result := &models.ImportResult{
		Inserted: inserted,
		Skipped:  skipped + (len(words) - inserted),
		Errors:   []string{},
	}
	log.Info("import finished: inserted=%d skipped=%d", result.Inserted, result.Skipped)
	return result, nil
}

func parseUpload(filename string, r io.Reader, withChapter bool) ([]wordlist.Row, int, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return wordlist.ParseXLSX(r, withChapter)
	}
	return wordlist.ParseCSV(r, withChapter)
}
