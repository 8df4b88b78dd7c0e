package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

// CatalogService handles the vocabulary hierarchy. Reads are open to anyone;
// mutations require the acting user to be an admin.
type CatalogService interface {
	Languages(ctx context.Context) ([]models.Language, error)
	CreateLanguage(ctx context.Context, actorID int64, lang models.Language) (*models.Language, error)
	UpdateLanguage(ctx context.Context, actorID int64, lang models.Language) (*models.Language, error)
	DeleteLanguage(ctx context.Context, actorID, id int64) error

	Levels(ctx context.Context, languageID int64) ([]models.Level, error)
	CreateLevel(ctx context.Context, actorID int64, level models.Level) (*models.Level, error)
	UpdateLevel(ctx context.Context, actorID int64, level models.Level) (*models.Level, error)
	DeleteLevel(ctx context.Context, actorID, id int64) error

	Chapters(ctx context.Context, levelID int64) ([]models.Chapter, error)
	CreateChapter(ctx context.Context, actorID int64, chapter models.Chapter) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, actorID int64, chapter models.Chapter) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, actorID, id int64) error

	Words(ctx context.Context, chapterID int64) ([]models.Word, error)
	CreateWord(ctx context.Context, actorID int64, word models.Word) (*models.Word, error)
	UpdateWord(ctx context.Context, actorID int64, word models.Word) (*models.Word, error)
	DeleteWord(ctx context.Context, actorID, id int64) error

	Catalog(ctx context.Context) ([]models.CatalogLanguage, error)
}

type catalogService struct {
	catalog repository.CatalogRepository
	users   repository.UserRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalog repository.CatalogRepository, users repository.UserRepository) CatalogService {
	return &catalogService{catalog: catalog, users: users}
}

func (s *catalogService) Languages(ctx context.Context) ([]models.Language, error) {
	langs, err := s.catalog.Languages(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return langs, nil
}

func (s *catalogService) CreateLanguage(ctx context.Context, actorID int64, lang models.Language) (*models.Language, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	if lang.Key == "" {
		return nil, apperr.Validation("key", "must not be empty")
	}
	if lang.Value == "" {
		return nil, apperr.Validation("value", "must not be empty")
	}

	id, err := s.catalog.InsertLanguage(ctx, lang)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a language with this key already exists")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	logger.FromContext(ctx).Info("language created: id=%d key=%s", id, lang.Key)
	return s.getLanguage(ctx, id)
}

func (s *catalogService) UpdateLanguage(ctx context.Context, actorID int64, lang models.Language) (*models.Language, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}

	err := s.catalog.UpdateLanguage(ctx, lang)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a language with this key already exists")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("language", lang.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getLanguage(ctx, lang.ID)
}

func (s *catalogService) DeleteLanguage(ctx context.Context, actorID, id int64) error {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return err
	}
	return s.deleteEntity(ctx, "language", id, s.catalog.DeleteLanguage)
}

func (s *catalogService) getLanguage(ctx context.Context, id int64) (*models.Language, error) {
	lang, err := s.catalog.GetLanguage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("language", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return lang, nil
}

func (s *catalogService) Levels(ctx context.Context, languageID int64) ([]models.Level, error) {
	if _, err := s.getLanguage(ctx, languageID); err != nil {
		return nil, err
	}
	levels, err := s.catalog.Levels(ctx, languageID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return levels, nil
}

func (s *catalogService) CreateLevel(ctx context.Context, actorID int64, level models.Level) (*models.Level, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	if level.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}
	if _, err := s.getLanguage(ctx, level.LanguageID); err != nil {
		return nil, err
	}

	id, err := s.catalog.InsertLevel(ctx, level)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a level with this title already exists in the language")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getLevel(ctx, id)
}

func (s *catalogService) UpdateLevel(ctx context.Context, actorID int64, level models.Level) (*models.Level, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}

	err := s.catalog.UpdateLevel(ctx, level)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a level with this title already exists in the language")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("level", level.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getLevel(ctx, level.ID)
}

func (s *catalogService) DeleteLevel(ctx context.Context, actorID, id int64) error {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return err
	}
	return s.deleteEntity(ctx, "level", id, s.catalog.DeleteLevel)
}

func (s *catalogService) getLevel(ctx context.Context, id int64) (*models.Level, error) {
	level, err := s.catalog.GetLevel(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("level", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return level, nil
}

func (s *catalogService) Chapters(ctx context.Context, levelID int64) ([]models.Chapter, error) {
	if _, err := s.getLevel(ctx, levelID); err != nil {
		return nil, err
	}
	chapters, err := s.catalog.Chapters(ctx, levelID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return chapters, nil
}

func (s *catalogService) CreateChapter(ctx context.Context, actorID int64, chapter models.Chapter) (*models.Chapter, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	if chapter.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}
	if _, err := s.getLevel(ctx, chapter.LevelID); err != nil {
		return nil, err
	}

	id, err := s.catalog.InsertChapter(ctx, chapter)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a chapter with this title already exists in the level")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getChapter(ctx, id)
}

func (s *catalogService) UpdateChapter(ctx context.Context, actorID int64, chapter models.Chapter) (*models.Chapter, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}

	err := s.catalog.UpdateChapter(ctx, chapter)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a chapter with this title already exists in the level")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("chapter", chapter.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getChapter(ctx, chapter.ID)
}

func (s *catalogService) DeleteChapter(ctx context.Context, actorID, id int64) error {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return err
	}
	return s.deleteEntity(ctx, "chapter", id, s.catalog.DeleteChapter)
}

func (s *catalogService) getChapter(ctx context.Context, id int64) (*models.Chapter, error) {
	chapter, err := s.catalog.GetChapter(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("chapter", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return chapter, nil
}

func (s *catalogService) Words(ctx context.Context, chapterID int64) ([]models.Word, error) {
	if _, err := s.getChapter(ctx, chapterID); err != nil {
		return nil, err
	}
	words, err := s.catalog.Words(ctx, chapterID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return words, nil
}

func (s *catalogService) CreateWord(ctx context.Context, actorID int64, word models.Word) (*models.Word, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	encodeWordTranslation(&word)
	if word.Korean == "" {
		return nil, apperr.Validation("korean", "must not be empty")
	}
	if word.Translation == "" {
		return nil, apperr.Validation("translation", "must not be empty")
	}
	if _, err := s.getChapter(ctx, word.ChapterID); err != nil {
		return nil, err
	}

	id, err := s.catalog.InsertWord(ctx, word)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("this word already exists in the chapter")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getWord(ctx, id)
}

func (s *catalogService) UpdateWord(ctx context.Context, actorID int64, word models.Word) (*models.Word, error) {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	encodeWordTranslation(&word)

	err := s.catalog.UpdateWord(ctx, word)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("this word already exists in the chapter")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("word", word.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getWord(ctx, word.ID)
}

func (s *catalogService) DeleteWord(ctx context.Context, actorID, id int64) error {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return err
	}
	return s.deleteEntity(ctx, "word", id, s.catalog.DeleteWord)
}

// encodeWordTranslation folds a structured translations payload back into the
// stored translation column. Requests carrying only the flat translation
// string pass through untouched.
func encodeWordTranslation(word *models.Word) {
	if word.Translations.En == "" {
		return
	}
	word.Translation = models.EncodeTranslation(word.Translations)
}

func (s *catalogService) getWord(ctx context.Context, id int64) (*models.Word, error) {
	word, err := s.catalog.GetWord(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("word", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return word, nil
}

func (s *catalogService) Catalog(ctx context.Context) ([]models.CatalogLanguage, error) {
	tree, err := s.catalog.CatalogTree(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tree, nil
}

func (s *catalogService) deleteEntity(ctx context.Context, resource string, id int64, del func(context.Context, int64) error) error {
	err := del(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource, id)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	logger.FromContext(ctx).Info("%s deleted: id=%d", resource, id)
	return nil
}
