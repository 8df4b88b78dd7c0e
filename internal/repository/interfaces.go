package repository

import (
	"context"
	"errors"

	"github.com/mirzamitdinovs/vocab-master/internal/models"
)

// ErrDuplicate is returned when an insert or update collides with a unique
// key. Services translate it into a caller-facing conflict error.
var ErrDuplicate = errors.New("duplicate key")

// CatalogRepository handles the Language → Level → Chapter → Word hierarchy.
type CatalogRepository interface {
	Languages(ctx context.Context) ([]models.Language, error)
	GetLanguage(ctx context.Context, id int64) (*models.Language, error)
	InsertLanguage(ctx context.Context, lang models.Language) (int64, error)
	UpdateLanguage(ctx context.Context, lang models.Language) error
	DeleteLanguage(ctx context.Context, id int64) error

	Levels(ctx context.Context, languageID int64) ([]models.Level, error)
	GetLevel(ctx context.Context, id int64) (*models.Level, error)
	InsertLevel(ctx context.Context, level models.Level) (int64, error)
	UpdateLevel(ctx context.Context, level models.Level) error
	DeleteLevel(ctx context.Context, id int64) error

	Chapters(ctx context.Context, levelID int64) ([]models.Chapter, error)
	GetChapter(ctx context.Context, id int64) (*models.Chapter, error)
	GetChapterByTitle(ctx context.Context, levelID int64, title string) (*models.Chapter, error)
	InsertChapter(ctx context.Context, chapter models.Chapter) (int64, error)
	UpdateChapter(ctx context.Context, chapter models.Chapter) error
	DeleteChapter(ctx context.Context, id int64) error

	Words(ctx context.Context, chapterID int64) ([]models.Word, error)
	GetWord(ctx context.Context, id int64) (*models.Word, error)
	InsertWord(ctx context.Context, word models.Word) (int64, error)
	UpdateWord(ctx context.Context, word models.Word) error
	DeleteWord(ctx context.Context, id int64) error
	CountWords(ctx context.Context) (int, error)

	// InsertWordsSkipDuplicates bulk-inserts words in one transaction,
	// skipping rows that collide with the (chapter, korean, order) unique
	// key. Returns the number actually inserted.
	InsertWordsSkipDuplicates(ctx context.Context, words []models.Word) (int, error)

	CatalogTree(ctx context.Context) ([]models.CatalogLanguage, error)

	WordsMissingAudio(ctx context.Context, limit int) ([]models.Word, error)
	SetWordAudio(ctx context.Context, wordID int64, audio string) error
}

// UserRepository handles user accounts and their learning settings.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Insert(ctx context.Context, user models.User) (int64, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id int64) error

	Settings(ctx context.Context, userID int64) (*models.LearningSettings, error)
	UpsertSettings(ctx context.Context, s models.LearningSettings) error
}

// ProgressRepository handles the per-(user, word) ledger and the per-user
// aggregate. Answer recording is transactional: the ledger row and the user
// aggregate move together or not at all.
type ProgressRepository interface {
	Get(ctx context.Context, userID, wordID int64) (*models.WordProgress, error)
	RecordAnswer(ctx context.Context, userID, wordID int64, correct bool) (*models.WordStat, error)
	RecordAnswers(ctx context.Context, userID int64, answers []models.Answer) error
	SessionWords(ctx context.Context, userID int64, chapterIDs []int64, limit int) ([]models.Word, error)
	CompleteSession(ctx context.Context, userID int64) (*models.UserStat, error)
	// Summary aggregates the user's counters. TotalWords is the catalog's
	// concern and stays zero here; callers fill it from CountWords.
	Summary(ctx context.Context, userID int64) (*models.UserStatSummary, error)
	Clear(ctx context.Context, userID int64) error
	EnsureUserStat(ctx context.Context, userID int64) error
}
