package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

type catalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a CatalogRepository backed by the SQL store.
func NewCatalogRepository(db *sqlx.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

const languageCols = `id, key, value, description, sort_order, created_at`

func (r *catalogRepository) Languages(ctx context.Context) ([]models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")

	var langs []models.Language
	err := r.db.SelectContext(ctx, &langs, `SELECT `+languageCols+` FROM languages ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		log.Error("failed to list languages: %v", err)
		return nil, err
	}
	return langs, nil
}

func (r *catalogRepository) GetLanguage(ctx context.Context, id int64) (*models.Language, error) {
	var lang models.Language
	err := r.db.GetContext(ctx, &lang, r.db.Rebind(`SELECT `+languageCols+` FROM languages WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (r *catalogRepository) InsertLanguage(ctx context.Context, lang models.Language) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("inserting language: key=%s", lang.Key)

	id, err := insertReturningID(ctx, r.db, `
INSERT INTO languages (key, value, description, sort_order)
VALUES (?, ?, ?, ?)`, lang.Key, lang.Value, lang.Description, lang.Order)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert language: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *catalogRepository) UpdateLanguage(ctx context.Context, lang models.Language) error {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("updating language: id=%d", lang.ID)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE languages SET key = ?, value = ?, description = ?, sort_order = ?
WHERE id = ?
`), lang.Key, lang.Value, lang.Description, lang.Order, lang.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to update language: %v", err)
		return err
	}
	return requireRowAffected(res)
}

func (r *catalogRepository) DeleteLanguage(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("deleting language: id=%d", id)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM languages WHERE id = ?`), id)
	if err != nil {
		log.Error("failed to delete language: %v", err)
		return err
	}
	return requireRowAffected(res)
}

const levelCols = `id, language_id, title, sort_order, created_at`

func (r *catalogRepository) Levels(ctx context.Context, languageID int64) ([]models.Level, error) {
	var levels []models.Level
	err := r.db.SelectContext(ctx, &levels, r.db.Rebind(`
SELECT `+levelCols+` FROM levels WHERE language_id = ? ORDER BY sort_order ASC, id ASC
`), languageID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("catalog_repo").Error("failed to list levels: %v", err)
		return nil, err
	}
	return levels, nil
}

func (r *catalogRepository) GetLevel(ctx context.Context, id int64) (*models.Level, error) {
	var level models.Level
	err := r.db.GetContext(ctx, &level, r.db.Rebind(`SELECT `+levelCols+` FROM levels WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *catalogRepository) InsertLevel(ctx context.Context, level models.Level) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("inserting level: language_id=%d title=%s", level.LanguageID, level.Title)

	id, err := insertReturningID(ctx, r.db, `
INSERT INTO levels (language_id, title, sort_order) VALUES (?, ?, ?)`,
		level.LanguageID, level.Title, level.Order)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert level: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *catalogRepository) UpdateLevel(ctx context.Context, level models.Level) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE levels SET title = ?, sort_order = ? WHERE id = ?
`), level.Title, level.Order, level.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return requireRowAffected(res)
}

func (r *catalogRepository) DeleteLevel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM levels WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

const chapterCols = `id, level_id, title, sort_order, created_at`

func (r *catalogRepository) Chapters(ctx context.Context, levelID int64) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.SelectContext(ctx, &chapters, r.db.Rebind(`
SELECT `+chapterCols+` FROM chapters WHERE level_id = ? ORDER BY sort_order ASC, id ASC
`), levelID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("catalog_repo").Error("failed to list chapters: %v", err)
		return nil, err
	}
	return chapters, nil
}

func (r *catalogRepository) GetChapter(ctx context.Context, id int64) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.db.GetContext(ctx, &chapter, r.db.Rebind(`SELECT `+chapterCols+` FROM chapters WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *catalogRepository) GetChapterByTitle(ctx context.Context, levelID int64, title string) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.db.GetContext(ctx, &chapter, r.db.Rebind(`
SELECT `+chapterCols+` FROM chapters WHERE level_id = ? AND title = ?
`), levelID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *catalogRepository) InsertChapter(ctx context.Context, chapter models.Chapter) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("inserting chapter: level_id=%d title=%s", chapter.LevelID, chapter.Title)

	id, err := insertReturningID(ctx, r.db, `
INSERT INTO chapters (level_id, title, sort_order) VALUES (?, ?, ?)`,
		chapter.LevelID, chapter.Title, chapter.Order)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert chapter: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *catalogRepository) UpdateChapter(ctx context.Context, chapter models.Chapter) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE chapters SET title = ?, sort_order = ? WHERE id = ?
`), chapter.Title, chapter.Order, chapter.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return requireRowAffected(res)
}

func (r *catalogRepository) DeleteChapter(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM chapters WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

const wordCols = `id, chapter_id, korean, translation, sort_order, audio, created_at`

func (r *catalogRepository) Words(ctx context.Context, chapterID int64) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, r.db.Rebind(`
SELECT `+wordCols+` FROM words WHERE chapter_id = ? ORDER BY sort_order ASC, id ASC
`), chapterID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("catalog_repo").Error("failed to list words: %v", err)
		return nil, err
	}
	normalizeWords(words)
	return words, nil
}

func (r *catalogRepository) GetWord(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind(`SELECT `+wordCols+` FROM words WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	word.Normalize()
	return &word, nil
}

func (r *catalogRepository) InsertWord(ctx context.Context, word models.Word) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("inserting word: chapter_id=%d korean=%s", word.ChapterID, word.Korean)

	id, err := insertReturningID(ctx, r.db, `
INSERT INTO words (chapter_id, korean, translation, sort_order, audio)
VALUES (?, ?, ?, ?, ?)`, word.ChapterID, word.Korean, word.Translation, word.Order, word.Audio)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert word: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *catalogRepository) UpdateWord(ctx context.Context, word models.Word) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE words SET korean = ?, translation = ?, sort_order = ?, audio = ?
WHERE id = ?
`), word.Korean, word.Translation, word.Order, word.Audio, word.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return requireRowAffected(res)
}

func (r *catalogRepository) DeleteWord(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM words WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *catalogRepository) CountWords(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM words`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *catalogRepository) InsertWordsSkipDuplicates(ctx context.Context, words []models.Word) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("bulk-inserting %d words", len(words))

	inserted := 0
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		stmt := tx.Rebind(`
INSERT INTO words (chapter_id, korean, translation, sort_order, audio)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (chapter_id, korean, sort_order) DO NOTHING
`)
		for _, w := range words {
			res, err := tx.ExecContext(ctx, stmt, w.ChapterID, w.Korean, w.Translation, w.Order, w.Audio)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		log.Error("bulk insert failed: %v", err)
		return 0, err
	}
	log.Debug("bulk insert done: inserted=%d skipped=%d", inserted, len(words)-inserted)
	return inserted, nil
}

func (r *catalogRepository) CatalogTree(ctx context.Context) ([]models.CatalogLanguage, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")

	langs, err := r.Languages(ctx)
	if err != nil {
		return nil, err
	}

	var levels []models.Level
	if err := r.db.SelectContext(ctx, &levels, `SELECT `+levelCols+` FROM levels ORDER BY sort_order ASC, id ASC`); err != nil {
		log.Error("failed to list levels: %v", err)
		return nil, err
	}
	var chapters []models.Chapter
	if err := r.db.SelectContext(ctx, &chapters, `SELECT `+chapterCols+` FROM chapters ORDER BY sort_order ASC, id ASC`); err != nil {
		log.Error("failed to list chapters: %v", err)
		return nil, err
	}
	var words []models.Word
	if err := r.db.SelectContext(ctx, &words, `SELECT `+wordCols+` FROM words ORDER BY sort_order ASC, id ASC`); err != nil {
		log.Error("failed to list words: %v", err)
		return nil, err
	}
	normalizeWords(words)

	wordsByChapter := make(map[int64][]models.Word, len(chapters))
	for _, w := range words {
		wordsByChapter[w.ChapterID] = append(wordsByChapter[w.ChapterID], w)
	}
	chaptersByLevel := make(map[int64][]models.CatalogChapter, len(levels))
	for _, c := range chapters {
		cc := models.CatalogChapter{Chapter: c, Words: wordsByChapter[c.ID]}
		if cc.Words == nil {
			cc.Words = []models.Word{}
		}
		chaptersByLevel[c.LevelID] = append(chaptersByLevel[c.LevelID], cc)
	}
	levelsByLanguage := make(map[int64][]models.CatalogLevel, len(langs))
	for _, l := range levels {
		cl := models.CatalogLevel{Level: l, Chapters: chaptersByLevel[l.ID]}
		if cl.Chapters == nil {
			cl.Chapters = []models.CatalogChapter{}
		}
		levelsByLanguage[l.LanguageID] = append(levelsByLanguage[l.LanguageID], cl)
	}

	tree := make([]models.CatalogLanguage, 0, len(langs))
	for _, lang := range langs {
		cl := models.CatalogLanguage{Language: lang, Levels: levelsByLanguage[lang.ID]}
		if cl.Levels == nil {
			cl.Levels = []models.CatalogLevel{}
		}
		tree = append(tree, cl)
	}
	return tree, nil
}

func (r *catalogRepository) WordsMissingAudio(ctx context.Context, limit int) ([]models.Word, error) {
	if limit <= 0 {
		limit = 50
	}
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, r.db.Rebind(`
SELECT `+wordCols+` FROM words WHERE audio IS NULL ORDER BY id ASC LIMIT ?
`), limit)
	if err != nil {
		return nil, err
	}
	normalizeWords(words)
	return words, nil
}

func (r *catalogRepository) SetWordAudio(ctx context.Context, wordID int64, audio string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE words SET audio = ? WHERE id = ?`), audio, wordID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func normalizeWords(words []models.Word) {
	for i := range words {
		words[i].Normalize()
	}
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
