package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/progress"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

type progressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a ProgressRepository backed by the SQL store.
func NewProgressRepository(db *sqlx.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

const progressCols = `user_id, word_id, correct_count, incorrect_count, total_tests, streak, learned_at, last_answer_at`

func (r *progressRepository) Get(ctx context.Context, userID, wordID int64) (*models.WordProgress, error) {
	var p models.WordProgress
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`
SELECT `+progressCols+` FROM word_progress WHERE user_id = ? AND word_id = ?
`), userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) RecordAnswer(ctx context.Context, userID, wordID int64, correct bool) (*models.WordStat, error) {
	var stat models.WordStat
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		applied, err := applyAnswerTx(ctx, tx, userID, wordID, correct)
		if err != nil {
			return err
		}
		stat = applied.Stat()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *progressRepository) RecordAnswers(ctx context.Context, userID int64, answers []models.Answer) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("recording %d answers: user_id=%d", len(answers), userID)

	// One transaction for the whole batch: answers apply in the given order
	// and either all land or none do. A word repeated within the batch sees
	// the effect of its earlier answers.
	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, a := range answers {
			if _, err := applyAnswerTx(ctx, tx, userID, a.WordID, a.Correct); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyAnswerTx reads the ledger row, advances it through the pure transition,
// and writes both the ledger row and the user aggregate inside the caller's
// transaction. learned_at is guarded with COALESCE so it can only ever be set
// once; the aggregate update uses plain increments so concurrent answers for
// different words stay commutative.
func applyAnswerTx(ctx context.Context, tx *sqlx.Tx, userID, wordID int64, correct bool) (models.WordProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	var p models.WordProgress
	err := tx.GetContext(ctx, &p, tx.Rebind(`
SELECT `+progressCols+` FROM word_progress WHERE user_id = ? AND word_id = ?
`), userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		p = models.WordProgress{UserID: userID, WordID: wordID}
	} else if err != nil {
		log.Error("failed to read progress: %v", err)
		return p, err
	}

	applied, out := progress.Apply(p, correct, time.Now().UTC())

	_, err = tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO word_progress (user_id, word_id, correct_count, incorrect_count, total_tests, streak, learned_at, last_answer_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, word_id) DO UPDATE SET
    correct_count = excluded.correct_count,
    incorrect_count = excluded.incorrect_count,
    total_tests = excluded.total_tests,
    streak = excluded.streak,
    learned_at = COALESCE(word_progress.learned_at, excluded.learned_at),
    last_answer_at = excluded.last_answer_at
`), applied.UserID, applied.WordID, applied.CorrectCount, applied.IncorrectCount,
		applied.TotalTests, applied.Streak, applied.LearnedAt, applied.LastAnswerAt)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
		return applied, err
	}

	learnedDelta := 0
	if out.FirstCorrect {
		learnedDelta = 1
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO user_stats (user_id, words_learned, sessions_completed, points)
VALUES (?, ?, 0, ?)
ON CONFLICT (user_id) DO UPDATE SET
    words_learned = user_stats.words_learned + ?,
    points = user_stats.points + ?
`), userID, learnedDelta, out.PointsDelta, learnedDelta, out.PointsDelta)
	if err != nil {
		log.Error("failed to upsert user stats: %v", err)
		return applied, err
	}

	log.Debug("answer applied: word_id=%d correct=%t streak=%d first_correct=%t",
		wordID, correct, applied.Streak, out.FirstCorrect)
	return applied, nil
}

func (r *progressRepository) SessionWords(ctx context.Context, userID int64, chapterIDs []int64, limit int) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("selecting session words: user_id=%d chapters=%d limit=%d", userID, len(chapterIDs), limit)

	if len(chapterIDs) == 0 {
		return []models.Word{}, nil
	}

	query := sqlBuilder.Select("w.id", "w.chapter_id", "w.korean", "w.translation",
		"w.sort_order", "w.audio", "w.created_at").
		From("words w").
		Where(squirrel.Eq{"w.chapter_id": chapterIDs}).
		Where(`NOT EXISTS (
    SELECT 1 FROM word_progress p
    WHERE p.user_id = ? AND p.word_id = w.id AND p.learned_at IS NOT NULL
)`, userID).
		OrderBy("w.sort_order ASC", "w.id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	words := []models.Word{}
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(sqlStr), args...); err != nil {
		log.Error("failed to select session words: %v", err)
		return nil, err
	}
	normalizeWords(words)
	log.Debug("selected %d session words", len(words))
	return words, nil
}

func (r *progressRepository) CompleteSession(ctx context.Context, userID int64) (*models.UserStat, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("completing session: user_id=%d", userID)

	var stat models.UserStat
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO user_stats (user_id, words_learned, sessions_completed, points)
VALUES (?, 0, 1, 0)
ON CONFLICT (user_id) DO UPDATE SET sessions_completed = user_stats.sessions_completed + 1
`), userID)
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &stat, tx.Rebind(`
SELECT user_id, words_learned, sessions_completed, points FROM user_stats WHERE user_id = ?
`), userID)
	})
	if err != nil {
		log.Error("failed to complete session: %v", err)
		return nil, err
	}
	return &stat, nil
}

func (r *progressRepository) Summary(ctx context.Context, userID int64) (*models.UserStatSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	var summary models.UserStatSummary

	var stat models.UserStat
	err := r.db.GetContext(ctx, &stat, r.db.Rebind(`
SELECT user_id, words_learned, sessions_completed, points FROM user_stats WHERE user_id = ?
`), userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to read user stats: %v", err)
		return nil, err
	}
	summary.WordsLearned = stat.WordsLearned
	summary.SessionsCompleted = stat.SessionsCompleted

	var totals struct {
		Correct   int `db:"correct_total"`
		Incorrect int `db:"incorrect_total"`
	}
	err = r.db.GetContext(ctx, &totals, r.db.Rebind(`
SELECT COALESCE(SUM(correct_count), 0) AS correct_total,
       COALESCE(SUM(incorrect_count), 0) AS incorrect_total
FROM word_progress WHERE user_id = ?
`), userID)
	if err != nil {
		log.Error("failed to sum answer counters: %v", err)
		return nil, err
	}
	summary.CorrectTotal = totals.Correct
	summary.IncorrectTotal = totals.Incorrect
	return &summary, nil
}

func (r *progressRepository) Clear(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("clearing progress: user_id=%d", userID)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM word_progress WHERE user_id = ?`), userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO user_stats (user_id, words_learned, sessions_completed, points)
VALUES (?, 0, 0, 0)
ON CONFLICT (user_id) DO UPDATE SET words_learned = 0, sessions_completed = 0, points = 0
`), userID)
		return err
	})
}

func (r *progressRepository) EnsureUserStat(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO user_stats (user_id, words_learned, sessions_completed, points)
VALUES (?, 0, 0, 0)
ON CONFLICT (user_id) DO NOTHING
`), userID)
	return err
}
