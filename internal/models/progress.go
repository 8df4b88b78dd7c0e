package models

import "time"

// WordProgress is the single per-(user, word) ledger row. The legacy schema
// split these counters across two tables (word_progress and word_stats) that
// had to be updated in lockstep; here one row is the source of truth and
// WordStat is derived from it.
type WordProgress struct {
	UserID         int64      `db:"user_id" json:"user_id"`
	WordID         int64      `db:"word_id" json:"word_id"`
	CorrectCount   int        `db:"correct_count" json:"correct_count"`
	IncorrectCount int        `db:"incorrect_count" json:"incorrect_count"`
	TotalTests     int        `db:"total_tests" json:"total_tests"`
	Streak         int        `db:"streak" json:"streak"`
	LearnedAt      *time.Time `db:"learned_at" json:"learned_at"`
	LastAnswerAt   *time.Time `db:"last_answer_at" json:"last_answer_at"`
}

// Learned reports whether the word has ever been answered correctly.
// Once set, LearnedAt is never cleared by an answer.
func (p WordProgress) Learned() bool {
	return p.LearnedAt != nil
}

// WordStat is the lightweight per-word counter view returned to clients
// after an answer is recorded.
type WordStat struct {
	WordID         int64      `json:"word_id"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastSeenAt     *time.Time `json:"last_seen_at"`
}

// Stat projects the ledger row into its client-facing counter view.
func (p WordProgress) Stat() WordStat {
	return WordStat{
		WordID:         p.WordID,
		CorrectCount:   p.CorrectCount,
		IncorrectCount: p.IncorrectCount,
		LastSeenAt:     p.LastAnswerAt,
	}
}

// UserStat is the per-user aggregate row.
type UserStat struct {
	UserID            int64 `db:"user_id" json:"user_id"`
	WordsLearned      int   `db:"words_learned" json:"words_learned"`
	SessionsCompleted int   `db:"sessions_completed" json:"sessions_completed"`
	Points            int   `db:"points" json:"points"`
}

// UserStatSummary is the stats projection exposed to clients. TotalWords is
// the global catalog size; the correct/incorrect totals are summed over the
// user's ledger rows.
type UserStatSummary struct {
	WordsLearned      int `json:"words_learned"`
	SessionsCompleted int `json:"sessions_completed"`
	TotalWords        int `json:"total_words"`
	CorrectTotal      int `json:"correct_total"`
	IncorrectTotal    int `json:"incorrect_total"`
}

// Answer is one submitted study answer.
type Answer struct {
	WordID  int64 `json:"word_id"`
	Correct bool  `json:"correct"`
}
