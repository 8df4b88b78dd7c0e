package progress

import (
	"time"

	"github.com/mirzamitdinovs/vocab-master/internal/models"
)

// Outcome describes what a single answer did beyond bumping counters.
type Outcome struct {
	// FirstCorrect is true when this answer is the first correct answer ever
	// recorded for the (user, word) pair. It drives the words-learned and
	// points increments on the user aggregate.
	FirstCorrect bool
	// JustLearned is true when this answer set LearnedAt. With a single
	// ledger row the two flags always move together, but they are kept
	// separate because the aggregate update and the session selector key off
	// different ones.
	JustLearned bool
	// PointsDelta is 1 for any correct answer, 0 otherwise.
	PointsDelta int
}

// Apply advances the ledger row for one answer and reports the outcome.
//
// The transition rules:
//   - LearnedAt is set on the first correct answer and never cleared again.
//   - Streak increments on a correct answer and hard-resets to 0 on an
//     incorrect one.
//   - Correct/incorrect counters and TotalTests always move by exactly one.
//   - LastAnswerAt is always stamped with now.
func Apply(p models.WordProgress, correct bool, now time.Time) (models.WordProgress, Outcome) {
	var out Outcome

	if correct {
		out.FirstCorrect = p.CorrectCount == 0
		out.PointsDelta = 1
		if p.LearnedAt == nil {
			t := now
			p.LearnedAt = &t
			out.JustLearned = true
		}
		p.CorrectCount++
		p.Streak++
	} else {
		p.IncorrectCount++
		p.Streak = 0
	}

	p.TotalTests++
	t := now
	p.LastAnswerAt = &t
	return p, out
}
