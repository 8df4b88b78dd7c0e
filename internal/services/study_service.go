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

// StudyService handles flashcard sessions: picking words to study,
// recording answers, and per-user statistics.
type StudyService interface {
	// SessionWords returns unlearned words from the given chapters, ordered
	// by their position. Without a limit the full eligible set comes back; a
	// supplied limit is capped at max. No chapters means no words, not an
	// error.
	SessionWords(ctx context.Context, userID int64, chapterIDs []int64, limit int) ([]models.Word, error)
	RecordAnswer(ctx context.Context, userID, wordID int64, correct bool) (*models.WordStat, error)
	RecordAnswers(ctx context.Context, userID int64, answers []models.Answer) error
	CompleteSession(ctx context.Context, userID int64) (*models.UserStatSummary, error)
	Stats(ctx context.Context, userID int64) (*models.UserStatSummary, error)
	// ClearProgress deletes the user's answer ledger and zeroes all stat
	// counters, returning the account to a fresh state.
	ClearProgress(ctx context.Context, userID int64) error
}

type studyService struct {
	progress repository.ProgressRepository
	catalog  repository.CatalogRepository
	users    repository.UserRepository
	maxWords int
}

// NewStudyService creates a new StudyService. maxWords caps how many words a
// single session request may return.
func NewStudyService(progress repository.ProgressRepository, catalog repository.CatalogRepository, users repository.UserRepository, maxWords int) StudyService {
	if maxWords < 1 {
		maxWords = 200
	}
	return &studyService{progress: progress, catalog: catalog, users: users, maxWords: maxWords}
}

func (s *studyService) SessionWords(ctx context.Context, userID int64, chapterIDs []int64, limit int) ([]models.Word, error) {
	log := logger.FromContext(ctx)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if len(chapterIDs) == 0 {
		return []models.Word{}, nil
	}

	// Only a caller-supplied limit is clamped. An omitted limit means the
	// whole filtered set, not the configured maximum.
	if limit < 0 {
		limit = 0
	} else if limit > s.maxWords {
		limit = s.maxWords
	}

	words, err := s.progress.SessionWords(ctx, userID, chapterIDs, limit)
	if err != nil {
		log.Error("failed to load session words: %v", err)
		return nil, apperr.Internal(err)
	}
	return words, nil
}

func (s *studyService) RecordAnswer(ctx context.Context, userID, wordID int64, correct bool) (*models.WordStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording answer: user_id=%d word_id=%d correct=%t", userID, wordID, correct)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireWord(ctx, wordID); err != nil {
		return nil, err
	}

	stat, err := s.progress.RecordAnswer(ctx, userID, wordID, correct)
	if err != nil {
		log.Error("failed to record answer: %v", err)
		return nil, apperr.Internal(err)
	}
	return stat, nil
}

func (s *studyService) RecordAnswers(ctx context.Context, userID int64, answers []models.Answer) error {
	log := logger.FromContext(ctx)

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	// Validate the whole batch up front so a bad reference rejects it
	// without recording anything.
	for _, a := range answers {
		if err := s.requireWord(ctx, a.WordID); err != nil {
			return err
		}
	}
	if len(answers) == 0 {
		return nil
	}

	if err := s.progress.RecordAnswers(ctx, userID, answers); err != nil {
		log.Error("failed to record answer batch: %v", err)
		return apperr.Internal(err)
	}
	log.Debug("recorded %d answers: user_id=%d", len(answers), userID)
	return nil
}

func (s *studyService) CompleteSession(ctx context.Context, userID int64) (*models.UserStatSummary, error) {
	log := logger.FromContext(ctx)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	stat, err := s.progress.CompleteSession(ctx, userID)
	if err != nil {
		log.Error("failed to complete session: %v", err)
		return nil, apperr.Internal(err)
	}
	log.Info("session completed: user_id=%d total=%d", userID, stat.SessionsCompleted)

	return s.summary(ctx, userID)
}

func (s *studyService) Stats(ctx context.Context, userID int64) (*models.UserStatSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.summary(ctx, userID)
}

func (s *studyService) ClearProgress(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.progress.Clear(ctx, userID); err != nil {
		log.Error("failed to clear progress: %v", err)
		return apperr.Internal(err)
	}
	log.Info("progress cleared: user_id=%d", userID)
	return nil
}

func (s *studyService) summary(ctx context.Context, userID int64) (*models.UserStatSummary, error) {
	summary, err := s.progress.Summary(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total, err := s.catalog.CountWords(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	summary.TotalWords = total
	return summary, nil
}

func (s *studyService) requireUser(ctx context.Context, userID int64) error {
	_, err := s.users.Get(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("user", userID)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *studyService) requireWord(ctx context.Context, wordID int64) error {
	_, err := s.catalog.GetWord(ctx, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("word", wordID)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
