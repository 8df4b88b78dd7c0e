package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
	"github.com/mirzamitdinovs/vocab-master/internal/repository/sqlstore"
	"github.com/mirzamitdinovs/vocab-master/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.ProgressRepository

	userID    int64
	chapterID int64
	wordIDs   []int64
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlstore.NewProgressRepository(s.db.DB)

	s.userID = testutil.SeedUser(s.T(), s.db, "Test User", "+998900000001", false)
	s.chapterID = testutil.SeedChapter(s.T(), s.db, "ko", "Beginner", "Chapter 1")
	s.wordIDs = nil
	for i, korean := range []string{"사과", "바나나", "포도"} {
		id := testutil.SeedWord(s.T(), s.db, s.chapterID, korean, "fruit", i+1)
		s.wordIDs = append(s.wordIDs, id)
	}
}

func (s *ProgressRepositorySuite) TestRecordAnswerCorrect() {
	ctx := context.Background()

	stat, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[0], true)
	s.Require().NoError(err)
	s.Assert().Equal(1, stat.CorrectCount)
	s.Assert().Equal(0, stat.IncorrectCount)
	s.Require().NotNil(stat.LastSeenAt)

	p, err := s.repo.Get(ctx, s.userID, s.wordIDs[0])
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal(1, p.Streak)
	s.Assert().Equal(1, p.TotalTests)
	s.Assert().NotNil(p.LearnedAt)

	summary, err := s.repo.Summary(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(1, summary.WordsLearned)
	s.Assert().Equal(1, summary.CorrectTotal)
	// Catalog size is filled in by the service layer, not here.
	s.Assert().Equal(0, summary.TotalWords)
}

func (s *ProgressRepositorySuite) TestRecordAnswerIncorrectThenCorrect() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[0], false)
		s.Require().NoError(err)
	}
	stat, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[0], true)
	s.Require().NoError(err)
	s.Assert().Equal(1, stat.CorrectCount)
	s.Assert().Equal(3, stat.IncorrectCount)

	p, err := s.repo.Get(ctx, s.userID, s.wordIDs[0])
	s.Require().NoError(err)
	s.Assert().Equal(4, p.TotalTests)
	s.Assert().Equal(1, p.Streak)
	s.Assert().NotNil(p.LearnedAt)

	summary, err := s.repo.Summary(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(1, summary.WordsLearned)
	s.Assert().Equal(3, summary.IncorrectTotal)
}

func (s *ProgressRepositorySuite) TestWordsLearnedCountedOnce() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[0], true)
		s.Require().NoError(err)
	}

	summary, err := s.repo.Summary(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(1, summary.WordsLearned)
	s.Assert().Equal(3, summary.CorrectTotal)
}

func (s *ProgressRepositorySuite) TestRecordAnswersBatchInOrder() {
	ctx := context.Background()

	err := s.repo.RecordAnswers(ctx, s.userID, []models.Answer{
		{WordID: s.wordIDs[0], Correct: true},
		{WordID: s.wordIDs[0], Correct: false},
		{WordID: s.wordIDs[1], Correct: true},
	})
	s.Require().NoError(err)

	p, err := s.repo.Get(ctx, s.userID, s.wordIDs[0])
	s.Require().NoError(err)
	s.Assert().Equal(1, p.CorrectCount)
	s.Assert().Equal(1, p.IncorrectCount)
	s.Assert().Equal(0, p.Streak)

	summary, err := s.repo.Summary(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(2, summary.WordsLearned)
}

func (s *ProgressRepositorySuite) TestSessionWordsExcludesLearned() {
	ctx := context.Background()

	_, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[1], true)
	s.Require().NoError(err)

	words, err := s.repo.SessionWords(ctx, s.userID, []int64{s.chapterID}, 0)
	s.Require().NoError(err)
	s.Require().Len(words, 2)
	s.Assert().Equal(s.wordIDs[0], words[0].ID)
	s.Assert().Equal(s.wordIDs[2], words[1].ID)
}

func (s *ProgressRepositorySuite) TestSessionWordsOrderAndLimit() {
	ctx := context.Background()

	words, err := s.repo.SessionWords(ctx, s.userID, []int64{s.chapterID}, 2)
	s.Require().NoError(err)
	s.Require().Len(words, 2)
	s.Assert().Equal(s.wordIDs[0], words[0].ID)
	s.Assert().Equal(s.wordIDs[1], words[1].ID)
}

func (s *ProgressRepositorySuite) TestSessionWordsEmptyChapters() {
	words, err := s.repo.SessionWords(context.Background(), s.userID, nil, 10)
	s.Require().NoError(err)
	s.Assert().Empty(words)
}

func (s *ProgressRepositorySuite) TestCompleteSession() {
	ctx := context.Background()

	stat, err := s.repo.CompleteSession(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(1, stat.SessionsCompleted)

	stat, err = s.repo.CompleteSession(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(2, stat.SessionsCompleted)
}

func (s *ProgressRepositorySuite) TestClearResetsEverything() {
	ctx := context.Background()

	_, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[0], true)
	s.Require().NoError(err)
	_, err = s.repo.CompleteSession(ctx, s.userID)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Clear(ctx, s.userID))

	p, err := s.repo.Get(ctx, s.userID, s.wordIDs[0])
	s.Require().NoError(err)
	s.Assert().Nil(p)

	summary, err := s.repo.Summary(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(0, summary.WordsLearned)
	s.Assert().Equal(0, summary.SessionsCompleted)
	s.Assert().Equal(0, summary.CorrectTotal)

	// Learning again after a reset starts from a clean ledger.
	stat, err := s.repo.RecordAnswer(ctx, s.userID, s.wordIDs[0], true)
	s.Require().NoError(err)
	s.Assert().Equal(1, stat.CorrectCount)
}

func (s *ProgressRepositorySuite) TestSummaryForUnknownUserIsZero() {
	summary, err := s.repo.Summary(context.Background(), 9999)
	s.Require().NoError(err)
	s.Assert().Equal(0, summary.WordsLearned)
	s.Assert().Equal(0, summary.SessionsCompleted)
	s.Assert().Equal(0, summary.CorrectTotal)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
