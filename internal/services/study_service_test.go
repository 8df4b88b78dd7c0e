package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository/sqlstore"
	"github.com/mirzamitdinovs/vocab-master/internal/services"
	"github.com/mirzamitdinovs/vocab-master/internal/testutil"
)

type StudyServiceSuite struct {
	suite.Suite
	db    *db.DB
	study services.StudyService

	userID    int64
	chapterID int64
	wordIDs   []int64
}

func (s *StudyServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	progress := sqlstore.NewProgressRepository(s.db.DB)
	catalog := sqlstore.NewCatalogRepository(s.db.DB)
	users := sqlstore.NewUserRepository(s.db.DB)
	s.study = services.NewStudyService(progress, catalog, users, 200)

	s.userID = testutil.SeedUser(s.T(), s.db, "Student", "+998900000002", false)
	s.chapterID = testutil.SeedChapter(s.T(), s.db, "ko", "Beginner", "Chapter 1")
	s.wordIDs = nil
	for i, korean := range []string{"하나", "둘", "셋"} {
		id := testutil.SeedWord(s.T(), s.db, s.chapterID, korean, "number", i+1)
		s.wordIDs = append(s.wordIDs, id)
	}
}

func (s *StudyServiceSuite) assertCode(err error, code string) {
	s.T().Helper()
	var appErr *apperr.Error
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(code, appErr.Code)
}

func (s *StudyServiceSuite) TestSessionWordsFullFlow() {
	ctx := context.Background()

	words, err := s.study.SessionWords(ctx, s.userID, []int64{s.chapterID}, 0)
	s.Require().NoError(err)
	s.Require().Len(words, 3)
	s.Assert().Equal("하나", words[0].Korean)

	// A correct answer marks the word learned and drops it from sessions.
	stat, err := s.study.RecordAnswer(ctx, s.userID, words[0].ID, true)
	s.Require().NoError(err)
	s.Assert().Equal(1, stat.CorrectCount)

	words, err = s.study.SessionWords(ctx, s.userID, []int64{s.chapterID}, 0)
	s.Require().NoError(err)
	s.Assert().Len(words, 2)
}

func (s *StudyServiceSuite) TestSessionWordsLimitHandling() {
	ctx := context.Background()
	progress := sqlstore.NewProgressRepository(s.db.DB)
	catalog := sqlstore.NewCatalogRepository(s.db.DB)
	users := sqlstore.NewUserRepository(s.db.DB)
	study := services.NewStudyService(progress, catalog, users, 2)

	// Omitting the limit returns every eligible word, even past the cap.
	words, err := study.SessionWords(ctx, s.userID, []int64{s.chapterID}, 0)
	s.Require().NoError(err)
	s.Assert().Len(words, 3)

	// A supplied limit above the cap is clamped to it.
	words, err = study.SessionWords(ctx, s.userID, []int64{s.chapterID}, 5)
	s.Require().NoError(err)
	s.Assert().Len(words, 2)

	words, err = study.SessionWords(ctx, s.userID, []int64{s.chapterID}, 1)
	s.Require().NoError(err)
	s.Assert().Len(words, 1)
}

func (s *StudyServiceSuite) TestSessionWordsNoChapters() {
	words, err := s.study.SessionWords(context.Background(), s.userID, nil, 10)
	s.Require().NoError(err)
	s.Assert().Empty(words)
}

func (s *StudyServiceSuite) TestSessionWordsUnknownUser() {
	_, err := s.study.SessionWords(context.Background(), 9999, []int64{s.chapterID}, 10)
	s.assertCode(err, apperr.CodeNotFound)
}

func (s *StudyServiceSuite) TestRecordAnswerUnknownWord() {
	_, err := s.study.RecordAnswer(context.Background(), s.userID, 9999, true)
	s.assertCode(err, apperr.CodeNotFound)
}

func (s *StudyServiceSuite) TestRecordAnswersRejectsBadBatch() {
	ctx := context.Background()

	err := s.study.RecordAnswers(ctx, s.userID, []models.Answer{
		{WordID: s.wordIDs[0], Correct: true},
		{WordID: 9999, Correct: true},
	})
	s.assertCode(err, apperr.CodeNotFound)

	// Nothing from the batch may have been recorded.
	stats, err := s.study.Stats(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(0, stats.CorrectTotal)
}

func (s *StudyServiceSuite) TestCompleteSessionReturnsSummary() {
	ctx := context.Background()

	err := s.study.RecordAnswers(ctx, s.userID, []models.Answer{
		{WordID: s.wordIDs[0], Correct: true},
		{WordID: s.wordIDs[1], Correct: false},
	})
	s.Require().NoError(err)

	summary, err := s.study.CompleteSession(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(1, summary.SessionsCompleted)
	s.Assert().Equal(1, summary.WordsLearned)
	s.Assert().Equal(3, summary.TotalWords)
	s.Assert().Equal(1, summary.CorrectTotal)
	s.Assert().Equal(1, summary.IncorrectTotal)
}

func (s *StudyServiceSuite) TestClearProgress() {
	ctx := context.Background()

	_, err := s.study.RecordAnswer(ctx, s.userID, s.wordIDs[0], true)
	s.Require().NoError(err)
	_, err = s.study.CompleteSession(ctx, s.userID)
	s.Require().NoError(err)

	s.Require().NoError(s.study.ClearProgress(ctx, s.userID))

	stats, err := s.study.Stats(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(0, stats.WordsLearned)
	s.Assert().Equal(0, stats.SessionsCompleted)
	s.Assert().Equal(0, stats.CorrectTotal)

	words, err := s.study.SessionWords(ctx, s.userID, []int64{s.chapterID}, 0)
	s.Require().NoError(err)
	s.Assert().Len(words, 3)
}

func TestStudyServiceSuite(t *testing.T) {
	suite.Run(t, new(StudyServiceSuite))
}
