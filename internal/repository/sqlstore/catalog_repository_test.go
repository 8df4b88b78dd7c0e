package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
	"github.com/mirzamitdinovs/vocab-master/internal/repository/sqlstore"
	"github.com/mirzamitdinovs/vocab-master/internal/testutil"
)

type CatalogRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.CatalogRepository
}

func (s *CatalogRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlstore.NewCatalogRepository(s.db.DB)
}

func (s *CatalogRepositorySuite) seedHierarchy() (langID, levelID, chapterID int64) {
	ctx := context.Background()
	var err error

	langID, err = s.repo.InsertLanguage(ctx, models.Language{Key: "ko", Value: "Korean"})
	s.Require().NoError(err)
	levelID, err = s.repo.InsertLevel(ctx, models.Level{LanguageID: langID, Title: "Beginner", Order: 1})
	s.Require().NoError(err)
	chapterID, err = s.repo.InsertChapter(ctx, models.Chapter{LevelID: levelID, Title: "Greetings", Order: 1})
	s.Require().NoError(err)
	return langID, levelID, chapterID
}

func (s *CatalogRepositorySuite) TestLanguageCRUD() {
	ctx := context.Background()

	id, err := s.repo.InsertLanguage(ctx, models.Language{Key: "ko", Value: "Korean"})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	lang, err := s.repo.GetLanguage(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("ko", lang.Key)
	s.Assert().Equal("Korean", lang.Value)

	lang.Value = "한국어"
	s.Require().NoError(s.repo.UpdateLanguage(ctx, *lang))

	langs, err := s.repo.Languages(ctx)
	s.Require().NoError(err)
	s.Require().Len(langs, 1)
	s.Assert().Equal("한국어", langs[0].Value)

	s.Require().NoError(s.repo.DeleteLanguage(ctx, id))
	_, err = s.repo.GetLanguage(ctx, id)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *CatalogRepositorySuite) TestDuplicateLanguageKey() {
	ctx := context.Background()

	_, err := s.repo.InsertLanguage(ctx, models.Language{Key: "ko", Value: "Korean"})
	s.Require().NoError(err)
	_, err = s.repo.InsertLanguage(ctx, models.Language{Key: "ko", Value: "Korean again"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func (s *CatalogRepositorySuite) TestUpdateMissingRowReturnsNoRows() {
	err := s.repo.UpdateLevel(context.Background(), models.Level{ID: 404, Title: "ghost"})
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *CatalogRepositorySuite) TestDeleteLanguageCascades() {
	ctx := context.Background()
	langID, levelID, chapterID := s.seedHierarchy()

	_, err := s.repo.InsertWord(ctx, models.Word{ChapterID: chapterID, Korean: "안녕", Translation: "hello", Order: 1})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.DeleteLanguage(ctx, langID))

	levels, err := s.repo.Levels(ctx, langID)
	s.Require().NoError(err)
	s.Assert().Empty(levels)
	_, err = s.repo.GetLevel(ctx, levelID)
	s.Assert().ErrorIs(err, sql.ErrNoRows)

	count, err := s.repo.CountWords(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func (s *CatalogRepositorySuite) TestGetChapterByTitle() {
	ctx := context.Background()
	_, levelID, chapterID := s.seedHierarchy()

	chapter, err := s.repo.GetChapterByTitle(ctx, levelID, "Greetings")
	s.Require().NoError(err)
	s.Require().NotNil(chapter)
	s.Assert().Equal(chapterID, chapter.ID)

	chapter, err = s.repo.GetChapterByTitle(ctx, levelID, "Nope")
	s.Require().NoError(err)
	s.Assert().Nil(chapter)
}

func (s *CatalogRepositorySuite) TestWordTranslationNormalization() {
	ctx := context.Background()
	_, _, chapterID := s.seedHierarchy()

	id, err := s.repo.InsertWord(ctx, models.Word{
		ChapterID:   chapterID,
		Korean:      "사과",
		Translation: `{"en":"apple","ru":"яблоко","uz":"olma"}`,
		Order:       1,
	})
	s.Require().NoError(err)

	word, err := s.repo.GetWord(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("apple", word.Translations.En)
	s.Require().NotNil(word.Translations.Ru)
	s.Assert().Equal("яблоко", *word.Translations.Ru)
}

func (s *CatalogRepositorySuite) TestInsertWordsSkipDuplicates() {
	ctx := context.Background()
	_, _, chapterID := s.seedHierarchy()

	_, err := s.repo.InsertWord(ctx, models.Word{ChapterID: chapterID, Korean: "안녕", Translation: "hello", Order: 1})
	s.Require().NoError(err)

	inserted, err := s.repo.InsertWordsSkipDuplicates(ctx, []models.Word{
		{ChapterID: chapterID, Korean: "안녕", Translation: "hello", Order: 1},
		{ChapterID: chapterID, Korean: "감사", Translation: "thanks", Order: 2},
		{ChapterID: chapterID, Korean: "사랑", Translation: "love", Order: 3},
	})
	s.Require().NoError(err)
	s.Assert().Equal(2, inserted)

	words, err := s.repo.Words(ctx, chapterID)
	s.Require().NoError(err)
	s.Assert().Len(words, 3)
}

func (s *CatalogRepositorySuite) TestCatalogTree() {
	ctx := context.Background()
	langID, levelID, chapterID := s.seedHierarchy()

	emptyChapterID, err := s.repo.InsertChapter(ctx, models.Chapter{LevelID: levelID, Title: "Food", Order: 2})
	s.Require().NoError(err)
	_, err = s.repo.InsertWord(ctx, models.Word{ChapterID: chapterID, Korean: "안녕", Translation: "hello", Order: 1})
	s.Require().NoError(err)

	tree, err := s.repo.CatalogTree(ctx)
	s.Require().NoError(err)
	s.Require().Len(tree, 1)
	s.Assert().Equal(langID, tree[0].ID)
	s.Require().Len(tree[0].Levels, 1)
	s.Require().Len(tree[0].Levels[0].Chapters, 2)
	s.Assert().Len(tree[0].Levels[0].Chapters[0].Words, 1)
	s.Assert().Equal(emptyChapterID, tree[0].Levels[0].Chapters[1].ID)
	s.Assert().Empty(tree[0].Levels[0].Chapters[1].Words)
}

func (s *CatalogRepositorySuite) TestWordsMissingAudio() {
	ctx := context.Background()
	_, _, chapterID := s.seedHierarchy()

	id1, err := s.repo.InsertWord(ctx, models.Word{ChapterID: chapterID, Korean: "안녕", Translation: "hello", Order: 1})
	s.Require().NoError(err)
	id2, err := s.repo.InsertWord(ctx, models.Word{ChapterID: chapterID, Korean: "감사", Translation: "thanks", Order: 2})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.SetWordAudio(ctx, id1, "audio/1.mp3"))

	missing, err := s.repo.WordsMissingAudio(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(missing, 1)
	s.Assert().Equal(id2, missing[0].ID)
}

func TestCatalogRepositorySuite(t *testing.T) {
	suite.Run(t, new(CatalogRepositorySuite))
}
