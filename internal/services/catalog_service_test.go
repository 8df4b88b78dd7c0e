package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository/sqlstore"
	"github.com/mirzamitdinovs/vocab-master/internal/services"
	"github.com/mirzamitdinovs/vocab-master/internal/testutil"
)

type CatalogServiceSuite struct {
	suite.Suite
	db      *db.DB
	catalog services.CatalogService

	adminID   int64
	chapterID int64
}

func (s *CatalogServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	catalogRepo := sqlstore.NewCatalogRepository(s.db.DB)
	userRepo := sqlstore.NewUserRepository(s.db.DB)
	s.catalog = services.NewCatalogService(catalogRepo, userRepo)

	s.adminID = testutil.SeedUser(s.T(), s.db, "Admin", "+998901202467", true)
	s.chapterID = testutil.SeedChapter(s.T(), s.db, "ko", "Beginner", "Chapter 1")
}

func (s *CatalogServiceSuite) TestCreateWordWithLocalizedTranslations() {
	ctx := context.Background()

	ru := "привет"
	uz := "salom"
	word, err := s.catalog.CreateWord(ctx, s.adminID, models.Word{
		ChapterID:    s.chapterID,
		Korean:       "안녕",
		Translations: models.Translations{En: "hello", Ru: &ru, Uz: &uz},
		Order:        1,
	})
	s.Require().NoError(err)
	s.Assert().Equal("hello", word.Translation)
	s.Require().NotNil(word.Translations.Ru)
	s.Assert().Equal("привет", *word.Translations.Ru)
	s.Require().NotNil(word.Translations.Uz)
	s.Assert().Equal("salom", *word.Translations.Uz)
}

func (s *CatalogServiceSuite) TestCreateWordPlainTranslation() {
	word, err := s.catalog.CreateWord(context.Background(), s.adminID, models.Word{
		ChapterID:   s.chapterID,
		Korean:      "감사",
		Translation: "thanks",
		Order:       1,
	})
	s.Require().NoError(err)
	s.Assert().Equal("thanks", word.Translation)
	s.Assert().Nil(word.Translations.Ru)
}

func (s *CatalogServiceSuite) TestUpdateWordAddsLocalizedTranslations() {
	ctx := context.Background()

	word, err := s.catalog.CreateWord(ctx, s.adminID, models.Word{
		ChapterID:   s.chapterID,
		Korean:      "바다",
		Translation: "sea",
		Order:       1,
	})
	s.Require().NoError(err)

	ru := "море"
	updated, err := s.catalog.UpdateWord(ctx, s.adminID, models.Word{
		ID:           word.ID,
		ChapterID:    s.chapterID,
		Korean:       "바다",
		Translations: models.Translations{En: "sea", Ru: &ru},
		Order:        1,
	})
	s.Require().NoError(err)
	s.Assert().Equal("sea", updated.Translation)
	s.Require().NotNil(updated.Translations.Ru)
	s.Assert().Equal("море", *updated.Translations.Ru)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}
