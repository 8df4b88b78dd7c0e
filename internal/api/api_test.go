package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mirzamitdinovs/vocab-master/internal/api"
	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository/sqlstore"
	"github.com/mirzamitdinovs/vocab-master/internal/services"
	"github.com/mirzamitdinovs/vocab-master/internal/testutil"
)

type APISuite struct {
	suite.Suite
	db      *db.DB
	server  *httptest.Server
	adminID int64
	userID  int64
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	catalogRepo := sqlstore.NewCatalogRepository(s.db.DB)
	userRepo := sqlstore.NewUserRepository(s.db.DB)
	progressRepo := sqlstore.NewProgressRepository(s.db.DB)

	srv := &api.Server{
		Users:      services.NewUserService(userRepo, progressRepo, "+998901202467"),
		Catalog:    services.NewCatalogService(catalogRepo, userRepo),
		Study:      services.NewStudyService(progressRepo, catalogRepo, userRepo, 200),
		Imports:    services.NewImportService(catalogRepo, userRepo),
		CORSOrigin: "*",
	}
	s.server = httptest.NewServer(srv.Routes())
	s.T().Cleanup(s.server.Close)

	s.adminID = testutil.SeedUser(s.T(), s.db, "Admin", "+998901202467", true)
	s.userID = testutil.SeedUser(s.T(), s.db, "Student", "+998900000020", false)
}

func (s *APISuite) request(method, path string, body any, asUser int64) *http.Response {
	s.T().Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if asUser != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", asUser))
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](s *APISuite, resp *http.Response) T {
	s.T().Helper()
	var v T
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s *APISuite) TestHealth() {
	resp := s.request(http.MethodGet, "/health", nil, 0)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func (s *APISuite) TestUserUpsertAndSettings() {
	resp := s.request(http.MethodPost, "/api/users", map[string]string{
		"name": "Aziz", "phone": "+998900000021",
	}, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	user := decode[models.User](s, resp)
	s.Assert().False(user.IsAdmin)

	resp = s.request(http.MethodGet, fmt.Sprintf("/api/users/%d/settings", user.ID), nil, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	settings := decode[models.LearningSettings](s, resp)
	s.Assert().Equal(10, settings.LearnSessionSize)
}

func (s *APISuite) TestCatalogMutationsRequireAdmin() {
	lang := map[string]any{"key": "ko", "value": "Korean"}

	resp := s.request(http.MethodPost, "/api/languages", lang, s.userID)
	s.Assert().Equal(http.StatusForbidden, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Assert().Equal("UNAUTHORIZED", envelope.Error.Code)

	resp = s.request(http.MethodPost, "/api/languages", lang, s.adminID)
	s.Assert().Equal(http.StatusCreated, resp.StatusCode)
}

func (s *APISuite) TestStudyFlow() {
	chapterID := testutil.SeedChapter(s.T(), s.db, "ko", "Beginner", "Chapter 1")
	wordID := testutil.SeedWord(s.T(), s.db, chapterID, "안녕", "hello", 1)
	testutil.SeedWord(s.T(), s.db, chapterID, "감사", "thanks", 2)

	resp := s.request(http.MethodGet,
		fmt.Sprintf("/api/session-words?user_id=%d&chapter_ids=%d", s.userID, chapterID), nil, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	words := decode[[]models.Word](s, resp)
	s.Require().Len(words, 2)

	resp = s.request(http.MethodPost, "/api/answers", map[string]any{
		"user_id": s.userID, "word_id": wordID, "correct": true,
	}, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	stat := decode[models.WordStat](s, resp)
	s.Assert().Equal(1, stat.CorrectCount)

	resp = s.request(http.MethodPost, "/api/sessions/complete", map[string]any{"user_id": s.userID}, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	summary := decode[models.UserStatSummary](s, resp)
	s.Assert().Equal(1, summary.SessionsCompleted)
	s.Assert().Equal(1, summary.WordsLearned)
	s.Assert().Equal(2, summary.TotalWords)

	resp = s.request(http.MethodPost, "/api/words/clear", map[string]any{"user_id": s.userID}, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, fmt.Sprintf("/api/stats?user_id=%d", s.userID), nil, 0)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	summary = decode[models.UserStatSummary](s, resp)
	s.Assert().Equal(0, summary.WordsLearned)
	s.Assert().Equal(0, summary.SessionsCompleted)
}

func (s *APISuite) TestChapterImportUpload() {
	chapterID := testutil.SeedChapter(s.T(), s.db, "ko", "Beginner", "Chapter 1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "words.csv")
	s.Require().NoError(err)
	_, err = io.Copy(part, strings.NewReader("order,korean,translation\n1,안녕,hello\n2,감사,thanks\n"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/chapters/%d/import", s.server.URL, chapterID), &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-ID", fmt.Sprintf("%d", s.adminID))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Require().Equal(http.StatusOK, resp.StatusCode)
	result := decode[models.ImportResult](s, resp)
	s.Assert().Equal(2, result.Inserted)
	s.Assert().Empty(result.Errors)
}

func (s *APISuite) TestUnknownUserIsNotFound() {
	resp := s.request(http.MethodGet, "/api/stats?user_id=9999", nil, 0)
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
