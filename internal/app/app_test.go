package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"yamdb/internal/model"
	"yamdb/pkg/database"
	"yamdb/pkg/jwt"
	"yamdb/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mailbox records the last code dispatched to each username.
type mailbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *mailbox) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[username] = code
	return nil
}

func (m *mailbox) code(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[username]
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	mail   *mailbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB(database.MemoryDSN(uuid.NewString()), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	mail := &mailbox{codes: map[string]string{}}
	router, err := NewRouter(Dependencies{
		DB:     db,
		JWT:    jwt.NewService("test-secret"),
		Sender: mail,
		Now:    func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
		Log:    logger.New(),
	})
	require.NoError(t, err)

	return &testServer{router: router, db: db, mail: mail}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register runs signup and token exchange and returns the access token.
func (s *testServer) register(t *testing.T, username, role string) string {
	t.Helper()

	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"username": username, "email": username + "@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	if role != "" {
		require.NoError(t, s.db.Model(&model.UserModel{}).Where("username = ?", username).Update("role", role).Error)
	}

	w = s.do(http.MethodPost, "/api/v1/auth/token", "", gin.H{"username": username, "confirmation_code": s.mail.code(username)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestAPI_SignupTokenAndProfile(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice", "")

	w := s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decode(t, w, &me)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "user", me.Role)

	// Role changes through /users/me are ignored.
	w = s.do(http.MethodPatch, "/api/v1/users/me", token, gin.H{"role": "admin", "bio": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &me)
	assert.Equal(t, "user", me.Role)

	w = s.do(http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_WrongCodeAndReservedName(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"username": "bob", "email": "bob@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/token", "", gin.H{"username": "bob", "confirmation_code": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/token", "", gin.H{"username": "nobody", "confirmation_code": "000000"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"username": "Me", "email": "me@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"username": "bob", "email": "other@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPI_CatalogPermissions(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "alice", "")
	admin := s.register(t, "root", "admin")

	body := gin.H{"name": "Films", "slug": "films"}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/categories", "", body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/categories", user, body).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/categories", admin, body).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/categories", admin, body).Code)

	w := s.do(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1,"results":[{"name":"Films","slug":"films"}]}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/v1/categories/films", user, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/categories/films", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/categories/films", admin, nil).Code)
}

func TestAPI_TitleReviewsAndRating(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "root", "admin")
	alice := s.register(t, "alice", "")
	bob := s.register(t, "bob", "")
	mod := s.register(t, "mod", "moderator")

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/categories", admin, gin.H{"name": "Films", "slug": "films"}).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/genres", admin, gin.H{"name": "Drama", "slug": "drama"}).Code)

	w := s.do(http.MethodPost, "/api/v1/titles", admin, gin.H{
		"name": "The Godfather", "year": 1972, "category": "films", "genre": []string{"drama"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var title struct {
		ID     uint     `json:"id"`
		Rating *float64 `json:"rating"`
	}
	decode(t, w, &title)
	assert.Nil(t, title.Rating)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/titles", admin, gin.H{
		"name": "Future", "year": 2999, "genre": []string{"drama"},
	}).Code)

	reviews := "/api/v1/titles/" + itoa(title.ID) + "/reviews"
	w = s.do(http.MethodPost, reviews, alice, gin.H{"text": "Classic", "score": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var review struct {
		ID     uint   `json:"id"`
		Author string `json:"author"`
	}
	decode(t, w, &review)
	assert.Equal(t, "alice", review.Author)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, reviews, alice, gin.H{"text": "Again", "score": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, reviews, bob, gin.H{"text": "Meh", "score": 11}).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, reviews, bob, gin.H{"text": "Good", "score": 5}).Code)

	w = s.do(http.MethodGet, "/api/v1/titles/"+itoa(title.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &title)
	require.NotNil(t, title.Rating)
	assert.InDelta(t, 7.5, *title.Rating, 1e-9)

	reviewPath := reviews + "/" + itoa(review.ID)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, reviewPath, bob, gin.H{"score": 1}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPatch, reviewPath, mod, gin.H{"text": "Moderated"}).Code)

	comments := reviewPath + "/comments"
	w = s.do(http.MethodPost, comments, bob, gin.H{"text": "Agreed"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, comments, "", gin.H{"text": "Anon"}).Code)

	w = s.do(http.MethodGet, comments, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int64 `json:"count"`
	}
	decode(t, w, &list)
	assert.Equal(t, int64(1), list.Count)

	// Deleting the review takes its comments with it and updates the rating.
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, reviewPath, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, comments, "", nil).Code)

	w = s.do(http.MethodGet, "/api/v1/titles?genre=drama&year=1972", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var titles struct {
		Count   int64 `json:"count"`
		Results []struct {
			Rating *float64 `json:"rating"`
		} `json:"results"`
	}
	decode(t, w, &titles)
	require.Equal(t, int64(1), titles.Count)
	assert.InDelta(t, 5.0, *titles.Results[0].Rating, 1e-9)
}

func TestAPI_DeletedUserTokenStopsWorking(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "root", "admin")
	alice := s.register(t, "alice", "")

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/users/alice", admin, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", alice, nil).Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
