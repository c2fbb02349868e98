package member

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(repo *MockRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(repo))
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	r.POST("/members", h.Register)
	r.GET("/members", h.ListMembers)
	r.GET("/members/search", h.Search)
	r.GET("/members/:id", h.GetMember)
	r.PATCH("/members/:id", h.UpdateProfile)
	r.POST("/members/:id/metrics", h.AddHealthMetric)
	r.GET("/members/:id/dashboard", h.Dashboard)
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(*MockRepository)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"name":"Sam","email":"sam@example.com","date_of_birth":"1990-04-12"}`,
			mockSetup: func(m *MockRepository) {
				m.On("CreateMember", mock.Anything, mock.Anything).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       `{"name":"Sam","email":"not-an-email"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"name":"Sam","email":"sam@example.com"}`,
			mockSetup: func(m *MockRepository) {
				m.On("CreateMember", mock.Anything, mock.Anything).Return(ErrEmailExists)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.mockSetup != nil {
				tt.mockSetup(repo)
			}

			w := send(setupRouter(repo), http.MethodPost, "/members", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandler_GetMember(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetMemberByID", mock.Anything, 1).Return(&Member{ID: 1, Name: "Sam"}, nil)
	repo.On("GetMemberByID", mock.Anything, 2).Return(nil, sql.ErrNoRows)
	r := setupRouter(repo)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/members/1", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/members/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/members/abc", "").Code)
}

func TestHandler_Search(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SearchMembersByName", mock.Anything, "sam").Return([]Member{{ID: 1, Name: "Sam"}}, nil)
	repo.On("LatestMetric", mock.Anything, 1).Return(nil, nil)
	repo.On("ActiveGoal", mock.Anything, 1).Return(nil, nil)
	r := setupRouter(repo)

	w := send(r, http.MethodGet, "/members/search?q=sam", "")
	require.Equal(t, http.StatusOK, w.Code)

	var results []SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Len(t, results, 1)

	w = send(r, http.MethodGet, "/members/search", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_UpdateProfile(t *testing.T) {
	repo := new(MockRepository)
	repo.On("UpdateProfile", mock.Anything, 1, mock.MatchedBy(func(u ProfileUpdate) bool {
		return u.Phone == "555-0100" && u.Now.Equal(fixedNow)
	})).Return(&Member{ID: 1, Phone: "555-0100"}, nil)
	repo.On("UpdateProfile", mock.Anything, 2, mock.Anything).Return(nil, sql.ErrNoRows)
	r := setupRouter(repo)

	assert.Equal(t, http.StatusOK, send(r, http.MethodPatch, "/members/1", `{"phone":"555-0100"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPatch, "/members/2", `{"phone":"555-0100"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/members/1", `{"target_weight_kg":-3}`).Code)
}

func TestHandler_AddHealthMetric(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetMemberByID", mock.Anything, 1).Return(&Member{ID: 1}, nil)
	repo.On("GetMemberByID", mock.Anything, 2).Return(nil, sql.ErrNoRows)
	repo.On("AddHealthMetric", mock.Anything, mock.Anything).Return(nil)
	r := setupRouter(repo)

	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/members/1/metrics", `{"weight_kg":81.2}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/members/2/metrics", `{"weight_kg":81.2}`).Code)
}

func TestHandler_Dashboard(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetMemberByID", mock.Anything, 1).Return(&Member{ID: 1, Name: "Sam"}, nil)
	repo.On("LatestMetric", mock.Anything, 1).Return(nil, nil)
	repo.On("ActiveGoal", mock.Anything, 1).Return(nil, nil)
	repo.On("CountPastClasses", mock.Anything, 1, fixedNow).Return(2, nil)
	repo.On("UpcomingPTSessions", mock.Anything, 1, fixedNow).Return(nil, nil)
	r := setupRouter(repo)

	w := send(r, http.MethodGet, "/members/1/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dash Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.PastClassesCount)
	assert.NotNil(t, dash.UpcomingPTSessions)
}
