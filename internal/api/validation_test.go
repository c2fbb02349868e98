package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string `json:"title" binding:"required"`
	Capacity int    `json:"capacity" binding:"omitempty,min=1"`
	Email    string `json:"email" binding:"omitempty,email"`
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sample", func(c *gin.Context) {
		var req sampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/sample", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRespondBindError_FieldDetails(t *testing.T) {
	w := post(bindRouter(), `{"capacity":0,"email":"nope"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)

	byField := map[string]ValidationError{}
	for _, d := range resp.Details {
		byField[d.Field] = d
	}
	assert.Equal(t, "Title is required", byField["Title"].Message)
	assert.Equal(t, "email", byField["Email"].Tag)
}

func TestRespondBindError_MalformedBody(t *testing.T) {
	w := post(bindRouter(), `{"title":`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "invalid request body")
}

func TestRespondBindError_Accepts(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, post(bindRouter(), `{"title":"Yoga"}`).Code)
}
