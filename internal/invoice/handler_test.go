package invoice

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRouter(repo *MockRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(repo, knownMembers()))

	r := gin.New()
	r.POST("/invoices", h.CreateInvoice)
	r.GET("/invoices", h.ListInvoices)
	r.POST("/invoices/:id/pay", h.PayInvoice)
	r.GET("/members/:id/invoices", h.ListMemberInvoices)
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

func TestHandler_CreateInvoice(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil)
	r := setupRouter(repo)

	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/invoices", `{"member_id":1,"amount_cents":4500}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/invoices", `{"member_id":1,"amount_cents":-5}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/invoices", `{"member_id":9,"amount_cents":100}`).Code)
}

func TestHandler_PayInvoice(t *testing.T) {
	repo := new(MockRepository)
	repo.On("MarkPaid", mock.Anything, 3, "cash", fixedNow).Return(&Invoice{ID: 3, AmountCents: 4500, Status: StatusPaid}, nil)
	repo.On("MarkPaid", mock.Anything, 4, "", fixedNow).Return(nil, ErrAlreadyPaid)
	repo.On("MarkPaid", mock.Anything, 5, "", fixedNow).Return(nil, sql.ErrNoRows)
	r := setupRouter(repo)

	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/invoices/3/pay", `{"payment_method":"cash"}`).Code)
	assert.Equal(t, http.StatusConflict, send(r, http.MethodPost, "/invoices/4/pay", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/invoices/5/pay", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/invoices/x/pay", "").Code)
}

func TestHandler_ListMemberInvoices(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetInvoicesByMember", mock.Anything, 1).Return([]Invoice{{ID: 1}}, nil)
	r := setupRouter(repo)

	w := send(r, http.MethodGet, "/members/1/invoices", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/members/9/invoices", "").Code)
}
