package invoice

import (
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/api"
	"fitclub/internal/logger"
	"fitclub/internal/member"
	"fitclub/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create an invoice
// @Tags         invoices,admin
// @Accept       json
// @Produce      json
// @Param        request body invoice.CreateInvoiceRequest true "Invoice payload"
// @Success      201 {object} invoice.Invoice
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /invoices [post]
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	inv, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create invoice")
		return
	}

	metrics.RecordInvoiceCreated()
	c.JSON(http.StatusCreated, inv)
}

// @Summary      List invoices
// @Description  Newest first.
// @Tags         invoices,admin
// @Produce      json
// @Success      200 {array} invoice.Invoice
// @Router       /invoices [get]
func (h *Handler) ListInvoices(c *gin.Context) {
	invoices, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// @Summary      Mark an invoice paid
// @Tags         invoices,admin
// @Accept       json
// @Produce      json
// @Param        id      path int                       true  "Invoice ID"
// @Param        request body invoice.PayInvoiceRequest false "Payment method"
// @Success      200 {object} invoice.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /invoices/{id}/pay [post]
func (h *Handler) PayInvoice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid invoice ID"})
		return
	}

	var req PayInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.RespondBindError(c, err)
			return
		}
	}

	inv, err := h.service.MarkPaid(c.Request.Context(), id, req.PaymentMethod)
	if err != nil {
		writeError(c, err, "Failed to pay invoice")
		return
	}

	metrics.RecordInvoicePaid(inv.AmountCents)
	c.JSON(http.StatusOK, inv)
}

// @Summary      List a member's invoices
// @Tags         invoices,members
// @Produce      json
// @Param        id path int true "Member ID"
// @Success      200 {array} invoice.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id}/invoices [get]
func (h *Handler) ListMemberInvoices(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	invoices, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		writeError(c, err, "Failed to fetch invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvoiceNotFound), errors.Is(err, member.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrAlreadyPaid):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
