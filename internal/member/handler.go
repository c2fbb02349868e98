package member

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"
	"fitclub/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

// @Summary      Register a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body member.RegisterMemberRequest true "Member payload"
// @Success      201 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /members [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	m, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to register member")
		return
	}

	metrics.RecordMemberRegistered()
	c.JSON(http.StatusCreated, m)
}

// @Summary      List members
// @Tags         members,admin
// @Produce      json
// @Success      200 {array} member.Member
// @Failure      500 {object} api.ErrorResponse
// @Router       /members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.service.GetAllMembers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary      Search members by name
// @Description  Case-insensitive substring match with each member's last metric and active goal.
// @Tags         members,trainers
// @Produce      json
// @Param        q query string false "Name fragment"
// @Success      200 {array} member.SearchResult
// @Failure      500 {object} api.ErrorResponse
// @Router       /members/search [get]
func (h *Handler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeError(c, err, "Failed to search members")
		return
	}

	c.JSON(http.StatusOK, results)
}

// @Summary      Get member
// @Tags         members
// @Produce      json
// @Param        id path int true "Member ID"
// @Success      200 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [get]
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	m, err := h.service.GetMemberByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch member")
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Update member profile
// @Description  Non-empty fields overwrite. A goal description replaces the active fitness goal.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "Member ID"
// @Param        request body member.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	m, err := h.service.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Record a health metric
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id      path int                            true "Member ID"
// @Param        request body member.AddHealthMetricRequest true "Measurements"
// @Success      201 {object} member.HealthMetric
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id}/metrics [post]
func (h *Handler) AddHealthMetric(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	var req AddHealthMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	metric, err := h.service.AddHealthMetric(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to record metric")
		return
	}

	c.JSON(http.StatusCreated, metric)
}

// @Summary      Member dashboard
// @Tags         members
// @Produce      json
// @Param        id path int true "Member ID"
// @Success      200 {object} member.Dashboard
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id}/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	dash, err := h.service.Dashboard(c.Request.Context(), id, schedule.WallClock(h.now()))
	if err != nil {
		h.writeError(c, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dash)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidMember):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrEmailExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

func memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return 0, false
	}
	return id, true
}
