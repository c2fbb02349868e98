package schedule

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/db"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Notifier queues confirmations for accepted bookings. Implementations must
// return promptly and swallow their own failures.
type Notifier interface {
	ClassRegistered(ctx context.Context, memberID, classSessionID int)
	PTSessionBooked(ctx context.Context, memberID, ptSessionID int)
}

type Handler struct {
	service         Service
	defaultCapacity int
	notifier        Notifier
	now             func() time.Time
}

// NewHandler wires the scheduling endpoints. notifier may be nil.
func NewHandler(service Service, defaultCapacity int, notifier Notifier) *Handler {
	return &Handler{
		service:         service,
		defaultCapacity: defaultCapacity,
		notifier:        notifier,
		now:             time.Now,
	}
}

// @Summary      Create a class session
// @Description  Schedules a group class. Capacity defaults to the configured value when omitted.
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request body schedule.CreateClassSessionRequest true "Class session payload"
// @Success      201 {object} schedule.ClassSession
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /classes [post]
func (h *Handler) CreateClassSession(c *gin.Context) {
	var req CreateClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	capacity := h.defaultCapacity
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	session, err := h.service.CreateClassSession(c.Request.Context(), CreateClassSessionInput{
		Title:     req.Title,
		TrainerID: req.TrainerID,
		RoomID:    req.RoomID,
		Start:     req.StartTime,
		End:       req.EndTime,
		Capacity:  capacity,
	})
	recordBooking(string(BookingClass), err)
	if err != nil {
		writeError(c, err)
		return
	}

	logger.Info("class session created", "class_session_id", session.ID, "room_id", session.RoomID, "trainer_id", session.TrainerID)
	c.JSON(http.StatusCreated, session)
}

// @Summary      Create a personal training session
// @Description  Books a PT session inside one of the trainer's availability windows.
// @Tags         pt-sessions
// @Accept       json
// @Produce      json
// @Param        request body schedule.CreatePTSessionRequest true "PT session payload"
// @Success      201 {object} schedule.PTSession
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /pt-sessions [post]
func (h *Handler) CreatePTSession(c *gin.Context) {
	var req CreatePTSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	session, err := h.service.CreatePTSession(ctx, CreatePTSessionInput{
		MemberID:  req.MemberID,
		TrainerID: req.TrainerID,
		RoomID:    req.RoomID,
		Start:     req.StartTime,
		End:       req.EndTime,
	})
	recordBooking(string(BookingPT), err)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.PTSessionBooked(ctx, session.MemberID, session.ID)
	}
	c.JSON(http.StatusCreated, session)
}

// @Summary      Move a class session to another room
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "Class session ID"
// @Param        request body schedule.MoveRoomRequest true "Target room"
// @Success      200 {object} schedule.ClassSession
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /classes/{id}/room [put]
func (h *Handler) MoveClassSessionRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req MoveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	session, err := h.service.MoveClassSessionRoom(c.Request.Context(), id, req.RoomID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary      Move a PT session to another room
// @Tags         pt-sessions
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "PT session ID"
// @Param        request body schedule.MoveRoomRequest true "Target room"
// @Success      200 {object} schedule.PTSession
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /pt-sessions/{id}/room [put]
func (h *Handler) MovePTSessionRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req MoveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	session, err := h.service.MovePTSessionRoom(c.Request.Context(), id, req.RoomID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary      Complete or cancel a PT session
// @Tags         pt-sessions
// @Accept       json
// @Produce      json
// @Param        id      path int                            true "PT session ID"
// @Param        request body schedule.UpdatePTStatusRequest true "New status"
// @Success      200 {object} schedule.PTSession
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /pt-sessions/{id}/status [put]
func (h *Handler) SetPTSessionStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdatePTStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	session, err := h.service.SetPTSessionStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary      Register a member for a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id      path int                               true "Class session ID"
// @Param        request body schedule.RegisterForClassRequest true "Member"
// @Success      201 {object} schedule.ClassRegistration
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /classes/{id}/registrations [post]
func (h *Handler) RegisterForClass(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RegisterForClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	reg, err := h.service.RegisterForClass(ctx, req.MemberID, id)
	metrics.RecordEnrollment(outcome(err))
	if err != nil {
		writeError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.ClassRegistered(ctx, reg.MemberID, reg.ClassSessionID)
	}
	c.JSON(http.StatusCreated, reg)
}

// @Summary      Add a trainer availability window
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Param        id      path int                              true "Trainer ID"
// @Param        request body schedule.AddAvailabilityRequest true "Window"
// @Success      201 {object} schedule.AvailabilityWindow
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /trainers/{id}/availability [post]
func (h *Handler) AddTrainerAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AddAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	window, err := h.service.AddTrainerAvailability(c.Request.Context(), id, req.StartTime, req.EndTime)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, window)
}

// @Summary      Trainer schedule
// @Description  Classes and PT sessions starting at or after `from` plus every availability window.
// @Tags         trainers
// @Produce      json
// @Param        id   path  int    true  "Trainer ID"
// @Param        from query string false "Lower bound, YYYY-MM-DDTHH:MM (defaults to now)"
// @Success      200 {object} schedule.TrainerSchedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{id}/schedule [get]
func (h *Handler) GetTrainerSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	from, ok := h.fromQuery(c)
	if !ok {
		return
	}

	sched, err := h.service.GetTrainerSchedule(c.Request.Context(), id, from)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sched)
}

// @Summary      Upcoming classes
// @Description  Class sessions starting at or after `from` with their registration counts.
// @Tags         classes
// @Produce      json
// @Param        from query string false "Lower bound, YYYY-MM-DDTHH:MM (defaults to now)"
// @Success      200 {array} schedule.ClassSessionWithAvailability
// @Failure      400 {object} api.ErrorResponse
// @Router       /classes/upcoming [get]
func (h *Handler) ListUpcomingClasses(c *gin.Context) {
	from, ok := h.fromQuery(c)
	if !ok {
		return
	}

	classes, err := h.service.ListUpcomingClasses(c.Request.Context(), from)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

// @Summary      List class sessions
// @Tags         classes,admin
// @Produce      json
// @Success      200 {array} schedule.ClassSessionWithAvailability
// @Failure      503 {object} api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) ListClassSessions(c *gin.Context) {
	classes, err := h.service.ListClassSessions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

// @Summary      List PT sessions
// @Tags         pt-sessions,admin
// @Produce      json
// @Success      200 {array} schedule.PTSession
// @Failure      503 {object} api.ErrorResponse
// @Router       /pt-sessions [get]
func (h *Handler) ListPTSessions(c *gin.Context) {
	sessions, err := h.service.ListPTSessions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) fromQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("from")
	if raw == "" {
		return WallClock(h.now()), true
	}
	from, err := ParseTime(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "from must use format YYYY-MM-DDTHH:MM"})
		return time.Time{}, false
	}
	return from, true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid ID"})
		return 0, false
	}
	return id, true
}

// StatusFor maps a scheduling error to its HTTP status and a short metric label.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidTimeRange):
		return http.StatusBadRequest, "invalid_time_range"
	case errors.Is(err, ErrInvalidCapacity):
		return http.StatusBadRequest, "invalid_capacity"
	case errors.Is(err, ErrTrainerUnavailable):
		return http.StatusConflict, "trainer_unavailable"
	case errors.Is(err, ErrRoomConflict):
		return http.StatusConflict, "room_conflict"
	case errors.Is(err, ErrTrainerConflict):
		return http.StatusConflict, "trainer_conflict"
	case errors.Is(err, ErrWindowOverlap):
		return http.StatusConflict, "window_overlap"
	case errors.Is(err, ErrDuplicateEnrollment):
		return http.StatusConflict, "duplicate_enrollment"
	case errors.Is(err, ErrClassFull):
		return http.StatusConflict, "class_full"
	case errors.Is(err, ErrInvalidStatusTransition):
		return http.StatusConflict, "invalid_status_transition"
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(c *gin.Context, err error) {
	status, reason := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("scheduling operation failed", "error", err.Error(), "path", c.FullPath())
		if db.IsTransient(err) {
			c.Header("Retry-After", "1")
		}
		c.JSON(status, api.ErrorResponse{Error: "Storage temporarily unavailable, please retry"})
		return
	}

	metrics.RecordRejection(reason)
	c.JSON(status, api.ErrorResponse{Error: err.Error()})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case IsRejection(err):
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}

func recordBooking(kind string, err error) {
	metrics.RecordBooking(kind, outcome(err))
}
