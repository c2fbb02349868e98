package room

import (
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/api"
	"fitclub/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create a room
// @Tags         rooms,admin
// @Accept       json
// @Produce      json
// @Param        request body room.CreateRoomRequest true "Room payload"
// @Success      201 {object} room.Room
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRoom):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrNameExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Error("failed to create room", "error", err.Error())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create room"})
		}
		return
	}

	c.JSON(http.StatusCreated, room)
}

// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Success      200 {array} room.Room
// @Failure      500 {object} api.ErrorResponse
// @Router       /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.GetAllRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// @Summary      Get room
// @Tags         rooms
// @Produce      json
// @Param        id path int true "Room ID"
// @Success      200 {object} room.Room
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /rooms/{id} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid room ID"})
		return
	}

	room, err := h.service.GetRoomByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch room"})
		return
	}

	c.JSON(http.StatusOK, room)
}
