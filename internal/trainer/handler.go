package trainer

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
	return &Handler{service: service}
}

// @Summary      Create a trainer
// @Tags         trainers,admin
// @Accept       json
// @Produce      json
// @Param        request body trainer.CreateTrainerRequest true "Trainer payload"
// @Success      201 {object} trainer.Trainer
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers [post]
func (h *Handler) CreateTrainer(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	trainer, err := h.service.CreateTrainer(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, trainer)
	case errors.Is(err, ErrInvalidTrainer):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrEmailExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error("failed to create trainer", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create trainer"})
	}
}

// @Summary      List trainers
// @Tags         trainers
// @Produce      json
// @Success      200 {array} trainer.Trainer
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	trainers, err := h.service.GetAllTrainers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// @Summary      Get trainer
// @Tags         trainers
// @Produce      json
// @Param        id path int true "Trainer ID"
// @Success      200 {object} trainer.Trainer
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{id} [get]
func (h *Handler) GetTrainer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	trainer, err := h.service.GetTrainerByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainer"})
		return
	}

	c.JSON(http.StatusOK, trainer)
}
