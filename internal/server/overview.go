package server

import (
	"context"
	"net/http"

	"fitclub/internal/api"
	"fitclub/internal/invoice"
	"fitclub/internal/logger"
	"fitclub/internal/member"
	"fitclub/internal/room"
	"fitclub/internal/schedule"
	"fitclub/internal/trainer"

	"github.com/gin-gonic/gin"
)

type Overview struct {
	Trainers      []trainer.Trainer                       `json:"trainers"`
	Rooms         []room.Room                             `json:"rooms"`
	Members       []member.Member                         `json:"members"`
	Invoices      []invoice.Invoice                       `json:"invoices"`
	ClassSessions []schedule.ClassSessionWithAvailability `json:"class_sessions"`
	PTSessions    []schedule.PTSession                    `json:"pt_sessions"`
}

type overviewHandler struct {
	trainers trainer.Service
	rooms    room.Service
	members  member.Service
	invoices invoice.Service
	schedule schedule.Service
}

func (h *overviewHandler) build(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)

	if o.Trainers, err = h.trainers.GetAllTrainers(ctx); err != nil {
		return nil, err
	}
	if o.Rooms, err = h.rooms.GetAllRooms(ctx); err != nil {
		return nil, err
	}
	if o.Members, err = h.members.GetAllMembers(ctx); err != nil {
		return nil, err
	}
	if o.Invoices, err = h.invoices.List(ctx); err != nil {
		return nil, err
	}
	if o.ClassSessions, err = h.schedule.ListClassSessions(ctx); err != nil {
		return nil, err
	}
	if o.PTSessions, err = h.schedule.ListPTSessions(ctx); err != nil {
		return nil, err
	}
	return &o, nil
}

// @Summary      Admin overview
// @Description  Trainers, rooms, members, invoices and every session in one payload.
// @Tags         admin
// @Produce      json
// @Success      200 {object} server.Overview
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/overview [get]
func (h *overviewHandler) Overview(c *gin.Context) {
	o, err := h.build(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build admin overview", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build overview"})
		return
	}

	c.JSON(http.StatusOK, o)
}
