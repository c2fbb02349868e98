package server

import (
	"context"
	"net/http"
	"time"

	"fitclub/internal/config"
	"fitclub/internal/invoice"
	"fitclub/internal/member"
	"fitclub/internal/notify"
	"fitclub/internal/room"
	"fitclub/internal/schedule"
	"fitclub/internal/trainer"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	notify     *notify.Service
}

// New wires every service onto one router. notifySvc may be nil when
// notifications are disabled.
func New(db *sqlx.DB, cfg *config.Config, notifySvc *notify.Service) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	memberRepo := member.NewRepository(db)

	roomService := room.NewService(room.NewRepository(db))
	trainerService := trainer.NewService(trainer.NewRepository(db))
	memberService := member.NewService(memberRepo)
	invoiceService := invoice.NewService(invoice.NewRepository(db), memberRepo)
	scheduleService := schedule.NewService(schedule.NewRepository(db))

	var notifier schedule.Notifier
	if notifySvc != nil {
		notifier = notifySvc
	}

	roomHandler := room.NewHandler(roomService)
	trainerHandler := trainer.NewHandler(trainerService)
	memberHandler := member.NewHandler(memberService)
	invoiceHandler := invoice.NewHandler(invoiceService)
	scheduleHandler := schedule.NewHandler(scheduleService, cfg.DefaultClassCapacity, notifier)
	overview := &overviewHandler{
		trainers: trainerService,
		rooms:    roomService,
		members:  memberService,
		invoices: invoiceService,
		schedule: scheduleService,
	}

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/rooms", roomHandler.CreateRoom)
		v1.GET("/rooms", roomHandler.ListRooms)
		v1.GET("/rooms/:id", roomHandler.GetRoom)

		v1.POST("/trainers", trainerHandler.CreateTrainer)
		v1.GET("/trainers", trainerHandler.ListTrainers)
		v1.GET("/trainers/:id", trainerHandler.GetTrainer)
		v1.GET("/trainers/:id/schedule", scheduleHandler.GetTrainerSchedule)
		v1.POST("/trainers/:id/availability", scheduleHandler.AddTrainerAvailability)

		v1.POST("/members", memberHandler.Register)
		v1.GET("/members", memberHandler.ListMembers)
		v1.GET("/members/search", memberHandler.Search)
		v1.GET("/members/:id", memberHandler.GetMember)
		v1.PATCH("/members/:id", memberHandler.UpdateProfile)
		v1.POST("/members/:id/metrics", memberHandler.AddHealthMetric)
		v1.GET("/members/:id/dashboard", memberHandler.Dashboard)
		v1.GET("/members/:id/invoices", invoiceHandler.ListMemberInvoices)

		v1.POST("/classes", scheduleHandler.CreateClassSession)
		v1.GET("/classes", scheduleHandler.ListClassSessions)
		v1.GET("/classes/upcoming", scheduleHandler.ListUpcomingClasses)
		v1.PUT("/classes/:id/room", scheduleHandler.MoveClassSessionRoom)
		v1.POST("/classes/:id/registrations", scheduleHandler.RegisterForClass)

		v1.POST("/pt-sessions", scheduleHandler.CreatePTSession)
		v1.GET("/pt-sessions", scheduleHandler.ListPTSessions)
		v1.PUT("/pt-sessions/:id/room", scheduleHandler.MovePTSessionRoom)
		v1.PUT("/pt-sessions/:id/status", scheduleHandler.SetPTSessionStatus)

		v1.POST("/invoices", invoiceHandler.CreateInvoice)
		v1.GET("/invoices", invoiceHandler.ListInvoices)
		v1.POST("/invoices/:id/pay", invoiceHandler.PayInvoice)

		v1.GET("/admin/overview", overview.Overview)
		v1.GET("/admin/notifications", NotificationQueue(notifySvc))
	}

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db:     db,
		config: cfg,
		notify: notifySvc,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
