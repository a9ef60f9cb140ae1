package server

import (
	"errors"

	"backend-safeher/internal/alert"
	"backend-safeher/internal/auth"
	"backend-safeher/internal/checkin"
	"backend-safeher/internal/config"
	"backend-safeher/internal/contact"
	"backend-safeher/internal/fakecall"
	"backend-safeher/internal/history"
	"backend-safeher/internal/location"
	"backend-safeher/internal/settings"
	"backend-safeher/internal/sos"
	"backend-safeher/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	CheckIns *checkin.Engine
	SOS      *sos.Engine
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: jsonErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)

	contactSvc := contact.NewService(db)
	settingsSvc := settings.NewService(db)
	historySvc := history.NewService(db)
	locationSvc := location.NewService(redisClient, settingsSvc)
	fakecallSvc := fakecall.NewService(db, hub)

	var email alert.EmailSender
	if sender := alert.NewSMTPEmailSender(cfg); sender != nil {
		email = sender
	}
	var sms alert.SMSSender
	if sender := alert.NewTwilioSMSSender(cfg); sender != nil {
		sms = sender
	}
	var links alert.LinkPusher
	if pusher := alert.NewStreamLinkPusher(hub); pusher != nil {
		links = pusher
	}
	dispatcher := alert.NewDispatcher(email, sms, links)

	checkinEngine := checkin.NewEngine(contactSvc, locationSvc, historySvc, dispatcher)
	sosEngine := sos.NewEngine(contactSvc, locationSvc, historySvc, dispatcher, hub)
	go checkinEngine.Run()
	go sosEngine.Run()

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   hub,
		CheckIns: checkinEngine,
		SOS:      sosEngine,
	}

	registerRoutes(s, contactSvc, settingsSvc, historySvc, locationSvc, fakecallSvc, email, links)
	return s
}

// Shutdown stops the background engines. The fiber app is shut down by
// the caller.
func (s *Server) Shutdown() {
	s.CheckIns.Stop()
	s.SOS.Stop()
}

func registerRoutes(
	s *Server,
	contactSvc *contact.Service,
	settingsSvc *settings.Service,
	historySvc *history.Service,
	locationSvc *location.Service,
	fakecallSvc *fakecall.Service,
	email alert.EmailSender,
	links alert.LinkPusher,
) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	contact.RegisterRoutes(s.App.Group("/contacts"), contactSvc, links, jwtMiddleware)
	checkin.RegisterRoutes(s.App.Group("/checkins"), s.CheckIns, settingsSvc, jwtMiddleware)
	sos.RegisterRoutes(s.App.Group("/sos"), s.SOS, jwtMiddleware)
	alert.RegisterRoutes(s.App.Group("/alerts"), email, jwtMiddleware)
	history.RegisterRoutes(s.App.Group("/history"), historySvc, jwtMiddleware)
	location.RegisterRoutes(s.App.Group("/location"), locationSvc, jwtMiddleware)
	settings.RegisterRoutes(s.App.Group("/settings"), settingsSvc, jwtMiddleware)
	fakecall.RegisterRoutes(s.App.Group("/fakecall"), fakecallSvc, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, jwtMiddleware)
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
