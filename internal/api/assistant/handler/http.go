package assistantHandler

import (
	assistantService "ScheduleSync/internal/api/assistant/service"
	"ScheduleSync/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	ai := srv.Group("/ai")

	ai.Use(h.middleware.NewRateLimiter)
	ai.Use(h.middleware.NewTokenMiddleware)

	ai.Post("/schedule", h.Schedule)
	ai.Post("/schedule/confirm", h.ConfirmBooking)
	ai.Post("/suggest", h.Suggest)

	ai.Use("/ws", wsMiddleware)
	ai.Get("/ws", websocket.New(h.handleWebSocket))
}
