package rulesHandler

import (
	rulesService "ScheduleSync/internal/api/rules/service"
	"ScheduleSync/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RulesHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	rulesService rulesService.IRulesService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs rulesService.IRulesService,
) *RulesHandler {
	return &RulesHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		rulesService: rs,
	}
}

func (h *RulesHandler) Start(srv fiber.Router) {
	rules := srv.Group("/rules")

	rules.Use(h.middleware.NewTokenMiddleware)

	rules.Get("/", h.ListRules)
	rules.Post("/", h.CreateRule)
	rules.Post("/test", h.TestRules)
	rules.Get("/check-block", h.CheckBlock)
	rules.Put("/:id", h.UpdateRule)
	rules.Delete("/:id", h.DeleteRule)
}
