package config

import (
	"ScheduleSync/database/postgres"
	assistantHandler "ScheduleSync/internal/api/assistant/handler"
	assistantRepository "ScheduleSync/internal/api/assistant/repository"
	assistantService "ScheduleSync/internal/api/assistant/service"
	rulesHandler "ScheduleSync/internal/api/rules/handler"
	rulesRepository "ScheduleSync/internal/api/rules/repository"
	rulesService "ScheduleSync/internal/api/rules/service"
	"ScheduleSync/internal/middleware"
	"ScheduleSync/internal/worker"
	"ScheduleSync/pkg/metrics"
	chatGPT "ScheduleSync/pkg/openai"
	"ScheduleSync/pkg/redis"
	ruleEngine "ScheduleSync/pkg/rules"
	"ScheduleSync/pkg/smtp"
	"ScheduleSync/pkg/utils"
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	db         *sqlx.DB
	log        *logrus.Logger
	config     AppConfig
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	ruleCache  redis.IRuleCache
	chatGPT    chatGPT.IChatGPT
	smtpMailer smtp.INotifier
	handlers   []handler
	sweeper    *worker.PendingSweeper
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.config = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New(s.config.Database)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// WithDB hands the server an already opened pool.
func WithDB(db *sqlx.DB) ServerOption {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

// WithRuleCache enables the Redis rule cache when REDIS_ADDRESS is set.
func WithRuleCache() ServerOption {
	return func(s *Server) error {
		if s.config.Redis.Address == "" {
			if s.log != nil {
				s.log.Info("REDIS_ADDRESS not set, rule cache disabled")
			}
			return nil
		}
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the rule cache")
		}
		s.ruleCache = redis.New(s.config.Redis, s.log)
		return nil
	}
}

// WithChatGPT enables the LLM reply for unrecognised messages when OPENAI_API_KEY is set.
func WithChatGPT() ServerOption {
	return func(s *Server) error {
		if s.config.OpenAIKey == "" {
			return nil
		}
		s.chatGPT = chatGPT.NewChatGPT(s.config.OpenAIKey, s.config.OpenAIChatModel)
		return nil
	}
}

// WithSMTPMailer enables booking notification mails when SMTP_MAIL is set.
func WithSMTPMailer() ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtp.New(s.config.SMTP)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			RequestsPerSecond: s.config.RateLimitRequestsPerSecond,
			Burst:             s.config.RateLimitBurst,
		})
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Rules Domain
	engine := ruleEngine.NewEngine(s.log, s.config.Location)
	rulesRepo := rulesRepository.New(s.db, s.log)
	rulesServices := rulesService.NewRulesService(s.log, rulesRepo, s.ruleCache, engine, s.utils)
	rulesHandlers := rulesHandler.New(s.log, s.validator, s.middleware, rulesServices)

	// Assistant Domain
	assistantRepo := assistantRepository.New(s.db, s.log)
	assistantServices := assistantService.NewAssistantService(s.log, assistantRepo, rulesServices, s.chatGPT, s.smtpMailer, s.utils, assistantService.Config{
		AppURL:           s.config.URL,
		PendingActionTTL: s.config.PendingActionTTL,
		DefaultLocation:  s.config.Location,
	})
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.sweeper = worker.NewPendingSweeper(s.log, assistantServices, s.config.PendingSweepInterval, s.config.PendingSweepInitialDelay)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, rulesHandlers, assistantHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewMetricsMiddleware)
	s.engine.Use(s.middleware.NewLoggingMiddleware)

	// /api is kept as an alias of /api/v1
	for _, prefix := range []string{"/api/v1", "/api"} {
		router := s.engine.Group(prefix)
		for _, h := range s.handlers {
			h.Start(router)
		}
	}

	if s.sweeper != nil {
		s.sweeper.Start()
	}

	port := s.config.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests, waits for the sweeper and closes the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	if s.db != nil {
		if closeErr := s.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
	s.engine.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}
