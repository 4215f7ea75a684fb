package main

import (
	"ScheduleSync/internal/config"
	"ScheduleSync/pkg/log"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	// .env is optional; real deployments set the environment directly
	envErr := godotenv.Load()

	logger := log.NewLogger()
	if envErr != nil {
		logger.Debugf("No .env file loaded: %v", envErr)
	}

	appConfig := config.LoadAppConfig()
	if appConfig.JWTSecret == "" {
		logger.Warn("JWT_ACCESS_TOKEN_SECRET is not set, every authenticated request will be rejected")
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithConfig(appConfig),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRuleCache(),
		config.WithChatGPT(),
		config.WithSMTPMailer(),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		return err
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	logger.Infof("Server started on port %s", appConfig.Port)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
