package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	app "parking-slot-control/internal"
	"parking-slot-control/internal/config"
	"parking-slot-control/internal/email"
	"parking-slot-control/internal/otp"
	"parking-slot-control/internal/parking"
	"parking-slot-control/internal/routes"
	"parking-slot-control/internal/storage"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the parking slot control server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fmt.Println("Starting parking slot control server...")
		initLogger(cfg)
		ServerMain(ctx, provider)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {

	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	// Use the provider passed from cobra command (already initialized)
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	otpStore, err := otp.InitStore(config.Cfg, storageProvider)
	if err != nil {
		slog.Error("Failed to initialize OTP store", "error", err)
		os.Exit(1)
	}

	mailer, err := email.NewClient(config.Cfg.SMTP)
	if err != nil {
		slog.Error("Failed to initialize SMTP client", "error", err)
		os.Exit(1)
	}
	dispatcher := email.NewDispatcher(mailer)

	service := parking.NewService(storageProvider, dispatcher, config.Cfg.HourlyRate)
	api := routes.NewAPI(service, storageProvider, dispatcher, otpStore)

	// Initialize HTTP server
	server := app.HTTPServer()
	routes.RegisterRoutes(server, api)

	server.Run(config.Cfg.Listen)
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
