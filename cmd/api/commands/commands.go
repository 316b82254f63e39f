package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/pantrykeeper/core/internal/adapters/repository"
	"github.com/pantrykeeper/core/internal/adapters/toolcall"
	"github.com/pantrykeeper/core/internal/application/services"
	"github.com/pantrykeeper/core/internal/infrastructure/config"
	"github.com/pantrykeeper/core/internal/infrastructure/logger"
	"github.com/pantrykeeper/core/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the PantryKeeper REST API server",
		Long:  "Start the PantryKeeper API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewToolsCommand creates the tools command, which serves the tool-call
// protocol over stdin/stdout.
func NewToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Serve inventory tools over stdin/stdout",
		Long:  "Run the tool-call protocol server on standard input and output, for use by assistant hosts",
		Run: func(cmd *cobra.Command, args []string) {
			runToolServer()
		},
	}
}

// NewTokenCommand creates the token command for minting API bearer tokens.
func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the REST API",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			mintToken(subject, ttl)
		},
	}

	tokenCmd.Flags().String("subject", "cli", "Token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	return tokenCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print PantryKeeper version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("PantryKeeper v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	repo, err := repository.NewFileRepository(cfg.Storage.PrimaryPath(), cfg.Storage.BackupPath(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize inventory store", "error", err)
	}

	service := services.NewInventoryService(repo, appLogger)

	srv, err := server.New(cfg, service, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting PantryKeeper API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"data_file", cfg.Storage.PrimaryPath(),
	)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Start(address); err != nil {
			appLogger.Info("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func runToolServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Protocol frames own stdout; logs go to stderr no matter what the
	// configuration says.
	cfg.Logger.Output = "stderr"

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	repo, err := repository.NewFileRepository(cfg.Storage.PrimaryPath(), cfg.Storage.BackupPath(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize inventory store", "error", err)
	}

	service := services.NewInventoryService(repo, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Starting tool-call server", "data_file", cfg.Storage.PrimaryPath())

	srv := toolcall.NewServer(service, appLogger, os.Stdin, os.Stdout)
	if err := srv.Run(ctx); err != nil {
		appLogger.Fatal("Tool-call server failed", "error", err)
	}
}

func mintToken(subject string, ttl time.Duration) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Security.AuthSecret == "" {
		log.Fatal("AUTH_SECRET must be set to mint tokens")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Security.AuthIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Security.AuthSecret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(signed)
}
