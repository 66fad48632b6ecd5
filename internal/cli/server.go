package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sala-quiz-service/internal/app"
	"sala-quiz-service/internal/config"
	inframemory "sala-quiz-service/internal/infra/memory"
	infrapostgres "sala-quiz-service/internal/infra/postgres"
	infraredis "sala-quiz-service/internal/infra/redis"
	"sala-quiz-service/internal/outcome"
	"sala-quiz-service/internal/questionbank"
	transport "sala-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the kiosk quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	guardTTL := config.TTLDuration(cfg.Redis.GuardTTL, 30*time.Minute)
	claimTTL := config.TTLDuration(cfg.Redis.ClaimTTL, 30*24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var source questionbank.Source
	if cfg.Quiz.SourceURL != "" {
		source = questionbank.NewHTTPSource(nil, cfg.Quiz.SourceURL)
	} else {
		source = questionbank.NewFileSource(cfg.Quiz.SourcePath)
	}
	bankTTL := config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute)
	bank := questionbank.NewBank(questionbank.NewLoader(source), cfg.Quiz.Length, bankTTL)

	var attempts app.AttemptStore = inframemory.NewAttemptLog()
	if pool != nil {
		attempts = infrapostgres.NewAttemptStore(pool)
	}

	var guard app.AttemptGuard
	var claims app.ClaimStore
	if redisClient != nil {
		guard = infraredis.NewGuardStore(redisClient, guardTTL)
		claims = infraredis.NewClaimStore(redisClient, claimTTL)
	} else {
		guard = inframemory.NewGuardStore(guardTTL)
		claims = inframemory.NewClaimStore()
	}

	resolver := outcome.NewResolver(cfg.Quiz.RegistrationURL, cfg.Quiz.ClaimPrefix)
	service := app.NewKioskService(bank, attempts, guard, claims, resolver)
	wsHandler := transport.NewWSHandler(service, cfg.Quiz.Room)
	claimsHandler := transport.NewClaimsHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/claims", claimsHandler)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting kiosk quiz service on :%s (room %s)", finalPort, cfg.Quiz.Room)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
