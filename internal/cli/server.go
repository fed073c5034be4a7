package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	redisboard "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/progression"
	transport "trivia-quiz-service/internal/transport/http"
	"trivia-quiz-service/internal/trivia"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// memorySeeder joins the in-memory stores into auth's ProfileSeeder.
type memorySeeder struct {
	*memory.ProfileStore
	*memory.TopicStatsStore
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

	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret not configured")
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	baseURL := cfg.Trivia.BaseURL
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	provider := trivia.NewClient(baseURL, config.TTLDuration(cfg.Trivia.Timeout, 10*time.Second))

	var (
		profiles    app.ProfileStore
		topics      app.TopicStatsStore
		archive     app.ResponseArchive
		creds       auth.CredentialStore
		seeder      auth.ProfileSeeder
		rowSource   redisboard.RowSource
		leaderboard app.Leaderboard
	)
	if pool != nil {
		store := postgres.NewStore(pool)
		profiles = store
		topics = store
		archive = store
		creds = store
		seeder = store
		rowSource = store
	} else {
		profileStore := memory.NewProfileStore()
		topicStore := memory.NewTopicStatsStore()
		profiles = profileStore
		topics = topicStore
		archive = memory.NewResponseArchive()
		creds = profileStore
		seeder = memorySeeder{profileStore, topicStore}
		rowSource = profileStore
	}
	if redisClient != nil {
		leaderboard = redisboard.NewLeaderboard(redisClient, rowSource, redisTTL)
	} else {
		board := memory.NewLeaderboard()
		leaderboard = board
	}

	engine := progression.NewEngine()
	builder := trivia.NewBuilder()
	sessions := memory.NewSessionStore()

	quizService := app.NewQuizService(provider, builder, engine, sessions, profiles, topics, archive, leaderboard)
	authService := auth.NewService(creds, seeder, []byte(cfg.Auth.Secret), tokenTTL)

	wsHandler := transport.NewWSHandler(quizService)
	apiHandler := transport.NewAPIHandler(authService, quizService)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", transport.RequireAuth(authService, wsHandler.ServeWS))
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia quiz service on :%s", finalPort)
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
