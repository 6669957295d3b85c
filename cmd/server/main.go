package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"

	_ "github.com/lib/pq"

	channelservice "amora/internal/channel/service"
	channelstore "amora/internal/channel/store/channel"
	interesthandler "amora/internal/interest/handler"
	interestmetrics "amora/internal/interest/metrics"
	interestservice "amora/internal/interest/service"
	edgestore "amora/internal/interest/store/edge"
	"amora/internal/match/events"
	matchhandler "amora/internal/match/handler"
	matchmetrics "amora/internal/match/metrics"
	matchservice "amora/internal/match/service"
	"amora/internal/match/store"
	matchstore "amora/internal/match/store/match"
	"amora/internal/matching/cache"
	matchinghandler "amora/internal/matching/handler"
	matchingmetrics "amora/internal/matching/metrics"
	"amora/internal/matching/ranker"
	"amora/internal/matching/scorer"
	"amora/internal/platform/config"
	"amora/internal/platform/httpserver"
	"amora/internal/platform/logger"
	platformredis "amora/internal/platform/redis"
	"amora/internal/profile"
	"amora/internal/token"
	httptransport "amora/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	health := map[string]httptransport.HealthCheck{}

	// Storage: PostgreSQL when configured, in-memory for local development.
	var (
		edges    edgestore.Store
		matches  matchstore.Store
		runner   store.Runner
		profiles profile.Store
	)
	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		if err := db.Ping(); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		edges = edgestore.NewPostgres(db)
		matches = matchstore.NewPostgres(db)
		runner = store.NewPostgresRunner(db)
		profiles = profile.NewPostgres(db)
		health["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		memMatches := matchstore.NewInMemory()
		memChannels := channelstore.NewInMemory()
		edges = edgestore.NewInMemory()
		matches = memMatches
		runner = store.NewMemoryRunner(memMatches, memChannels)
		profiles = profile.NewInMemory()
	}

	// Event publishing: Kafka when brokers are configured, otherwise an
	// in-process worker that logs formed matches.
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka publisher init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close(context.Background())
		publisher = kafkaPublisher
	} else {
		inbox := events.NewInbox(64, log)
		publisher = inbox

		workerCtx, stopWorker := context.WithCancel(context.Background())
		defer stopWorker()
		worker := events.NewWorker(inbox.Events(), func(ctx context.Context, e events.MatchFormed) {
			log.InfoContext(ctx, "match formed",
				"match_id", e.MatchID,
				"channel_id", e.ChannelID,
				"pair", e.PairKey(),
			)
		})
		go func() { _ = worker.Run(workerCtx) }()
	}

	// Score cache: optional Redis.
	rankerOpts := []ranker.Option{}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		rankerOpts = append(rankerOpts, ranker.WithCache(cache.New(redisClient.Client, cfg.Redis.ScoreTTL, log)))
		health["redis"] = redisClient.Health
	}

	compat := scorer.New(scorer.UnknownDistance{})
	recommender := ranker.New(compat, rankerOpts...)

	provisioner := channelservice.NewProvisioner(log)
	coordinator := matchservice.NewCoordinator(runner, matches, provisioner, publisher, log, matchmetrics.New())
	ledger := interestservice.NewLedger(edges, coordinator, log, interestmetrics.New())

	tokens := token.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Validator: tokens,
		Matching:  matchinghandler.New(profiles, compat, recommender, log, matchingmetrics.New()),
		Interest:  interesthandler.New(ledger, log),
		Matches:   matchhandler.New(coordinator, log),
		Health:    health,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting amora", "addr", cfg.Server.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
