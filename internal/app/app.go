package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/mapbuddy/internal/catalog"
	"github.com/MrSnakeDoc/mapbuddy/internal/config"
	"github.com/MrSnakeDoc/mapbuddy/internal/conversation"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/matcher"
	"github.com/MrSnakeDoc/mapbuddy/internal/metrics"
	"github.com/MrSnakeDoc/mapbuddy/internal/profile"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
	"github.com/MrSnakeDoc/mapbuddy/internal/redis"
	"github.com/MrSnakeDoc/mapbuddy/internal/sources/seed"
	"github.com/MrSnakeDoc/mapbuddy/internal/store"
	"github.com/MrSnakeDoc/mapbuddy/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/mapbuddy/internal/store/redis"
	"github.com/MrSnakeDoc/mapbuddy/internal/utils"
	"github.com/MrSnakeDoc/mapbuddy/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	sessions    *conversation.Registry
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Catalog first - nothing works without events
	loader := seed.NewLoader(cfg.CatalogFile)
	events, err := loader.LoadEvents()
	if err != nil {
		loggerClient.Errorf("Failed to load catalog from %s: %v", loader.Source(), err)
		os.Exit(1)
	}
	cat, err := catalog.New(events)
	if err != nil {
		loggerClient.Errorf("Invalid catalog: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("📍 catalog loaded",
		logger.String("source", loader.Source()),
		logger.Int("events", cat.Len()))

	// Slots: Redis when configured, memory otherwise
	var (
		slots       store.Slots
		storeMode   = "memory"
		redisClient *goredis.Client
	)
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		slots = redisstore.NewStore(redisClient)
		storeMode = "redis"
	} else {
		loggerClient.Warn("MAPBUDDY_REDIS_ADDR not set, preferences and key live in memory only")
		slots = memory.NewStore()
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Reasoning
	creds := reasoning.NewCredentials(cfg.APIKey, slots)
	client := reasoning.NewClient(reasoning.Options{
		BaseURL:     cfg.ReasoningURL,
		Model:       cfg.ReasoningModel,
		MaxTokens:   cfg.ReasoningMaxTokens,
		Temperature: cfg.ReasoningTemperature,
		Referer:     cfg.ReasoningReferer,
		Timeout:     cfg.ReasoningTimeout,
		RPS:         cfg.ReasoningRPS,
	}, loggerClient)
	prefs := profile.NewRepository(slots)

	mgr := conversation.NewManager(conversation.Options{
		Catalog:      cat,
		Heuristic:    matcher.NewHeuristic(cfg.DefaultIDs),
		Delegated:    matcher.NewDelegated(client, creds),
		Credentials:  creds,
		Preferences:  prefs,
		HighlightTTL: cfg.HighlightTTL,
		Location:     cfg.Location,
		Metrics:      m,
		Logger:       loggerClient,
	})
	sessions := conversation.NewRegistry(mgr, cfg.SessionTTL)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		TimeNow:     time.Now,
		Location:    cfg.Location,
		Catalog:     cat,
		Manager:     mgr,
		Sessions:    sessions,
		Preferences: prefs,
		Credentials: creds,
		Validator:   client,
		Slots:       slots,
		StoreMode:   storeMode,
		Gatherer:    reg,
		OpsCIDRS:    cfg.OpsCIDRS,
		TrustProxy:  cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		sessions:    sessions,
		redisClient: redisClient,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Map Buddy v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Map Buddy %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Pending turns are discarded with their sessions.
	a.sessions.Close()
	a.logger.Info("✅ Sessions closed")

	if a.redisClient != nil {
		utils.MustClose("redis", a.redisClient, a.logger)
	}

	a.logger.Info("✅ Map Buddy stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
