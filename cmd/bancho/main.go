package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gosu/internal/bancho"
	"github.com/udisondev/gosu/internal/beatmap"
	"github.com/udisondev/gosu/internal/config"
	"github.com/udisondev/gosu/internal/db"
	"github.com/udisondev/gosu/internal/geoloc"
	"github.com/udisondev/gosu/internal/leaderboard"
	"github.com/udisondev/gosu/internal/performance"
	"github.com/udisondev/gosu/internal/webhook"
)

const ConfigPath = "config/bancho.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil && err != context.Canceled {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("GOSU_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(log)

	slog.Info("bancho server starting", "log_level", cfg.LogLevel)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	boards, err := leaderboard.New(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer boards.Close()
	slog.Info("redis connected", "addr", cfg.Redis.Addr)

	pool := database.Pool()
	srv := bancho.NewServer(cfg, log, bancho.Deps{
		Users:     db.NewUserRepository(pool),
		Stats:     db.NewStatsRepository(pool),
		Relations: db.NewRelationshipRepository(pool),
		Mail:      db.NewMailRepository(pool),
		ChannelDB: db.NewChannelRepository(pool),
		ModLog:    db.NewLogRepository(pool),
		Audit:     db.NewAuditRepository(pool),
		Pools:     db.NewPoolRepository(pool),
		Clans:     db.NewClanRepository(pool),

		Geoloc:      geoloc.NewHTTPResolver(cfg.GeolocURL),
		Beatmaps:    beatmap.NewHTTPSource(cfg.BeatmapAPIURL),
		Performance: performance.NewSubprocessCalculator(cfg.PPCalculatorPath, cfg.MapsDir),
		AuditHook:   webhook.NewClient(cfg.DiscordAuditWebhook),
		Leaderboard: boards,
	})

	if err := srv.LoadChannels(ctx); err != nil {
		return fmt.Errorf("loading channels: %w", err)
	}
	slog.Info("channels loaded", "count", len(srv.Channels.All()))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	srv.RegisterRoutes(e)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port)
		slog.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		slog.Info("starting donor expiry", "period", "30m")
		return srv.RunDonorExpiry(gctx)
	})
	g.Go(func() error {
		slog.Info("starting bot status rotation", "period", "5m")
		return srv.RunBotRotation(gctx)
	})
	g.Go(func() error {
		slog.Info("starting ghost session reaper", "period", "100s")
		return srv.RunGhostReaper(gctx)
	})

	return g.Wait()
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
