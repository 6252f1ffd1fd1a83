package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/shax-client/internal/board"
	appcfg "github.com/park285/shax-client/internal/config"
	"github.com/park285/shax-client/internal/metrics"
	"github.com/park285/shax-client/internal/msgcat"
	"github.com/park285/shax-client/internal/obslog"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/internal/shaxws"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("messages init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("settings store error: %v", err)
	}
	defer closeStore()

	target, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("settings load error: %v", err)
	}

	met, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("metrics init error: %v", err)
	}
	var metricsSrv *metrics.Server
	if cfg.MetricsAddr != "" {
		if metricsSrv, err = metrics.Listen(cfg.MetricsAddr, prometheus.DefaultGatherer, logger); err != nil {
			log.Fatalf("metrics listen error: %v", err)
		}
	}

	ws := shaxws.NewWebSocket(
		shaxws.WithLogger(logger),
		shaxws.WithPingInterval(cfg.PingInterval),
		shaxws.WithDialTimeout(cfg.DialTimeout),
		shaxws.WithWriteTimeout(cfg.WriteTimeout),
	)
	mgr := board.New(ws, target,
		board.WithLogger(logger),
		board.WithMetrics(met),
		board.WithCatalog(cat),
	)

	c := newCLI(mgr, store, cat, os.Stdout)
	subscribePrinter(mgr.Bus(), c)

	c.say("cli.banner", map[string]any{"Endpoint": target.Endpoint, "Mode": target.Mode}, "connecting to "+target.Endpoint)
	if err := mgr.Start(ctx); err != nil {
		log.Fatalf("board start error: %v", err)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || c.handle(ctx, line) {
				break loop
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mgr.Close(shutdownCtx); err != nil {
		logger.Warn("board_close_error", zap.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// openStore picks Redis when SHAX_REDIS_URL is set, else the YAML file, and
// layers the SHAX_URL / SHAX_MODE / SHAX_LOBBY_KEY overrides on top.
func openStore(ctx context.Context, cfg *appcfg.AppConfig) (settings.Store, func(), error) {
	var base settings.Store
	closeFn := func() {}
	if cfg.RedisURL != "" {
		rs, err := settings.NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.SettingsKey)
		if err != nil {
			return nil, nil, err
		}
		base = rs
		closeFn = func() { _ = rs.Close() }
	} else {
		base = settings.NewFileStore(cfg.SettingsFile)
	}
	over := settings.Overrides{
		Endpoint: cfg.EndpointOverride,
		Mode:     cfg.ModeOverride,
		LobbyKey: cfg.LobbyKeyOverride,
	}
	return settings.NewOverlay(base, over), closeFn, nil
}
