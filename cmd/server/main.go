package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpadapter "routeguide/internal/adapter/http"
	metricsinmem "routeguide/internal/adapter/metrics/inmemory"
	"routeguide/internal/adapter/page/feed"
	"routeguide/internal/adapter/pagedata"
	"routeguide/internal/adapter/push/ws"
	"routeguide/internal/adapter/repo/memory"
	gormrepo "routeguide/internal/adapter/repo/gorm"
	sqliterepo "routeguide/internal/adapter/repo/sqlite"
	"routeguide/internal/app/importroute"
	"routeguide/internal/app/ports"
	"routeguide/internal/app/routedata"
	"routeguide/internal/app/selection"
	"routeguide/internal/app/tracking"
	"routeguide/internal/domain/route"
	"routeguide/internal/platform/config"
	"routeguide/internal/platform/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) error {
	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	pages, err := buildPageSource(cfg)
	if err != nil {
		return err
	}

	facade := routedata.Facade{Store: store, Pages: pages}
	regions := feed.NewHub()
	highlights := ws.NewHub(logger.Named("push"), ws.WithPongWait(cfg.PushPongWait))
	kpiRecorder := metricsinmem.NewRecorder()
	decoder := route.Decoder{MaxCells: cfg.MaxPathCells}

	sessions := tracking.NewManager(ctx, tracking.Config{
		PollInterval:    cfg.PollInterval,
		PollMaxAttempts: cfg.PollMaxAttempts,
	}, tracking.Deps{
		Region:  regions,
		Sink:    highlights,
		Metrics: kpiRecorder,
		Log:     logger.Named("tracking"),
	})
	defer sessions.StopAll()

	h := httpadapter.Handler{
		SelectionUC: selection.UseCase{
			Pages:           facade,
			Routes:          facade,
			PollInterval:    cfg.PageDataPollInterval,
			PollMaxAttempts: cfg.PollMaxAttempts,
			Decoder:         decoder,
			Log:             logger.Named("selection"),
		},
		ImportUC: importroute.UseCase{
			Routes:   facade,
			Sessions: sessions,
			Metrics:  kpiRecorder,
			Decoder:  decoder,
			Log:      logger.Named("import"),
		},
		Routes:   facade,
		Regions:  regions,
		Sessions: sessions,
		KPI:      kpiRecorder,
		Decoder:  decoder,
	}

	api := server.New(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(api)

	mux := http.NewServeMux()
	mux.Handle("/ws", highlights)
	push := &http.Server{Addr: cfg.PushAddr, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("api listening", "addr", cfg.HTTPAddr, "store", cfg.Store)
		return api.Run()
	})
	g.Go(func() error {
		logger.Infow("push listening", "addr", cfg.PushAddr)
		if err := push.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("push listener: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		sessions.StopAll()
		return errors.Join(api.Shutdown(sctx), push.Shutdown(sctx))
	})
	return g.Wait()
}

func buildStore(ctx context.Context, cfg config.Config) (ports.KeyValueStore, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := gormrepo.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return gormrepo.NewKVStore(db), closeFn, nil
	case config.StoreSQLite:
		s, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func buildPageSource(cfg config.Config) (ports.PageDataSource, error) {
	if url := strings.TrimSpace(cfg.PageDataURL); url != "" {
		src, err := pagedata.NewHTTPSource(url, 5*time.Second)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	if path := strings.TrimSpace(cfg.PageDataFile); path != "" {
		return pagedata.FileSource{Path: path}, nil
	}
	return pagedata.StaticSource{}, nil
}
