package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koreader-utils/quotescan/internal/config"
	"github.com/koreader-utils/quotescan/internal/entities"
	"github.com/koreader-utils/quotescan/internal/harvest"
	http_controllers "github.com/koreader-utils/quotescan/internal/http"
	"github.com/koreader-utils/quotescan/internal/scanner"
	"github.com/koreader-utils/quotescan/internal/scheduler"
	"github.com/koreader-utils/quotescan/internal/statistics"
	"github.com/koreader-utils/quotescan/internal/store"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt arrives, then shuts down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the scanner, store, scheduler and HTTP API together and serves.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting quotescan v%s", version)

	if cfg.Scan.RootDir == "" {
		log.Printf("WARNING: scan root is not set. The /api/scan endpoint will find nothing. Set 'SCAN_ROOT_DIR' to enable harvesting.")
	} else if info, err := os.Stat(cfg.Scan.RootDir); err != nil || !info.IsDir() {
		log.Printf("WARNING: scan root %s does not exist or is not a directory", cfg.Scan.RootDir)
	}

	st := store.New(cfg.Store.Path)

	sc := scanner.New()
	sc.SetProgressFunc(func(folder string) {
		log.Printf("Scanning %s", folder)
	})
	if cfg.Scan.StatisticsDBPath != "" {
		sc.SetStatistics(statistics.NewReader(cfg.Scan.StatisticsDBPath))
	}

	opts := entities.ScanOptions{
		RootDir:  cfg.Scan.RootDir,
		MaxDepth: cfg.Scan.MaxDepth,
		Colors:   cfg.Scan.Colors,
	}
	pipeline := harvest.NewPipeline(sc, st, opts)

	var rescan *scheduler.RescanScheduler
	if cfg.Rescan.Enabled {
		rescan = scheduler.NewRescanScheduler(pipeline, cfg.Rescan.Schedule)
		if err := rescan.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start rescan scheduler: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Store:     st,
		Harvester: pipeline,
		Version:   version,
	})

	onShutdown := func(ctx context.Context) {
		if rescan != nil {
			rescan.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
