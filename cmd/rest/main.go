package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"bioez-be/internal/bootstrap"
	"bioez-be/internal/config"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/server"
	"bioez-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing and logging
	shutdownTracer := tracer.InitTracer(ctx)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return container.WebSocketHub.Run(gctx)
	})
	g.Go(func() error {
		return container.RealtimeConsumer.Consume(gctx)
	})
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		sysLogger.Info("MAIN", "Shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sysLogger.Error("MAIN", "Server shutdown failed", map[string]interface{}{"error": err.Error()})
		}
		if err := container.ChatService.Wait(shutdownCtx); err != nil {
			sysLogger.Warn("MAIN", "Pending chat replies abandoned", map[string]interface{}{"error": err.Error()})
		}
		if err := shutdownTracer(shutdownCtx); err != nil {
			sysLogger.Warn("MAIN", "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
		return container.Close()
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error("MAIN", "Exited with error", map[string]interface{}{"error": err.Error()})
	}
}
