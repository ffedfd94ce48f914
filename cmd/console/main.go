package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/resume-console/internal/config"
	"github.com/zhouzirui/resume-console/internal/handler"
	"github.com/zhouzirui/resume-console/internal/metrics"
	"github.com/zhouzirui/resume-console/internal/service/api"
	"github.com/zhouzirui/resume-console/internal/service/coordinator"
	"github.com/zhouzirui/resume-console/internal/service/session"
	"github.com/zhouzirui/resume-console/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 设备标识持久化在本地 SQLite 中，跨重启保持不变。
	store, err := session.OpenSQLiteStore(cfg.Session.StorePath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()
	identity := session.NewIdentity(store, cfg.Session.Key)

	client := api.NewClient(cfg.Backend.BaseURL, &api.Options{Timeout: cfg.Backend.Timeout})
	checkBackend(ctx, client, cfg.Backend.BaseURL)

	var recorder *metrics.Recorder
	if cfg.Server.MetricsEnabled {
		recorder = metrics.NewRecorder()
		log.Println("metrics enabled at /metrics")
	} else {
		log.Println("metrics disabled by configuration")
	}

	state := view.NewState()
	flows := coordinator.New(client, state, identity, recorder)
	log.Printf("device session %s", flows.SessionID())

	router := handler.NewRouter(flows, state, recorder)

	startServer(ctx, cfg.Server, router)
}

// checkBackend 仅记录后端可达性，不可达时控制台照常启动。
func checkBackend(ctx context.Context, client *api.Client, baseURL string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		log.Printf("warning: resume service at %s not reachable: %v", baseURL, err)
		return
	}
	log.Printf("resume service at %s is healthy", baseURL)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Resume console listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
