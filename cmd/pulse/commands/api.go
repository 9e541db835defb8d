package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tickerpulse/internal/api"
	"github.com/wonny/tickerpulse/internal/api/handlers"
	"github.com/wonny/tickerpulse/internal/events"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                       - Health check
  GET  /api/posts[?refresh=true]     - 최신 포스트 (POSTS_LIMIT개)
  GET  /api/signals[?refresh=true]   - 산업/종목 시그널
  GET  /api/historical               - 시그널 정확도 이력
  GET  /api/events                   - 캐시 갱신 이벤트 (websocket)

--with-scheduler 를 주면 REFRESH_SCHEDULE 에 따라 같은 프로세스에서
주기적으로 refresh 를 실행하고 이벤트를 구독자에게 전달합니다.

Example:
  go run ./cmd/pulse api
  go run ./cmd/pulse api --port 5001 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "REFRESH_SCHEDULE 에 따라 주기적 refresh 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerpulse API Server ===")

	// 1. Config + logger
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 2. Cache backend
	if err := a.openStore(ctx); err != nil {
		return err
	}

	// 3. Event hub + orchestrator
	hub := events.NewHub(a.log)
	defer hub.Close()

	orch, err := a.orchestrator(hub)
	if err != nil {
		return err
	}

	// 4. Optional in-process scheduler
	if apiWithScheduler {
		sched, err := newScheduler(a, orch, a.cfg.RefreshSchedule)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// 5. Router + server
	resourceHandler := handlers.NewResourceHandler(orch, a.cfg.PostsLimit, a.log)
	router := api.NewRouter(resourceHandler, hub, a.store.Backend(), a.log)
	server := api.New("api", a.cfg.Port, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s (cache: %s)\n", a.cfg.Port, a.store.Backend())
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/posts")
	fmt.Println("  GET  /api/signals")
	fmt.Println("  GET  /api/historical")
	fmt.Println("  GET  /api/events (websocket)")
	fmt.Println("\nPress Ctrl+C to stop")

	return waitAndShutdown(server, errCh, a)
}

// waitAndShutdown blocks until an interrupt or a server error, then shuts down gracefully
func waitAndShutdown(server *api.Server, errCh <-chan error, a *app) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	a.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
