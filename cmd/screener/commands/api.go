package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/superinvestor/internal/api"
	"github.com/wonny/superinvestor/internal/api/handlers"
	"github.com/wonny/superinvestor/internal/scheduler"
	"github.com/wonny/superinvestor/internal/screener"
	"github.com/wonny/superinvestor/pkg/config"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 스크리너 결과 조회 (JSON / CSV)
- WebSocket 진행률 스트림 제공

Endpoints:
  GET  /health                  - Health check
  GET  /api/holdings            - 스크리너 결과 (JSON)
  GET  /api/holdings.csv        - CSV 다운로드
  GET  /api/holdings/progress   - 최근 실행 진행률
  GET  /api/holdings/stream     - WebSocket 진행률 스트림
  DELETE /api/cache             - 캐시 비우기

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "같은 프로세스에서 캐시 갱신 작업 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if apiPort != "" {
			cfg.Port = apiPort
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// 동시 요청은 하나의 실행을 공유
	tracker := screener.NewTracker()
	shared := screener.NewShared(a.pipeline, tracker, log)
	holdingsHandler := handlers.NewHoldingsHandler(shared, tracker, log)
	streamHandler := handlers.NewStreamHandler(shared, log)
	cacheHandler := handlers.NewCacheHandler(a.purger, log)

	router := api.NewRouter(holdingsHandler, streamHandler, cacheHandler, log)
	server := api.New(a.cfg, log, router)

	var sched *scheduler.Scheduler
	if apiWithScheduler {
		sched, err = newScheduler(a)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	PrintSuccess(fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	fmt.Fprintln(statusOut, "\nAvailable endpoints:")
	PrintList([]string{
		"GET  /health",
		"GET  /api/holdings",
		"GET  /api/holdings.csv",
		"GET  /api/holdings/progress",
		"GET  /api/holdings/stream",
		"DELETE /api/cache",
	})
	fmt.Fprintln(statusOut, "\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
