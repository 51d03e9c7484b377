package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/config"
	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/routers"
	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/internal/session"
	"github.com/Gopher0727/Cario/internal/storage"
	"github.com/Gopher0727/Cario/middleware/jwt"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/ratelimit"
)

func newServeCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Chạy BFF HTTP cho giao diện web",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), st.cfg, st.log)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 会话存在 Redis 时限流也使用 Redis，多个实例共享计数
	var (
		rdb     *redis.Client
		limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	)
	if cfg.Session.Store == "redis" {
		var err error
		rdb, err = storage.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis 初始化失败: %w", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, log.Logger, cfg.RateLimit.FailOpen)
	}

	store, err := session.NewStore(cfg.Session, rdb)
	if err != nil {
		return fmt.Errorf("会话存储初始化失败: %w", err)
	}

	svcs := services.New(client.New(cfg.Backend, log), store, cfg, log)
	engine := routers.NewEngine(routers.Deps{
		Config:  cfg,
		Log:     log,
		Tokens:  jwt.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL),
		Limiter: limiter,
	}, svcs)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("正在启动服务器", zap.Int("port", cfg.Server.Port), zap.String("backend", cfg.Backend.BaseURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("启动服务器失败: %w", err)
	case <-ctx.Done():
	}

	log.Info("正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
