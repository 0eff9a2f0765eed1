package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint        string        `help:"访问地址" default:"http://localhost:8989"`
	Address         string        `help:"监听地址" default:"0.0.0.0:8989"`
	ShutdownTimeout time.Duration `help:"关闭时等待请求处理完成的时间" default:"5s"`
}

type Server struct {
	*gin.Engine
	httpSrv *http.Server
	logger  *zap.Logger
	config  Config
}

func NewServer(engine *gin.Engine, logger *zap.Logger, conf Config) *Server {
	return &Server{
		Engine: engine,
		logger: logger,
		config: conf,
		httpSrv: &http.Server{
			Addr:    conf.Address,
			Handler: engine,
		},
	}
}

// Start 阻塞直到服务关闭
func (s *Server) Start(ctx context.Context) error {
	s.logger.Sugar().Infof("http server start: %s; endpoint: %s", s.config.Address, s.config.Endpoint)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run 启动服务，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.Stop(context.Background()); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("Server exiting")
	return nil
}
