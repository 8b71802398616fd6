package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/blog-console/internal/config"
	"github.com/BloggingApp/blog-console/internal/handler"
	"github.com/BloggingApp/blog-console/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := handler.New(a.services, a.logger, handler.Options{
		AccessSecret:  string(a.cfg.Blog.AccessSecret),
		ClientOrigins: a.cfg.Blog.ClientOrigins,
	})
	if len(a.cfg.Blog.AccessSecret) == 0 {
		a.logger.Warn("ACCESS_SECRET is empty, every authenticated route will answer 401")
	}

	srv := server.New(config.ServerConfig{
		Port:           a.cfg.Port,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	a.logger.Sugar().Infof("Server started on port %s", a.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Sugar().Errorf("failed to run http server: %s", err.Error())
		}
		return err
	case <-quit:
	}

	a.logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
