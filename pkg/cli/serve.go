package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/cli/config"
	controller "github.com/m-mizutani/repowiki/pkg/controller/http"
	"github.com/m-mizutani/repowiki/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		githubCfg  config.GitHub
		llmCfg     config.LLM
		cacheCfg   config.Cache
		catalogCfg config.ModelCatalog
		sentryCfg  config.Sentry
		authCfg    config.Auth
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting repowiki server",
				slog.String("addr", serverCfg.Addr),
				slog.String("cache_backend", cacheCfg.Backend),
				slog.Bool("auth_enabled", authCfg.Enabled()),
			)

			flush, err := sentryCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer flush()

			cache, closeCache, err := cacheCfg.New(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to create wiki cache")
			}
			defer closeCache()

			githubClient, err := githubCfg.New()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			catalog, err := catalogCfg.New(ctx)
			if err != nil {
				return err
			}

			registry := llmCfg.New()
			logger.Info("LLM providers configured", slog.Any("providers", registry.Providers()))

			// Create use cases
			chatUC, err := usecase.NewChat(registry, catalog, usecase.WithGitHubClient(githubClient))
			if err != nil {
				return goerr.Wrap(err, "failed to create chat use case")
			}

			opts := []controller.Option{
				controller.WithAddr(serverCfg.Addr),
				controller.WithRepositoryUseCase(usecase.NewRepository(githubClient)),
				controller.WithWikiUseCase(usecase.NewWiki(cache)),
				controller.WithChatUseCase(chatUC),
				controller.WithModelCatalog(catalog),
			}
			if authCfg.Enabled() {
				opts = append(opts, controller.WithAuthSecret([]byte(authCfg.Secret)))
			}

			server, err := controller.NewServer(ctx, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			return runServer(ctx, server)
		},
	}
}

// runServer serves until the context is cancelled or a signal arrives, then shuts down gracefully
func runServer(ctx context.Context, server *controller.Server) error {
	logger := ctxlog.From(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	case sig := <-sigChan:
		logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
	case err := <-errCh:
		return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", server.Addr))
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}

	logger.Info("Server shutdown complete")
	return nil
}
