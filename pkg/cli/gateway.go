package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/cli/config"
	controller "github.com/m-mizutani/repowiki/pkg/controller/http"
	"github.com/m-mizutani/repowiki/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdGateway() *cli.Command {
	var (
		serverCfg  = config.Server{Addr: "localhost:3000"}
		gatewayCfg config.Gateway
		sentryCfg  config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, gatewayCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "gateway",
		Aliases: []string{"gw"},
		Usage:   "Serve front-end API and forward backend endpoints to the API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			upstream, err := gatewayCfg.URL()
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting repowiki gateway",
				slog.String("addr", serverCfg.Addr),
				slog.String("upstream", upstream.String()),
			)

			flush, err := sentryCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer flush()

			server, err := controller.NewServer(ctx,
				controller.WithAddr(serverCfg.Addr),
				controller.WithRepositoryUseCase(usecase.NewRepository(nil)),
				controller.WithUpstream(upstream),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			return runServer(ctx, server)
		},
	}
}
