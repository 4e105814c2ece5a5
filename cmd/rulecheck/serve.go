package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formrules/pkg/config"
	"github.com/dmitrymomot/formrules/pkg/httpapi"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation over HTTP",
		Long: `Serve starts the validation API. With --form, POST /validate/{field}
checks single fields of that form, which is what remote[path] rules call.`,
		Example: `  rulecheck serve --form signup.yaml --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			v := a.v

			var def validator.Definition
			if path := v.GetString("form"); path != "" {
				var err error
				if def, err = validator.LoadDefinition(path); err != nil {
					return err
				}
			}

			reg, closeRegistry, checks, err := a.registry(ctx)
			if err != nil {
				return err
			}
			defer closeRegistry()

			formCfg, err := a.formConfig()
			if err != nil {
				return err
			}
			catalog, err := validator.NewCatalog(ctx, formCfg)
			if err != nil {
				return err
			}

			var httpCfg httpapi.Config
			if err := config.Load(&httpCfg); err != nil {
				return err
			}
			if v.IsSet("addr") {
				httpCfg.Addr = v.GetString("addr")
			}
			if v.IsSet("timeout") {
				httpCfg.ValidateTimeout = v.GetDuration("timeout")
			}

			log := logger.New(
				logger.WithEnvironment(v.GetString("env"), "rulecheck"),
				logger.WithOutput(a.errOut),
				logger.WithContextExtractors(httpapi.RequestIDExtractor()),
			)

			h := httpapi.NewHandler(
				httpapi.WithDefinition(def),
				httpapi.WithRegistry(reg),
				httpapi.WithLogger(log),
				httpapi.WithHealthChecks(checks...),
				httpapi.WithConfig(httpCfg),
				httpapi.WithFormOptions(validator.WithCatalog(catalog)),
			)
			srv := httpapi.NewServerFromConfig(httpCfg, httpapi.WithServerLogger(log))
			log.Info("serving form", slog.Int("fields", len(def.Fields)), slog.String("lang", catalog.Language()))
			return srv.Run(ctx, h.Routes())
		},
	}
	cmd.Flags().StringP("form", "f", "", "form definition served by POST /validate/{field}")
	cmd.Flags().String("addr", ":8080", "listen address (overrides FORMRULES_HTTP_ADDR)")
	cmd.Flags().String("env", "development", "logging preset (development or production)")
	return cmd
}
