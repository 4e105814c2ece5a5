package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/remote"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// errInvalid reports a form that failed validation. main exits 1 without
// printing it, the results are already on stdout.
var errInvalid = errors.New("validation failed")

type app struct {
	v       *viper.Viper
	out     io.Writer
	errOut  io.Writer
	cfgFile string
	log     *slog.Logger
}

func newRootCmd(v *viper.Viper, out, errOut io.Writer) *cobra.Command {
	a := &app{v: v, out: out, errOut: errOut, log: logger.Discard()}

	cmd := &cobra.Command{
		Use:   "rulecheck",
		Short: "Compile, run and serve declarative form validation rules",
		Long: `rulecheck works with rule strings such as "Email: required; email" and
form definitions written in YAML.

  rulecheck parse     show how a rule string compiles
  rulecheck validate  validate values against a form definition
  rulecheck serve     serve a form definition over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./.rulecheck.yaml)")
	pf.String("lang", "en", "message language")
	pf.String("bundle", "", "extra message and rule bundle (YAML or JSON)")
	pf.Duration("timeout", 10*time.Second, "how long to wait for asynchronous rules")
	pf.String("redis-url", "", "Redis URL enabling the unique rule")
	pf.String("unique-prefix", "formrules:unique:", "set name prefix for unique rules without a set")
	pf.String("remote-endpoint", "", "base URL for remote[path] rules")
	pf.BoolP("verbose", "v", false, "log engine activity to stderr")

	cmd.AddCommand(a.parseCmd(), a.validateCmd(), a.serveCmd())
	return cmd
}

// initConfig layers flags over RULECHECK_* variables over the config file.
func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".rulecheck")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("RULECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	level := slog.LevelWarn
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.log = logger.New(
		logger.WithFormat(logger.FormatText),
		logger.WithOutput(a.errOut),
		logger.WithLevel(level),
		logger.WithAttr(logger.Component("rulecheck")),
	)
	return nil
}

// formConfig starts from the FORMRULES_* environment; flags, RULECHECK_*
// variables and the config file override it.
func (a *app) formConfig() (validator.Config, error) {
	cfg, err := validator.LoadConfig()
	if err != nil {
		return validator.Config{}, err
	}
	cfg.Timely = validator.TimelyOff
	if a.v.IsSet("stop-on-error") {
		cfg.StopOnError = a.v.GetBool("stop-on-error")
	}
	if a.v.IsSet("lang") {
		cfg.Language = a.v.GetString("lang")
	}
	if a.v.IsSet("bundle") {
		cfg.Bundle = a.v.GetString("bundle")
	}
	return cfg, nil
}

// registry returns a registry with the remote rules installed. close releases
// the Redis connection, if one was opened; checks probe it.
func (a *app) registry(ctx context.Context) (reg *validator.Registry, closeFn func(), checks []func(context.Context) error, err error) {
	cfg := remote.Config{
		RedisURL:       a.v.GetString("redis-url"),
		RetryAttempts:  3,
		RetryInterval:  time.Second,
		ConnectTimeout: a.v.GetDuration("timeout"),
		SetPrefix:      a.v.GetString("unique-prefix"),
		Endpoint:       a.v.GetString("remote-endpoint"),
		Timeout:        a.v.GetDuration("timeout"),
	}

	reg = validator.NewRegistry(validator.Global())
	closeFn = func() {}

	var store remote.SetMember
	if cfg.RedisURL != "" {
		client, err := remote.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		store = client
		closeFn = func() { _ = client.Close() }
		checks = append(checks, remote.Healthcheck(client, cfg.SetPrefix))
	}

	if err := remote.Register(reg, cfg, store, &http.Client{Timeout: cfg.Timeout}); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return reg, closeFn, checks, nil
}
