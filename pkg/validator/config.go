package validator

import (
	"context"
	"time"

	"github.com/dmitrymomot/formrules/pkg/config"
	"github.com/dmitrymomot/formrules/pkg/i18n"
)

// Config holds the environment-driven form settings.
type Config struct {
	StopOnError bool          `env:"FORMRULES_STOP_ON_ERROR" envDefault:"false"`
	Timely      Timely        `env:"FORMRULES_TIMELY" envDefault:"blur"`
	Debounce    time.Duration `env:"FORMRULES_DEBOUNCE" envDefault:"500ms"`
	// Language selects the message bundle.
	Language string `env:"FORMRULES_LANGUAGE" envDefault:"en"`
	// Bundle is an optional YAML or JSON file with extra messages and rules.
	Bundle string `env:"FORMRULES_BUNDLE"`
}

// LoadConfig reads Config from the environment on every call, plus the
// given dotenv files.
func LoadConfig(files ...string) (Config, error) {
	var cfg Config
	if err := config.Parse(&cfg, "", files...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewCatalog builds the message catalog described by cfg: the built-in
// bundles, the optional bundle file, and the configured language.
func NewCatalog(ctx context.Context, cfg Config) (*i18n.Catalog, error) {
	catalog := i18n.NewCatalog(i18n.Builtin())
	if cfg.Bundle != "" {
		bundles, err := i18n.LoadFile(ctx, cfg.Bundle)
		if err != nil {
			return nil, err
		}
		for _, b := range bundles {
			catalog.Add(b)
		}
	}
	if cfg.Language != "" {
		if err := catalog.SetLanguage(cfg.Language); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// NewFromConfig creates a form whose messages follow the catalog built from
// cfg. Options given after cfg win.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Form, *i18n.Catalog, error) {
	catalog, err := NewCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	all := append([]Option{WithConfig(cfg), WithCatalog(catalog)}, opts...)
	return New(all...), catalog, nil
}
