// Package config loads component configuration from the environment.
//
// Configuration structs declare their variables with `env` and `envDefault`
// tags (github.com/caarlos0/env/v11). Load reads an optional .env file once
// per process (github.com/joho/godotenv) and caches the parsed value per type,
// so every form created with the same configuration type shares one parse.
// Parse skips the cache and accepts a variable prefix plus explicit dotenv
// files, which is what the CLI and tests use.
//
//	type Config struct {
//	    StopOnError bool          `env:"FORMRULES_STOP_ON_ERROR" envDefault:"false"`
//	    Debounce    time.Duration `env:"FORMRULES_DEBOUNCE" envDefault:"500ms"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
