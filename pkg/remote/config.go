package remote

import "time"

type Config struct {
	RedisURL       string        `env:"FORMRULES_REDIS_URL" envDefault:"redis://localhost:6379/0"`    // RedisURL is the URL of the set store. It should be in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"FORMRULES_REDIS_RETRY_ATTEMPTS" envDefault:"3"`                // RetryAttempts is the number of attempts to connect to the set store.
	RetryInterval  time.Duration `env:"FORMRULES_REDIS_RETRY_INTERVAL" envDefault:"5s"`               // RetryInterval is the interval between connection attempts.
	ConnectTimeout time.Duration `env:"FORMRULES_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`             // ConnectTimeout bounds the whole connection procedure.
	SetPrefix      string        `env:"FORMRULES_UNIQUE_PREFIX" envDefault:"formrules:unique:"`       // SetPrefix is prepended to the field key when a unique rule names no set.
	Endpoint       string        `env:"FORMRULES_REMOTE_ENDPOINT" envDefault:"http://localhost:8080"` // Endpoint is the base URL that remote[path] rules post to.
	Timeout        time.Duration `env:"FORMRULES_REMOTE_TIMEOUT" envDefault:"10s"`                    // Timeout bounds a single remote check.
}
