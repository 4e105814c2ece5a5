package remote

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

// Register installs the remote rules into reg, or into the global registry
// when reg is nil. The unique rule is only installed when store is not nil.
// A nil client is replaced by one bounded by cfg.Timeout. Failure messages
// come from the registry's bundle ("unique", "remote").
func Register(reg *validator.Registry, cfg Config, store SetMember, client *http.Client) error {
	if reg == nil {
		reg = validator.Global()
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	var errs []error
	if store != nil {
		errs = append(errs, reg.AddRule("unique", "", UniqueRule(store, cfg.SetPrefix, cfg.Timeout)))
	}
	errs = append(errs, reg.AddRule("remote", "", HTTPRule(client, cfg.Endpoint)))
	return errors.Join(errs...)
}
