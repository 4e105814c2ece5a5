package remote

import (
	"context"
	"errors"
	"fmt"
)

const healthcheckSet = "healthz"

// Healthcheck returns a readiness check for the set store behind the unique
// rule. It runs the rule's own SISMEMBER lookup against prefix+"healthz", so
// a store that answers PING but rejects set commands is reported as well.
func Healthcheck(store SetMember, prefix string) func(context.Context) error {
	set := prefix + healthcheckSet
	return func(ctx context.Context) error {
		if err := store.SIsMember(ctx, set, "").Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("set %s: %w", set, err))
		}
		return nil
	}
}
