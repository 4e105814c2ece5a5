package remote

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/formrules/pkg/async"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// SetMember is the part of a Redis client the unique rule needs.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type SetMember interface {
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
}

// UniqueRule returns the unique[set] rule. The value is looked up in the named
// Redis set, or in prefix+field key when the rule names none, and fails when it
// is already a member. The lookup runs asynchronously, so the field suspends
// until the store answers. Store errors fail the field and are logged by the
// form.
func UniqueRule(client SetMember, prefix string, timeout time.Duration) validator.RuleFunc {
	return func(ctx context.Context, c *validator.Check) validator.Result {
		if c.Value == "" {
			return validator.Pass()
		}
		set := prefix + c.Key
		if len(c.Params) > 0 && c.Params[0] != "" {
			set = c.Params[0]
		}

		return validator.Await(async.Async(ctx, c.Value, func(ctx context.Context, value string) (validator.Result, error) {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			taken, err := client.SIsMember(ctx, set, value).Result()
			if err != nil {
				return validator.Result{}, err
			}
			return validator.Bool(!taken), nil
		}))
	}
}
