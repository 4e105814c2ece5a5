// Package remote provides validation rules that need a round trip to
// another system. Both rules suspend the field they run on and settle it when
// the answer arrives, so a form using them returns a pending verdict.
//
// The unique[set] rule asks a Redis set (github.com/redis/go-redis/v9)
// whether the value is already taken:
//
//	client, err := remote.ConnectRedis(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	reg := validator.NewRegistry(validator.Global())
//	if err := remote.Register(reg, cfg, client, nil); err != nil {
//	    return err
//	}
//	form := validator.New(
//	    validator.WithRegistry(reg),
//	    validator.WithFields(map[string]string{"email": "Email: required; unique[users:email]"}),
//	)
//
// The remote[path] rule posts the value to a validation server such as the
// one in package httpapi and adopts its verdict. A rejection message sent by
// the server becomes the field's message:
//
//	"username": "required; remote[validate/username]"
//
// ConnectRedis retries the initial ping. Healthcheck runs the unique rule's
// set lookup and suits GET /healthz as a readiness check.
package remote
