// Package logger builds *slog.Logger instances for formrules binaries and
// provides attribute constructors with consistent key names for the
// validation domain (form_id, field, rule, pass, valid).
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "rulecheck"),
//	    logger.WithOutput(os.Stderr),
//	)
//	log.Debug("field settled", logger.Field("email"), logger.Rule("required"), logger.Valid(false))
//
// Context extractors inject request-scoped values into every record logged
// with a *Context method:
//
//	log := logger.New(logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//	    id, ok := ctx.Value(requestIDKey{}).(string)
//	    return logger.RequestID(id), ok
//	}))
//
// Discard returns a logger that drops everything; engine packages fall back to
// it when no logger is configured.
package logger
