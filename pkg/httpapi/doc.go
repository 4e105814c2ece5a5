// Package httpapi exposes the validation engine over HTTP.
//
// The router (github.com/go-chi/chi/v5) serves three endpoints:
//
//	POST /validate          {"fields": {"age": "integer"}, "values": {"age": "x"}}
//	POST /validate/{field}  {"field": "username", "value": "root"}
//	GET  /healthz
//
// POST /validate builds a form from the request, or from the server's
// definition when the request names no fields, and replies 200 with
// data.valid true or 422 with per-field messages under error.details.
// POST /validate/{field} is the server half of the remote[path] rule from
// package remote: it validates one field of the served definition and replies
// in the shape that rule understands.
//
// Replies use the JSONResponse envelope:
//
//	{"data": {...}, "error": {"code": "validation_error", "message": "...", "details": {"age": ["..."]}}}
//
// Server adds graceful shutdown on SIGINT/SIGTERM around http.Server.
//
//	h := httpapi.NewHandler(httpapi.WithDefinition(def), httpapi.WithConfig(cfg))
//	srv := httpapi.NewServerFromConfig(cfg, httpapi.WithServerLogger(log))
//	if err := srv.Run(ctx, h.Routes()); err != nil {
//	    return err
//	}
package httpapi
