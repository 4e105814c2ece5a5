package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrymomot/formrules/pkg/async"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// CheckRequest is the body posted by the remote rule.
type CheckRequest struct {
	Field  string            `json:"field"`
	Value  string            `json:"value"`
	Params []string          `json:"params,omitempty"`
	Values map[string]string `json:"values,omitempty"`
}

// checkReply mirrors the JSON envelope served by httpapi.
type checkReply struct {
	Data *struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message,omitempty"`
	} `json:"data,omitempty"`
	Error *struct {
		Code    string              `json:"code,omitempty"`
		Message string              `json:"message,omitempty"`
		Details map[string][]string `json:"details,omitempty"`
	} `json:"error,omitempty"`
}

// HTTPRule returns the remote[path] rule. It posts the field value to
// endpoint/path and suspends the field until the server answers:
//
//   - 2xx with data.valid true passes;
//   - 422, or 2xx with data.valid false, fails with the server's message;
//   - anything else fails the field and is logged by the form.
//
// A path holding a scheme is used as the full URL. Additional rule parameters
// are posted as-is, and a parameter of the form "#key" adds that field's
// current value under values.
func HTTPRule(client *http.Client, endpoint string) validator.RuleFunc {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(endpoint, "/")

	return func(ctx context.Context, c *validator.Check) validator.Result {
		if len(c.Params) == 0 || c.Params[0] == "" {
			return validator.Fail()
		}
		target := c.Params[0]
		if !strings.Contains(target, "://") {
			if base == "" {
				return validator.Await(async.Rejected[validator.Result](ErrEmptyEndpoint))
			}
			target = base + "/" + strings.TrimLeft(target, "/")
		}

		req := CheckRequest{Field: c.Key, Value: c.Value}
		for _, p := range c.Params[1:] {
			if key, ok := strings.CutPrefix(p, "#"); ok {
				if in, found := c.Lookup(key); found {
					if req.Values == nil {
						req.Values = make(map[string]string)
					}
					req.Values[key] = in.Value
				}
				continue
			}
			req.Params = append(req.Params, p)
		}

		return validator.Await(async.Async(ctx, req, func(ctx context.Context, req CheckRequest) (validator.Result, error) {
			return post(ctx, client, target, req)
		}))
	}
}

func post(ctx context.Context, client *http.Client, target string, body CheckRequest) (validator.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return validator.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return validator.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return validator.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return validator.Result{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var reply checkReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return validator.Result{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity || reply.Error != nil {
		if reply.Error == nil {
			return validator.Fail(), nil
		}
		if msgs := reply.Error.Details[body.Field]; len(msgs) > 0 && msgs[0] != "" {
			return validator.Result{}, async.Rejection(msgs[0])
		}
		if reply.Error.Message != "" {
			return validator.Result{}, async.Rejection(reply.Error.Message)
		}
		return validator.Fail(), nil
	}

	if reply.Data == nil {
		return validator.Result{}, ErrMalformedReply
	}
	if !reply.Data.Valid {
		if reply.Data.Message != "" {
			return validator.Result{}, async.Rejection(reply.Data.Message)
		}
		return validator.Fail(), nil
	}
	return validator.PassWith(reply.Data.Message), nil
}
