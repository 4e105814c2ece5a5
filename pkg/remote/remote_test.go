package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/remote"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

type fakeSet struct {
	mu      sync.Mutex
	members map[string]map[string]bool
	err     error
	keys    []string
}

func (f *fakeSet) SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	return redis.NewBoolResult(f.members[key][member.(string)], nil)
}

func (f *fakeSet) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func newForm(t *testing.T, store remote.SetMember, endpoint string, fields map[string]string, values map[string]string) *validator.Form {
	t.Helper()
	reg := validator.NewRegistry(validator.Global())
	cfg := remote.Config{SetPrefix: "taken:", Endpoint: endpoint, Timeout: time.Second}
	require.NoError(t, remote.Register(reg, cfg, store, nil))
	return validator.New(
		validator.WithRegistry(reg),
		validator.WithFields(fields),
		validator.WithInputs(validator.Values(values)),
	)
}

func TestUniqueRule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &fakeSet{members: map[string]map[string]bool{
		"users:email": {"bob@example.com": true},
		"taken:login": {"admin": true},
	}}

	tests := []struct {
		name    string
		rule    string
		key     string
		value   string
		wantErr string
		wantSet string
	}{
		{name: "free value", rule: "Email: required; unique[users:email]", key: "email", value: "amy@example.com", wantSet: "users:email"},
		{name: "taken value", rule: "Email: required; unique[users:email]", key: "email", value: "bob@example.com", wantErr: "Email is already taken.", wantSet: "users:email"},
		{name: "default set", rule: "Login: unique", key: "login", value: "admin", wantErr: "Login is already taken.", wantSet: "taken:login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := newForm(t, store, "", map[string]string{tt.key: tt.rule}, map[string]string{tt.key: tt.value})

			v := form.Validate(ctx)
			require.True(t, v.Async())
			err := v.Wait(ctx)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, []string{tt.wantErr}, validator.ExtractValidationErrors(err).Get(tt.key))
			}
			assert.Contains(t, store.seen(), tt.wantSet)
		})
	}

	t.Run("store error fails the field", func(t *testing.T) {
		broken := &fakeSet{err: errors.New("connection refused")}
		form := newForm(t, broken, "", map[string]string{"login": "Login: unique"}, map[string]string{"login": "amy"})
		err := form.Validate(ctx).Wait(ctx)
		require.Error(t, err)
		assert.Equal(t, []string{"Login is already taken."}, validator.ExtractValidationErrors(err).Get("login"))
	})

	t.Run("blank optional value is not looked up", func(t *testing.T) {
		empty := &fakeSet{}
		form := newForm(t, empty, "", map[string]string{"login": "unique"}, map[string]string{"login": ""})
		v := form.Validate(ctx)
		assert.False(t, v.Async())
		assert.True(t, v.Valid())
		assert.Empty(t, empty.seen())
	})
}

func TestHTTPRule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var (
		mu   sync.Mutex
		got  []remote.CheckRequest
		path []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remote.CheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		got = append(got, req)
		path = append(path, r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch req.Value {
		case "root":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"code":"validation_error","message":"validation failed","details":{"username":["root is reserved"]}}}`))
		case "quiet":
			_, _ = w.Write([]byte(`{"data":{"valid":false}}`))
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		case "garbage":
			_, _ = w.Write([]byte(`not json`))
		default:
			_, _ = w.Write([]byte(`{"data":{"valid":true}}`))
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "accepted", value: "amy"},
		{name: "rejected with details", value: "root", wantErr: "root is reserved"},
		{name: "refused without message", value: "quiet", wantErr: "Username was rejected."},
		{name: "server error", value: "boom", wantErr: "Username was rejected."},
		{name: "malformed reply", value: "garbage", wantErr: "Username was rejected."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := newForm(t, nil, srv.URL+"/",
				map[string]string{"username": "Username: required; remote[/validate/username]"},
				map[string]string{"username": tt.value},
			)
			err := form.Validate(ctx).Wait(ctx)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, []string{tt.wantErr}, validator.ExtractValidationErrors(err).Get("username"))
		})
	}

	t.Run("request carries params and referenced values", func(t *testing.T) {
		form := newForm(t, nil, srv.URL,
			map[string]string{"zip": "remote[validate/zip, strict, #country]"},
			map[string]string{"zip": "10115", "country": "DE"},
		)
		require.NoError(t, form.Validate(ctx).Wait(ctx))

		mu.Lock()
		defer mu.Unlock()
		var req remote.CheckRequest
		var at string
		for i, r := range got {
			if r.Field == "zip" {
				req, at = r, path[i]
			}
		}
		assert.Equal(t, "/validate/zip", at)
		assert.Equal(t, "10115", req.Value)
		assert.Equal(t, []string{"strict"}, req.Params)
		assert.Equal(t, map[string]string{"country": "DE"}, req.Values)
	})

	t.Run("missing endpoint fails", func(t *testing.T) {
		form := newForm(t, nil, "",
			map[string]string{"username": "Username: remote[validate/username]"},
			map[string]string{"username": "amy"},
		)
		err := form.Validate(ctx).Wait(ctx)
		require.Error(t, err)
		assert.Equal(t, []string{"Username was rejected."}, validator.ExtractValidationErrors(err).Get("username"))
	})
}

func TestConnectRedis(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty url", func(t *testing.T) {
		_, err := remote.ConnectRedis(ctx, remote.Config{})
		assert.ErrorIs(t, err, remote.ErrEmptyConnectionURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := remote.ConnectRedis(ctx, remote.Config{RedisURL: "http://localhost"})
		assert.ErrorIs(t, err, remote.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := remote.ConnectRedis(ctx, remote.Config{
			RedisURL:       "redis://127.0.0.1:1/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, remote.ErrRedisNotReady)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("looks up the prefixed set", func(t *testing.T) {
		t.Parallel()
		store := &fakeSet{}
		require.NoError(t, remote.Healthcheck(store, "taken:")(ctx))
		assert.Equal(t, []string{"taken:healthz"}, store.seen())
	})

	t.Run("set command rejected", func(t *testing.T) {
		t.Parallel()
		wrongType := errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
		err := remote.Healthcheck(&fakeSet{err: wrongType}, "taken:")(ctx)
		assert.ErrorIs(t, err, remote.ErrHealthcheckFailed)
		assert.ErrorIs(t, err, wrongType)
		assert.ErrorContains(t, err, "taken:healthz")
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })

		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		assert.ErrorIs(t, remote.Healthcheck(client, "")(ctx), remote.ErrHealthcheckFailed)
	})
}
