package validator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

func TestParseTimely(t *testing.T) {
	t.Parallel()

	tests := map[string]validator.Timely{
		"off":   validator.TimelyOff,
		"0":     validator.TimelyOff,
		"blur":  validator.TimelyOnBlur,
		"":      validator.TimelyOnBlur,
		"INPUT": validator.TimelyOnInput,
		"2":     validator.TimelyOnInput,
	}
	for in, want := range tests {
		got, err := validator.ParseTimely(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := validator.ParseTimely("sometimes")
	assert.ErrorIs(t, err, validator.ErrInvalidTimely)

	text, err := validator.TimelyOnInput.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "input", string(text))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FORMRULES_STOP_ON_ERROR", "true")
	t.Setenv("FORMRULES_TIMELY", "input")
	t.Setenv("FORMRULES_DEBOUNCE", "250ms")

	cfg, err := validator.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.StopOnError)
	assert.Equal(t, validator.TimelyOnInput, cfg.Timely)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "en", cfg.Language)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	bundle := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(bundle, []byte(`
zh:
  messages:
    nickname: "{0}只能包含字母"
  rules:
    nickname:
      pattern: '^[a-z]+$'
`), 0o600))

	form, catalog, err := validator.NewFromConfig(ctx, validator.Config{
		StopOnError: true,
		Language:    "zh-CN",
		Bundle:      bundle,
	},
		validator.WithInputs(validator.Values(map[string]string{"nick": "Ann1", "name": ""})),
		validator.WithField("nick", validator.FieldSpec{Rule: "昵称: nickname"}),
		validator.WithField("name", validator.FieldSpec{Rule: "required"}),
	)
	require.NoError(t, err)
	defer form.Close()
	assert.Equal(t, "zh", catalog.Language())

	v := form.Validate(ctx)
	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"nick": "昵称只能包含字母"}, v.Errors().Map(), "stops at the first failure")

	_, _, err = validator.NewFromConfig(ctx, validator.Config{Language: "fr"})
	assert.Error(t, err)

	_, _, err = validator.NewFromConfig(ctx, validator.Config{Bundle: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}
