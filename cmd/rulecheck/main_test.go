package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/config"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

const signupForm = `
fields:
  email: "Email: required; email"
  age: "Age: integer[+]"
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(viper.New(), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "parse", "Age: required; !digits | integer[+]; nope")
	require.NoError(t, err)
	assert.Contains(t, out, "display: Age")
	assert.Contains(t, out, "rule:    Age: required; !digits | integer[+]; nope")
	assert.Contains(t, out, "or next")
	assert.Contains(t, out, "(unknown rule)")

	out, err = execute(t, "parse", "--json", "length[2~4]")
	require.NoError(t, err)
	var rule parsedRule
	require.NoError(t, json.Unmarshal([]byte(out), &rule))
	require.Len(t, rule.Steps, 1)
	assert.Equal(t, "length", rule.Steps[0].Method)
	assert.Equal(t, []string{"2~4"}, rule.Steps[0].Params)
	assert.True(t, rule.Steps[0].Known)

	_, err = execute(t, "parse")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()
	form := writeFile(t, "form.yaml", signupForm)

	t.Run("valid values", func(t *testing.T) {
		values := writeFile(t, "values.yaml", "email: amy@example.com\nage: 42\n")
		out, err := execute(t, "validate", "--form", form, "--values", values)
		require.NoError(t, err)
		assert.Contains(t, out, "ok")
		assert.NotContains(t, out, "FAIL")
	})

	t.Run("invalid values exit with errInvalid", func(t *testing.T) {
		out, err := execute(t, "validate", "--form", form, "--set", "email=nope", "--set", "age=-1")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "Please enter a valid email address.")
		assert.Contains(t, out, "Please enter a positive integer.")
	})

	t.Run("json report", func(t *testing.T) {
		out, err := execute(t, "validate", "--form", form, "--set", "email=", "--json")
		require.ErrorIs(t, err, errInvalid)
		var report validateReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.False(t, report.Valid)
		require.Len(t, report.Results, 2)
		assert.Equal(t, "email", report.Results[0].Key)
		assert.Equal(t, "required", report.Results[0].Rule)
		assert.True(t, report.Results[1].Valid, "blank optional age is valid")
	})

	t.Run("language from config file", func(t *testing.T) {
		cfg := writeFile(t, "rulecheck.yaml", "lang: zh\n")
		out, err := execute(t, "validate", "--config", cfg, "--form", form, "--set", "email=")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "Email不能为空")
	})

	t.Run("flag wins over config file", func(t *testing.T) {
		cfg := writeFile(t, "rulecheck.yaml", "lang: zh\n")
		out, err := execute(t, "validate", "--config", cfg, "--lang", "en", "--form", form, "--set", "email=")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "Email is required.")
	})

	t.Run("missing form", func(t *testing.T) {
		_, err := execute(t, "validate", "--form", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, validator.ErrInvalidDefinition)
	})

	t.Run("form flag is required", func(t *testing.T) {
		_, err := execute(t, "validate")
		assert.Error(t, err)
	})
}

func TestValidateCommand_Environment(t *testing.T) {
	form := writeFile(t, "form.yaml", signupForm)
	t.Setenv("FORMRULES_LANGUAGE", "zh")

	t.Run("language from environment", func(t *testing.T) {
		out, err := execute(t, "validate", "--form", form, "--set", "email=")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "Email不能为空")
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		out, err := execute(t, "validate", "--lang", "en", "--form", form, "--set", "email=")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "Email is required.")
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv("FORMRULES_TIMELY", "sometimes")
		_, err := execute(t, "validate", "--form", form, "--set", "email=")
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestServeCommand_BadForm(t *testing.T) {
	t.Parallel()

	form := writeFile(t, "form.yaml", "fields: [a]")
	_, err := execute(t, "serve", "--form", form)
	assert.ErrorIs(t, err, validator.ErrInvalidDefinition)
}
