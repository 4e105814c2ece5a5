package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule string
		want validator.Chain
	}{
		{
			name: "single rule",
			rule: "required",
			want: validator.Chain{Steps: []validator.Step{{Method: "required"}}},
		},
		{
			name: "display prefix and params",
			rule: "Password: required; length[6~16]",
			want: validator.Chain{
				Display: "Password",
				Steps: []validator.Step{
					{Method: "required"},
					{Method: "length", Params: []string{"6~16"}},
				},
			},
		},
		{
			name: "or run and ampersand",
			rule: "email | mobile & !digits",
			want: validator.Chain{Steps: []validator.Step{
				{Method: "email", Or: true},
				{Method: "mobile"},
				{Method: "digits", Negate: true},
			}},
		},
		{
			name: "parenthesis params keep brackets",
			rule: "match(eq, user[name], date)",
			want: validator.Chain{Steps: []validator.Step{
				{Method: "match", Params: []string{"eq", "user[name]", "date"}},
			}},
		},
		{
			name: "colon inside params is not a display",
			rule: "match[eq, a:b]",
			want: validator.Chain{Steps: []validator.Step{
				{Method: "match", Params: []string{"eq", "a:b"}},
			}},
		},
		{
			name: "empty brackets mean no params",
			rule: "required[]",
			want: validator.Chain{Steps: []validator.Step{{Method: "required"}}},
		},
		{
			name: "unterminated bracket takes the rest",
			rule: "length[6~16; required",
			want: validator.Chain{Steps: []validator.Step{
				{Method: "length", Params: []string{"6~16; required"}},
			}},
		},
		{
			name: "stray characters are skipped",
			rule: " , required ;; # digits ",
			want: validator.Chain{Steps: []validator.Step{
				{Method: "required"},
				{Method: "digits"},
			}},
		},
		{
			name: "trailing or",
			rule: "digits |",
			want: validator.Chain{Steps: []validator.Step{{Method: "digits", Or: true}}},
		},
		{
			name: "blank rule",
			rule: "   ",
			want: validator.Chain{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.Parse(tt.rule))
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	rule := "Age: required; integer[+] | range(0~150); !match[eq, name]"
	assert.Equal(t, validator.Parse(rule), validator.Parse(rule))
}

func TestChain_String(t *testing.T) {
	t.Parallel()

	rules := []string{
		"required",
		"Password: required; length[6~16]",
		"email | mobile; !required",
		"match(eq, user[name])",
		"digits |",
	}
	for _, rule := range rules {
		chain := validator.Parse(rule)
		again := validator.Parse(chain.String())
		require.Equal(t, chain, again, "rule %q rendered as %q", rule, chain.String())
	}

	assert.Equal(t, "Password: required; length[6~16]", validator.Parse("Password:required;length[ 6~16 ]").String())
}

func BenchmarkParse(b *testing.B) {
	rule := "Password: required; length[6~16] | match(eq, confirm); !digits"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chain := validator.Parse(rule)
		if len(chain.Steps) != 4 {
			b.Fatalf("expected 4 steps, got %d", len(chain.Steps))
		}
	}
}

func BenchmarkParseUnterminated(b *testing.B) {
	rule := "required; range[0~99; length[~8"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chain := validator.Parse(rule)
		if len(chain.Steps) != 2 {
			b.Fatalf("expected 2 steps, got %d", len(chain.Steps))
		}
	}
}
