package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

type parsedStep struct {
	Method string   `json:"method"`
	Negate bool     `json:"negate,omitempty"`
	Or     bool     `json:"or,omitempty"`
	Params []string `json:"params,omitempty"`
	Known  bool     `json:"known"`
}

type parsedRule struct {
	Display   string       `json:"display,omitempty"`
	Canonical string       `json:"canonical"`
	Steps     []parsedStep `json:"steps"`
}

func (a *app) parseCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <rule>",
		Short: "Show how a rule string compiles",
		Example: `  rulecheck parse "Age: required; integer[+] | float[+]"
  rulecheck parse --json "!digits; length[4~8]"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain := validator.Parse(args[0])
			reg := validator.Global()

			rule := parsedRule{Display: chain.Display, Canonical: chain.String(), Steps: make([]parsedStep, 0, len(chain.Steps))}
			for _, st := range chain.Steps {
				_, known := reg.Lookup(st.Method)
				rule.Steps = append(rule.Steps, parsedStep{Method: st.Method, Negate: st.Negate, Or: st.Or, Params: st.Params, Known: known})
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(rule)
			}

			if rule.Display != "" {
				fmt.Fprintf(a.out, "display: %s\n", rule.Display)
			}
			fmt.Fprintf(a.out, "rule:    %s\n", rule.Canonical)
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for i, st := range chain.Steps {
				var notes string
				if st.Or {
					notes = "or next"
				}
				if !rule.Steps[i].Known {
					notes += " (unknown rule)"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, st.String(), notes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the compiled steps as JSON")
	return cmd
}
