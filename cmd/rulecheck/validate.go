package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

type validateReport struct {
	Valid   bool                         `json:"valid"`
	Results []validator.ValidationResult `json:"results"`
}

func (a *app) validateCmd() *cobra.Command {
	var (
		formFile   string
		valuesFile string
		set        map[string]string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate values against a form definition",
		Long: `Validate loads a form definition and a YAML mapping of field values,
runs every field and prints one line per field. It exits with status 1
when any field is invalid.`,
		Example: `  rulecheck validate --form signup.yaml --values values.yaml
  rulecheck validate --form signup.yaml --set email=amy@example.com --set age=42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := validator.LoadDefinition(formFile)
			if err != nil {
				return err
			}
			values, err := readValues(valuesFile)
			if err != nil {
				return err
			}
			maps.Copy(values, set)

			ctx := cmd.Context()
			reg, closeRegistry, _, err := a.registry(ctx)
			if err != nil {
				return err
			}
			defer closeRegistry()

			opts := append(def.Options(),
				validator.WithRegistry(reg),
				validator.WithInputs(validator.Values(values)),
				validator.WithLogger(a.log),
			)
			formCfg, err := a.formConfig()
			if err != nil {
				return err
			}
			form, _, err := validator.NewFromConfig(ctx, formCfg, opts...)
			if err != nil {
				return err
			}
			defer form.Close()

			waitCtx, cancel := context.WithTimeout(ctx, a.v.GetDuration("timeout"))
			defer cancel()
			err = form.Validate(waitCtx).Wait(waitCtx)
			if err != nil && !validator.IsValidationError(err) {
				return err
			}

			report := validateReport{Valid: err == nil}
			for _, key := range form.Fields() {
				if res, ok := form.Result(key); ok {
					report.Results = append(report.Results, res)
				}
			}
			if err := a.printReport(report, asJSON); err != nil {
				return err
			}
			if !report.Valid {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&formFile, "form", "f", "", "form definition file")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML mapping of field values")
	cmd.Flags().StringToStringVar(&set, "set", nil, "field value, repeatable (key=value)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	cmd.Flags().Bool("stop-on-error", false, "stop at the first invalid field")
	_ = cmd.MarkFlagRequired("form")
	return cmd
}

func (a *app) printReport(report validateReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, res := range report.Results {
		switch {
		case res.Valid:
			fmt.Fprintf(tw, "ok\t%s\t\n", res.Key)
		default:
			fmt.Fprintf(tw, "FAIL\t%s\t%s (%s)\n", res.Key, res.Message, res.Rule)
		}
	}
	return tw.Flush()
}

func readValues(path string) (map[string]string, error) {
	values := make(map[string]string)
	if path == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Join(fmt.Errorf("parse values %s", path), err)
	}
	return values, nil
}
