// Command rulecheck compiles, runs and serves form validation rules.
//
//	rulecheck parse "Age: required; integer[+] | float[+]"
//	rulecheck validate --form signup.yaml --values values.yaml --set email=amy@example.com
//	rulecheck serve --form signup.yaml --addr :8080
//
// Settings resolve from flags, then RULECHECK_* environment variables, then
// the file given by --config (default ./.rulecheck.yaml).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(viper.New(), os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
