package cmd

import "github.com/spf13/pflag"

// addOutputFlag registers the shared output-format flag so every
// command spells it the same way.
func addOutputFlag(flags *pflag.FlagSet, target *string) {
	flags.StringVarP(target, "output", "o", "json", "Output format (table|json|yaml)")
}
