package main

import (
	"fmt"
	"os"

	"github.com/aretw0/qiscreen/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qiscreen",
	Short: "qiscreen is an adaptive Qi screening questionnaire",
	Long: `qiscreen walks a question bank adaptively, accumulates Qi, Lumin and rhythm
vectors, derives the five breath signals and interrupts with a safety shield when
they fall outside the safe band.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("bank", "b", "questions.yaml", "Question bank file (YAML or JSON)")
	flags.Int("min", 0, "Minimum answers before a session may end (0 uses the default)")
	flags.Int("max", 0, "Maximum answers per session (0 uses the default)")
	flags.String("entry", "", "Entry question ID (defaults to the smallest ID)")
	flags.String("policy", "stage", "Fallback policy when the graph ends early: 'stage' or 'sequential'")
	flags.String("rules", "", "Guidance rule table replacing the built-in one")
	flags.Bool("debug", false, "Enable debug logging to stderr")
}

func engineOptions(cmd *cobra.Command) cli.EngineOptions {
	flags := cmd.Flags()
	opts := cli.EngineOptions{}
	opts.BankPath, _ = flags.GetString("bank")
	opts.Min, _ = flags.GetInt("min")
	opts.Max, _ = flags.GetInt("max")
	opts.Entry, _ = flags.GetString("entry")
	opts.Policy, _ = flags.GetString("policy")
	opts.RulesPath, _ = flags.GetString("rules")
	opts.Debug, _ = flags.GetBool("debug")
	return opts
}
