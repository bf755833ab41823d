package main

import (
	"fmt"

	"github.com/aretw0/qiscreen/pkg/adapters/file"
	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bank]",
	Short: "Check the question bank for consistency",
	Long: `Loads the bank, reports every skipped record or dangling next entry, then crawls the
graph from the entry question and reports unreachable questions and options without a
next entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := engineOptions(cmd)
		if !cmd.Flags().Changed("bank") && len(args) > 0 {
			opts.BankPath = args[0]
		}
		strict, _ := cmd.Flags().GetBool("strict")

		src := file.New(opts.BankPath)
		raw, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}
		g, warnings, err := bank.NewLoader(bank.WithSourceName(src.Name())).Inspect(raw)
		for _, w := range warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", w)
		}
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		report, err := bank.Validate(g, opts.Entry)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)

		if !report.OK() || (strict && len(warnings) > 0) {
			return fmt.Errorf("validation failed: %d questions, %d warnings", g.Len(), len(warnings))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Question bank is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat load warnings as failures")
}
