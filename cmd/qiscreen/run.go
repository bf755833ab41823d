package main

import (
	"github.com/aretw0/qiscreen/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [bank]",
	Short: "Run an interactive screening session",
	Long:  `Starts a screening session in the terminal. Answer with the option number, 'u' to undo or 'q' to quit.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{EngineOptions: engineOptions(cmd)}
		if !cmd.Flags().Changed("bank") && len(args) > 0 {
			opts.BankPath = args[0]
		}
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Disable colours and markdown styling")
	runCmd.Flags().BoolP("watch", "w", false, "Restart the session whenever the bank file changes")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
