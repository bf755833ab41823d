package main

import (
	"fmt"

	"github.com/aretw0/qiscreen/internal/cli"
	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/internal/presentation/graph"
	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [bank]",
	Short: "Export the question graph visualization",
	Long:  `Loads the bank and outputs a Mermaid diagram (graph TD). Questions unreachable from the entry are highlighted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := engineOptions(cmd)
		if !cmd.Flags().Changed("bank") && len(args) > 0 {
			opts.BankPath = args[0]
		}

		engine, err := cli.NewEngine(cmd.Context(), opts, logging.NewNop())
		if err != nil {
			return err
		}
		g := engine.Graph()

		report, err := bank.Validate(g, opts.Entry)
		if err != nil {
			return err
		}
		overlay := &graph.GraphOverlay{UnreachableNodes: report.Unreachable}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, report.Entry, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
