package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/qiscreen/internal/cli"
	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the breath, shield and guidance evaluators as MCP tools over stdio,
and the loaded question graph as a resource.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := engineOptions(cmd)

		// Logs must stay off stdout, which carries JSON-RPC.
		logger := logging.New(logging.LevelFor(opts.Debug))
		log.SetOutput(os.Stderr)
		slog.SetDefault(logger)

		engine, err := cli.NewEngine(cmd.Context(), opts, logger)
		if err != nil {
			return err
		}

		srv := mcp.NewServer(engine)
		logger.Info("Starting qiscreen MCP server (stdio)", "bank", engine.Name)
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
