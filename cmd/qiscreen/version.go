package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/qiscreen"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of qiscreen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qiscreen version %s\n", strings.TrimSpace(qiscreen.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
