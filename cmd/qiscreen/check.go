package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/qiscreen/pkg/shield"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [request.json]",
	Short: "Run a privacy-reduced shield check",
	Long: `Reads {"breath": {...}, "qiMax": n} from the file or stdin and prints the detection
verdict as JSON. No question bank is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var req shield.CheckRequest
		if err := json.NewDecoder(in).Decode(&req); err != nil {
			return fmt.Errorf("invalid check request: %w", err)
		}
		res, err := shield.Check(req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
