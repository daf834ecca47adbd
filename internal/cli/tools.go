package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"patchstatus/internal/runner"
	"patchstatus/internal/tools"
)

var toolsJSON bool

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the external tools patchstatus uses",
		Args:  cobra.NoArgs,
		RunE:  runToolsList,
	}
	cmd.Flags().BoolVar(&toolsJSON, "json", false, "Output machine-readable JSON")
	return cmd
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	statuses := tools.Detect(cmd.Context(), runner.CmdRunner{})

	if toolsJSON {
		data, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printStatusTable(cmd, statuses)
	return nil
}

func printStatusTable(cmd *cobra.Command, statuses []tools.Status) {
	if len(statuses) == 0 {
		cmd.Println("(no tool statuses)")
		return
	}

	cmd.Printf("%-8s %-9s %-10s %-4s %s\n", "Tool", "Required", "Version", "OK", "Path")
	for _, st := range statuses {
		ok := "no"
		if st.Satisfied {
			ok = "yes"
		}
		required := "no"
		if st.Required {
			required = "yes"
		}
		path := st.Path
		if path == "" {
			path = "(missing)"
		}
		cmd.Printf("%-8s %-9s %-10s %-4s %s\n", st.Tool, required, st.Version, ok, path)
		if st.Error != "" {
			cmd.Printf("  error: %s\n", st.Error)
		}
	}
}
