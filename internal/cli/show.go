package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"patchstatus/internal/overview"
	"patchstatus/internal/report"
	"patchstatus/internal/runner"
)

var (
	showFormat   string
	showPackages []string
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"patchs", "patch:show"},
		Short:   "Show whether each declared patch is applied",
		Long: "Reads composer.json and composer.lock from the parent of the project root and\n" +
			"dry-runs every declared patch against its installed package.",
		Args: cobra.NoArgs,
		RunE: runShow,
	}

	cmd.Flags().StringVar(&showFormat, "format", string(report.FormatTable), "Output format: "+strings.Join(report.Formats(), ", "))
	cmd.Flags().StringSliceVar(&showPackages, "package", nil, "Only report these packages (repeatable)")
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(showFormat)
	if err != nil {
		return err
	}

	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}
	if err := cfg.Err(); err != nil {
		return err
	}

	logger, closer, err := newLogger(cmd, pp)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := overview.NewService(pp, cfg, runner.CmdRunner{}, logger)
	svc.Packages = showPackages

	records, err := svc.Collect(cmd.Context())
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), format, report.Rows(records))
}
