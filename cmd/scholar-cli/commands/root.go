package commands

import (
	"context"
	"fmt"
	"os"

	"scholarcite/lib/restyutil"
	"scholarcite/lib/scholar"
	"scholarcite/lib/serviceutil"
	"scholarcite/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scholar-cli",
	Short: "scholar-cli queries Google Scholar and downloads reference exports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		_, err := telemetry.SetupFromEnv(cmd.Context(), "scholar-cli")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		telemetry.InstrumentPerfStats(cmd.Context())

		if verbose {
			scholar.SetRestyInstrumentOutput(
				restyutil.NewFilesystemOutput(".dev/resty/scholar"),
			)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable debug logging and HTTP transcript dumps.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
