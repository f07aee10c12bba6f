package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/runner"
	_ "github.com/stjepanp/pyfix/internal/rules" // Register rules via init().
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pyfix [flags] [path...]",
	Short: "Check and fix Python style violations",
	Long: `pyfix inspects Python source files and writes a style-conformant
copy of each file, never touching the original. With no paths, the
current directory is walked recursively.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	flags := rootCmd.Flags()

	flags.String("config", "", "path to config file")
	flags.Bool("check", false, "report violations without writing output")
	flags.Bool("diff", false, "print unified diff instead of writing output")
	flags.String("report", runner.ReportText, "summary format: text or yaml")
	flags.BoolP("quiet", "q", false, "suppress the summary and most logging")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	// Configuration overrides; anything unset falls through to the config
	// file, environment, then defaults.
	flags.Int("indent-unit", 0, "canonical indentation unit in spaces")
	flags.Int("tab-width", 0, "columns per tab when measuring width")
	flags.Int("max-line-length", 0, "maximum line length in columns")
	flags.Int("max-blank-lines", -1, "maximum run of blank lines")
	flags.StringSlice("enabled-rules", nil, "rules to run")
	flags.String("output-mode", "", "suffix or mirror-directory")
	flags.String("output-dir", "", "destination root for mirror-directory mode")
	flags.String("suffix", "", "filename suffix for suffix mode")
	flags.Bool("overwrite", false, "allow replacing existing output files")
	flags.Duration("io-timeout", 0, "per-file read/write timeout")
	flags.Int("jobs", 0, "parallel workers (0 = number of CPUs)")

	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return err
	}

	check, _ := flags.GetBool("check")
	diffFlag, _ := flags.GetBool("diff")
	report, _ := flags.GetString("report")
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")

	if report != runner.ReportText && report != runner.ReportYAML {
		return fmt.Errorf("unknown report format %q", report)
	}

	code := runner.Run(cmd.Context(), &runner.Options{
		Paths:   args,
		Config:  cfg,
		Check:   check,
		Diff:    diffFlag,
		Report:  report,
		Quiet:   quiet,
		Verbose: verbose,
	})
	if code != runner.ExitOK {
		return exitError(code)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pyfix %s (%s) %s\n", version, commit, date)
	},
}

// exitError carries a process exit code through cobra's error return.
type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("exit code %d", int(e))
}

// Execute runs the root command and maps the outcome to an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var code exitError
		if errors.As(err, &code) {
			return int(code)
		}
		fmt.Fprintf(rootCmd.ErrOrStderr(), "pyfix: %v\n", err)
		return runner.ExitFatal
	}
	return runner.ExitOK
}
