package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version = "0.1.0"
	rootCmd *cobra.Command
)

// exitError carries a process exit code out of a command without losing
// the usual cobra error path.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "secbench",
		Short: "Scan-compare harness for security analyzers",
		Long: "Secbench drives an external vulnerability analyzer over a tree of source files,\n" +
			"stores per-file results next to the sources, bootstraps expected baselines on\n" +
			"first run and compares against them on every later run.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("output", "o", "./reports", "Output directory for run records")
	rootCmd.PersistentFlags().String("prompts-dir", "./prompts", "Directory holding prompt files")
	rootCmd.PersistentFlags().Bool("fail-on-error", true, "Non-zero exit when per-file errors occurred")
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("prompts_dir", rootCmd.PersistentFlags().Lookup("prompts-dir"))
	_ = viper.BindPFlag("fail_on_error", rootCmd.PersistentFlags().Lookup("fail-on-error"))

	// Environment variable support (SECBENCH_OUTPUT, etc.), plus the
	// conventional names the analyzer endpoints already use.
	viper.SetEnvPrefix("SECBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("api_key", "SECBENCH_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("endpoint", "SECBENCH_ENDPOINT", "OPENAI_BASE_URL")
	_ = viper.BindEnv("model", "SECBENCH_MODEL", "MODEL")
	_ = viper.BindEnv("tool_path", "SECBENCH_TOOL_PATH", "SCRIPT_PATH")
	_ = viper.BindEnv("tool_token", "SECBENCH_TOOL_TOKEN", "API_KEY")

	// Subcommands
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the secbench version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("secbench %s\n", Version)
		},
	}
}
