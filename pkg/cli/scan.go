package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorozuya-cybersecurity/secbench/internal/analyzers"
	"github.com/yorozuya-cybersecurity/secbench/internal/config"
	"github.com/yorozuya-cybersecurity/secbench/internal/harness"
	"github.com/yorozuya-cybersecurity/secbench/internal/report"
	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scan [root]",
		Short:   "Run the LLM analyzer over a source tree and compare against baselines",
		Example: "secbench scan tests/java --model gpt-4o-mini",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(viper.GetViper())
			cfg.WarnMissingCredential()

			system, user, err := analyzers.LoadScanPrompts(cfg.PromptsDir)
			if err != nil {
				return err
			}

			root := "tests"
			if len(args) > 0 {
				root = args[0]
			}

			analyzer := analyzers.NewLLM(analyzers.LLMOptions{
				Endpoint:     cfg.Endpoint,
				Model:        cfg.Model,
				APIKey:       cfg.APIKey,
				SystemPrompt: system,
				UserTemplate: user,
			})

			ext, _ := cmd.Flags().GetString("ext")

			fmt.Printf("🚀 Scanning directory: %s\n", root)
			return runHarness(cmd, &harness.Runner{
				Analyzer: analyzer,
				Kind:     schema.KindStructured,
				Root:     root,
				Ext:      ext,
				Out:      os.Stdout,
			}, cfg)
		},
	}

	cmd.Flags().String("endpoint", config.DefaultEndpoint, "OpenAI-compatible base URL")
	cmd.Flags().String("model", config.DefaultModel, "Model identifier")
	cmd.Flags().String("ext", ".java", "Source file extension to scan")
	_ = viper.BindPFlag("endpoint", cmd.Flags().Lookup("endpoint"))
	_ = viper.BindPFlag("model", cmd.Flags().Lookup("model"))

	return cmd
}

// runHarness executes a configured runner and handles the shared tail of
// both scan commands: persist the run record, print the summary, map the
// summary to a process exit code.
func runHarness(cmd *cobra.Command, r *harness.Runner, cfg config.Config) error {
	summary, rep, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	if file, err := report.Save(rep, cfg.OutputDir); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  could not save run record: %v\n", err)
	} else {
		fmt.Printf("\n📦 Run record saved to %s\n", file)
	}

	report.WriteSummary(os.Stdout, summary)
	if code := summary.ExitCode(cfg.FailOnError); code != 0 {
		return &exitError{code: code}
	}
	return nil
}
