package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorozuya-cybersecurity/secbench/internal/analyzers"
	"github.com/yorozuya-cybersecurity/secbench/internal/config"
	"github.com/yorozuya-cybersecurity/secbench/internal/harness"
	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "review [root]",
		Short:   "Run the external review tool over a source tree and compare against baselines",
		Example: "secbench review tests/fraunhofer-suite --tool ./run-security-review.sh",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(viper.GetViper())

			opts, promptName, err := resolveToolOptions(cfg)
			if err != nil {
				return err
			}
			if opts.Path == "" {
				return errors.New("please provide --tool (or SECBENCH_TOOL_PATH) pointing to the review script")
			}

			opts.PromptPath, err = analyzers.ResolveToolPrompt(cfg.PromptsDir, promptName)
			if err != nil {
				return err
			}

			root := "tests"
			if len(args) > 0 {
				root = args[0]
			}

			ext, _ := cmd.Flags().GetString("ext")

			fmt.Printf("🚀 Reviewing directory: %s\n", root)
			return runHarness(cmd, &harness.Runner{
				Analyzer: analyzers.NewReviewTool(opts),
				Kind:     schema.KindLocations,
				Root:     root,
				Ext:      ext,
				Out:      os.Stdout,
			}, cfg)
		},
	}

	cmd.Flags().String("tool", "", "Path to the external review tool")
	cmd.Flags().String("tool-token", "", "Token passed to the review tool")
	cmd.Flags().String("tool-file", "", "YAML tool descriptor (path, token, extra args)")
	cmd.Flags().String("prompt-file", "security_prompt.md", "Review prompt file name inside the prompts directory")
	cmd.Flags().String("ext", ".java", "Source file extension to scan")
	_ = viper.BindPFlag("tool_path", cmd.Flags().Lookup("tool"))
	_ = viper.BindPFlag("tool_token", cmd.Flags().Lookup("tool-token"))
	_ = viper.BindPFlag("tool_file", cmd.Flags().Lookup("tool-file"))
	_ = viper.BindPFlag("prompt_file", cmd.Flags().Lookup("prompt-file"))

	return cmd
}

// resolveToolOptions merges the optional YAML tool descriptor with the
// environment-derived configuration; explicit values win.
func resolveToolOptions(cfg config.Config) (analyzers.ReviewToolOptions, string, error) {
	promptName := cfg.PromptFile
	if cfg.ToolFile == "" {
		return analyzers.ReviewToolOptions{Path: cfg.ToolPath, Token: cfg.ToolToken}, promptName, nil
	}
	tf, err := analyzers.LoadToolFile(cfg.ToolFile)
	if err != nil {
		return analyzers.ReviewToolOptions{}, "", err
	}
	if tf.PromptFile != "" {
		promptName = tf.PromptFile
	}
	return tf.Merge(cfg.ToolPath, cfg.ToolToken), promptName, nil
}
