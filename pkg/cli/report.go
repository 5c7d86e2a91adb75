package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	reportpkg "github.com/yorozuya-cybersecurity/secbench/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Generate HTML/PDF report from a saved run record",
		Example: "secbench report --from ./reports/java_20260831_101500 --format html,pdf",
		RunE:    runReport,
	}

	cmd.Flags().String("from", "", "Run record directory (must contain results.json)")
	cmd.Flags().String("format", "html,pdf", "Output formats: html,pdf,json (json just points to results.json)")

	_ = viper.BindPFlag("report.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("report.format", cmd.Flags().Lookup("format"))
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	from := viper.GetString("report.from")
	if from == "" {
		return errors.New("please provide --from pointing to the run directory (with results.json)")
	}

	formats := strings.Split(viper.GetString("report.format"), ",")
	for i := range formats {
		formats[i] = strings.TrimSpace(strings.ToLower(formats[i]))
	}

	// Load the run record and render HTML
	rep, err := reportpkg.Load(from)
	if err != nil {
		return err
	}
	htmlPath, err := reportpkg.GenerateHTML(rep, from)
	if err != nil {
		return err
	}
	fmt.Printf("📝 HTML report: %s\n", htmlPath)

	// Optional PDF (Chromedp-based)
	if contains(formats, "pdf") {
		pdfPath, err := reportpkg.GeneratePDF(cmd.Context(), htmlPath)
		if err != nil {
			fmt.Printf("⚠️  PDF generation failed: %v\n", err)
		} else {
			fmt.Printf("📄 PDF report:  %s\n", pdfPath)
		}
	}

	// Optional JSON passthrough
	if contains(formats, "json") {
		fmt.Printf("📦 JSON already exists at: %s\n", filepath.Join(from, "results.json"))
	}

	return nil
}

func contains(arr []string, v string) bool {
	for _, x := range arr {
		if x == v {
			return true
		}
	}
	return false
}
