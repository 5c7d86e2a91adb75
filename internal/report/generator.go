package report

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

//go:embed report.gohtml
var reportHTMLTemplate string

// ---------- Public API ----------

// Save writes the run record as results.json inside a timestamped
// directory under outputDir and returns the file path.
func Save(rep *schema.RunReport, outputDir string) (string, error) {
	label := safeName(filepath.Base(rep.Root)) + "_" + rep.Timestamp.Format("20060102_150405")
	dir := filepath.Join(outputDir, label)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	file := filepath.Join(dir, "results.json")
	fh, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("failed to create results.json: %w", err)
	}
	defer fh.Close()

	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return file, nil
}

// Load reads a run record back from a results directory.
func Load(fromDir string) (*schema.RunReport, error) {
	data, err := os.ReadFile(filepath.Join(fromDir, "results.json"))
	if err != nil {
		return nil, fmt.Errorf("read results.json: %w", err)
	}
	var rep schema.RunReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse results.json: %w", err)
	}
	return &rep, nil
}

// GenerateHTML renders the run record into report.html inside outDir.
func GenerateHTML(rep *schema.RunReport, outDir string) (string, error) {
	vm := buildViewModel(rep)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create out dir: %w", err)
	}

	tmpl, err := template.New("report").Parse(reportHTMLTemplate)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	htmlPath := filepath.Join(outDir, "report.html")
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write report.html: %w", err)
	}
	return htmlPath, nil
}

// GeneratePDF prints the HTML report to PDF with headless Chrome.
func GeneratePDF(ctx context.Context, htmlPath string) (string, error) {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("resolve report path: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return "", fmt.Errorf("print to pdf: %w", err)
	}

	pdfPath := strings.TrimSuffix(htmlPath, ".html") + ".pdf"
	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return "", fmt.Errorf("write report.pdf: %w", err)
	}
	return pdfPath, nil
}

// ---------- View Model & helpers ----------

type viewModel struct {
	Root        string
	Kind        string
	RunTime     string
	Summary     schema.Summary
	Elapsed     string
	Files       []fileRow
	Generator   string
	GeneratedAt string
	Year        int
}

type fileRow struct {
	Path       string
	Outcome    string
	Class      string
	Diagnostic string
}

func buildViewModel(rep *schema.RunReport) viewModel {
	now := time.Now().UTC()

	rows := make([]fileRow, 0, len(rep.Files))
	for _, f := range rep.Files {
		rows = append(rows, fileRow{
			Path:       f.Path,
			Outcome:    string(f.Outcome),
			Class:      strings.ToLower(string(f.Outcome)),
			Diagnostic: trimTo(f.Diagnostic, 500),
		})
	}

	return viewModel{
		Root:        rep.Root,
		Kind:        string(rep.Kind),
		RunTime:     rep.Timestamp.UTC().Format(time.RFC3339),
		Summary:     rep.Summary,
		Elapsed:     rep.Summary.Elapsed.Round(time.Millisecond).String(),
		Files:       rows,
		Generator:   "secbench",
		GeneratedAt: now.Format(time.RFC3339),
		Year:        now.Year(),
	}
}

// trimTo truncates on a rune boundary so multibyte diagnostics stay
// valid UTF-8.
func trimTo(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// safeName replaces characters not safe for file paths
func safeName(s string) string {
	invalid := []rune{'/', '\\', ':', '*', '?', '"', '<', '>', '|'}
	rs := []rune(s)
	for i, r := range rs {
		for _, bad := range invalid {
			if r == bad {
				rs[i] = '_'
			}
		}
	}
	return string(rs)
}
