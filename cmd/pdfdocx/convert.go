package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/pdfdocx-go"
	"github.com/nicholasgasior/pdfdocx-go/internal/config"
	"github.com/nicholasgasior/pdfdocx-go/internal/logging"
)

// errBatchFailed is returned after the batch result has been printed.
var errBatchFailed = errors.New("conversion failed")

type convertOptions struct {
	outputDir string
	quality   string
	ocr       bool
	pages     string
	raster    string
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [flags] FILE...",
		Short: "Convert PDF files to .docx",
		Long: `Convert one or more PDF files. Each FILE is written to
<output-dir>/<name>.docx, or next to the source when no output directory
is set. Files are converted one at a time; a failed file does not stop the
batch unless a required system component (renderer or OCR engine) is missing.

Pages are 1-based and may be given as a list of numbers and ranges, for
example "1-3,5,8-10". Invalid parts are ignored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the .docx files (default: next to each PDF)")
	f.StringVarP(&opts.quality, "quality", "q", "", "layout fidelity: fast, balanced or high-fidelity")
	f.BoolVar(&opts.ocr, "ocr", false, "recognize rendered pages with Tesseract instead of reading the text layer")
	f.StringVarP(&opts.pages, "pages", "p", "", `pages to convert, e.g. "1-5,8" (default: all)`)
	f.StringVar(&opts.raster, "raster", "", "page renderer for OCR: pdfium or fitz")
	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, files []string) error {
	cfg, err := config.Load(root.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("quality") {
		cfg.Quality = opts.quality
	}
	if flags.Changed("ocr") {
		cfg.OCR.Enabled = opts.ocr
	}
	if flags.Changed("raster") {
		cfg.OCR.Raster = opts.raster
	}
	if root.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if spec := pdfdocx.ParsePageSpec(opts.pages); !spec.Blank() && spec.Empty() {
		return fmt.Errorf("invalid page range %q: expected numbers and ranges like 1-5,8", opts.pages)
	}
	quality, err := pdfdocx.ParseQuality(cfg.Quality)
	if err != nil {
		return err
	}
	rasterizer, err := pdfdocx.RasterizerByName(cfg.OCR.Raster)
	if err != nil {
		return err
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	converter := pdfdocx.New(
		pdfdocx.WithLogger(logger),
		pdfdocx.WithRasterizer(rasterizer),
		pdfdocx.WithTempDir(cfg.OCR.TempDir),
	)

	settings := pdfdocx.Settings{Quality: quality, OCR: cfg.OCR.Enabled, Pages: opts.pages}
	requests := make([]pdfdocx.ConversionRequest, 0, len(files))
	for _, f := range files {
		requests = append(requests, pdfdocx.NewRequest(f, cfg.OutputDir, settings))
	}

	bar := newProgressBar(cmd.OutOrStdout())
	var (
		success bool
		message string
	)
	summary := converter.RunBatch(cmd.Context(), requests, pdfdocx.BatchHooks{
		OnProgress: func(percent int, status string) {
			bar.Describe(status)
			_ = bar.Set(percent)
		},
		OnComplete: func(ok bool, msg string) {
			success, message = ok, msg
		},
	})
	_ = bar.Exit()
	fmt.Fprintln(cmd.OutOrStdout())

	switch {
	case success:
		printSuccess("%s", message)
		return nil
	case summary.Succeeded > 0 && !summary.Aborted:
		printWarning("%s", message)
	case summary.Canceled:
		printInfo("%s", message)
	default:
		printError("%s", message)
	}
	return errBatchFailed
}
