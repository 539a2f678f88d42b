package pdfdocx

import "github.com/rs/zerolog"

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger (default: zerolog.Nop()).
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithDocumentReader replaces the PDF reader used to validate sources.
func WithDocumentReader(r DocumentReader) Option {
	return func(c *Converter) {
		c.reader = r
	}
}

// WithStructuralEngine replaces the layout engine of the structural converter
// (default: PDFium, or ledongthuc/pdf when built with -tags nopdfium).
func WithStructuralEngine(e StructuralEngine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithRasterizer replaces the page renderer of the OCR pipeline.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) {
		c.rasterizer = r
	}
}

// WithRecognizer replaces the text recognizer of the OCR pipeline.
func WithRecognizer(r Recognizer) Option {
	return func(c *Converter) {
		c.recognizer = r
	}
}

// WithTempDir sets the directory for temporary page images.
func WithTempDir(dir string) Option {
	return func(c *Converter) {
		c.tempDir = dir
	}
}
