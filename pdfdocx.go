// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package pdfdocx converts PDF documents into editable .docx files, either by
// laying out the PDF's text structure or by recognizing rendered pages with OCR.
package pdfdocx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Converter is the PDF-to-DOCX conversion engine.
type Converter struct {
	reader     DocumentReader
	engine     StructuralEngine
	rasterizer Rasterizer
	recognizer Recognizer
	tempDir    string
	logger     zerolog.Logger

	structural *StructuralConverter
	ocr        *OCRPipeline
}

// New creates a new Converter with the given options.
func New(opts ...Option) *Converter {
	c := &Converter{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.enableDefaults()
	c.structural = NewStructuralConverter(c.engine, c.logger)
	c.ocr = NewOCRPipeline(c.rasterizer, c.recognizer, c.tempDir, c.logger)
	return c
}

func (c *Converter) enableDefaults() {
	if c.reader == nil {
		c.reader = NewPDFReader()
	}
	if c.engine == nil {
		c.engine = defaultStructuralEngine()
	}
	if c.rasterizer == nil {
		c.rasterizer = pdfiumRasterizer()
	}
	if c.recognizer == nil {
		c.recognizer = defaultRecognizer()
	}
}

// Convert converts one PDF. Every failure is an *Error whose Kind tells what
// went wrong.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) error {
	log := c.logger.With().Str("source", req.Source).Logger()
	log.Info().
		Str("destination", req.Destination).
		Str("quality", req.Quality.String()).
		Bool("ocr", req.OCR).
		Str("pages", req.Pages).
		Msg("starting conversion")

	err := c.convert(ctx, log, req)
	if err != nil {
		log.Error().Err(err).Str("kind", string(KindOf(err))).Msg("conversion failed")
		return err
	}
	log.Info().Msg("conversion complete")
	return nil
}

func (c *Converter) convert(ctx context.Context, log zerolog.Logger, req ConversionRequest) error {
	if err := ctx.Err(); err != nil {
		return newError(KindCanceled, req.Source, err, "conversion of %s canceled", req.Source)
	}
	if req.Destination == "" {
		return newError(KindInvalidArgument, req.Source, nil, "no destination given for %s", req.Source)
	}
	if _, err := os.Stat(req.Source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(KindNotFound, req.Source, err, "file does not exist: %s", req.Source)
		}
		return newError(KindUnreadable, req.Source, err, "cannot access file %s: %v", req.Source, err)
	}
	if !strings.EqualFold(filepath.Ext(req.Source), ".pdf") {
		return newError(KindInvalidInput, req.Source, nil, "file is not a PDF: %s", req.Source)
	}

	info, err := c.reader.Open(ctx, req.Source)
	if err != nil {
		if KindOf(err) == KindCanceled {
			return newError(KindCanceled, req.Source, err, "conversion of %s canceled", req.Source)
		}
		return err
	}
	log.Info().Int("page_count", info.PageCount).Msg("PDF opened")

	spec := ParsePageSpec(req.Pages)
	sel := spec.Resolve(info.PageCount)
	if !spec.Blank() && len(sel) == 0 {
		return newError(KindInvalidInput, req.Source, nil,
			"page range %q selects no pages of a %d-page document", req.Pages, info.PageCount)
	}

	profile, err := ResolveQuality(req.Quality)
	if err != nil {
		return err
	}

	if req.OCR {
		return c.ocr.Convert(ctx, req.Source, req.Destination, sel, info.PageCount)
	}
	return c.structural.Convert(ctx, req.Source, req.Destination, profile, Intervals(sel, info.PageCount))
}
