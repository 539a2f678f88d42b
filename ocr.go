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

package pdfdocx

import (
	"context"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/nicholasgasior/pdfdocx-go/internal/ooxml"
)

const (
	// OCRDPI is the resolution pages are rendered at before recognition.
	OCRDPI = 200
	// OCRFont is the body font of OCR output documents.
	OCRFont     = "SimSun"
	ocrFontSize = 12
)

// OCRLanguages are the Tesseract models used for recognition.
var OCRLanguages = []string{"chi_sim", "eng"}

// Recognizer extracts text from a page image.
type Recognizer interface {
	// Available fails when the engine or a model for one of languages is
	// not installed.
	Available(languages []string) error
	Recognize(ctx context.Context, imagePath string, languages []string) (string, error)
}

// OCRPipeline converts PDF pages to text by rendering and recognizing them,
// then writes the text to a DOCX with one source page per document page.
type OCRPipeline struct {
	rasterizer Rasterizer
	recognizer Recognizer
	tempDir    string
	logger     zerolog.Logger
}

// NewOCRPipeline creates an OCRPipeline. Temporary page images go to tempDir,
// or the system temp directory when it is empty. Nil collaborators are
// reported as unavailable by Convert.
func NewOCRPipeline(rasterizer Rasterizer, recognizer Recognizer, tempDir string, logger zerolog.Logger) *OCRPipeline {
	return &OCRPipeline{
		rasterizer: rasterizer,
		recognizer: recognizer,
		tempDir:    tempDir,
		logger:     logger,
	}
}

// Convert recognizes pages (1-based, ascending) of source and saves the
// result to destination. An empty pages selects every page. Nothing is
// written unless every page succeeds.
func (p *OCRPipeline) Convert(ctx context.Context, source, destination string, pages []int, pageCount int) error {
	if err := p.checkAvailable(source); err != nil {
		return err
	}

	if len(pages) == 0 {
		pages = make([]int, pageCount)
		for i := range pages {
			pages[i] = i + 1
		}
	}

	doc := ooxml.NewDocument(ooxml.WithFont(OCRFont), ooxml.WithFontSize(ocrFontSize))
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return newError(KindCanceled, source, err, "OCR of %s canceled", source)
		}
		p.logger.Info().
			Int("page", page).
			Int("of", len(pages)).
			Msg("recognizing page")

		text, err := p.recognizePage(ctx, source, page)
		if err != nil {
			return err
		}
		if i > 0 {
			doc.AddPageBreak()
		}
		appendRecognizedText(doc, text)
	}

	if err := doc.Save(destination); err != nil {
		return newError(KindConversionFailed, source, err, "cannot save %s: %v", destination, err)
	}
	return nil
}

func (p *OCRPipeline) checkAvailable(source string) error {
	if p.rasterizer == nil {
		return newError(KindRasterizationUnavailable, source, nil,
			"PDF page rendering is not available: no rasterizer configured")
	}
	if err := p.rasterizer.Available(); err != nil {
		return newError(KindRasterizationUnavailable, source, err,
			"PDF page rendering is not available: %v", err)
	}
	if p.recognizer == nil {
		return newError(KindRecognitionEngineUnavailable, source, nil,
			"the Tesseract OCR engine is not installed or not configured")
	}
	if err := p.recognizer.Available(OCRLanguages); err != nil {
		return newError(KindRecognitionEngineUnavailable, source, err,
			"the Tesseract OCR engine is not installed or is missing language data: %v", err)
	}
	return nil
}

// recognizePage renders page to a private grayscale PNG, recognizes it and
// removes the image again.
func (p *OCRPipeline) recognizePage(ctx context.Context, source string, page int) (string, error) {
	img, err := p.rasterizer.RasterizePage(ctx, source, page-1, OCRDPI)
	if err != nil {
		if ctx.Err() != nil {
			return "", newError(KindCanceled, source, err, "OCR of %s canceled", source)
		}
		return "", newError(KindRasterizationFailed, source, err,
			"cannot render page %d to an image, a PDF renderer may be missing: %v", page, err)
	}

	tmp, err := os.CreateTemp(p.tempDir, "pdfdocx-page-*.png")
	if err != nil {
		return "", newError(KindRasterizationFailed, source, err, "cannot create image for page %d: %v", page, err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := imaging.Save(imaging.Grayscale(img), path); err != nil {
		return "", newError(KindRasterizationFailed, source, err, "cannot write image for page %d: %v", page, err)
	}

	text, err := p.recognizer.Recognize(ctx, path, OCRLanguages)
	if err != nil {
		if ctx.Err() != nil {
			return "", newError(KindCanceled, source, err, "OCR of %s canceled", source)
		}
		return "", newError(KindRecognitionFailed, source, err, "OCR failed on page %d: %v", page, err)
	}
	return normalizeText(text), nil
}

// appendRecognizedText adds one paragraph per blank-line separated block.
// Single newlines stay as soft breaks inside the paragraph.
func appendRecognizedText(doc *ooxml.Document, text string) {
	added := false
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.Trim(para, "\n")
		if strings.TrimSpace(para) == "" {
			continue
		}
		doc.AddText(para)
		added = true
	}
	if !added {
		doc.AddText("")
	}
}
