//go:build nopdfium

package pdfdocx

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PlainEngine is the StructuralEngine used when PDFium is compiled out. It
// lays out the positioned glyphs reported by ledongthuc/pdf. Pages are always
// extracted sequentially since the reader is not safe for concurrent use.
type PlainEngine struct{}

// NewPlainEngine creates a new PlainEngine.
func NewPlainEngine() *PlainEngine {
	return &PlainEngine{}
}

func defaultStructuralEngine() StructuralEngine {
	return NewPlainEngine()
}

func (e *PlainEngine) Name() string { return "ledongthuc" }

func (e *PlainEngine) ExtractPages(ctx context.Context, source string, profile QualityProfile, r PageRange) (pages []PageContent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	f, reader, err := pdf.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	n := reader.NumPage()
	rng := r.Clip(n)
	if rng.Len() == 0 {
		return nil, fmt.Errorf("pages %d-%d are outside a document of %d pages", r.Start+1, r.End, n)
	}

	for i := rng.Start; i < rng.End; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i + 1)
		content := PageContent{Index: i}
		if !page.V.IsNull() {
			content.Blocks = layoutPage(glyphRects(page.Content().Text), profile)
		}
		pages = append(pages, content)
	}
	return pages, nil
}

// glyphRects converts positioned glyphs into text rects. The reader reports
// the baseline, so the font size stands in for the glyph height.
func glyphRects(texts []pdf.Text) []textRect {
	rects := make([]textRect, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || strings.TrimSpace(t.S) == "" && t.W == 0 {
			continue
		}
		rects = append(rects, textRect{
			text:     t.S,
			left:     t.X,
			right:    t.X + t.W,
			bottom:   t.Y,
			top:      t.Y + t.FontSize,
			fontSize: t.FontSize,
			fontName: t.Font,
		})
	}
	return rects
}
