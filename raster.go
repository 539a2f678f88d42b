package pdfdocx

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer renders a single PDF page to an image.
type Rasterizer interface {
	// Available fails when the rendering backend cannot be used on this system.
	Available() error
	// RasterizePage renders the 0-based page pageIndex of source at dpi.
	RasterizePage(ctx context.Context, source string, pageIndex, dpi int) (image.Image, error)
}

// RasterizerByName returns the rendering backend called name: "pdfium" or
// "fitz". An empty name selects the default backend.
func RasterizerByName(name string) (Rasterizer, error) {
	switch strings.ToLower(name) {
	case "", "pdfium":
		return pdfiumRasterizer(), nil
	case "fitz", "mupdf":
		return NewFitzRasterizer(), nil
	}
	return nil, newError(KindInvalidArgument, "", nil, "unknown raster backend %q, expected pdfium or fitz", name)
}

// FitzRasterizer renders pages with MuPDF through go-fitz.
type FitzRasterizer struct{}

// NewFitzRasterizer creates a new FitzRasterizer.
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

func (r *FitzRasterizer) Available() error {
	return nil
}

func (r *FitzRasterizer) RasterizePage(ctx context.Context, source string, pageIndex, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.New(source)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("page %d is outside a document of %d pages", pageIndex+1, doc.NumPage())
	}
	img, err := doc.ImageDPI(pageIndex, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex+1, err)
	}
	return img, nil
}

// unavailableRasterizer stands in for a backend that was not compiled in.
type unavailableRasterizer struct {
	reason string
}

func (r unavailableRasterizer) Available() error {
	return errors.New(r.reason)
}

func (r unavailableRasterizer) RasterizePage(context.Context, string, int, int) (image.Image, error) {
	return nil, errors.New(r.reason)
}
