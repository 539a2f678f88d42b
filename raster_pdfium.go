//go:build !nopdfium

package pdfdocx

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/klippa-app/go-pdfium/requests"
)

// PdfiumRasterizer renders pages with the PDFium instance pool.
type PdfiumRasterizer struct{}

// NewPdfiumRasterizer creates a new PdfiumRasterizer.
func NewPdfiumRasterizer() *PdfiumRasterizer {
	return &PdfiumRasterizer{}
}

func pdfiumRasterizer() Rasterizer {
	return NewPdfiumRasterizer()
}

// Available fails when the PDFium runtime cannot be started.
func (r *PdfiumRasterizer) Available() error {
	pdfiumPoolOnce.Do(initPdfiumPool)
	return pdfiumPoolErr
}

func (r *PdfiumRasterizer) RasterizePage(ctx context.Context, source string, pageIndex, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}
	doc, err := openPdfiumDocument(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	resp, err := doc.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI:  dpi,
		Page: doc.page(pageIndex),
	})
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex+1, err)
	}
	defer resp.Cleanup()
	// The bitmap is released by Cleanup.
	return imaging.Clone(resp.Result.Image), nil
}
