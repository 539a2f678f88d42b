//go:build !nopdfium

package pdfdocx

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"golang.org/x/sync/errgroup"
)

var (
	pdfiumPool     pdfium.Pool
	pdfiumPoolOnce sync.Once
	pdfiumPoolErr  error
)

// pdfiumWorkers bounds both the instance pool and parallel page extraction.
var pdfiumWorkers = min(runtime.NumCPU(), 4)

func initPdfiumPool() {
	pdfiumPool, pdfiumPoolErr = webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  pdfiumWorkers,
		MaxTotal: pdfiumWorkers,
	})
}

func pdfiumInstance() (pdfium.Pdfium, error) {
	pdfiumPoolOnce.Do(initPdfiumPool)
	if pdfiumPoolErr != nil {
		return nil, fmt.Errorf("init pdfium: %w", pdfiumPoolErr)
	}
	instance, err := pdfiumPool.GetInstance(30 * time.Second)
	if err != nil {
		return nil, fmt.Errorf("get pdfium instance: %w", err)
	}
	return instance, nil
}

// pdfiumDocument is a document opened on its own pool instance.
type pdfiumDocument struct {
	instance pdfium.Pdfium
	ref      references.FPDF_DOCUMENT
}

func openPdfiumDocument(data []byte) (*pdfiumDocument, error) {
	instance, err := pdfiumInstance()
	if err != nil {
		return nil, err
	}
	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		instance.Close()
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &pdfiumDocument{instance: instance, ref: doc.Document}, nil
}

func (d *pdfiumDocument) pageCount() (int, error) {
	resp, err := d.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: d.ref})
	if err != nil {
		return 0, fmt.Errorf("get page count: %w", err)
	}
	return resp.PageCount, nil
}

func (d *pdfiumDocument) page(index int) requests.Page {
	return requests.Page{
		ByIndex: &requests.PageByIndex{
			Document: d.ref,
			Index:    index,
		},
	}
}

func (d *pdfiumDocument) Close() {
	d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: d.ref})
	d.instance.Close()
}

// PdfiumEngine is the StructuralEngine backed by PDFium running in
// WebAssembly. Profiles with Parallel set extract pages concurrently, each
// worker on its own PDFium instance.
type PdfiumEngine struct{}

// NewPdfiumEngine creates a new PdfiumEngine.
func NewPdfiumEngine() *PdfiumEngine {
	return &PdfiumEngine{}
}

func defaultStructuralEngine() StructuralEngine {
	return NewPdfiumEngine()
}

func (e *PdfiumEngine) Name() string { return "pdfium" }

func (e *PdfiumEngine) ExtractPages(ctx context.Context, source string, profile QualityProfile, r PageRange) ([]PageContent, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	doc, err := openPdfiumDocument(data)
	if err != nil {
		return nil, err
	}
	n, err := doc.pageCount()
	if err != nil {
		doc.Close()
		return nil, err
	}
	rng := r.Clip(n)
	if rng.Len() == 0 {
		doc.Close()
		return nil, fmt.Errorf("pages %d-%d are outside a document of %d pages", r.Start+1, r.End, n)
	}

	pages := make([]PageContent, rng.Len())
	if !profile.Parallel || rng.Len() == 1 {
		defer doc.Close()
		for i := rng.Start; i < rng.End; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			blocks, err := extractPdfiumPage(doc, i, profile)
			if err != nil {
				return nil, err
			}
			pages[i-rng.Start] = PageContent{Index: i, Blocks: blocks}
		}
		return pages, nil
	}

	// Workers open their own instances; release this one so the pool is not
	// short by one.
	doc.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pdfiumWorkers)
	for i := rng.Start; i < rng.End; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wdoc, err := openPdfiumDocument(data)
			if err != nil {
				return err
			}
			defer wdoc.Close()
			blocks, err := extractPdfiumPage(wdoc, i, profile)
			if err != nil {
				return err
			}
			pages[i-rng.Start] = PageContent{Index: i, Blocks: blocks}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// extractPdfiumPage lays out the structured text of a page, falling back to
// the plain page text when PDFium reports no rects.
func extractPdfiumPage(doc *pdfiumDocument, pageIdx int, profile QualityProfile) ([]Block, error) {
	structured, err := doc.instance.GetPageTextStructured(&requests.GetPageTextStructured{
		Page:                   doc.page(pageIdx),
		Mode:                   requests.GetPageTextStructuredModeRects,
		CollectFontInformation: true,
	})
	if err != nil || len(structured.Rects) == 0 {
		return extractPdfiumPlainPage(doc, pageIdx)
	}

	var rects []textRect
	for _, r := range structured.Rects {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		tr := textRect{
			text:   r.Text,
			left:   r.PointPosition.Left,
			top:    r.PointPosition.Top,
			right:  r.PointPosition.Right,
			bottom: r.PointPosition.Bottom,
		}
		if r.FontInformation != nil {
			tr.fontSize = r.FontInformation.Size
			tr.fontName = r.FontInformation.Name
		}
		rects = append(rects, tr)
	}
	return layoutPage(rects, profile), nil
}

func extractPdfiumPlainPage(doc *pdfiumDocument, pageIdx int) ([]Block, error) {
	textResp, err := doc.instance.GetPageText(&requests.GetPageText{
		Page: doc.page(pageIdx),
	})
	if err != nil {
		return nil, fmt.Errorf("extract text of page %d: %w", pageIdx+1, err)
	}
	return plainTextBlocks(textResp.Text), nil
}
