package pdfdocx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// minimalPDF builds a valid PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	}
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// fakeReader reports a fixed page count for every source.
type fakeReader struct {
	pages int
	err   error
}

func (r fakeReader) Open(ctx context.Context, path string) (DocumentInfo, error) {
	if r.err != nil {
		return DocumentInfo{}, r.err
	}
	return DocumentInfo{PageCount: r.pages, MIMEType: "application/pdf"}, nil
}

// fakeEngine returns one paragraph per page and records every call.
type fakeEngine struct {
	mu        sync.Mutex
	pageCount int
	calls     []PageRange
	// fail, when set, decides the error of each call.
	fail func(r PageRange) error
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) ExtractPages(ctx context.Context, source string, profile QualityProfile, r PageRange) ([]PageContent, error) {
	e.mu.Lock()
	e.calls = append(e.calls, r)
	e.mu.Unlock()
	if e.fail != nil {
		if err := e.fail(r); err != nil {
			return nil, err
		}
	}
	rng := r.Clip(e.pageCount)
	var pages []PageContent
	for i := rng.Start; i < rng.End; i++ {
		pages = append(pages, PageContent{
			Index: i,
			Blocks: []Block{
				{HeadingLevel: 1, Spans: []Span{{Text: fmt.Sprintf("Page %d", i+1)}}},
				{Spans: []Span{{Text: "body of page "}, {Text: fmt.Sprint(i + 1), Bold: true}}},
			},
		})
	}
	return pages, nil
}

func (e *fakeEngine) rangeCalls() []PageRange {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PageRange(nil), e.calls...)
}

// fakeRasterizer renders a small white image for every page.
type fakeRasterizer struct {
	unavailable error
	fail        map[int]error // by 0-based page index
	rendered    []int
}

func (r *fakeRasterizer) Available() error { return r.unavailable }

func (r *fakeRasterizer) RasterizePage(ctx context.Context, source string, pageIndex, dpi int) (image.Image, error) {
	if err := r.fail[pageIndex]; err != nil {
		return nil, err
	}
	r.rendered = append(r.rendered, pageIndex)
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img, nil
}

// fakeRecognizer returns "text of <image>" and records the image paths it
// was given together with whether they existed at call time.
type fakeRecognizer struct {
	unavailable error
	failOn      int // 1-based call number, 0 never
	text        func(call int) string
	calls       int
	paths       []string
	existed     []bool
	languages   []string
}

func (r *fakeRecognizer) Available(languages []string) error { return r.unavailable }

func (r *fakeRecognizer) Recognize(ctx context.Context, imagePath string, languages []string) (string, error) {
	r.calls++
	r.paths = append(r.paths, imagePath)
	_, err := os.Stat(imagePath)
	r.existed = append(r.existed, err == nil)
	r.languages = languages
	if r.failOn == r.calls {
		return "", errors.New("tesseract crashed")
	}
	if r.text != nil {
		return r.text(r.calls), nil
	}
	return fmt.Sprintf("recognized %d", r.calls), nil
}
