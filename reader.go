package pdfdocx

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// DocumentInfo describes an opened source document.
type DocumentInfo struct {
	PageCount int
	MIMEType  string
}

// DocumentReader validates a source document and reports its page count.
type DocumentReader interface {
	Open(ctx context.Context, path string) (DocumentInfo, error)
}

// PDFReader is the DocumentReader backed by ledongthuc/pdf.
type PDFReader struct{}

// NewPDFReader creates a new PDFReader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// Open fails with KindNotFound when path does not exist and KindUnreadable
// when the content is not a PDF, is corrupt or is encrypted. The file is
// closed before Open returns.
func (r *PDFReader) Open(ctx context.Context, path string) (DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return DocumentInfo{}, err
	}

	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DocumentInfo{}, newError(KindNotFound, path, err, "file does not exist: %s", path)
		}
		return DocumentInfo{}, newError(KindUnreadable, path, err, "cannot access file %s: %v", path, err)
	}
	if st.IsDir() {
		return DocumentInfo{}, newError(KindInvalidInput, path, nil, "path is a directory, not a file: %s", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return DocumentInfo{}, newError(KindUnreadable, path, err, "cannot read PDF file: %v", err)
	}
	if !mtype.Is("application/pdf") {
		return DocumentInfo{}, newError(KindUnreadable, path, nil, "cannot read PDF file: content is %s, not a PDF", mtype.String())
	}

	n, err := countPages(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return DocumentInfo{}, newError(KindUnreadable, path, err, "cannot read PDF file: document is encrypted")
		}
		return DocumentInfo{}, newError(KindUnreadable, path, err, "cannot read PDF file: %v", err)
	}
	if n == 0 {
		return DocumentInfo{}, newError(KindUnreadable, path, nil, "cannot read PDF file: document has no pages")
	}
	return DocumentInfo{PageCount: n, MIMEType: mtype.String()}, nil
}

// countPages recovers from parser panics, which ledongthuc/pdf raises on some
// malformed files.
func countPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	f, pr, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return pr.NumPage(), nil
}
