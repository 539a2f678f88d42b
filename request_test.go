package pdfdocx

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "report.docx"), DestinationPath(filepath.Join("in", "report.pdf"), "out"))
	assert.Equal(t, filepath.Join("in", "scan.v2.docx"), DestinationPath(filepath.Join("in", "scan.v2.PDF"), ""))
}

func TestBatchSummaryMessage(t *testing.T) {
	ok := Outcome{Source: "a.pdf"}
	bad := Outcome{Source: "b.pdf", Kind: KindNotFound, Err: errors.New("gone")}

	s := &BatchSummary{Total: 2}
	s.record(ok)
	s.record(bad)
	assert.False(t, s.Success())
	assert.Equal(t, []string{"b.pdf: file not found"}, s.Failures())
	assert.Equal(t, "Converted 1/2 files.\n\nFailed files:\nb.pdf: file not found", s.Message())

	aborted := &BatchSummary{Total: 3, Aborted: true, AbortErr: errors.New("tesseract missing")}
	assert.Equal(t, "missing required dependency: tesseract missing", aborted.Message())
}
