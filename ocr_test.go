package pdfdocx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicholasgasior/pdfdocx-go/internal/ooxml"
)

func TestOCRSelectedPages(t *testing.T) {
	tmp := t.TempDir()
	raster := &fakeRasterizer{}
	rec := &fakeRecognizer{}
	p := NewOCRPipeline(raster, rec, tmp, zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "scan.docx")

	require.NoError(t, p.Convert(context.Background(), "scan.pdf", dst, []int{1, 3}, 3))

	assert.Equal(t, []int{0, 2}, raster.rendered)
	assert.Equal(t, OCRLanguages, rec.languages)
	assert.Equal(t, []bool{true, true}, rec.existed)

	st, err := ooxml.Inspect(dst)
	require.NoError(t, err)
	require.Len(t, st.Pages, 2)
	assert.Equal(t, 1, st.PageBreaks)
	assert.Equal(t, []string{"recognized 1"}, st.Pages[0])
	assert.Equal(t, []string{"recognized 2"}, st.Pages[1])

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary page images must be removed")
}

func TestOCRAllPagesWhenNoSelection(t *testing.T) {
	raster := &fakeRasterizer{}
	p := NewOCRPipeline(raster, &fakeRecognizer{}, t.TempDir(), zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "scan.docx")

	require.NoError(t, p.Convert(context.Background(), "scan.pdf", dst, nil, 3))
	assert.Equal(t, []int{0, 1, 2}, raster.rendered)
}

func TestOCRParagraphsAndSoftBreaks(t *testing.T) {
	rec := &fakeRecognizer{text: func(int) string {
		return "first line\r\nsecond line\n\n\n\nnext paragraph  \f"
	}}
	p := NewOCRPipeline(&fakeRasterizer{}, rec, t.TempDir(), zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "scan.docx")

	require.NoError(t, p.Convert(context.Background(), "scan.pdf", dst, []int{1}, 1))

	st, err := ooxml.Inspect(dst)
	require.NoError(t, err)
	require.Len(t, st.Pages, 1)
	assert.Equal(t, []string{"first line\nsecond line", "next paragraph"}, st.Pages[0])
}

func TestOCRBlankPageKeepsItsPlace(t *testing.T) {
	rec := &fakeRecognizer{text: func(call int) string {
		if call == 1 {
			return "  \n"
		}
		return "page two"
	}}
	p := NewOCRPipeline(&fakeRasterizer{}, rec, t.TempDir(), zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "scan.docx")

	require.NoError(t, p.Convert(context.Background(), "scan.pdf", dst, nil, 2))
	st, err := ooxml.Inspect(dst)
	require.NoError(t, err)
	require.Len(t, st.Pages, 2)
	assert.Equal(t, []string{"page two"}, st.Pages[1])
}

func TestOCRDependencyErrors(t *testing.T) {
	tests := []struct {
		name   string
		raster Rasterizer
		rec    Recognizer
		want   ErrorKind
	}{
		{"no rasterizer", nil, &fakeRecognizer{}, KindRasterizationUnavailable},
		{"rasterizer unavailable", &fakeRasterizer{unavailable: errors.New("no renderer")}, &fakeRecognizer{}, KindRasterizationUnavailable},
		{"no recognizer", &fakeRasterizer{}, nil, KindRecognitionEngineUnavailable},
		{"recognizer unavailable", &fakeRasterizer{}, &fakeRecognizer{unavailable: errors.New("tesseract not installed")}, KindRecognitionEngineUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewOCRPipeline(tt.raster, tt.rec, t.TempDir(), zerolog.Nop())
			dst := filepath.Join(t.TempDir(), "scan.docx")

			err := p.Convert(context.Background(), "scan.pdf", dst, nil, 2)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
			assert.True(t, IsDependencyUnavailable(err))
			assert.NoFileExists(t, dst)
		})
	}
}

func TestOCRRecognitionFailureSavesNothing(t *testing.T) {
	tmp := t.TempDir()
	rec := &fakeRecognizer{failOn: 2}
	p := NewOCRPipeline(&fakeRasterizer{}, rec, tmp, zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "scan.docx")

	err := p.Convert(context.Background(), "scan.pdf", dst, nil, 3)
	require.Error(t, err)
	assert.Equal(t, KindRecognitionFailed, KindOf(err))
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, 2, rec.calls)
	assert.NoFileExists(t, dst)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOCRRasterizationFailure(t *testing.T) {
	raster := &fakeRasterizer{fail: map[int]error{1: errors.New("poppler missing")}}
	p := NewOCRPipeline(raster, &fakeRecognizer{}, t.TempDir(), zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "scan.docx")

	err := p.Convert(context.Background(), "scan.pdf", dst, nil, 3)
	require.Error(t, err)
	assert.Equal(t, KindRasterizationFailed, KindOf(err))
	assert.False(t, IsDependencyUnavailable(err))
	assert.NoFileExists(t, dst)
}

func TestOCRCanceledBeforePage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &fakeRecognizer{}
	p := NewOCRPipeline(&fakeRasterizer{}, rec, t.TempDir(), zerolog.Nop())

	err := p.Convert(ctx, "scan.pdf", filepath.Join(t.TempDir(), "scan.docx"), nil, 3)
	require.Error(t, err)
	assert.Equal(t, KindCanceled, KindOf(err))
	assert.Zero(t, rec.calls)
}
