package pdfdocx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressEvent struct {
	percent int
	status  string
}

type recordedHooks struct {
	progress  []progressEvent
	completed int
	success   bool
	message   string
	done      []Outcome
}

func (r *recordedHooks) hooks() BatchHooks {
	return BatchHooks{
		OnProgress: func(percent int, status string) {
			r.progress = append(r.progress, progressEvent{percent, status})
		},
		OnComplete: func(success bool, message string) {
			r.completed++
			r.success, r.message = success, message
		},
		OnFileDone: func(o Outcome) {
			r.done = append(r.done, o)
		},
	}
}

func TestRunBatchAllSucceed(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	var reqs []ConversionRequest
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		reqs = append(reqs, NewRequest(writeFile(t, dir, name, []byte("%PDF-1.4")), out, Settings{}))
	}
	c := newTestConverter(t, 2, &fakeEngine{pageCount: 2})
	rec := &recordedHooks{}

	summary := c.RunBatch(context.Background(), reqs, rec.hooks())

	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, 3, summary.Succeeded)
	assert.True(t, summary.Success())
	assert.Equal(t, []progressEvent{
		{0, "Converting: a.pdf"},
		{33, "Converting: b.pdf"},
		{66, "Converting: c.pdf"},
		{100, "Conversion complete"},
	}, rec.progress)
	assert.Equal(t, 1, rec.completed)
	assert.True(t, rec.success)
	assert.Equal(t, "All 3 PDF files converted successfully.", rec.message)
	assert.Len(t, rec.done, 3)
	for _, r := range reqs {
		assert.FileExists(t, r.Destination)
	}
}

func TestRunBatchContinuesAfterInvalidInput(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	reqs := []ConversionRequest{
		NewRequest(writeFile(t, dir, "one.pdf", []byte("%PDF-1.4")), out, Settings{}),
		NewRequest(writeFile(t, dir, "two.txt", []byte("text")), out, Settings{}),
		NewRequest(writeFile(t, dir, "three.pdf", []byte("%PDF-1.4")), out, Settings{}),
	}
	c := newTestConverter(t, 1, &fakeEngine{pageCount: 1})
	rec := &recordedHooks{}

	summary := c.RunBatch(context.Background(), reqs, rec.hooks())

	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, KindInvalidInput, summary.Outcomes[1].Kind)
	assert.True(t, summary.Outcomes[2].Succeeded())
	assert.False(t, summary.Aborted)
	assert.False(t, rec.success)
	assert.Contains(t, rec.message, "Converted 2/3 files.")
	assert.Contains(t, rec.message, "two.txt: file is not a PDF")
	assert.Equal(t, 100, rec.progress[len(rec.progress)-1].percent)
}

func TestRunBatchAbortsOnMissingDependency(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	reqs := []ConversionRequest{
		NewRequest(writeFile(t, dir, "one.pdf", []byte("%PDF-1.4")), out, Settings{}),
		NewRequest(writeFile(t, dir, "two.pdf", []byte("%PDF-1.4")), out, Settings{OCR: true}),
		NewRequest(writeFile(t, dir, "three.pdf", []byte("%PDF-1.4")), out, Settings{}),
	}
	engine := &fakeEngine{pageCount: 1}
	c := newTestConverter(t, 1, engine,
		WithRecognizer(&fakeRecognizer{unavailable: errors.New("tesseract not installed")}))
	rec := &recordedHooks{}

	summary := c.RunBatch(context.Background(), reqs, rec.hooks())

	require.Len(t, summary.Outcomes, 2)
	assert.True(t, summary.Outcomes[0].Succeeded())
	assert.Equal(t, KindRecognitionEngineUnavailable, summary.Outcomes[1].Kind)
	assert.True(t, summary.Aborted)
	assert.False(t, summary.Success())
	assert.Len(t, engine.rangeCalls(), 1, "file 3 must not be converted")
	assert.NoFileExists(t, reqs[2].Destination)

	for _, p := range rec.progress {
		assert.NotEqual(t, 100, p.percent)
	}
	assert.Equal(t, 1, rec.completed)
	assert.False(t, rec.success)
	assert.Contains(t, rec.message, "missing required dependency")
}

func TestRunBatchAllFail(t *testing.T) {
	dir := t.TempDir()
	reqs := []ConversionRequest{
		NewRequest(filepath.Join(dir, "gone.pdf"), dir, Settings{}),
		NewRequest(writeFile(t, dir, "x.doc", nil), dir, Settings{}),
	}
	c := newTestConverter(t, 1, &fakeEngine{pageCount: 1})
	rec := &recordedHooks{}

	summary := c.RunBatch(context.Background(), reqs, rec.hooks())

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, "All files failed to convert:\ngone.pdf: file not found\nx.doc: file is not a PDF: "+reqs[1].Source, rec.message)
	assert.False(t, rec.success)
}

func TestRunBatchCanceledBetweenFiles(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	reqs := []ConversionRequest{
		NewRequest(writeFile(t, dir, "one.pdf", []byte("%PDF-1.4")), out, Settings{}),
		NewRequest(writeFile(t, dir, "two.pdf", []byte("%PDF-1.4")), out, Settings{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestConverter(t, 1, &fakeEngine{pageCount: 1})
	rec := &recordedHooks{}
	hooks := rec.hooks()
	hooks.OnFileDone = func(o Outcome) {
		rec.done = append(rec.done, o)
		cancel()
	}

	summary := c.RunBatch(ctx, reqs, hooks)

	assert.True(t, summary.Canceled)
	require.Len(t, summary.Outcomes, 1)
	assert.True(t, summary.Outcomes[0].Succeeded())
	assert.Equal(t, "conversion canceled after 1 of 2 files", rec.message)
	assert.False(t, rec.success)
	assert.Len(t, rec.progress, 1)
}

func TestOutcomeDescription(t *testing.T) {
	assert.Equal(t, "a.pdf: file not found",
		Outcome{Source: "/x/a.pdf", Kind: KindNotFound, Err: errors.New("nope")}.Description())
	assert.Equal(t, "a.pdf: unexpected error - boom",
		Outcome{Source: "/x/a.pdf", Kind: KindUnknown, Err: errors.New("boom")}.Description())
	assert.Equal(t, "a.pdf: bad pages",
		Outcome{Source: "/x/a.pdf", Kind: KindInvalidInput, Err: errors.New("bad pages")}.Description())
}
