package pdfdocx

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Settings are the conversion parameters shared by every file of a batch.
type Settings struct {
	Quality Quality
	OCR     bool
	// Pages is a page-range spec such as "1-5,8". Blank means all pages.
	Pages string
}

// ConversionRequest asks for one PDF to be converted into a .docx file.
type ConversionRequest struct {
	Source      string
	Destination string
	Settings
}

// NewRequest builds a request whose destination is
// <outputDir>/<source basename>.docx, or next to the source when outputDir is
// empty.
func NewRequest(source, outputDir string, settings Settings) ConversionRequest {
	return ConversionRequest{
		Source:      source,
		Destination: DestinationPath(source, outputDir),
		Settings:    settings,
	}
}

// DestinationPath replaces the extension of source with .docx and places the
// result in outputDir.
func DestinationPath(source, outputDir string) string {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".docx"
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	return filepath.Join(outputDir, name)
}

// Outcome is the result of one file of a batch.
type Outcome struct {
	Source      string
	Destination string
	Kind        ErrorKind
	Err         error
}

// Succeeded reports whether the file converted.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Description is the one-line failure text shown to users.
func (o Outcome) Description() string {
	name := filepath.Base(o.Source)
	switch {
	case o.Err == nil:
		return name + ": converted"
	case o.Kind == KindNotFound:
		return name + ": file not found"
	case o.Kind == KindUnknown:
		return fmt.Sprintf("%s: unexpected error - %v", name, o.Err)
	}
	return fmt.Sprintf("%s: %v", name, o.Err)
}

// BatchSummary aggregates the outcomes of a batch.
type BatchSummary struct {
	ID        string
	Total     int
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	// Aborted is set when a missing dependency stopped the batch early.
	Aborted  bool
	AbortErr error
	// Canceled is set when the context ended before every file was processed.
	Canceled bool
}

func (s *BatchSummary) record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	if o.Succeeded() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Success reports whether every file of the batch converted.
func (s *BatchSummary) Success() bool {
	return !s.Aborted && !s.Canceled && s.Succeeded == s.Total
}

// Failures returns the description of every failed file in input order.
func (s *BatchSummary) Failures() []string {
	var out []string
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			out = append(out, o.Description())
		}
	}
	return out
}

// Message is the completion text for the batch.
func (s *BatchSummary) Message() string {
	switch {
	case s.Aborted:
		return fmt.Sprintf("missing required dependency: %v", s.AbortErr)
	case s.Canceled:
		return fmt.Sprintf("conversion canceled after %d of %d files", len(s.Outcomes), s.Total)
	case s.Succeeded == s.Total:
		return fmt.Sprintf("All %d PDF files converted successfully.", s.Succeeded)
	case s.Succeeded > 0:
		return fmt.Sprintf("Converted %d/%d files.\n\nFailed files:\n%s",
			s.Succeeded, s.Total, strings.Join(s.Failures(), "\n"))
	}
	return "All files failed to convert:\n" + strings.Join(s.Failures(), "\n")
}
