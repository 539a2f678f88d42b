// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package pdfdocx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nicholasgasior/pdfdocx-go/internal/ooxml"
)

// StructuralEngine extracts the layout of a range of PDF pages.
type StructuralEngine interface {
	// Name identifies the engine in logs.
	Name() string
	// ExtractPages returns one PageContent per page of r clipped to the
	// document. AllPages selects the whole document.
	ExtractPages(ctx context.Context, source string, profile QualityProfile, r PageRange) ([]PageContent, error)
}

const (
	attemptPageRanges   = "page ranges"
	attemptFullDocument = "full document"
)

type structuralState int

const (
	statePageRanges structuralState = iota
	stateFullDocument
	stateFailed
	stateDone
)

// StructuralConverter writes a DOCX from the page layout reported by a
// StructuralEngine. When converting the selected ranges fails, the whole
// document is converted once more; when that fails too the result is a
// KindConversionFailed error carrying both attempts.
type StructuralConverter struct {
	engine StructuralEngine
	logger zerolog.Logger
}

// NewStructuralConverter creates a StructuralConverter.
func NewStructuralConverter(engine StructuralEngine, logger zerolog.Logger) *StructuralConverter {
	return &StructuralConverter{engine: engine, logger: logger}
}

// Convert converts ranges of source into destination using profile. Ranges
// must be non-empty; [AllPages] converts the whole document.
func (c *StructuralConverter) Convert(ctx context.Context, source, destination string, profile QualityProfile, ranges []PageRange) error {
	log := c.logger.With().
		Str("engine", c.engine.Name()).
		Str("quality", profile.Tier.String()).
		Logger()

	var failed []FailedConversionAttempt
	state := statePageRanges
	for {
		switch state {
		case statePageRanges:
			err := c.write(ctx, log, source, destination, profile, ranges)
			if err == nil {
				state = stateDone
				continue
			}
			if ctx.Err() != nil {
				return newError(KindCanceled, source, err, "conversion of %s canceled", source)
			}
			log.Warn().Err(err).Msg("page range conversion failed, retrying with the full document")
			failed = append(failed, FailedConversionAttempt{Attempt: attemptPageRanges, Err: err})
			state = stateFullDocument

		case stateFullDocument:
			err := c.write(ctx, log, source, destination, profile, []PageRange{AllPages})
			if err == nil {
				log.Info().Msg("full document fallback succeeded")
				state = stateDone
				continue
			}
			if ctx.Err() != nil {
				return newError(KindCanceled, source, err, "conversion of %s canceled", source)
			}
			log.Error().Err(err).Msg("full document fallback failed")
			failed = append(failed, FailedConversionAttempt{Attempt: attemptFullDocument, Err: err})
			state = stateFailed

		case stateFailed:
			last := failed[len(failed)-1].Err
			return newError(KindConversionFailed, source, &ConversionError{Attempts: failed},
				"PDF conversion failed, the format may be unsupported or the file encrypted: %v", last)

		case stateDone:
			return nil
		}
	}
}

// write runs the engine over every range and saves the result. Pages are
// separated by page breaks.
func (c *StructuralConverter) write(ctx context.Context, log zerolog.Logger, source, destination string, profile QualityProfile, ranges []PageRange) error {
	doc := ooxml.NewDocument()
	pages := 0
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := log.Info()
		if r.IsAll() {
			ev = ev.Str("pages", "all")
		} else {
			ev = ev.Str("pages", fmt.Sprintf("%d-%d", r.Start+1, r.End))
		}
		ev.Msg("converting pages")

		content, err := c.engine.ExtractPages(ctx, source, profile, r)
		if err != nil {
			return err
		}
		for _, page := range content {
			if pages > 0 {
				doc.AddPageBreak()
			}
			appendPage(doc, page)
			pages++
		}
	}
	if pages == 0 {
		return fmt.Errorf("no pages extracted from %s", source)
	}
	return doc.Save(destination)
}

func appendPage(doc *ooxml.Document, page PageContent) {
	if len(page.Blocks) == 0 {
		doc.AddText("")
		return
	}
	for _, b := range page.Blocks {
		runs := make([]ooxml.Run, 0, len(b.Spans))
		for _, s := range b.Spans {
			runs = append(runs, ooxml.Run{Text: s.Text, Bold: s.Bold, Italic: s.Italic, Mono: s.Mono})
		}
		doc.AddParagraph(ooxml.Paragraph{Style: headingStyle(b.HeadingLevel), Runs: runs})
	}
}

func headingStyle(level int) string {
	switch level {
	case 1:
		return ooxml.StyleHeading1
	case 2:
		return ooxml.StyleHeading2
	case 3:
		return ooxml.StyleHeading3
	case 4:
		return ooxml.StyleHeading4
	}
	return ooxml.StyleNormal
}
