package pdfdocx

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
)

// BatchHooks receive batch notifications. Every field is optional. Hooks are
// called on the goroutine running the batch.
type BatchHooks struct {
	// OnProgress receives the percentage of files started and a status line.
	OnProgress func(percent int, status string)
	// OnComplete fires exactly once when the batch ends.
	OnComplete func(success bool, message string)
	// OnFileDone fires after each file's outcome is recorded.
	OnFileDone func(Outcome)
}

func (h BatchHooks) progress(percent int, status string) {
	if h.OnProgress != nil {
		h.OnProgress(percent, status)
	}
}

func (h BatchHooks) complete(success bool, message string) {
	if h.OnComplete != nil {
		h.OnComplete(success, message)
	}
}

func (h BatchHooks) fileDone(o Outcome) {
	if h.OnFileDone != nil {
		h.OnFileDone(o)
	}
}

// RunBatch converts requests one after another in input order. A failed file
// does not stop the batch unless the failure is a missing system dependency,
// which would fail every remaining file the same way. The context is checked
// between files.
func (c *Converter) RunBatch(ctx context.Context, requests []ConversionRequest, hooks BatchHooks) *BatchSummary {
	summary := &BatchSummary{ID: uuid.NewString(), Total: len(requests)}
	log := c.logger.With().Str("batch", summary.ID).Logger()
	log.Info().Int("files", summary.Total).Msg("starting batch")

	for i, req := range requests {
		if ctx.Err() != nil {
			summary.Canceled = true
			break
		}
		hooks.progress(i*100/len(requests), "Converting: "+filepath.Base(req.Source))

		err := c.Convert(ctx, req)
		outcome := Outcome{
			Source:      req.Source,
			Destination: req.Destination,
			Kind:        KindOf(err),
			Err:         err,
		}
		summary.record(outcome)
		hooks.fileDone(outcome)

		if IsDependencyUnavailable(err) {
			summary.Aborted = true
			summary.AbortErr = err
			log.Error().Err(err).Msg("batch aborted")
			hooks.complete(false, summary.Message())
			return summary
		}
		if outcome.Kind == KindCanceled {
			summary.Canceled = true
			break
		}
	}

	if summary.Canceled {
		log.Warn().Int("processed", len(summary.Outcomes)).Msg("batch canceled")
		hooks.complete(false, summary.Message())
		return summary
	}

	hooks.progress(100, "Conversion complete")
	log.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("batch complete")
	hooks.complete(summary.Success(), summary.Message())
	return summary
}
