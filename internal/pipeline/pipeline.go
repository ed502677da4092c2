package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-university-etl/internal/model"
)

// Pipeline composes extract, transform and load into one run.
type Pipeline struct {
	Extractor   *Extractor
	Transformer *Transformer
	Loader      *Loader
}

func New(e *Extractor, t *Transformer, l *Loader) *Pipeline {
	return &Pipeline{Extractor: e, Transformer: t, Loader: l}
}

// RunOnce executes a full extract-transform-load cycle, timing the
// whole sequence. Stage errors propagate unchanged; extraction and
// transform failures never reach the loader.
func (p *Pipeline) RunOnce(ctx context.Context) (model.RunResult, error) {
	start := time.Now()
	log.Printf("pipeline: run started")

	raw, err := p.Extractor.Extract(ctx)
	if err != nil {
		return model.RunResult{}, err
	}
	if !IsWellFormed(raw) {
		return model.RunResult{}, fmt.Errorf("extracted payload failed shape validation")
	}

	batch := p.Transformer.Transform(raw)

	saved, err := p.Loader.Save(batch)
	if err != nil {
		return model.RunResult{}, err
	}

	result := model.RunResult{
		Extracted:   len(raw),
		Transformed: batch.SuccessCount,
		Loaded:      saved.RecordsLoaded,
		Duration:    time.Since(start),
	}
	log.Printf("pipeline: run completed in %v (%d extracted, %d transformed, %d loaded)",
		result.Duration, result.Extracted, result.Transformed, result.Loaded)
	return result, nil
}
