package service

import (
	"context"

	"go.uber.org/zap"
)

// PipelineStep is one named stage of a mutation.
type PipelineStep struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline executes mutations in the enforced store order: the authoritative
// write first, then the advisory stages (graph mirror, cache invalidation,
// event log). Only the authoritative step can fail the mutation; an advisory
// failure is logged, counted and skipped, leaving the affected store stale
// until its next write or TTL expiry.
type Pipeline struct {
	logger  *zap.Logger
	metrics *MetricsService
}

// NewPipeline constructs a Pipeline.
func NewPipeline(logger *zap.Logger, metrics *MetricsService) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger, metrics: metrics}
}

// Execute runs the authoritative step and, when it commits, the advisory
// steps in order. The returned error is the authoritative step's error, nil
// otherwise.
func (p *Pipeline) Execute(ctx context.Context, mutation string, authoritative PipelineStep, advisory ...PipelineStep) error {
	if err := authoritative.Run(ctx); err != nil {
		if p.metrics != nil {
			p.metrics.RecordPipelineStep(mutation, authoritative.Name, false)
		}
		return err
	}
	if p.metrics != nil {
		p.metrics.RecordPipelineStep(mutation, authoritative.Name, true)
	}

	for _, step := range advisory {
		err := step.Run(ctx)
		if p.metrics != nil {
			p.metrics.RecordPipelineStep(mutation, step.Name, err == nil)
		}
		if err != nil {
			p.logger.Warn("advisory pipeline step failed",
				zap.String("mutation", mutation),
				zap.String("step", step.Name),
				zap.Error(err))
		}
	}
	return nil
}
