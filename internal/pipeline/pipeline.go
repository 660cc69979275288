package pipeline

import (
	"fmt"
	"time"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages abort the run: once a stage reports an
// error no later stage is invoked.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	ctx.ensureDefaults()
	for _, processor := range p.processors {
		if ctx.Failed() {
			break
		}
		stage := stageName(processor)
		start := time.Now()
		ctx = processor.Process(ctx)
		ev := ctx.Logger.Debug().
			Str("run_id", ctx.RunID).
			Str("stage", stage).
			Dur("duration", time.Since(start))
		if ctx.Failed() {
			err := ctx.Errors[0]
			ev = ev.Str("code", string(err.Code)).Str("kind", err.Code.KindName()).Err(err)
		}
		ev.Msg("stage finished")
	}
	return ctx
}

func stageName(p Processor) string {
	if named, ok := p.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", p)
}
