package vm

import (
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/pipeline"
)

// ExecutionProcessor runs ctx.Program with the VM settings from ctx.Config.
type ExecutionProcessor struct{}

func (ep *ExecutionProcessor) Name() string { return "vm" }

func (ep *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	machine := New(
		WithOutput(ctx.Output),
		WithLogger(ctx.Logger.With().Str("run_id", ctx.RunID).Logger()),
		WithTrace(ctx.Config.VM.Trace),
		WithMaxStack(ctx.Config.VM.MaxStack),
		WithMaxCallDepth(ctx.Config.VM.MaxCallDepth),
	)
	if err := machine.Run(ctx.Program); err != nil {
		ctx.AddError(err, diagnostics.ErrR001)
	}
	return ctx
}
