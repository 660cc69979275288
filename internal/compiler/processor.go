package compiler

import (
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/pipeline"
)

type CompilerProcessor struct{}

func (cp *CompilerProcessor) Name() string { return "compiler" }

func (cp *CompilerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	module := ctx.Resolved
	if len(ctx.Globals) > 0 {
		module = ir.NewModule()
		for name, expr := range ctx.Globals {
			module.Bindings[name] = expr
		}
		for name, expr := range ctx.Resolved.Bindings {
			module.Bindings[name] = expr
		}
	}
	program, err := Compile(module)
	if err != nil {
		ctx.AddError(err, diagnostics.ErrC002)
		return ctx
	}
	ctx.Program = program
	ctx.Logger.Debug().Str("run_id", ctx.RunID).Int64("units", program.Len()).Msg("compiled")
	return ctx
}
