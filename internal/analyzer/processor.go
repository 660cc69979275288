package analyzer

import (
	"github.com/funvibe/func/internal/builtins"
	"github.com/funvibe/func/internal/config"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/pipeline"
)

// ResolverProcessor resolves ctx.AstRoot against the builtins and any
// globals already present in the context.
type ResolverProcessor struct{}

func (rp *ResolverProcessor) Name() string { return "resolver" }

func (rp *ResolverProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	names := builtins.Names()
	for name := range ctx.Globals {
		names = append(names, name)
	}
	module, err := Resolve(ctx.AstRoot, names)
	if err != nil {
		ctx.AddError(err, diagnostics.ErrA002)
		return ctx
	}
	ctx.Resolved = module
	return ctx
}

// TypeCheckProcessor runs the advisory type check according to the
// configured mode: off skips it, warn records failures as warnings and
// strict fails the run.
type TypeCheckProcessor struct{}

func (tp *TypeCheckProcessor) Name() string { return "typecheck" }

func (tp *TypeCheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	mode := ctx.Config.TypeCheck
	if mode == "" || mode == config.TypeCheckOff {
		return ctx
	}

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

	types, err := CheckModule(module)
	if err != nil {
		if mode == config.TypeCheckStrict {
			ctx.AddError(err, diagnostics.ErrT001)
			return ctx
		}
		if de, ok := err.(*diagnostics.DiagnosticError); ok {
			ctx.Warnings = append(ctx.Warnings, de)
		}
		ctx.Logger.Warn().Str("run_id", ctx.RunID).Err(err).Msg("type check failed")
		return ctx
	}
	ctx.Types = types
	return ctx
}
