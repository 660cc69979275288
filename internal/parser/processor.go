package parser

import (
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/pipeline"
	"github.com/funvibe/func/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Name() string { return "parser" }

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	var end token.Token
	if n := len(ctx.Tokens); n > 0 {
		last := ctx.Tokens[n-1]
		end = token.Token{Line: last.Line, Column: last.Column + len([]rune(last.Lexeme))}
	}
	p := New(&sliceSource{tokens: ctx.Tokens, end: end})
	module, err := p.ParseModule()
	if err != nil {
		ctx.AddError(err, diagnostics.ErrP001)
		return ctx
	}
	module.File = ctx.FilePath
	ctx.AstRoot = module
	return ctx
}
