package lexer

import (
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Name() string { return "lexer" }

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, err := Tokenise(ctx.SourceCode)
	if err != nil {
		ctx.AddError(err, diagnostics.ErrL001)
		return ctx
	}
	ctx.Tokens = tokens
	return ctx
}
