package pipeline

import (
	"errors"
	"io"
	"os"

	"github.com/funvibe/func/internal/ast"
	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/config"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/token"
	"github.com/funvibe/func/internal/typesystem"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PipelineContext carries the source and every intermediate product
// through the stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string
	RunID      string

	Config *config.Config
	Logger *zerolog.Logger
	Output io.Writer

	// Globals are names bound before the module, beyond the builtins.
	// The REPL uses them for its accumulated bindings.
	Globals map[string]ir.Expression

	Tokens   []token.Token
	AstRoot  *ast.Module
	Resolved *ir.Module
	Types    map[string]typesystem.Type
	Program  bytecode.Program

	Errors   []*diagnostics.DiagnosticError
	Warnings []*diagnostics.DiagnosticError
}

// NewContext prepares a context for source with default settings.
func NewContext(source string) *PipelineContext {
	ctx := &PipelineContext{SourceCode: source}
	ctx.ensureDefaults()
	return ctx
}

func (ctx *PipelineContext) ensureDefaults() {
	if ctx.RunID == "" {
		ctx.RunID = uuid.NewString()
	}
	if ctx.Logger == nil {
		nop := zerolog.Nop()
		ctx.Logger = &nop
	}
	if ctx.Config == nil {
		ctx.Config = config.Default()
	}
	if ctx.Output == nil {
		ctx.Output = os.Stdout
	}
}

// Failed reports whether any stage has recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// Err returns the first recorded error, or nil.
func (ctx *PipelineContext) Err() error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	return ctx.Errors[0]
}

// AddError records err. Errors that are not diagnostics are wrapped so
// every stage reports through the same type.
func (ctx *PipelineContext) AddError(err error, fallback diagnostics.ErrorCode) {
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		de = diagnostics.NewError(fallback, token.Token{}, "%s", err.Error())
	}
	if de.File == "" {
		de.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, de)
}
