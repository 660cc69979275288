// Package embed runs programs from Go code and backs the command line
// tool.
package embed

import (
	"io"
	"os"
	"sort"

	"github.com/funvibe/func/internal/analyzer"
	"github.com/funvibe/func/internal/ast"
	"github.com/funvibe/func/internal/builtins"
	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/compiler"
	"github.com/funvibe/func/internal/config"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/lexer"
	"github.com/funvibe/func/internal/parser"
	"github.com/funvibe/func/internal/pipeline"
	"github.com/funvibe/func/internal/token"
	"github.com/funvibe/func/internal/typesystem"
	"github.com/funvibe/func/internal/vm"
	"github.com/rs/zerolog"
)

// Stage names how far a source text is taken through the pipeline.
type Stage int

const (
	StageTokens Stage = iota
	StageParse
	StageResolve
	StageCheck
	StageCompile
	StageRun
)

// VM holds the settings and the host bindings shared by every run.
type VM struct {
	cfg      *config.Config
	logger   zerolog.Logger
	out      io.Writer
	bindings map[string]ir.Expression
}

type Option func(*VM)

func WithConfig(cfg *config.Config) Option {
	return func(v *VM) { v.cfg = cfg }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(v *VM) { v.logger = logger }
}

// WithOutput directs program output to w instead of standard output.
func WithOutput(w io.Writer) Option {
	return func(v *VM) { v.out = w }
}

// New creates a VM with default settings unless overridden.
func New(opts ...Option) *VM {
	v := &VM{
		cfg:      config.Default(),
		logger:   zerolog.Nop(),
		out:      os.Stdout,
		bindings: make(map[string]ir.Expression),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Bind parses source as an expression and makes it available to later
// programs under name. The expression may refer to builtins and to
// names bound earlier.
func (v *VM) Bind(name, source string) error {
	if _, ok := builtins.Lookup(name); ok {
		return diagnostics.NewError(diagnostics.ErrA001, token.Token{},
			"Duplicate binding name: '%s'", name)
	}
	expr, err := parser.ParseExpression(source)
	if err != nil {
		return err
	}
	names := builtins.Names()
	for n := range v.bindings {
		names = append(names, n)
	}
	resolved, err := analyzer.ResolveExpression(expr, names)
	if err != nil {
		return err
	}
	v.bindings[name] = resolved
	return nil
}

// Bound lists the host bindings in sorted order.
func (v *VM) Bound() []string {
	names := make([]string, 0, len(v.bindings))
	for name := range v.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func processors(until Stage) []pipeline.Processor {
	all := []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.ResolverProcessor{},
		&analyzer.TypeCheckProcessor{},
		&compiler.CompilerProcessor{},
		&vm.ExecutionProcessor{},
	}
	return all[:until+1]
}

// Process takes source through the pipeline up to and including until.
// The returned context holds every product built on the way.
func (v *VM) Process(source, path string, until Stage) *pipeline.PipelineContext {
	ctx := pipeline.NewContext(source)
	ctx.FilePath = path
	ctx.Config = v.cfg
	ctx.Logger = &v.logger
	ctx.Output = v.out
	if len(v.bindings) > 0 {
		ctx.Globals = v.bindings
	}
	return pipeline.New(processors(until)...).Run(ctx)
}

// Eval runs source as a module.
func (v *VM) Eval(source string) error {
	return v.Process(source, "<eval>", StageRun).Err()
}

// LoadFile reads, compiles and runs the module at path.
func (v *VM) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return v.Process(string(content), path, StageRun).Err()
}

// Tokens returns the tokens of source, excluding the end marker.
func (v *VM) Tokens(source, path string) ([]token.Token, error) {
	ctx := v.Process(source, path, StageTokens)
	return ctx.Tokens, ctx.Err()
}

// Parse returns the syntax tree of source.
func (v *VM) Parse(source, path string) (*ast.Module, error) {
	ctx := v.Process(source, path, StageParse)
	return ctx.AstRoot, ctx.Err()
}

// Check type checks every binding regardless of the configured mode.
func (v *VM) Check(source, path string) (map[string]typesystem.Type, error) {
	ctx := v.Process(source, path, StageResolve)
	if ctx.Failed() {
		return nil, ctx.Err()
	}
	module := ir.NewModule()
	for name, expr := range v.bindings {
		module.Bindings[name] = expr
	}
	for name, expr := range ctx.Resolved.Bindings {
		module.Bindings[name] = expr
	}
	types, err := analyzer.CheckModule(module)
	if err != nil {
		if de, ok := err.(*diagnostics.DiagnosticError); ok && de.File == "" {
			de.File = path
		}
		return nil, err
	}
	return types, nil
}

// Compile returns the program for the main binding of source.
func (v *VM) Compile(source, path string) (bytecode.Program, error) {
	ctx := v.Process(source, path, StageCompile)
	return ctx.Program, ctx.Err()
}
