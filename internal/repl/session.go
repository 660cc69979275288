// Package repl evaluates source one line at a time against a growing
// binding table.
package repl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/funvibe/func/internal/analyzer"
	"github.com/funvibe/func/internal/builtins"
	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/compiler"
	"github.com/funvibe/func/internal/config"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/lexer"
	"github.com/funvibe/func/internal/parser"
	"github.com/funvibe/func/internal/prettyprinter"
	"github.com/funvibe/func/internal/vm"
	"github.com/rs/zerolog"
)

// ErrQuit is returned by Eval for the :quit command.
var ErrQuit = errors.New("quit")

// Session holds the bindings entered so far. Later bindings may replace
// earlier ones of the same name.
type Session struct {
	bindings map[string]ir.Expression
	cfg      *config.Config
	out      io.Writer
	logger   zerolog.Logger
}

func NewSession(cfg *config.Config, out io.Writer, logger zerolog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		bindings: make(map[string]ir.Expression),
		cfg:      cfg,
		out:      out,
		logger:   logger,
	}
}

// Names lists the user bindings in sorted order.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Session) scope() []string {
	return append(builtins.Names(), s.Names()...)
}

// Eval handles one line: a command, a binding or an expression to run.
func (s *Session) Eval(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	// Tokenise once up front so lexical errors are reported as such
	// rather than as a failed binding parse.
	if _, err := lexer.Tokenise(line); err != nil {
		return err
	}

	binding, err := parser.ParseBinding(line)
	if err == nil {
		if _, ok := builtins.Lookup(binding.Name); ok {
			return diagnostics.NewError(diagnostics.ErrA001, binding.Token,
				"Duplicate binding name: '%s'", binding.Name)
		}
		value, err := analyzer.ResolveExpression(binding.Value, s.scope())
		if err != nil {
			return err
		}
		s.bindings[binding.Name] = value
		s.logger.Debug().Str("binding", binding.Name).Msg("bound")
		return nil
	}
	if !errors.Is(err, diagnostics.ErrParse) {
		return err
	}

	expr, err := s.resolve(line)
	if err != nil {
		return err
	}
	if err := s.typecheck(expr); err != nil {
		return err
	}
	program, err := compiler.CompileExpression(expr, s.bindings)
	if err != nil {
		return err
	}
	return vm.Execute(program,
		vm.WithOutput(s.out),
		vm.WithLogger(s.logger),
		vm.WithTrace(s.cfg.VM.Trace),
		vm.WithMaxStack(s.cfg.VM.MaxStack),
		vm.WithMaxCallDepth(s.cfg.VM.MaxCallDepth),
	)
}

func (s *Session) resolve(source string) (ir.Expression, error) {
	expr, err := parser.ParseExpression(source)
	if err != nil {
		return nil, err
	}
	return analyzer.ResolveExpression(expr, s.scope())
}

func (s *Session) typecheck(expr ir.Expression) error {
	switch s.cfg.TypeCheck {
	case config.TypeCheckWarn, config.TypeCheckStrict:
	default:
		return nil
	}
	_, err := analyzer.InferIn(expr, s.env())
	if err != nil && s.cfg.TypeCheck == config.TypeCheckWarn {
		s.logger.Warn().Err(err).Msg("type check failed")
		return nil
	}
	return err
}

func (s *Session) env() map[string]ir.Expression {
	env := builtins.Bindings()
	for name, expr := range s.bindings {
		env[name] = expr
	}
	return env
}

func (s *Session) command(line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":quit", ":q":
		return ErrQuit
	case ":bindings":
		for _, n := range s.Names() {
			fmt.Fprintln(s.out, n)
		}
		return nil
	case ":type", ":t":
		expr, err := s.resolve(arg)
		if err != nil {
			return err
		}
		t, err := analyzer.InferIn(expr, s.env())
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, t)
		return nil
	case ":ast":
		expr, err := parser.ParseExpression(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, prettyprinter.PrintExpression(expr))
		return nil
	case ":dis":
		expr, err := s.resolve(arg)
		if err != nil {
			return err
		}
		program, err := compiler.CompileExpression(expr, s.bindings)
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, bytecode.Disassemble(program, arg))
		return nil
	}
	return fmt.Errorf("Unknown command: %s", name)
}
