// Package vm executes bytecode programs against an operand stack and an
// append-only byte heap.
package vm

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/token"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxStack     = 1 << 20
	DefaultMaxCallDepth = 10000
)

// VM is a single-use machine state. Run resets it, so a VM may be reused
// sequentially but never concurrently.
type VM struct {
	program bytecode.Program
	pc      int

	stack []int64
	heap  []byte
	calls []int // return addresses for CALL/RETURN

	out          io.Writer
	logger       zerolog.Logger
	trace        bool
	maxStack     int
	maxCallDepth int
}

type Option func(*VM)

// WithOutput directs PRINT to w instead of standard output.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) { vm.out = w }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VM) { vm.logger = logger }
}

// WithTrace logs every executed instruction at trace level.
func WithTrace(enabled bool) Option {
	return func(vm *VM) { vm.trace = enabled }
}

// WithMaxStack bounds the operand stack; zero keeps the default.
func WithMaxStack(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.maxStack = n
		}
	}
}

// WithMaxCallDepth bounds nested CALLs; zero keeps the default.
func WithMaxCallDepth(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.maxCallDepth = n
		}
	}
}

func New(opts ...Option) *VM {
	vm := &VM{
		out:          os.Stdout,
		logger:       zerolog.Nop(),
		maxStack:     DefaultMaxStack,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Execute runs program on a fresh machine.
func Execute(program bytecode.Program, opts ...Option) error {
	return New(opts...).Run(program)
}

// runtimeError carries a diagnostic out of the dispatch loop.
type runtimeError struct {
	err *diagnostics.DiagnosticError
}

func (vm *VM) fail(code diagnostics.ErrorCode, format string, args ...interface{}) {
	panic(runtimeError{err: diagnostics.NewError(code, token.Token{}, format, args...)})
}

// Run executes program until the program counter passes its end.
func (vm *VM) Run(program bytecode.Program) (err error) {
	vm.program = program
	vm.pc = 0
	vm.stack = vm.stack[:0]
	vm.heap = vm.heap[:0]
	vm.calls = vm.calls[:0]

	defer func() {
		if r := recover(); r != nil {
			rt, ok := r.(runtimeError)
			if !ok {
				panic(r)
			}
			err = rt.err
		}
	}()

	for vm.pc >= 0 && vm.pc < len(vm.program) {
		start := vm.pc
		op := bytecode.Opcode(vm.next())
		if vm.trace {
			vm.logger.Trace().
				Int("pc", start).
				Str("op", op.String()).
				Int("stack", len(vm.stack)).
				Int("heap", len(vm.heap)).
				Msg("step")
		}
		if err := vm.step(op); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) step(op bytecode.Opcode) error {
	switch op {
	case bytecode.OP_PUSH:
		vm.push(vm.operand(op))

	case bytecode.OP_SET:
		vm.push(vm.store(vm.readRecord()))

	case bytecode.OP_PRINT:
		text := vm.load(vm.pop())
		if _, err := io.WriteString(vm.out, text+"\n"); err != nil {
			return fmt.Errorf("vm: write output: %w", err)
		}

	case bytecode.OP_ADD:
		first := vm.pop()
		second := vm.pop()
		vm.push(first + second)

	case bytecode.OP_JUMP:
		vm.jump(vm.operand(op))

	case bytecode.OP_JUMP_IF:
		offset := vm.operand(op)
		if vm.pop() != 0 {
			vm.jump(offset)
		}

	case bytecode.OP_INTEGER_TO_STRING:
		vm.push(vm.store([]byte(strconv.FormatInt(vm.pop(), 10))))

	case bytecode.OP_DUP:
		vm.push(vm.peek(0))

	case bytecode.OP_CALL:
		target := vm.operand(op)
		if len(vm.calls) >= vm.maxCallDepth {
			vm.fail(diagnostics.ErrR008, "Call stack overflow")
		}
		vm.calls = append(vm.calls, vm.pc)
		vm.jumpTo(target)

	case bytecode.OP_RETURN:
		if len(vm.calls) == 0 {
			vm.fail(diagnostics.ErrR006, "Return without call")
		}
		vm.pc = vm.calls[len(vm.calls)-1]
		vm.calls = vm.calls[:len(vm.calls)-1]

	case bytecode.OP_COPY:
		vm.push(vm.peek(vm.depth(op)))

	case bytecode.OP_MOVE:
		n := vm.depth(op)
		idx := len(vm.stack) - 1 - n
		value := vm.peek(n)
		vm.stack = append(vm.stack[:idx], vm.stack[idx+1:]...)
		vm.stack = append(vm.stack, value)

	case bytecode.OP_DECREMENT:
		vm.push(vm.pop() - 1)

	case bytecode.OP_LESS_THAN_OR_EQUAL:
		b := vm.pop()
		a := vm.pop()
		if a <= b {
			vm.push(1)
		} else {
			vm.push(0)
		}

	default:
		vm.fail(diagnostics.ErrR002, "Unknown opcode: %d", bytecode.Unit(op))
	}
	return nil
}

// Stack returns a copy of the operand stack, bottom first.
func (vm *VM) Stack() []int64 {
	return append([]int64(nil), vm.stack...)
}

// Heap returns a copy of the heap.
func (vm *VM) Heap() []byte {
	return append([]byte(nil), vm.heap...)
}
