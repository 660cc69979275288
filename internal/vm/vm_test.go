package vm

import (
	"bytes"
	"errors"
	"testing"

	. "github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func op(o Opcode) Unit { return Unit(o) }

func run(t *testing.T, program Program, opts ...Option) (string, *VM, error) {
	t.Helper()
	var out bytes.Buffer
	machine := New(append([]Option{WithOutput(&out)}, opts...)...)
	err := machine.Run(program)
	return out.String(), machine, err
}

func TestRunPrograms(t *testing.T) {
	tests := []struct {
		name     string
		program  Program
		expected string
	}{
		{
			"print_sum",
			Program{op(OP_PUSH), 4, op(OP_PUSH), 3, op(OP_ADD), op(OP_INTEGER_TO_STRING), op(OP_PRINT)},
			"7\n",
		},
		{
			"empty_string",
			Program{op(OP_SET), 0, op(OP_PRINT)},
			"\n",
		},
		{
			"if_true",
			Program{
				op(OP_PUSH), 1,
				op(OP_JUMP_IF), 6,
				op(OP_SET), 2, 'N', 'o',
				op(OP_JUMP), 5,
				op(OP_SET), 3, 'Y', 'e', 's',
				op(OP_PRINT),
			},
			"Yes\n",
		},
		{
			"if_false",
			Program{
				op(OP_PUSH), 0,
				op(OP_JUMP_IF), 6,
				op(OP_SET), 2, 'N', 'o',
				op(OP_JUMP), 5,
				op(OP_SET), 3, 'Y', 'e', 's',
				op(OP_PRINT),
			},
			"No\n",
		},
		{
			"negative_condition_is_true",
			Program{op(OP_PUSH), -1, op(OP_JUMP_IF), 3, op(OP_SET), 0, op(OP_PRINT), op(OP_SET), 1, 'T', op(OP_PRINT)},
			"T\n",
		},
		{
			"utf8",
			Program{op(OP_SET), 2, 0xce, 0xbb, op(OP_PRINT)},
			"λ\n",
		},
		{
			"negative_integer_text",
			Program{op(OP_PUSH), -12, op(OP_INTEGER_TO_STRING), op(OP_PRINT)},
			"-12\n",
		},
		{
			"empty_program",
			Program{},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.program)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestHeapRecords(t *testing.T) {
	_, machine, err := run(t, Program{
		op(OP_SET), 2, 'h', 'i',
		op(OP_PUSH), 42, op(OP_INTEGER_TO_STRING),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 'h', 'i', 2, '4', '2'}, machine.Heap())
	assert.Equal(t, []int64{0, 3}, machine.Stack())
}

// sum(n) = n + sum(n-1), sum(0) = 0, written with the subroutine opcodes.
func TestRecursiveSubroutine(t *testing.T) {
	program := Program{
		op(OP_PUSH), 4, // 0
		op(OP_CALL), 8, // 2
		op(OP_INTEGER_TO_STRING), // 4
		op(OP_PRINT),             // 5
		op(OP_JUMP), 15,          // 6: skip the subroutine
		op(OP_COPY), 0, // 8
		op(OP_PUSH), 0, // 10
		op(OP_LESS_THAN_OR_EQUAL), // 12
		op(OP_JUMP_IF), 7,         // 13: n <= 0 returns n
		op(OP_COPY), 0, // 15
		op(OP_DECREMENT), // 17
		op(OP_CALL), 8,   // 18
		op(OP_ADD),       // 20
		op(OP_RETURN),    // 21
		op(OP_RETURN),    // 22
	}
	out, machine, err := run(t, program)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
	assert.Empty(t, machine.Stack())
}

func TestStackOpcodes(t *testing.T) {
	tests := []struct {
		name     string
		program  Program
		expected []int64
	}{
		{"dup", Program{op(OP_PUSH), 7, op(OP_DUP)}, []int64{7, 7}},
		{"copy", Program{op(OP_PUSH), 1, op(OP_PUSH), 2, op(OP_PUSH), 3, op(OP_COPY), 2}, []int64{1, 2, 3, 1}},
		{"move", Program{op(OP_PUSH), 1, op(OP_PUSH), 2, op(OP_PUSH), 3, op(OP_MOVE), 2}, []int64{2, 3, 1}},
		{"move_top", Program{op(OP_PUSH), 1, op(OP_PUSH), 2, op(OP_MOVE), 0}, []int64{1, 2}},
		{"decrement", Program{op(OP_PUSH), 0, op(OP_DECREMENT)}, []int64{-1}},
		{"less_equal_true", Program{op(OP_PUSH), 3, op(OP_PUSH), 5, op(OP_LESS_THAN_OR_EQUAL)}, []int64{1}},
		{"less_equal_equal", Program{op(OP_PUSH), 5, op(OP_PUSH), 5, op(OP_LESS_THAN_OR_EQUAL)}, []int64{1}},
		{"less_equal_false", Program{op(OP_PUSH), 6, op(OP_PUSH), 5, op(OP_LESS_THAN_OR_EQUAL)}, []int64{0}},
		{"jump_past_end", Program{op(OP_JUMP), 100, op(OP_PUSH), 1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, machine, err := run(t, tt.program)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, machine.Stack())
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		program  Program
		opts     []Option
		code     diagnostics.ErrorCode
		expected string
	}{
		{"underflow", Program{op(OP_ADD)}, nil, diagnostics.ErrR001, "Stack underflow"},
		{"print_underflow", Program{op(OP_PRINT)}, nil, diagnostics.ErrR001, "Stack underflow"},
		{"copy_underflow", Program{op(OP_PUSH), 1, op(OP_COPY), 1}, nil, diagnostics.ErrR001, "Stack underflow"},
		{"unknown_opcode", Program{99}, nil, diagnostics.ErrR002, "Unknown opcode: 99"},
		{"missing_operand", Program{op(OP_PUSH)}, nil, diagnostics.ErrR003, "Missing operand for PUSH"},
		{"truncated_string", Program{op(OP_SET), 3, 'a'}, nil, diagnostics.ErrR003, "Missing operand for SET"},
		{"bad_address", Program{op(OP_PUSH), 5, op(OP_PRINT)}, nil, diagnostics.ErrR004, "Invalid heap address: 5"},
		{"bad_utf8", Program{op(OP_SET), 1, 0xff, op(OP_PRINT)}, nil, diagnostics.ErrR005, "Invalid UTF-8 in heap record at 0"},
		{"bad_length", Program{op(OP_SET), 300}, nil, diagnostics.ErrR009, "Invalid string length: 300"},
		{"return_without_call", Program{op(OP_RETURN)}, nil, diagnostics.ErrR006, "Return without call"},
		{"backwards_out_of_program", Program{op(OP_JUMP), -5}, nil, diagnostics.ErrR010, "Invalid jump target: -3"},
		{
			"stack_overflow",
			Program{op(OP_PUSH), 1, op(OP_JUMP), -4},
			[]Option{WithMaxStack(100)},
			diagnostics.ErrR007, "Stack overflow",
		},
		{
			"call_overflow",
			Program{op(OP_CALL), 0},
			[]Option{WithMaxCallDepth(50)},
			diagnostics.ErrR008, "Call stack overflow",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.program, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagnostics.ErrRuntime))
			var de *diagnostics.DiagnosticError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestRunResetsState(t *testing.T) {
	var out bytes.Buffer
	machine := New(WithOutput(&out))
	require.NoError(t, machine.Run(Program{op(OP_SET), 1, 'a', op(OP_PRINT)}))
	require.NoError(t, machine.Run(Program{op(OP_SET), 1, 'b', op(OP_PRINT)}))
	assert.Equal(t, "a\nb\n", out.String())
	assert.Equal(t, []byte{1, 'b'}, machine.Heap())
}

func TestTraceLogging(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.TraceLevel)
	_, _, err := run(t, Program{op(OP_PUSH), 1, op(OP_DUP)}, WithLogger(logger), WithTrace(true))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"op":"PUSH"`)
	assert.Contains(t, logs.String(), `"op":"DUP"`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestOutputErrors(t *testing.T) {
	err := Execute(Program{op(OP_SET), 0, op(OP_PRINT)}, WithOutput(failingWriter{}))
	assert.EqualError(t, err, "vm: write output: closed")
}
