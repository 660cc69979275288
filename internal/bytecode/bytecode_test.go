package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	var p Program
	p.Emit(OP_PUSH, 4)
	p.EmitString([]byte("No"))
	p.Emit(OP_PRINT)

	expected := Program{
		Unit(OP_PUSH), 4,
		Unit(OP_SET), 2, 'N', 'o',
		Unit(OP_PRINT),
	}
	assert.Equal(t, expected, p)
	assert.Equal(t, int64(7), p.Len())
}

func TestDisassemble(t *testing.T) {
	var p Program
	p.Emit(OP_PUSH, 1)
	p.Emit(OP_JUMP_IF, 6)
	p.EmitString([]byte("No"))
	p.Emit(OP_JUMP, 5)
	p.EmitString([]byte("Yes"))
	p.Emit(OP_PRINT)

	expected := `== main ==
0000 PUSH               1
0002 JUMP_IF            6 -> 0010
0004 SET                2 "No"
0008 JUMP               5 -> 0015
0010 SET                3 "Yes"
0015 PRINT
`
	assert.Equal(t, expected, Disassemble(p, "main"))
}

func TestDisassembleMalformed(t *testing.T) {
	out := Disassemble(Program{99, Unit(OP_PUSH)}, "bad")
	assert.Contains(t, out, "Unknown opcode 99")
	assert.Contains(t, out, "<missing>")
}

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "LESS_THAN_OR_EQUAL", OP_LESS_THAN_OR_EQUAL.String())
	assert.Equal(t, "Opcode(42)", Opcode(42).String())
	assert.True(t, OP_MOVE.HasOperand())
	assert.False(t, OP_ADD.HasOperand())
}

// Compiled programs store raw opcode values, so the numbering is fixed.
func TestOpcodeNumbering(t *testing.T) {
	core := []Opcode{OP_PUSH, OP_SET, OP_PRINT, OP_ADD, OP_JUMP, OP_JUMP_IF, OP_INTEGER_TO_STRING, OP_DUP}
	for i, op := range core {
		assert.Equal(t, Opcode(i+1), op, op.String())
	}
	assert.Equal(t, Opcode(9), OP_CALL)
	assert.Equal(t, Opcode(14), OP_LESS_THAN_OR_EQUAL)
}
