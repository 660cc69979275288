// Package bytecode defines the flat instruction format executed by the vm.
package bytecode

import "fmt"

// Unit is one slot of a program: an opcode, an integer operand, or a
// single payload byte of a string.
type Unit int64

// Opcode represents a single VM instruction
type Opcode Unit

const (
	OP_PUSH              Opcode = iota + 1 // PUSH n: push integer n
	OP_SET                                 // SET len b0..b(len-1): store a heap record, push its address
	OP_PRINT                               // pop address, print record and newline
	OP_ADD                                 // pop two integers, push their sum
	OP_JUMP                                // JUMP k: pc += k
	OP_JUMP_IF                             // JUMP_IF k: pop; if nonzero, pc += k
	OP_INTEGER_TO_STRING                   // pop integer, push address of its decimal text
	OP_DUP                                 // duplicate top of stack

	// Subroutine extension. Never emitted by the compiler.
	OP_CALL               // CALL addr: save return address, pc = addr
	OP_RETURN             // pc = saved return address
	OP_COPY               // COPY n: push a copy of the value n below the top
	OP_MOVE               // MOVE n: move the value n below the top onto the top
	OP_DECREMENT          // pop a, push a-1
	OP_LESS_THAN_OR_EQUAL // pop b, pop a, push 1 if a <= b else 0
)

var opcodeNames = map[Opcode]string{
	OP_PUSH:               "PUSH",
	OP_SET:                "SET",
	OP_PRINT:              "PRINT",
	OP_ADD:                "ADD",
	OP_JUMP:               "JUMP",
	OP_JUMP_IF:            "JUMP_IF",
	OP_INTEGER_TO_STRING:  "INTEGER_TO_STRING",
	OP_DUP:                "DUP",
	OP_CALL:               "CALL",
	OP_RETURN:             "RETURN",
	OP_COPY:               "COPY",
	OP_MOVE:               "MOVE",
	OP_DECREMENT:          "DECREMENT",
	OP_LESS_THAN_OR_EQUAL: "LESS_THAN_OR_EQUAL",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", Unit(op))
}

// Valid reports whether op is a known instruction.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

// HasOperand reports whether op is followed by one integer operand.
// SET additionally carries its payload bytes after the length.
func (op Opcode) HasOperand() bool {
	switch op {
	case OP_PUSH, OP_SET, OP_JUMP, OP_JUMP_IF, OP_CALL, OP_COPY, OP_MOVE:
		return true
	}
	return false
}
