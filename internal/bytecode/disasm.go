package bytecode

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Disassemble returns a human-readable representation of the bytecode
func Disassemble(program Program, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	offset := 0
	for offset < len(program) {
		offset = disassembleInstruction(&sb, program, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, program Program, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))

	op := Opcode(program[offset])
	if !op.Valid() {
		sb.WriteString(fmt.Sprintf("Unknown opcode %d\n", program[offset]))
		return offset + 1
	}

	switch op {
	case OP_SET:
		return setInstruction(sb, program, offset)
	case OP_JUMP, OP_JUMP_IF:
		return jumpInstruction(sb, op, program, offset)
	}
	if op.HasOperand() {
		return operandInstruction(sb, op, program, offset)
	}
	return simpleInstruction(sb, op, offset)
}

func simpleInstruction(sb *strings.Builder, op Opcode, offset int) int {
	sb.WriteString(op.String() + "\n")
	return offset + 1
}

func operandInstruction(sb *strings.Builder, op Opcode, program Program, offset int) int {
	if offset+1 >= len(program) {
		sb.WriteString(fmt.Sprintf("%-18s <missing>\n", op))
		return len(program)
	}
	sb.WriteString(fmt.Sprintf("%-18s %d\n", op, program[offset+1]))
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, op Opcode, program Program, offset int) int {
	if offset+1 >= len(program) {
		return operandInstruction(sb, op, program, offset)
	}
	target := offset + 2 + int(program[offset+1])
	sb.WriteString(fmt.Sprintf("%-18s %d -> %04d\n", op, program[offset+1], target))
	return offset + 2
}

func setInstruction(sb *strings.Builder, program Program, offset int) int {
	if offset+1 >= len(program) {
		return operandInstruction(sb, OP_SET, program, offset)
	}
	length := int(program[offset+1])
	end := offset + 2 + length
	if length < 0 || end > len(program) {
		sb.WriteString(fmt.Sprintf("%-18s %d <truncated>\n", OP_SET, length))
		return len(program)
	}
	data := make([]byte, 0, length)
	for _, u := range program[offset+2 : end] {
		data = append(data, byte(u))
	}
	text := fmt.Sprintf("%q", data)
	if !utf8.Valid(data) {
		text = fmt.Sprintf("% x", data)
	}
	sb.WriteString(fmt.Sprintf("%-18s %d %s\n", OP_SET, length, text))
	return end
}
