package bytecode

// Program is a linear instruction sequence. Addresses and jump offsets are
// counted in units.
type Program []Unit

// Emit appends an opcode with its operands.
func (p *Program) Emit(op Opcode, operands ...int64) {
	*p = append(*p, Unit(op))
	for _, operand := range operands {
		*p = append(*p, Unit(operand))
	}
}

// EmitString appends a SET instruction carrying data.
func (p *Program) EmitString(data []byte) {
	*p = append(*p, Unit(OP_SET), Unit(len(data)))
	for _, b := range data {
		*p = append(*p, Unit(b))
	}
}

// Append splices another program onto the end of p.
func (p *Program) Append(other Program) {
	*p = append(*p, other...)
}

// Len is the number of units, the measure used for jump offsets.
func (p Program) Len() int64 {
	return int64(len(p))
}

// Ops builds a program from opcodes that take no operands.
func Ops(ops ...Opcode) Program {
	p := make(Program, 0, len(ops))
	for _, op := range ops {
		p.Emit(op)
	}
	return p
}
