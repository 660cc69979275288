package vm

import (
	"unicode/utf8"

	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/diagnostics"
)

func (vm *VM) next() bytecode.Unit {
	u := vm.program[vm.pc]
	vm.pc++
	return u
}

func (vm *VM) operand(op bytecode.Opcode) int64 {
	if vm.pc >= len(vm.program) {
		vm.fail(diagnostics.ErrR003, "Missing operand for %s", op)
	}
	return int64(vm.next())
}

func (vm *VM) depth(op bytecode.Opcode) int {
	n := vm.operand(op)
	if n < 0 || n >= int64(len(vm.stack)) {
		vm.fail(diagnostics.ErrR001, "Stack underflow")
	}
	return int(n)
}

func (vm *VM) push(value int64) {
	if len(vm.stack) >= vm.maxStack {
		vm.fail(diagnostics.ErrR007, "Stack overflow")
	}
	vm.stack = append(vm.stack, value)
}

func (vm *VM) pop() int64 {
	if len(vm.stack) == 0 {
		vm.fail(diagnostics.ErrR001, "Stack underflow")
	}
	value := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return value
}

func (vm *VM) peek(distance int) int64 {
	idx := len(vm.stack) - 1 - distance
	if idx < 0 {
		vm.fail(diagnostics.ErrR001, "Stack underflow")
	}
	return vm.stack[idx]
}

func (vm *VM) jump(offset int64) {
	vm.jumpTo(int64(vm.pc) + offset)
}

func (vm *VM) jumpTo(target int64) {
	if target < 0 {
		vm.fail(diagnostics.ErrR010, "Invalid jump target: %d", target)
	}
	// Jumping past the end halts the machine.
	if target > int64(len(vm.program)) {
		target = int64(len(vm.program))
	}
	vm.pc = int(target)
}

// readRecord reads the length and payload operands of a SET.
func (vm *VM) readRecord() []byte {
	length := vm.operand(bytecode.OP_SET)
	if length < 0 || length > 255 {
		vm.fail(diagnostics.ErrR009, "Invalid string length: %d", length)
	}
	if int64(len(vm.program)-vm.pc) < length {
		vm.fail(diagnostics.ErrR003, "Missing operand for %s", bytecode.OP_SET)
	}
	data := make([]byte, length)
	for i := range data {
		u := vm.next()
		if u < 0 || u > 255 {
			vm.fail(diagnostics.ErrR009, "Invalid string byte: %d", u)
		}
		data[i] = byte(u)
	}
	return data
}

// store appends a length-prefixed record and returns its address.
func (vm *VM) store(data []byte) int64 {
	if len(data) > 255 {
		vm.fail(diagnostics.ErrR009, "Invalid string length: %d", len(data))
	}
	addr := int64(len(vm.heap))
	vm.heap = append(vm.heap, byte(len(data)))
	vm.heap = append(vm.heap, data...)
	return addr
}

func (vm *VM) load(addr int64) string {
	if addr < 0 || addr >= int64(len(vm.heap)) {
		vm.fail(diagnostics.ErrR004, "Invalid heap address: %d", addr)
	}
	start := addr + 1
	end := start + int64(vm.heap[addr])
	if end > int64(len(vm.heap)) {
		vm.fail(diagnostics.ErrR004, "Invalid heap address: %d", addr)
	}
	data := vm.heap[start:end]
	if !utf8.Valid(data) {
		vm.fail(diagnostics.ErrR005, "Invalid UTF-8 in heap record at %d", addr)
	}
	return string(data)
}
