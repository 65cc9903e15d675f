// Package diag defines the typed, user-facing error kinds this compiler can
// raise, and a colorized formatter for reporting them at the CLI boundary.
package diag

import "fmt"

// ArgumentError signals a missing or malformed CLI argument.
type ArgumentError struct {
	What string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error: %s", e.What)
}

// MemoryFormatError signals a malformed line in a memory image file.
type MemoryFormatError struct {
	Line int
	Text string
}

func (e *MemoryFormatError) Error() string {
	return fmt.Sprintf("memory image line %d is not \"addr = value\": %q", e.Line, e.Text)
}

// RegisterFormatError signals an operand that is neither numeric nor a
// valid register name.
type RegisterFormatError struct {
	Instruction string
	Operand     string
}

func (e *RegisterFormatError) Error() string {
	return fmt.Sprintf("%q is not a proper register or literal in %q", e.Operand, e.Instruction)
}

// UnknownMemoryAddress signals a LOAD of an address absent from memory.
type UnknownMemoryAddress struct {
	Addr string
}

func (e *UnknownMemoryAddress) Error() string {
	return fmt.Sprintf("unknown memory address %q", e.Addr)
}

// UnknownRegister signals a read of a register that was never written.
type UnknownRegister struct {
	Register string
}

func (e *UnknownRegister) Error() string {
	return fmt.Sprintf("unknown register %q", e.Register)
}

// UnknownInstruction signals an instruction kind the simulator cannot
// execute.
type UnknownInstruction struct {
	Text string
}

func (e *UnknownInstruction) Error() string {
	return fmt.Sprintf("unknown instruction %q", e.Text)
}

// ScheduleLengthMismatch signals that the per-PE code streams produced by
// the synchronizer do not all have the same length — a scheduler defect,
// never a user input problem.
type ScheduleLengthMismatch struct {
	PE0Len int
	PELen  int
	PE     int
}

func (e *ScheduleLengthMismatch) Error() string {
	return fmt.Sprintf("scheduler bug: PE %d has %d lines, PE 0 has %d", e.PE, e.PELen, e.PE0Len)
}
