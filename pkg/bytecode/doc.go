// Package bytecode implements the Monty interpreter: a line-oriented
// stack machine over machine-word integers.
//
// A script is plain text with one instruction per line:
//
//	push 1    # push an integer
//	push 2
//	add
//	pall
//
// Text after '#' is ignored, blank lines are skipped, and only push takes
// an argument. There is no binary encoding; the source text is the
// program.
//
// # Architecture Overview
//
//   - Opcodes: a fixed table of 17 instructions with metadata (keyword,
//     argument, required depth, underflow message, description)
//
//   - Parser: turns one line into an Instruction, recording token columns
//     so tools can point at the offending text
//
//   - VM: owns the container (see package stack), the insertion mode and
//     the line counter. Run drives parse and dispatch line by line and
//     halts at the first fatal error
//
//   - Check and Format: static helpers used by the language server
//
// # Stack and Queue Modes
//
// The container is read and drained from the front in both modes. The
// mode only decides where push inserts: at the front in stack mode, at
// the back in queue mode. Switching modes never reorders elements that
// are already present.
//
// # Errors
//
// Every fatal condition is returned as an error, never raised by exiting
// the process. Script faults are *RuntimeError values that render as
// "L<line>: <message>"; container exhaustion is ErrMallocFailed. The
// caller decides how to report them and which exit status to use.
package bytecode
