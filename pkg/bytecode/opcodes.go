package bytecode

import "fmt"

// Opcode identifies a Monty instruction.
// The set is fixed; scripts cannot define new instructions.
type Opcode byte

const (
	OpInvalid Opcode = iota // Unrecognized instruction name

	// ========================================================================
	// Stack manipulation
	// ========================================================================

	OpPush // Insert argument at the mode-determined end
	OpPop  // Remove front element
	OpSwap // Exchange the first two elements
	OpRotl // Move front element to the back
	OpRotr // Move back element to the front
	OpNop  // No operation

	// ========================================================================
	// Output
	// ========================================================================

	OpPall  // Print every element, front to back
	OpPint  // Print front element
	OpPchar // Print front element as an ASCII character
	OpPstr  // Print elements as a string up to the first 0 or non-ASCII value

	// ========================================================================
	// Arithmetic (second <op> front, result replaces second)
	// ========================================================================

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// ========================================================================
	// Mode
	// ========================================================================

	OpStack // Subsequent pushes insert at the front
	OpQueue // Subsequent pushes insert at the back

	opcodeCount
)

// OpcodeInfo provides metadata about each opcode for dispatch and tooling.
type OpcodeInfo struct {
	Name      string // Keyword as written in scripts
	HasArg    bool   // Takes an integer argument
	MinDepth  int    // Elements required before the handler may run
	Underflow string // Error message when MinDepth is not met
	Doc       string // One-line description
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = [opcodeCount]OpcodeInfo{
	OpInvalid: {Name: "invalid"},

	OpPush: {"push", true, 0, "", "push <int>: push an integer onto the stack (or the back of the queue)"},
	OpPop:  {"pop", false, 1, "can't pop an empty stack", "remove the top element"},
	OpSwap: {"swap", false, 2, "can't swap, stack too short", "swap the top two elements"},
	OpRotl: {"rotl", false, 0, "", "rotate the stack: the top element becomes the last"},
	OpRotr: {"rotr", false, 0, "", "rotate the stack: the last element becomes the top"},
	OpNop:  {"nop", false, 0, "", "do nothing"},

	OpPall:  {"pall", false, 0, "", "print every value, starting from the top"},
	OpPint:  {"pint", false, 1, "can't pint, stack empty", "print the top value"},
	OpPchar: {"pchar", false, 1, "can't pchar, stack empty", "print the top value as an ASCII character"},
	OpPstr:  {"pstr", false, 0, "", "print the stack as a string, stopping at 0 or a non-ASCII value"},

	OpAdd: {"add", false, 2, "can't add, stack too short", "replace the top two values with their sum"},
	OpSub: {"sub", false, 2, "can't sub, stack too short", "replace the top two values with second minus top"},
	OpMul: {"mul", false, 2, "can't mul, stack too short", "replace the top two values with their product"},
	OpDiv: {"div", false, 2, "can't div, stack too short", "replace the top two values with second divided by top"},
	OpMod: {"mod", false, 2, "can't mod, stack too short", "replace the top two values with second modulo top"},

	OpStack: {"stack", false, 0, "", "switch to stack (LIFO) mode"},
	OpQueue: {"queue", false, 0, "", "switch to queue (FIFO) mode"},
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, opcodeCount)
	for op := OpInvalid + 1; op < opcodeCount; op++ {
		m[opcodeInfoTable[op].Name] = op
	}
	return m
}()

// LookupOpcode resolves an instruction keyword. Names are case-sensitive.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN" if the opcode is out of range.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if op < opcodeCount {
		return opcodeInfoTable[op]
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", byte(op))}
}

// String returns the script keyword of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Valid reports whether op names a real instruction.
func (op Opcode) Valid() bool {
	return op > OpInvalid && op < opcodeCount
}

// IsArithmetic reports whether op combines the top two elements.
func (op Opcode) IsArithmetic() bool {
	return op >= OpAdd && op <= OpMod
}

// AllOpcodes returns every valid opcode in declaration order.
func AllOpcodes() []Opcode {
	ops := make([]Opcode, 0, opcodeCount-1)
	for op := OpInvalid + 1; op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// OpcodeCount returns the number of valid opcodes.
func OpcodeCount() int {
	return int(opcodeCount) - 1
}
