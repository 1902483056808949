package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/monty/pkg/stack"
)

// Mode selects the end new elements are pushed to.
// Reads and removals always happen at the front.
type Mode int

const (
	ModeStack Mode = iota // LIFO: push at the front
	ModeQueue             // FIFO: push at the back
)

// String returns a human-readable name for Mode.
func (m Mode) String() string {
	switch m {
	case ModeStack:
		return "stack"
	case ModeQueue:
		return "queue"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// LineSource yields script lines in order. *bufio.Scanner and
// *LineReader satisfy it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// LineReader splits a stream into lines of unbounded length, stripping
// the newline and a preceding carriage return.
type LineReader struct {
	r    *bufio.Reader
	text string
	err  error
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Scan advances to the next line. A final line without a newline is
// still returned.
func (lr *LineReader) Scan() bool {
	if lr.err != nil {
		return false
	}
	s, err := lr.r.ReadString('\n')
	if err != nil {
		lr.err = err
		if err != io.EOF || s == "" {
			return false
		}
	}
	s = strings.TrimSuffix(s, "\n")
	lr.text = strings.TrimSuffix(s, "\r")
	return true
}

// Text returns the line read by the last Scan.
func (lr *LineReader) Text() string {
	return lr.text
}

// Err returns the first read error other than io.EOF.
func (lr *LineReader) Err() error {
	if lr.err == io.EOF {
		return nil
	}
	return lr.err
}

// VM executes Monty scripts one line at a time.
type VM struct {
	stack *stack.Stack
	mode  Mode
	line  int // Last line read, 1-based

	out *bufio.Writer
	log commonlog.Logger

	// MaxDepth caps the number of elements; 0 means unlimited.
	// A push beyond the cap fails with ErrMallocFailed.
	MaxDepth int

	// Trace logs every dispatched instruction at debug level.
	Trace bool
}

// NewVM creates a VM in stack mode that prints to out.
func NewVM(out io.Writer) *VM {
	return &VM{
		stack: stack.New(),
		mode:  ModeStack,
		out:   bufio.NewWriter(out),
		log:   commonlog.GetLogger("monty.vm"),
	}
}

// Mode returns the current insertion mode.
func (vm *VM) Mode() Mode {
	return vm.mode
}

// Line returns the number of the last line read.
func (vm *VM) Line() int {
	return vm.line
}

// Depth returns the number of elements in the container.
func (vm *VM) Depth() int {
	return vm.stack.Len()
}

// Values returns the container contents from front to back.
func (vm *VM) Values() []int {
	return vm.stack.Values()
}

// Flush writes any buffered output.
func (vm *VM) Flush() error {
	return vm.out.Flush()
}

// Run reads src to the end, executing each instruction. It stops at the
// first fatal error and returns it. Output is flushed and the container
// is released on every return path.
func (vm *VM) Run(src LineSource) (err error) {
	defer func() {
		vm.stack.Clear()
		if ferr := vm.out.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("writing output: %w", ferr)
		}
		if err != nil {
			vm.log.Debugf("halted at line %d: %v", vm.line, err)
		}
	}()

	for src.Scan() {
		vm.line++
		instr, ok, err := ParseLine(src.Text(), vm.line)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := vm.Exec(instr); err != nil {
			return err
		}
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return nil
}

// RunReader runs the script read from r.
func (vm *VM) RunReader(r io.Reader) error {
	return vm.Run(NewLineReader(r))
}

type handler func(vm *VM, instr Instruction) error

var handlers = [opcodeCount]handler{
	OpPush: (*VM).opPush,
	OpPop:  (*VM).opPop,
	OpSwap: (*VM).opSwap,
	OpRotl: (*VM).opRotl,
	OpRotr: (*VM).opRotr,
	OpNop:  (*VM).opNop,

	OpPall:  (*VM).opPall,
	OpPint:  (*VM).opPint,
	OpPchar: (*VM).opPchar,
	OpPstr:  (*VM).opPstr,

	OpAdd: (*VM).opArith,
	OpSub: (*VM).opArith,
	OpMul: (*VM).opArith,
	OpDiv: (*VM).opArith,
	OpMod: (*VM).opArith,

	OpStack: (*VM).opStack,
	OpQueue: (*VM).opQueue,
}

// Exec dispatches a single instruction. Depth preconditions are checked
// before the handler runs, so a failed instruction never mutates the
// container.
func (vm *VM) Exec(instr Instruction) error {
	if !instr.Op.Valid() {
		return runtimeErrorf(instr.Line, "unknown instruction %s", instr.Name)
	}

	info := opcodeInfoTable[instr.Op]
	if vm.Trace {
		vm.log.Debugf("L%d %-5s arg=%d depth=%d mode=%s", instr.Line, info.Name, instr.Arg, vm.stack.Len(), vm.mode)
	}
	if vm.stack.Len() < info.MinDepth {
		return runtimeErrorf(instr.Line, "%s", info.Underflow)
	}
	return handlers[instr.Op](vm, instr)
}

// ============ Stack Operations ============

func (vm *VM) opPush(instr Instruction) error {
	if vm.MaxDepth > 0 && vm.stack.Len() >= vm.MaxDepth {
		return ErrMallocFailed
	}
	if vm.mode == ModeQueue {
		vm.stack.PushBack(instr.Arg)
	} else {
		vm.stack.PushFront(instr.Arg)
	}
	return nil
}

func (vm *VM) opPop(Instruction) error {
	vm.stack.PopFront()
	return nil
}

func (vm *VM) opSwap(Instruction) error {
	vm.stack.SwapFront()
	return nil
}

func (vm *VM) opRotl(Instruction) error {
	vm.stack.RotateLeft()
	return nil
}

func (vm *VM) opRotr(Instruction) error {
	vm.stack.RotateRight()
	return nil
}

func (vm *VM) opNop(Instruction) error {
	return nil
}

// ============ Output ============

func (vm *VM) opPall(Instruction) error {
	vm.stack.Each(func(v int) bool {
		fmt.Fprintf(vm.out, "%d\n", v)
		return true
	})
	return nil
}

func (vm *VM) opPint(Instruction) error {
	v, _ := vm.stack.Front()
	fmt.Fprintf(vm.out, "%d\n", v)
	return nil
}

// isASCII reports whether v is a byte in 0..127.
func isASCII(v int) bool {
	return v >= 0 && v <= 127
}

func (vm *VM) opPchar(instr Instruction) error {
	v, _ := vm.stack.Front()
	if !isASCII(v) {
		return runtimeErrorf(instr.Line, "can't pchar, value out of range")
	}
	vm.out.WriteByte(byte(v))
	vm.out.WriteByte('\n')
	return nil
}

func (vm *VM) opPstr(Instruction) error {
	vm.stack.Each(func(v int) bool {
		if v == 0 || !isASCII(v) {
			return false
		}
		vm.out.WriteByte(byte(v))
		return true
	})
	vm.out.WriteByte('\n')
	return nil
}

// ============ Arithmetic ============

// opArith combines the top two elements as second <op> top. The top is
// discarded and the second element holds the result.
func (vm *VM) opArith(instr Instruction) error {
	top, _ := vm.stack.Front()
	if (instr.Op == OpDiv || instr.Op == OpMod) && top == 0 {
		return runtimeErrorf(instr.Line, "division by zero")
	}

	vm.stack.PopFront()
	second, _ := vm.stack.Front()

	var result int
	switch instr.Op {
	case OpAdd:
		result = second + top
	case OpSub:
		result = second - top
	case OpMul:
		result = second * top
	case OpDiv:
		result = second / top
	case OpMod:
		result = second % top
	}
	vm.stack.SetFront(result)
	return nil
}

// ============ Mode ============

func (vm *VM) opStack(Instruction) error {
	vm.mode = ModeStack
	return nil
}

func (vm *VM) opQueue(Instruction) error {
	vm.mode = ModeQueue
	return nil
}
