package bytecode

import (
	"fmt"
	"strings"
)

// Diagnostic is a static problem found in a script without running it.
type Diagnostic struct {
	Line     int // 1-based
	StartCol int // byte offset, inclusive
	EndCol   int // byte offset, exclusive
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("L%d:%d: %s", d.Line, d.StartCol+1, d.Message)
}

// Check reports every malformed push and unknown instruction in text.
// Unlike Run it does not stop at the first problem, and it cannot detect
// faults that depend on the container (underflow, division by zero).
func Check(text string) []Diagnostic {
	var diags []Diagnostic
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		instr, ok, err := ParseLine(raw, i+1)
		if !ok {
			continue
		}

		if err != nil {
			d := Diagnostic{Line: instr.Line, Message: messageOf(err)}
			if instr.ArgCol >= 0 {
				d.StartCol = instr.ArgCol
				d.EndCol = instr.ArgCol + len(instr.ArgText)
			} else {
				d.StartCol = instr.NameCol
				d.EndCol = instr.NameCol + len(instr.Name)
			}
			diags = append(diags, d)
			continue
		}

		if !instr.Op.Valid() {
			diags = append(diags, Diagnostic{
				Line:     instr.Line,
				StartCol: instr.NameCol,
				EndCol:   instr.NameCol + len(instr.Name),
				Message:  "unknown instruction " + instr.Name,
			})
		}
	}
	return diags
}

func messageOf(err error) string {
	if rerr, ok := IsRuntimeError(err); ok {
		return rerr.Msg
	}
	return err.Error()
}
