package bytecode

import (
	"errors"
	"strconv"
	"strings"
)

// Instruction is one parsed script line.
type Instruction struct {
	Op   Opcode // OpInvalid when Name is not a known keyword
	Name string // Opcode keyword as written
	Arg  int    // Integer argument; set only for opcodes that take one
	Line int    // 1-based source line

	// Byte columns within the line, for diagnostics and formatting.
	NameCol int
	ArgCol  int    // -1 when no argument token was present
	ArgText string // Raw argument token
}

// token is a whitespace-delimited word and its byte offset in the line.
type token struct {
	text string
	col  int
}

// stripComment truncates text at the first '#'.
func stripComment(text string) string {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		return text[:i]
	}
	return text
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// tokenize splits text on spaces, tabs and newlines, discarding empties.
func tokenize(text string) []token {
	var toks []token
	i := 0
	for i < len(text) {
		for i < len(text) && isSeparator(text[i]) {
			i++
		}
		start := i
		for i < len(text) && !isSeparator(text[i]) {
			i++
		}
		if i > start {
			toks = append(toks, token{text: text[start:i], col: start})
		}
	}
	return toks
}

// parseInteger converts a push argument. The whole token must be a base-10
// integer with an optional sign; out-of-range values saturate.
func parseInteger(s string) (int, bool) {
	n, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return int(n), true
		}
		return 0, false
	}
	return int(n), true
}

// ParseLine parses one script line. It returns ok == false for lines that
// hold no instruction (blank, whitespace-only or comment-only). A push
// without a valid integer argument yields a *RuntimeError; the returned
// Instruction still carries the positions that were found.
//
// Unknown keywords are not an error here: the returned Instruction has
// Op == OpInvalid and dispatch reports it.
func ParseLine(text string, line int) (Instruction, bool, error) {
	toks := tokenize(stripComment(text))
	if len(toks) == 0 {
		return Instruction{}, false, nil
	}

	instr := Instruction{
		Name:    toks[0].text,
		Line:    line,
		NameCol: toks[0].col,
		ArgCol:  -1,
	}
	instr.Op, _ = LookupOpcode(instr.Name)

	if GetOpcodeInfo(instr.Op).HasArg {
		rest := toks[1:]
		if len(rest) == 0 {
			return instr, true, runtimeErrorf(line, "usage: push integer")
		}
		instr.ArgText = rest[0].text
		instr.ArgCol = rest[0].col
		n, ok := parseInteger(rest[0].text)
		if !ok {
			return instr, true, runtimeErrorf(line, "usage: push integer")
		}
		instr.Arg = n
	}

	// Tokens after the opcode and its argument are ignored.
	return instr, true, nil
}
