// Package bytecode benchmarks
//
// These benchmarks measure the performance of:
// - Line parsing
// - VM execution of arithmetic and output heavy scripts
// - Static checking
//
// Run: go test -bench=. ./pkg/bytecode/...
// Run with memory stats: go test -bench=. -benchmem ./pkg/bytecode/...
package bytecode

import (
	"io"
	"strings"
	"testing"
)

// ============================================================
// Script Builders
// ============================================================

// arithmeticScript pushes n values and folds them with add.
func arithmeticScript(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("push 3 # value\n")
	}
	for i := 1; i < n; i++ {
		sb.WriteString("add\n")
	}
	sb.WriteString("pint\n")
	return sb.String()
}

// rotationScript fills a queue and rotates it repeatedly.
func rotationScript(n int) string {
	var sb strings.Builder
	sb.WriteString("queue\n")
	for i := 0; i < n; i++ {
		sb.WriteString("push 65\n")
	}
	for i := 0; i < n; i++ {
		sb.WriteString("rotl\nrotr\nrotl\n")
	}
	sb.WriteString("pstr\npall\n")
	return sb.String()
}

// ============================================================
// Parsing Benchmarks
// ============================================================

// BenchmarkParseLine measures parsing a push with a trailing comment
func BenchmarkParseLine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _, _ = ParseLine("   push   -12345   # a comment", 1)
	}
}

// BenchmarkParseLineBlank measures the comment-only fast path
func BenchmarkParseLineBlank(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _, _ = ParseLine("# nothing to see here", 1)
	}
}

// ============================================================
// Execution Benchmarks
// ============================================================

// BenchmarkRunArithmetic measures push/add dispatch over 1000 values
func BenchmarkRunArithmetic(b *testing.B) {
	script := arithmeticScript(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vm := NewVM(io.Discard)
		if err := vm.RunReader(strings.NewReader(script)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRunRotation measures relinking rotations and printing
func BenchmarkRunRotation(b *testing.B) {
	script := rotationScript(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vm := NewVM(io.Discard)
		if err := vm.RunReader(strings.NewReader(script)); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================
// Tooling Benchmarks
// ============================================================

// BenchmarkCheck measures static checking of a 2000 line script
func BenchmarkCheck(b *testing.B) {
	script := arithmeticScript(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Check(script)
	}
}
