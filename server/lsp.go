// Package server provides a language server for Monty scripts.
package server

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/monty/pkg/bytecode"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "monty-lsp"

// LspServer serves editor features for Monty scripts: diagnostics,
// completion, hover and formatting.
type LspServer struct {
	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	log     commonlog.Logger
	version string
}

// NewLSP creates a new LSP server.
func NewLSP() *LspServer {
	s := &LspServer{
		docs:    make(map[string]string),
		log:     commonlog.GetLogger("monty.lsp"),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentFormatting: s.textDocumentFormatting,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.log.Info("Monty LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.log.Info("Monty LSP shutting down")
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.setDocument(uri, text)
	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.setDocument(uri, whole.Text)
			s.publishDiagnostics(ctx, uri, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *LspServer) setDocument(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()
}

func (s *LspServer) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return complete(text, params.Position), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return hover(extractWord(text, params.Position)), nil
}

func (s *LspServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return formatEdits(text), nil
}

// complete offers opcode keywords when the cursor is on the first word
// of a line.
func complete(text string, pos protocol.Position) []protocol.CompletionItem {
	prefix, first := extractPrefix(text, pos)
	if !first {
		return nil
	}

	items := make([]protocol.CompletionItem, 0, bytecode.OpcodeCount())
	for _, op := range bytecode.AllOpcodes() {
		info := bytecode.GetOpcodeInfo(op)
		if !strings.HasPrefix(info.Name, prefix) {
			continue
		}
		kind := protocol.CompletionItemKindKeyword
		if op.IsArithmetic() {
			kind = protocol.CompletionItemKindOperator
		}
		detail := info.Doc
		insert := info.Name
		if info.HasArg {
			insert += " "
		}
		items = append(items, protocol.CompletionItem{
			Label:      info.Name,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insert,
		})
	}
	return items
}

// hover describes the opcode under the cursor.
func hover(word string) *protocol.Hover {
	op, ok := bytecode.LookupOpcode(word)
	if !ok {
		return nil
	}
	info := bytecode.GetOpcodeInfo(op)

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", info.Name)
	if info.HasArg {
		b.WriteString(" `<int>`")
	}
	b.WriteString("\n\n")
	b.WriteString(info.Doc)
	if info.MinDepth > 0 {
		fmt.Fprintf(&b, "\n\nRequires %d element(s); otherwise fails with `%s`.", info.MinDepth, info.Underflow)
	}
	if op == bytecode.OpDiv || op == bytecode.OpMod {
		b.WriteString(" A zero top element fails with `division by zero`.")
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

// formatEdits returns a single whole-document edit, or nothing when the
// document is already canonical.
func formatEdits(text string) []protocol.TextEdit {
	formatted := bytecode.Format(text)
	if formatted == text {
		return []protocol.TextEdit{}
	}

	lines := strings.Split(text, "\n")
	last := lines[len(lines)-1]
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(len(lines) - 1), Character: utf16Len(last)},
		},
		NewText: formatted,
	}}
}

// --- Diagnostics ---

// toProtocolDiagnostics converts byte columns in text to UTF-16 positions.
func toProtocolDiagnostics(text string, diags []bytecode.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	severity := protocol.DiagnosticSeverityError
	source := lspName
	lines := strings.Split(text, "\n")
	for _, d := range diags {
		line := protocol.UInteger(d.Line - 1)
		src := lines[d.Line-1]
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: utf16Len(src[:d.StartCol])},
				End:   protocol.Position{Line: line, Character: utf16Len(src[:d.EndCol])},
			},
			Severity: &severity,
			Source:   &source,
			Message:  fmt.Sprintf("L%d: %s", d.Line, d.Message),
		})
	}
	return out
}

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diags := bytecode.Check(text)
	s.log.Debugf("%s: %d diagnostics", uri, len(diags))

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(text, diags),
	})
}

// --- Text extraction helpers ---

func isWordChar(c byte) bool {
	return c != ' ' && c != '\t' && c != '#' && c != '\r'
}

// utf16Len returns the length of s in UTF-16 code units, the unit LSP
// positions count in.
func utf16Len(s string) protocol.UInteger {
	n := 0
	for _, r := range s {
		n += len(utf16.AppendRune(nil, r))
	}
	return protocol.UInteger(n)
}

// lineAt returns the requested line and the cursor as a byte offset
// into it, clamped to the line length.
func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := lines[pos.Line]
	if pos.Character >= utf16Len(line) {
		return line, len(line), true
	}
	return line, protocol.Position{Character: pos.Character}.IndexIn(line), true
}

// extractPrefix returns the word fragment before the cursor and whether
// that fragment is the first word on its line (the opcode position).
func extractPrefix(text string, pos protocol.Position) (string, bool) {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(line, '#'); i >= 0 && i < col {
		return "", false
	}

	// Walk backwards from cursor to find the start of the word
	start := col
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}

	first := strings.TrimLeft(line[:start], " \t") == ""
	return line[start:col], first
}

// extractWord returns the full word under the cursor.
func extractWord(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	start := col
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordChar(line[end]) {
		end++
	}

	return line[start:end]
}

func boolPtr(b bool) *bool {
	return &b
}
