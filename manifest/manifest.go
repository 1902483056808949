// Package manifest handles monty.toml interpreter configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up next to scripts.
const FileName = "monty.toml"

// Manifest represents a monty.toml configuration.
type Manifest struct {
	Interpreter Interpreter `toml:"interpreter"`
	Log         Log         `toml:"log"`

	// Path is the file the manifest was read from; empty for defaults.
	Path string `toml:"-"`
}

// Interpreter configures the VM.
type Interpreter struct {
	Trace    bool `toml:"trace"`
	MaxDepth int  `toml:"max-depth"`
}

// Log configures commonlog output.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no monty.toml exists.
func Default() *Manifest {
	return &Manifest{}
}

// LoadFile parses a configuration file at an explicit path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	md, err := toml.Decode(string(data), m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Path = path
	if m.Log.File != "" && !filepath.IsAbs(m.Log.File) {
		m.Log.File = filepath.Join(filepath.Dir(path), m.Log.File)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a monty.toml file, then loads
// and returns it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	if m.Interpreter.MaxDepth < 0 {
		return fmt.Errorf("interpreter.max-depth must not be negative, got %d", m.Interpreter.MaxDepth)
	}
	if m.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative, got %d", m.Log.Verbosity)
	}
	return nil
}

// LogPath returns the log file path for commonlog, or nil for stderr.
func (m *Manifest) LogPath() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	return &path
}
