// Package manifest loads TOML run manifests for the CLI.
package manifest

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

var (
	// ErrProgramMissing indicates that [run].program is missing.
	ErrProgramMissing = errors.New("missing [run].program")
	// ErrEntryMissing indicates that [run].entry is missing.
	ErrEntryMissing = errors.New("missing [run].entry")
)

// Run describes one simulation invocation: the program file, the entry
// point, raw input values grouped per declared parameter position, and an
// optional trace output path.
type Run struct {
	Program string
	Entry   string
	Inputs  [][]int64
	Trace   string
}

type runFile struct {
	Run struct {
		Program string    `toml:"program"`
		Entry   string    `toml:"entry"`
		Inputs  [][]int64 `toml:"inputs"`
		Trace   string    `toml:"trace"`
	} `toml:"run"`
}

// Load parses a run manifest from path.
func Load(path string) (*Run, error) {
	var cfg runFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Run.Program == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProgramMissing)
	}
	if cfg.Run.Entry == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEntryMissing)
	}
	return &Run{
		Program: cfg.Run.Program,
		Entry:   cfg.Run.Entry,
		Inputs:  cfg.Run.Inputs,
		Trace:   cfg.Run.Trace,
	}, nil
}
