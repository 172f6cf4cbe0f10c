package sim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"sierra/internal/program"
)

// Current schema version - increment when Log format changes.
const traceSchemaVersion uint16 = 1

// Event captures one executed invocation: where it ran and which declared
// branch fired. Simulation is deterministic, so a log fully pins a run.
type Event struct {
	Cursor  int    `msgpack:"cursor"`
	LibFunc string `msgpack:"libfunc"`
	Branch  int    `msgpack:"branch"`
}

// Log is a serialized execution trace.
type Log struct {
	Schema uint16  `msgpack:"schema"`
	Entry  string  `msgpack:"entry"`
	Events []Event `msgpack:"events"`
	Final  int     `msgpack:"final"` // address of the return statement
}

// Recorder captures an execution log during a run.
type Recorder struct {
	log Log
}

// NewRecorder creates a recorder for the given entry point.
func NewRecorder(entry string) *Recorder {
	return &Recorder{log: Log{Schema: traceSchemaVersion, Entry: entry}}
}

func (r *Recorder) record(ev Event) {
	r.log.Events = append(r.log.Events, ev)
}

func (r *Recorder) finish(at program.StatementIdx) {
	r.log.Final = int(at)
}

// Log returns the captured log.
func (r *Recorder) Log() *Log {
	return &r.log
}

// WriteFile serializes the log with msgpack, writing atomically via a
// temp file rename.
func (r *Recorder) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "trace-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&r.log); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Replayer validates a fresh run against a recorded log.
type Replayer struct {
	log  Log
	next int
}

// NewReplayer wraps an in-memory log.
func NewReplayer(log *Log) *Replayer {
	return &Replayer{log: *log}
}

// ReadLogFile deserializes a log written by Recorder.WriteFile.
func ReadLogFile(path string) (*Log, error) {
	f, err := os.Open(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var log Log
	if err := msgpack.NewDecoder(f).Decode(&log); err != nil {
		return nil, fmt.Errorf("%s: invalid trace log: %w", path, err)
	}
	return &log, nil
}

// Validate checks schema and entry point before replay starts.
func (r *Replayer) Validate(entry string) *Error {
	if r.log.Schema != traceSchemaVersion {
		return newError(ErrReplayMismatch, -1, "unsupported trace schema %d", r.log.Schema)
	}
	if r.log.Entry != entry {
		return newError(ErrReplayMismatch, -1,
			"trace was recorded for %s, replaying %s", r.log.Entry, entry)
	}
	return nil
}

// Check compares the next recorded event with the one just executed.
func (r *Replayer) Check(ev Event) *Error {
	if r.next >= len(r.log.Events) {
		return newError(ErrReplayMismatch, -1,
			"run executed %s at %d past the end of the recorded log", ev.LibFunc, ev.Cursor)
	}
	want := r.log.Events[r.next]
	r.next++
	if want != ev {
		return newError(ErrReplayMismatch, -1,
			"recorded %s@%d branch %d, run took %s@%d branch %d",
			want.LibFunc, want.Cursor, want.Branch, ev.LibFunc, ev.Cursor, ev.Branch)
	}
	return nil
}

// FinishAt verifies the run consumed every recorded event and returned at
// the same statement the log did.
func (r *Replayer) FinishAt(at program.StatementIdx) *Error {
	if r.next != len(r.log.Events) {
		return newError(ErrReplayMismatch, at,
			"run returned with %d recorded events left", len(r.log.Events)-r.next)
	}
	if r.log.Final != int(at) {
		return newError(ErrReplayMismatch, at,
			"trace returned at %d, run returned at %d", r.log.Final, at)
	}
	return nil
}
