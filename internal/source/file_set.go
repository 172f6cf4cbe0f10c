package source

import (
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans into
// human-readable positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from bytes, computes its line index, and returns a new
// FileID. A file with the same path replaces the index entry but keeps its
// old content addressable by the old id.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id
}

// AddVirtual stores an in-memory file (tests, stdin).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads a file from disk and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content, 0), nil
}

// Get returns the file for an id, nil if the id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// ByPath returns the latest file registered under path.
func (fs *FileSet) ByPath(path string) (*File, bool) {
	id, ok := fs.index[path]
	if !ok {
		return nil, false
	}
	return fs.Get(id), true
}

// Resolve converts a byte offset in a file into a 1-based line/column pair.
func (fs *FileSet) Resolve(id FileID, off uint32) (LineCol, bool) {
	f := fs.Get(id)
	if f == nil {
		return LineCol{}, false
	}
	line := sort.Search(len(f.LineIdx), func(i int) bool {
		return f.LineIdx[i] > off
	})
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}, true
	}
	lineUint32, err := safecast.Conv[uint32](line)
	if err != nil {
		return LineCol{}, false
	}
	return LineCol{
		Line: lineUint32 + 1,
		Col:  off - f.LineIdx[line-1] + 1,
	}, true
}

// Position formats a span start as "path:line:col".
func (fs *FileSet) Position(sp Span) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	lc, ok := fs.Resolve(sp.File, sp.Start)
	if !ok {
		return f.Path
	}
	return fmt.Sprintf("%s:%d:%d", f.Path, lc.Line, lc.Col)
}

// buildLineIndex records the byte offset just past each newline.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, 32)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("file offset overflow: %w", err))
			}
			idx = append(idx, off)
		}
	}
	return idx
}
