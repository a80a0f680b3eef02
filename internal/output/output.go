// Package output writes serialized documents either to a single stream or
// to one file per document in a directory.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/google/renameio/v2"

	"github.com/specialistvlad/isctransform/document"
)

// Writer receives documents in build order.
type Writer interface {
	Write(doc *document.Document) error
}

// New returns a Stream on stdout when dir is empty and a Dir otherwise.
func New(dir string, format document.Format, stdout io.Writer) (Writer, error) {
	if dir == "" {
		return NewStream(stdout, format), nil
	}
	return NewDir(dir, format)
}

// Stream writes every document to one writer. YAML documents are separated
// with "---".
type Stream struct {
	w      io.Writer
	format document.Format
	count  int
}

// NewStream returns a Stream writing to w.
func NewStream(w io.Writer, format document.Format) *Stream {
	return &Stream{w: w, format: format}
}

// Write implements Writer.
func (s *Stream) Write(doc *document.Document) error {
	data, err := document.Marshal(doc, s.format)
	if err != nil {
		return err
	}
	if s.format == document.FormatYAML && s.count > 0 {
		if _, err := io.WriteString(s.w, "---\n"); err != nil {
			return err
		}
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("write document %q: %w", doc.Name(), err)
	}
	s.count++
	return nil
}

// Dir writes each document to <dir>/<name><ext>.
type Dir struct {
	dir    string
	format document.Format
	// written maps a file name to the document that produced it.
	written map[string]string
}

// NewDir creates dir if needed and returns a Dir writing into it.
func NewDir(dir string, format document.Format) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Dir{dir: dir, format: format, written: make(map[string]string)}, nil
}

// Write implements Writer. Two documents whose names map to the same file
// are an error.
func (d *Dir) Write(doc *document.Document) error {
	name := FileName(doc.Name(), d.format)
	if prev, dup := d.written[name]; dup {
		return fmt.Errorf("documents %q and %q both write %s", prev, doc.Name(), name)
	}
	data, err := document.Marshal(doc, d.format)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(d.dir, name), data); err != nil {
		return fmt.Errorf("write document %q: %w", doc.Name(), err)
	}
	d.written[name] = doc.Name()
	return nil
}

// Files returns the paths written so far, sorted.
func (d *Dir) Files() []string {
	files := make([]string, 0, len(d.written))
	for name := range d.written {
		files = append(files, filepath.Join(d.dir, name))
	}
	slices.Sort(files)
	return files
}

// FileName derives a file name from a document name. Characters that are
// unsafe in file names become underscores.
func FileName(docName string, format document.Format) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case strings.ContainsRune(" ._-()", r):
			return r
		default:
			return '_'
		}
	}, docName)
	base = strings.Trim(base, " .")
	if base == "" {
		base = "_"
	}
	return base + format.Extension()
}

// writeFile replaces path atomically so a watcher never sees half a file.
func writeFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644)
}
