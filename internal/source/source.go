package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source provides the script text a session starts from.
type Source interface {
	Name() string
	Script() (string, error)
}

// FileSource reads a script from a text file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Name() string {
	return filepath.Base(f.path)
}

func (f *FileSource) Script() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read script %s: %w", f.path, err)
	}
	return normalize(string(data)), nil
}

// ReaderSource reads a script once from any reader, such as stdin.
type ReaderSource struct {
	name string
	r    io.Reader
}

func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

func (s *ReaderSource) Name() string {
	return s.name
}

func (s *ReaderSource) Script() (string, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return "", fmt.Errorf("read script %s: %w", s.name, err)
	}
	return normalize(string(data)), nil
}

// Open picks a source for a -script argument: "-" is stdin, anything else a file.
func Open(arg string) Source {
	if arg == "-" {
		return NewReaderSource("stdin", os.Stdin)
	}
	return NewFileSource(arg)
}

// normalize drops a UTF-8 BOM and Windows line endings.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ReplaceAll(s, "\r\n", "\n")
}
