// Package textnorm rewrites decimal commas in instrument exports as decimal
// points.
package textnorm

import (
	"bytes"
	"fmt"
	"os"
)

// IOError wraps a failure to read or write a file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Normalize returns a copy of b with every ',' replaced by '.'.
func Normalize(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte{','}, []byte{'.'})
}

// NormalizeFile writes the normalized contents of src to dst.
func NormalizeFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return &IOError{Op: "read", Path: src, Err: err}
	}
	if err := os.WriteFile(dst, Normalize(data), 0o644); err != nil {
		return &IOError{Op: "write", Path: dst, Err: err}
	}
	return nil
}
