// Package annex appends a vendor private block to an approved plan file.
//
// The file is cut at the last occurrence of Marker and the payload is
// written in its place:
//
//	out, err := annex.SpliceFile("plan.dcm", "annex.bin")
//	// out == "plan_private.dcm"
package annex

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Marker is the byte sequence the plan is truncated at.
var Marker = []byte("APPROVED")

// DefaultSuffix replaces the last 4 characters of the input file name.
const DefaultSuffix = "_private.dcm"

// ErrMarkerNotFound is wrapped by MarkerNotFoundError.
var ErrMarkerNotFound = errors.New("marker not found")

// MarkerNotFoundError reports a buffer without Marker.
type MarkerNotFoundError struct {
	// Size of the scanned buffer.
	Size int
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("%v: %q in %d bytes", ErrMarkerNotFound, Marker, e.Size)
}

func (e *MarkerNotFoundError) Unwrap() error { return ErrMarkerNotFound }

// Splice returns buf up to (excluding) the last occurrence of Marker,
// followed by payload. buf is not modified.
func Splice(buf, payload []byte) ([]byte, error) {
	i := lastMarker(buf)
	if i < 0 {
		return nil, &MarkerNotFoundError{Size: len(buf)}
	}
	out := make([]byte, 0, i+len(payload))
	out = append(out, buf[:i]...)
	return append(out, payload...), nil
}

// lastMarker scans backward from the end of buf and returns the offset of
// the last Marker, or -1.
func lastMarker(buf []byte) int {
	for i := len(buf) - len(Marker); i >= 0; i-- {
		if bytes.Equal(buf[i:i+len(Marker)], Marker) {
			return i
		}
	}
	return -1
}

// PrivatePath returns the output path for path: the last 4 characters of
// the file name are replaced by DefaultSuffix.
func PrivatePath(path string) string {
	return pathWithSuffix(path, DefaultSuffix)
}

func pathWithSuffix(path, suffix string) string {
	dir, name := filepath.Split(path)
	if len(name) > 4 {
		name = name[:len(name)-4]
	} else {
		name = ""
	}
	return filepath.Join(dir, name+suffix)
}

// Splicer splices plan files with a fixed payload.
type Splicer struct {
	// PayloadPath is the file appended after the marker.
	PayloadPath string
	// Suffix replaces the last 4 characters of the output file name.
	// Defaults to DefaultSuffix.
	Suffix string
}

// SpliceFile splices the file at path with the payload at payloadPath and
// writes the result next to it. It returns the path written.
func SpliceFile(path, payloadPath string) (string, error) {
	return Splicer{PayloadPath: payloadPath}.SpliceFile(path)
}

// SpliceFile splices the file at path and writes the result next to it. It
// returns the path written.
func (s Splicer) SpliceFile(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read plan: %w", err)
	}
	payload, err := os.ReadFile(s.PayloadPath)
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}
	out, err := Splice(buf, payload)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	suffix := s.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	outPath := pathWithSuffix(path, suffix)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return "", fmt.Errorf("write spliced plan: %w", err)
	}
	return outPath, nil
}
