// Package importer reads transaction files in three flat-file formats,
// isolates per-record parse failures, and persists the survivors one
// insert at a time.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
)

// LineError is one isolated record failure. Line is the 1-based source
// line for line-oriented formats, or the 1-based element ordinal for
// array elements (Label distinguishes the two). Line 0 marks a
// file-level error.
type LineError struct {
	Line  int
	Label string
	Err   error
}

func (e *LineError) Error() string {
	if e.Line <= 0 {
		return e.Err.Error()
	}
	label := e.Label
	if label == "" {
		label = "Line"
	}
	return fmt.Sprintf("%s %d: %v", label, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// LineResult is the outcome of parsing one record: either a transaction
// or an isolated error, never both.
type LineResult struct {
	Record core.Transaction
	Err    *LineError
}

func parsedLine(t core.Transaction) LineResult { return LineResult{Record: t} }

func errLine(line int, err error) LineResult {
	return LineResult{Err: &LineError{Line: line, Err: err}}
}

// Format parses a whole file's content into per-record results.
type Format interface {
	Name() string
	ParseAll(content []byte) []LineResult
}

// Detect picks the format from the file extension: .json is a whole
// JSON array, .jsonl/.ndjson are line-delimited JSON, everything else
// is the pipe-delimited line format.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONArrayFormat{}
	case ".jsonl", ".ndjson":
		return JSONLinesFormat{}
	default:
		return DelimitedFormat{}
	}
}

// splitLines splits content into lines, tolerating trailing \r from
// CRLF files.
func splitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
