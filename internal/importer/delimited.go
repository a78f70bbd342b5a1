package importer

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// DelimitedFormat parses `YYYY-MM-DD|Category|Amount[|Note]` lines.
// Blank lines are skipped silently; any other malformed line is an
// isolated error carrying its source line number.
type DelimitedFormat struct{}

func (DelimitedFormat) Name() string { return "delimited" }

func (DelimitedFormat) ParseAll(content []byte) []LineResult {
	var results []LineResult
	for i, line := range splitLines(content) {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		results = append(results, parseDelimitedLine(lineNo, line))
	}
	return results
}

func parseDelimitedLine(lineNo int, line string) LineResult {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return errLine(lineNo, fmt.Errorf("expected at least 3 fields separated by '|', got %d", len(fields)))
	}

	date, err := core.ParseDate(fields[0])
	if err != nil {
		return errLine(lineNo, err)
	}

	amount, err := core.ParseAmount(fields[2])
	if err != nil {
		return errLine(lineNo, fmt.Errorf("%w: %q", core.ErrInvalidAmount, fields[2]))
	}

	t := core.Transaction{
		Date:     date,
		Category: strings.TrimSpace(fields[1]),
		Amount:   amount,
	}
	if len(fields) > 3 {
		// A note may itself contain the separator.
		t.Note = strings.Join(fields[3:], "|")
	}

	if err := t.Validate(); err != nil {
		return errLine(lineNo, err)
	}
	return parsedLine(t)
}
