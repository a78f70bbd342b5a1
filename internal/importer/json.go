package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// jsonRecord is the wire shape shared by the two JSON formats. Field
// name matching is case-insensitive (encoding/json default) and the
// amount is accepted as a JSON number or a numeric string
// (decimal.Decimal unmarshals both). The id field, if present, is
// ignored: ids are store-assigned.
type jsonRecord struct {
	Date     core.Date        `json:"date"`
	Category string           `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     string           `json:"note"`
}

func (r jsonRecord) toTransaction() (core.Transaction, error) {
	if r.Amount == nil {
		return core.Transaction{}, fmt.Errorf("%w: missing amount", core.ErrInvalidAmount)
	}
	t := core.Transaction{
		Date:     r.Date,
		Category: strings.TrimSpace(r.Category),
		Amount:   r.Amount.Round(2),
		Note:     r.Note,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// JSONLinesFormat parses one JSON object per non-blank line, isolating
// failures per line like the delimited format.
type JSONLinesFormat struct{}

func (JSONLinesFormat) Name() string { return "jsonl" }

func (JSONLinesFormat) ParseAll(content []byte) []LineResult {
	var results []LineResult
	for i, line := range splitLines(content) {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		var rec jsonRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			results = append(results, errLine(lineNo, fmt.Errorf("invalid JSON object: %v", err)))
			continue
		}
		t, err := rec.toTransaction()
		if err != nil {
			results = append(results, errLine(lineNo, err))
			continue
		}
		results = append(results, parsedLine(t))
	}
	return results
}

// JSONArrayFormat parses the whole file as one JSON array. The array
// either deserializes or it does not: a malformed file is a single
// file-level error and nothing is imported from it. Elements that
// deserialize but fail validation are still isolated individually.
type JSONArrayFormat struct{}

func (JSONArrayFormat) Name() string { return "json" }

func (JSONArrayFormat) ParseAll(content []byte) []LineResult {
	var records []jsonRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return []LineResult{{Err: &LineError{Err: fmt.Errorf("invalid JSON array: %v", err)}}}
	}

	results := make([]LineResult, 0, len(records))
	for i, rec := range records {
		t, err := rec.toTransaction()
		if err != nil {
			results = append(results, LineResult{Err: &LineError{Line: i + 1, Label: "Record", Err: err}})
			continue
		}
		results = append(results, parsedLine(t))
	}
	return results
}
