package report

import (
	"encoding/json"
	"encoding/xml"

	"fintrack/internal/core"
)

// Formatter serializes report payloads into one output encoding.
type Formatter interface {
	FormatSummaries(sums []core.CategorySummary) ([]byte, error)
	FormatTransactions(txns []core.Transaction) ([]byte, error)
	FileExtension() string
}

// JSONFormatter emits indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) FormatSummaries(sums []core.CategorySummary) ([]byte, error) {
	return json.MarshalIndent(sums, "", "  ")
}

func (JSONFormatter) FormatTransactions(txns []core.Transaction) ([]byte, error) {
	return json.MarshalIndent(txns, "", "  ")
}

func (JSONFormatter) FileExtension() string { return "json" }

// XMLFormatter emits an indented XML document with the standard header.
type XMLFormatter struct{}

type xmlSummaries struct {
	XMLName xml.Name               `xml:"summaries"`
	Items   []core.CategorySummary `xml:"summary"`
}

type xmlTransactions struct {
	XMLName xml.Name           `xml:"transactions"`
	Items   []core.Transaction `xml:"transaction"`
}

func (XMLFormatter) FormatSummaries(sums []core.CategorySummary) ([]byte, error) {
	return marshalXML(xmlSummaries{Items: sums})
}

func (XMLFormatter) FormatTransactions(txns []core.Transaction) ([]byte, error) {
	return marshalXML(xmlTransactions{Items: txns})
}

func (XMLFormatter) FileExtension() string { return "xml" }

func marshalXML(doc any) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
