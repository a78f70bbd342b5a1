package amqp

import (
	"encoding/json"
	"time"
)

// ImportEvent announces one completed import batch. Consumers that need
// the records themselves query the store with the batch's source file
// out of band; the event stays lightweight.
type ImportEvent struct {
	BatchID    string    `json:"batch_id"`
	SourceFile string    `json:"source_file"`
	Imported   int       `json:"imported"`
	Errors     int       `json:"errors"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewImportEvent(batchID, sourceFile string, imported, errors int) *ImportEvent {
	return &ImportEvent{
		BatchID:    batchID,
		SourceFile: sourceFile,
		Imported:   imported,
		Errors:     errors,
		Timestamp:  time.Now(),
	}
}

func (e *ImportEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ImportEventFromJSON(data []byte) (*ImportEvent, error) {
	var event ImportEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
